package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/meetgraph"
	"github.com/siherrmann/meetgraph/helper"
)

const sampleRecord = `{
	"workgroup": "Engineering",
	"workgroup_id": "7c1f0a2b-9d3e-4f56-a1b2-c3d4e5f60718",
	"meetingInfo": {
		"date": "2025-02-03",
		"typeOfMeeting": "Biweekly",
		"host": "Dana Lee",
		"documenter": "Erik Novak",
		"peoplePresent": "Dana Lee, Erik Novak, Fiona Park",
		"purpose": "Plan the migration of the ingestion service to the new cluster."
	},
	"agendaItems": [
		{
			"agenda_item": "Migration plan",
			"status": "in progress",
			"narrative": "Erik Novak outlined the rollout phases and rollback strategy.",
			"actionItems": [
				{
					"text": "Prepare the staging environment",
					"assignee": "Fiona Park",
					"dueDate": "2025-02-10",
					"status": "todo"
				}
			]
		}
	]
}`

func main() {
	// Start a test PostgreSQL container with pgvector
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	m, err := meetgraph.NewMeetgraph(dbConfig, 384)
	if err != nil {
		log.Fatalf("Failed to create meetgraph: %v", err)
	}
	defer m.Close()

	// Set up the default embedding model (all-MiniLM-L6-v2, 384 dimensions)
	if err := m.UseDefaultEmbedder(); err != nil {
		log.Fatalf("Failed to set up embedder: %v", err)
	}

	fmt.Println("Ingesting meeting record...")
	result, err := m.ProcessJSON([]byte(sampleRecord))
	if err != nil {
		log.Fatalf("Failed to process meeting record: %v", err)
	}
	fmt.Printf("Meeting stored with ID: %s\n", result.Meeting.ID)
	fmt.Printf("Extracted %d entities, %d triples, %d chunks\n",
		len(result.Entities), len(result.Triples), len(result.Chunks))

	// Embed and persist the chunks
	if err := m.StoreChunks(result); err != nil {
		log.Fatalf("Failed to store chunks: %v", err)
	}

	// Query the stored chunks by semantic similarity
	queryText := "Who is responsible for the staging environment?"
	fmt.Printf("\nQuerying: %s\n", queryText)

	results, err := m.SearchChunks(queryText, 3, 0.0)
	if err != nil {
		log.Fatalf("Failed to search chunks: %v", err)
	}

	fmt.Printf("\nFound %d results:\n", len(results))
	for i, chunk := range results {
		fmt.Printf("\n--- Result %d ---\n", i+1)
		fmt.Printf("Score: %.4f\n", chunk.Similarity)
		fmt.Printf("Type: %s\n", chunk.Metadata.ChunkType)
		fmt.Printf("Content: %s\n", chunk.Text)
	}

	fmt.Println("\nPostgres example completed successfully!")
}
