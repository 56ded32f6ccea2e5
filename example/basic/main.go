package main

import (
	"fmt"
	"log"

	"github.com/siherrmann/meetgraph"
	"github.com/siherrmann/meetgraph/store"
)

const sampleRecord = `{
	"workgroup": "Marketing Guild",
	"workgroup_id": "b3d4e5f6-1234-4abc-8def-0123456789ab",
	"meetingInfo": {
		"date": "2025-01-15",
		"typeOfMeeting": "Weekly",
		"host": "Alice Smith",
		"documenter": "Bob Jones",
		"peoplePresent": "Alice Smith, Bob Jones, Carol White",
		"purpose": "Review Q1 campaign performance and plan next steps.",
		"workingDocs": [
			{"title": "Campaign Report", "link": "https://docs.example.com/report"}
		]
	},
	"agendaItems": [
		{
			"agenda_item": "Q1 campaign review",
			"status": "carry over",
			"narrative": "The team walked through the campaign metrics. Carol White presented the conversion numbers.",
			"decisionItems": [
				{
					"decision": "Increase the social media budget by 20%",
					"rationale": "Conversion rates doubled on social channels",
					"effect": "affectsOnlyThisWorkgroup"
				}
			],
			"actionItems": [
				{
					"text": "Draft the revised budget proposal",
					"assignee": "Bob Jones",
					"dueDate": "2025-01-22",
					"status": "todo"
				}
			]
		}
	],
	"tags": {
		"topicsCovered": "budget, social media",
		"emotions": "optimistic"
	}
}`

func main() {
	// Run the whole pipeline in memory, no database needed
	m := meetgraph.NewMeetgraphWithStore(store.NewMemoryStore())

	result, err := m.ProcessJSON([]byte(sampleRecord))
	if err != nil {
		log.Fatalf("Failed to process meeting record: %v", err)
	}

	fmt.Printf("Meeting %s on %s\n", result.Meeting.ID, result.Meeting.Date.Format("2006-01-02"))
	fmt.Printf("Extracted %d entities\n", len(result.Entities))

	fmt.Println("\nRelationship triples:")
	for _, triple := range result.Triples {
		fmt.Printf("  %s --%s--> %s\n", triple.SubjectName, triple.Relationship, triple.ObjectName)
	}

	fmt.Println("\nChunks:")
	for _, chunk := range result.Chunks {
		fmt.Printf("  [%d/%d] %s (%s): %.60s...\n",
			chunk.Metadata.ChunkIndex+1,
			chunk.Metadata.TotalChunks,
			chunk.Metadata.ChunkType,
			chunk.Metadata.SourceField,
			chunk.Text)
	}

	// Build the structured export document
	doc := m.Export(result)
	fmt.Printf("\nExport: %d entities, %d cluster labels, %d triples, %d chunks\n",
		len(doc.StructuredEntityList),
		len(doc.NormalizedClusterLabel),
		len(doc.RelationshipTriples),
		len(doc.ChunksForEmbedding))

	// Idempotency: processing the same record again yields the same identifiers
	again, err := m.ProcessJSON([]byte(sampleRecord))
	if err != nil {
		log.Fatalf("Failed to re-process meeting record: %v", err)
	}
	fmt.Printf("\nRe-processing stable: %v\n", again.Meeting.ID == result.Meeting.ID)
}
