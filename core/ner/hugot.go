package ner

import (
	"fmt"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/meetgraph/helper"
)

// hugotRecognizer wraps a hugot token classification pipeline as a Recognizer
type hugotRecognizer struct {
	pipeline *pipelines.TokenClassificationPipeline
}

// DefaultRecognizer creates a recognizer backed by a NER model.
// Uses the KnightsAnalytics optimized distilbert-NER model, which detects
// PER, ORG, LOC and MISC entities. Model loading is a one-time, possibly
// slow step, so the returned recognizer should be shared across calls.
//
// The model does not emit calibrated confidence, reported scores come
// straight from the token classification head.
func DefaultRecognizer() (Recognizer, error) {
	modelName := "KnightsAnalytics/distilbert-NER"
	modelPath, err := helper.PrepareModel(modelName, "model.onnx")
	if err != nil {
		return nil, err
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "ner-pipeline",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}), // Ignore non-entity tokens
		},
	}
	nerPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create NER pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create NER pipeline: %w", err)
	}

	return &hugotRecognizer{pipeline: nerPipeline}, nil
}

// Recognize runs the NER pipeline over the text
func (r *hugotRecognizer) Recognize(text string) ([]Recognition, error) {
	result, err := r.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to run NER: %w", err)
	}

	if len(result.Entities) == 0 {
		return nil, nil
	}

	var recognitions []Recognition
	for _, entity := range result.Entities[0] {
		recognitions = append(recognitions, Recognition{
			Text:       strings.TrimSpace(entity.Word),
			Type:       normalizeEntityType(entity.Entity),
			Confidence: float64(entity.Score),
		})
	}

	return recognitions, nil
}

// normalizeEntityType removes B- and I- prefixes from BIO-tagged NER labels
func normalizeEntityType(label string) string {
	if strings.HasPrefix(label, "B-") {
		return label[2:]
	}
	if strings.HasPrefix(label, "I-") {
		return label[2:]
	}
	return label
}
