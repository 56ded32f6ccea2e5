package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	t.Run("Identical strings score 1", func(t *testing.T) {
		assert.Equal(t, 1.0, Ratio("Alice Smith", "Alice Smith"))
	})

	t.Run("Comparison is case-insensitive", func(t *testing.T) {
		assert.Equal(t, 1.0, Ratio("alice smith", "ALICE SMITH"))
	})

	t.Run("Single character substitution in similar names scores above threshold", func(t *testing.T) {
		score := Ratio("Alice Smith", "Alice Smyth")
		assert.GreaterOrEqual(t, score, SimilarityThreshold, "Expected near-identical names to clear the merge threshold")
	})

	t.Run("Different names score below threshold", func(t *testing.T) {
		score := Ratio("Alice Smith", "Bob Jones")
		assert.Less(t, score, SimilarityThreshold, "Expected unrelated names to stay below the merge threshold")
	})

	t.Run("Completely disjoint strings score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, Ratio("abc", "xyz"))
	})

	t.Run("Empty string scores 0 against any string", func(t *testing.T) {
		assert.Equal(t, 0.0, Ratio("", "Alice"))
		assert.Equal(t, 0.0, Ratio("Alice", ""))
	})

	t.Run("Score is symmetric", func(t *testing.T) {
		assert.Equal(t, Ratio("Stephen", "Stephan"), Ratio("Stephan", "Stephen"))
	})

	t.Run("Shared prefix boosts the score", func(t *testing.T) {
		withPrefix := Ratio("Martha", "Marhta")
		assert.Greater(t, withPrefix, 0.9, "Expected transposed suffix with shared prefix to score high")
	})
}
