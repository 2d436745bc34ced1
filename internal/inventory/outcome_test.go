package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBatch(t *testing.T) {
	extracted := Outcome{Kind: OutcomeExtracted}
	denied := Outcome{Kind: OutcomePermissionDenied}
	notAllowed := Outcome{Kind: OutcomeNotAllowed}

	tests := []struct {
		name     string
		outcomes []Outcome
		want     BatchKind
	}{
		{
			name:     "all extracted",
			outcomes: []Outcome{extracted, extracted},
			want:     BatchAllExtracted,
		},
		{
			name:     "denied outranks everything",
			outcomes: []Outcome{extracted, denied, extracted},
			want:     BatchPermissionDenied,
		},
		{
			name:     "no successes",
			outcomes: []Outcome{notAllowed, notAllowed},
			want:     BatchAllFailed,
		},
		{
			name:     "mixed",
			outcomes: []Outcome{extracted, notAllowed},
			want:     BatchSomeFailed,
		},
		{
			// Callers must special-case "no destination" before reaching the
			// count-based rule; the raw rule reads an empty batch as failed.
			name:     "empty",
			outcomes: nil,
			want:     BatchAllFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyBatch(tt.outcomes))
		})
	}
}

func TestOutcomePredicates(t *testing.T) {
	assert.True(t, Outcome{Kind: OutcomeExtracted}.Extracted())
	assert.True(t, Outcome{Kind: OutcomePermissionDenied}.PermissionDenied())
	assert.True(t, Outcome{Kind: OutcomePermissionRestricted}.PermissionRestricted())
	assert.True(t, Outcome{Kind: OutcomeNotAllowed}.NotAllowed())

	assert.False(t, Outcome{Kind: OutcomeExtracted}.PermissionDenied())
	assert.False(t, Outcome{Kind: OutcomePermissionDenied}.Extracted())
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "extracted", OutcomeExtracted.String())
	assert.Equal(t, "permission denied", OutcomePermissionDenied.String())
	assert.Equal(t, "all extracted", BatchAllExtracted.String())
	assert.Equal(t, "some failed", BatchSomeFailed.String())
	assert.Equal(t, "all failed", BatchAllFailed.String())
	assert.Equal(t, "permission denied", BatchPermissionDenied.String())
}

func TestBatchExtractedCount(t *testing.T) {
	batch := BatchOutcome{
		Kind: BatchSomeFailed,
		Outcomes: []Outcome{
			{Kind: OutcomeExtracted},
			{Kind: OutcomeNotAllowed},
			{Kind: OutcomeExtracted},
		},
	}

	assert.Equal(t, 2, batch.Extracted())
}
