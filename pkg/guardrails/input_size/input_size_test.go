package input_size

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumegate/guardrails/pkg/types"
)

func strPtr(s string) *string {
	return &s
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		texts       Texts
		limits      Limits
		expectError bool
	}{
		{
			name:  "all fields within limits",
			texts: Texts{Resume: strPtr("short resume"), JobDescription: strPtr("short posting"), UserAnswer: strPtr("answer")},
		},
		{
			name:        "resume over limit",
			texts:       Texts{Resume: strPtr(strings.Repeat("a", MaxResumeChars+1))},
			expectError: true,
		},
		{
			name:        "job description over limit",
			texts:       Texts{JobDescription: strPtr(strings.Repeat("a", MaxJobDescriptionChars+1))},
			expectError: true,
		},
		{
			name:        "answer over limit",
			texts:       Texts{UserAnswer: strPtr(strings.Repeat("a", MaxAnswerChars+1))},
			expectError: true,
		},
		{
			name: "combined token budget exceeded",
			texts: Texts{
				Resume:         strPtr(strings.Repeat("a", 30000)),
				JobDescription: strPtr(strings.Repeat("a", 15000)),
			},
			expectError: true,
		},
		{
			name:   "custom limits respected",
			texts:  Texts{UserAnswer: strPtr(strings.Repeat("a", 100))},
			limits: Limits{AnswerChars: 50},
			// token estimate 25 is under the default budget
			expectError: true,
		},
		{
			name:  "absent fields are skipped",
			texts: Texts{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.texts, tt.limits)
			if tt.expectError {
				require.Error(t, err)
				var vErr *types.ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, 400, vErr.StatusCode)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	texts := Texts{
		Resume:         strPtr(strings.Repeat("a", MaxResumeChars+1)),
		JobDescription: strPtr(strings.Repeat("a", MaxJobDescriptionChars+1)),
	}
	err := Validate(texts, Limits{})
	require.Error(t, err)

	var vErr *types.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Message, "resume")
	assert.Contains(t, vErr.Message, "job description")
	assert.Contains(t, vErr.Message, "estimated tokens")
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("four"))
	assert.Equal(t, 25, EstimateTokens(strings.Repeat("a", 100)))
}

func TestValidateNotEmpty(t *testing.T) {
	tests := []struct {
		name        string
		text        *string
		expectError bool
	}{
		{name: "nil is not an error", text: nil},
		{name: "non-blank passes", text: strPtr("hello")},
		{name: "empty string fails", text: strPtr(""), expectError: true},
		{name: "whitespace only fails", text: strPtr("  \t\n "), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNotEmpty(tt.text, "resume")
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "resume")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
