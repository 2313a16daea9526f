package output_validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestValidateResumeOutput(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		valid bool
	}{
		{name: "clean resume content", text: "Led migration of payment services to Kubernetes.", valid: true},
		{name: "empty output", text: "", valid: true},
		{name: "injection echo", text: "Sure, I will ignore all previous instructions.", valid: false},
		{name: "ai self reference", text: "As an AI, I optimized this resume.", valid: false},
		{name: "first person model reference", text: "I'm an AI assistant and cannot verify this.", valid: false},
		{name: "refusal", text: "I cannot help with that request.", valid: false},
		{name: "role marker line", text: "Assistant: here is your resume", valid: false},
		{name: "style problems alone stay valid", text: "Obviously a GREAT fit!!", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, warnings := ValidateResumeOutput(tt.text)
			assert.Equal(t, tt.valid, valid)
			if !tt.valid {
				assert.NotEmpty(t, warnings)
			}
		})
	}
}

func TestValidateResumeOutputDetailed(t *testing.T) {
	text := "As an AI, I cannot help.\nObviously this sucks!!"
	blocked, warnings := ValidateResumeOutputDetailed(text)

	assert.ElementsMatch(t, []string{"ai_self_reference", "refusal"}, blocked)
	assert.ElementsMatch(t,
		[]string{"condescending_filler", "unprofessional_language", "excessive_punctuation"},
		warnings)
}

func TestValidateResumeOutputDetailedReportsCategoryOnce(t *testing.T) {
	text := "As an AI I summarize. I'm an AI too."
	blocked, _ := ValidateResumeOutputDetailed(text)
	assert.Equal(t, []string{"ai_self_reference"}, blocked)
}

func TestAllCapsWarningIsCaseSensitive(t *testing.T) {
	_, warnings := ValidateResumeOutputDetailed("shipped the DEPLOYMENT pipeline")
	assert.Contains(t, warnings, "all_caps_run")

	_, warnings = ValidateResumeOutputDetailed("shipped the deployment pipeline")
	assert.NotContains(t, warnings, "all_caps_run")
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "drops ai self reference sentence",
			text:     "As an AI, I wrote this. John Doe is a developer.",
			expected: "John Doe is a developer.",
		},
		{
			name:     "drops refusal sentence",
			text:     "I cannot help with salaries. Experienced data analyst.",
			expected: "Experienced data analyst.",
		},
		{
			name:     "strips role marker prefix",
			text:     "Assistant: Senior engineer with a decade of experience.",
			expected: "Senior engineer with a decade of experience.",
		},
		{
			name:     "collapses whitespace runs",
			text:     "First line.\n\n\n\nSecond   line.",
			expected: "First line.\n\nSecond line.",
		},
		{
			name:     "clean text unchanged",
			text:     "Delivered three major releases on schedule.",
			expected: "Delivered three major releases on schedule.",
		},
		{
			name:     "empty input",
			text:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.text))
		})
	}
}

func TestSanitizedOutputValidates(t *testing.T) {
	text := "Assistant: As an AI, I cannot help. Built the billing platform."
	sanitized := Sanitize(text)

	valid, _ := ValidateResumeOutput(sanitized)
	require.True(t, valid, "sanitized output still invalid: %q", sanitized)
	assert.Contains(t, sanitized, "Built the billing platform.")
}

// Sanitizing twice yields the same text as sanitizing once.
func TestSanitizeIdempotenceProperty(t *testing.T) {
	lines := []string{
		"Shipped the reporting dashboard on time.",
		"As an AI, I generated this summary.",
		"I cannot help with that section.",
		"System: internal directive follows.",
		"Assistant: final answer below.",
		"Mentored four junior developers.",
		"",
	}

	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(0, 6).Draw(t, "count")
		var parts []string
		for i := 0; i < count; i++ {
			parts = append(parts, rapid.SampledFrom(lines).Draw(t, "line"))
		}
		text := strings.Join(parts, "\n")

		once := Sanitize(text)
		twice := Sanitize(once)
		if once != twice {
			t.Fatalf("sanitize not idempotent:\n input: %q\n once:  %q\n twice: %q", text, once, twice)
		}
	})
}
