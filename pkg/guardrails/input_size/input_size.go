package input_size

import (
	"fmt"
	"strings"

	"github.com/resumegate/guardrails/pkg/types"
)

const (
	DetectorName = "input_size"

	MaxResumeChars         = 50000
	MaxJobDescriptionChars = 20000
	MaxAnswerChars         = 5000
	MaxTotalTokens         = 10000

	// Rough LLM token estimate: ~4 characters per token.
	charsPerToken = 4
)

// Limits holds the character ceilings for each input category plus the
// combined token budget. Zero values fall back to the defaults.
type Limits struct {
	ResumeChars         int `mapstructure:"resume_chars"`
	JobDescriptionChars int `mapstructure:"job_description_chars"`
	AnswerChars         int `mapstructure:"answer_chars"`
	TotalTokens         int `mapstructure:"total_tokens"`
}

func DefaultLimits() Limits {
	return Limits{
		ResumeChars:         MaxResumeChars,
		JobDescriptionChars: MaxJobDescriptionChars,
		AnswerChars:         MaxAnswerChars,
		TotalTokens:         MaxTotalTokens,
	}
}

// Texts carries the three input categories. A nil field is absent and is not
// checked; absence is distinct from blankness.
type Texts struct {
	Resume         *string
	JobDescription *string
	UserAnswer     *string
}

// EstimateTokens approximates the LLM token count of text.
func EstimateTokens(text string) int {
	return len(text) / charsPerToken
}

// Validate checks each present field against its character ceiling and the
// estimated token total against the combined budget. Every violated
// constraint is reported, not just the first.
func Validate(texts Texts, limits Limits) error {
	if limits.ResumeChars <= 0 {
		limits.ResumeChars = MaxResumeChars
	}
	if limits.JobDescriptionChars <= 0 {
		limits.JobDescriptionChars = MaxJobDescriptionChars
	}
	if limits.AnswerChars <= 0 {
		limits.AnswerChars = MaxAnswerChars
	}
	if limits.TotalTokens <= 0 {
		limits.TotalTokens = MaxTotalTokens
	}

	var violations []string
	totalTokens := 0

	if texts.Resume != nil {
		if len(*texts.Resume) > limits.ResumeChars {
			violations = append(violations, fmt.Sprintf(
				"resume exceeds the maximum length of %d characters", limits.ResumeChars))
		}
		totalTokens += EstimateTokens(*texts.Resume)
	}
	if texts.JobDescription != nil {
		if len(*texts.JobDescription) > limits.JobDescriptionChars {
			violations = append(violations, fmt.Sprintf(
				"job description exceeds the maximum length of %d characters", limits.JobDescriptionChars))
		}
		totalTokens += EstimateTokens(*texts.JobDescription)
	}
	if texts.UserAnswer != nil {
		if len(*texts.UserAnswer) > limits.AnswerChars {
			violations = append(violations, fmt.Sprintf(
				"answer exceeds the maximum length of %d characters", limits.AnswerChars))
		}
		totalTokens += EstimateTokens(*texts.UserAnswer)
	}

	if totalTokens > limits.TotalTokens {
		violations = append(violations, fmt.Sprintf(
			"combined input exceeds the maximum of %d estimated tokens", limits.TotalTokens))
	}

	if len(violations) > 0 {
		return &types.ValidationError{
			StatusCode: 400,
			Message:    strings.Join(violations, "; "),
			Err:        fmt.Errorf("input size validation failed: %d violation(s)", len(violations)),
		}
	}
	return nil
}

// ValidateNotEmpty fails when a present value is blank after trimming. A nil
// value is not an error.
func ValidateNotEmpty(text *string, fieldName string) error {
	if text == nil {
		return nil
	}
	if strings.TrimSpace(*text) == "" {
		return &types.ValidationError{
			StatusCode: 400,
			Message:    fmt.Sprintf("%s must not be empty", fieldName),
			Err:        fmt.Errorf("field %q is blank", fieldName),
		}
	}
	return nil
}
