package injection_detection

import (
	"fmt"
	"regexp"

	"github.com/resumegate/guardrails/pkg/types"
)

const DetectorName = "injection_detection"

// RiskLevel is an ordered risk scale. Threshold checks compare ranks, never
// strings.
type RiskLevel int

const (
	RiskNone RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
)

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "none"
	}
}

// DefaultBlockThreshold is the risk level at which input is rejected.
const DefaultBlockThreshold = RiskHigh

type Pattern struct {
	Name     string
	Category string
	Risk     RiskLevel
	Regexp   *regexp.Regexp
}

// Ordered registry of prompt-injection patterns grouped by attack family.
// Repetition is bounded to keep matching linear on adversarial input.
var injectionPatterns = []Pattern{
	{
		Name:     "instruction_override_ignore",
		Category: "instruction_override",
		Risk:     RiskHigh,
		Regexp:   regexp.MustCompile(`(?i)ignore\s+(?:all\s+)?(?:previous|prior|above|earlier)\s+(?:instructions|prompts|directives|rules)`),
	},
	{
		Name:     "instruction_override_disregard",
		Category: "instruction_override",
		Risk:     RiskHigh,
		Regexp:   regexp.MustCompile(`(?i)disregard\s+(?:all\s+)?(?:previous|prior|above|earlier|your)\s+(?:instructions|prompts|directives|rules)`),
	},
	{
		Name:     "instruction_override_forget",
		Category: "instruction_override",
		Risk:     RiskHigh,
		Regexp:   regexp.MustCompile(`(?i)forget\s+(?:everything|all)\s+(?:you\s+(?:know|learned|were\s+told)|above|before)`),
	},
	{
		Name:     "role_manipulation_you_are_now",
		Category: "role_manipulation",
		Risk:     RiskHigh,
		Regexp:   regexp.MustCompile(`(?i)you\s+are\s+now\s+(?:a|an|the)\b`),
	},
	{
		Name:     "role_manipulation_pretend",
		Category: "role_manipulation",
		Risk:     RiskHigh,
		Regexp:   regexp.MustCompile(`(?i)pretend\s+(?:to\s+be|you\s+are)\b`),
	},
	{
		Name:     "role_manipulation_act_as",
		Category: "role_manipulation",
		Risk:     RiskMedium,
		Regexp:   regexp.MustCompile(`(?i)act\s+as\s+(?:if|though|a|an)\b`),
	},
	{
		Name:     "role_manipulation_roleplay",
		Category: "role_manipulation",
		Risk:     RiskMedium,
		Regexp:   regexp.MustCompile(`(?i)roleplay\s+as\b`),
	},
	{
		Name:     "prompt_extraction_show",
		Category: "prompt_extraction",
		Risk:     RiskHigh,
		Regexp:   regexp.MustCompile(`(?i)(?:show|reveal|print|display|tell)\s+(?:me\s+)?your\s+(?:system\s+)?prompt`),
	},
	{
		Name:     "prompt_extraction_instructions",
		Category: "prompt_extraction",
		Risk:     RiskHigh,
		Regexp:   regexp.MustCompile(`(?i)what\s+(?:are|were)\s+your\s+(?:original|initial|system)\s+instructions`),
	},
	{
		Name:     "prompt_extraction_repeat",
		Category: "prompt_extraction",
		Risk:     RiskHigh,
		Regexp:   regexp.MustCompile(`(?i)repeat\s+your\s+(?:system\s+)?(?:prompt|instructions)`),
	},
	{
		Name:     "delimiter_forgery_system_fence",
		Category: "delimiter_forgery",
		Risk:     RiskMedium,
		Regexp:   regexp.MustCompile("(?i)```\\s*system"),
	},
	{
		Name:     "delimiter_forgery_system_tag",
		Category: "delimiter_forgery",
		Risk:     RiskMedium,
		Regexp:   regexp.MustCompile(`(?i)<\s*/?\s*system\s*>`),
	},
	{
		Name:     "delimiter_forgery_inst_token",
		Category: "delimiter_forgery",
		Risk:     RiskMedium,
		Regexp:   regexp.MustCompile(`\[/?INST\]`),
	},
	{
		Name:     "delimiter_forgery_chat_template",
		Category: "delimiter_forgery",
		Risk:     RiskMedium,
		Regexp:   regexp.MustCompile(`(?i)<\|(?:im_start|im_end|endoftext)\|>`),
	},
	{
		Name:     "delimiter_forgery_system_heading",
		Category: "delimiter_forgery",
		Risk:     RiskMedium,
		Regexp:   regexp.MustCompile(`(?i)###\s*system\s*:`),
	},
	{
		Name:     "output_hijack_respond_only",
		Category: "output_hijacking",
		Risk:     RiskLow,
		Regexp:   regexp.MustCompile(`(?i)respond\s+only\s+with\b`),
	},
	{
		Name:     "output_hijack_output_only",
		Category: "output_hijacking",
		Risk:     RiskLow,
		Regexp:   regexp.MustCompile(`(?i)\boutput\s+only\b`),
	},
	{
		Name:     "output_hijack_answer_must",
		Category: "output_hijacking",
		Risk:     RiskLow,
		Regexp:   regexp.MustCompile(`(?i)your\s+(?:entire\s+)?(?:response|reply|answer)\s+must\s+(?:be|only|contain)`),
	},
	{
		Name:     "jailbreak_dan_mode",
		Category: "jailbreak",
		Risk:     RiskHigh,
		Regexp:   regexp.MustCompile(`(?i)\bdan\s+mode\b`),
	},
	{
		Name:     "jailbreak_developer_mode",
		Category: "jailbreak",
		Risk:     RiskHigh,
		Regexp:   regexp.MustCompile(`(?i)\bdeveloper\s+mode\s+enabled\b`),
	},
	{
		Name:     "jailbreak_do_anything_now",
		Category: "jailbreak",
		Risk:     RiskHigh,
		Regexp:   regexp.MustCompile(`(?i)\bdo\s+anything\s+now\b`),
	},
}

// Patterns returns the registry. The slice must be treated as read-only.
func Patterns() []Pattern {
	return injectionPatterns
}

// Detect scans text against every pattern and returns the maximum risk
// across all matches plus the names of every matched pattern.
func Detect(text string) (RiskLevel, []string) {
	if text == "" {
		return RiskNone, nil
	}

	risk := RiskNone
	var matched []string
	for _, pattern := range injectionPatterns {
		if pattern.Regexp.MatchString(text) {
			matched = append(matched, pattern.Name)
			if pattern.Risk > risk {
				risk = pattern.Risk
			}
		}
	}
	return risk, matched
}

// ValidateNoInjection rejects text whose detected risk meets blockThreshold.
// The error message is generic: matched patterns are never disclosed to the
// caller, only to the audit log.
func ValidateNoInjection(text string, blockThreshold RiskLevel) error {
	if blockThreshold <= RiskNone {
		blockThreshold = DefaultBlockThreshold
	}
	risk, matched := Detect(text)
	if risk >= blockThreshold {
		return &types.ValidationError{
			StatusCode: 400,
			Message:    "Input contains disallowed patterns. Please rephrase your request.",
			Err:        fmt.Errorf("injection risk %s, %d pattern(s) matched", risk, len(matched)),
		}
	}
	return nil
}

// IsSafeForLLM reports whether text can be forwarded to an LLM prompt.
func IsSafeForLLM(text string) bool {
	risk, _ := Detect(text)
	return risk != RiskHigh
}

// ParseRiskLevel maps a config string onto a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch s {
	case "none", "":
		return RiskNone, nil
	case "low":
		return RiskLow, nil
	case "medium":
		return RiskMedium, nil
	case "high":
		return RiskHigh, nil
	default:
		return RiskNone, fmt.Errorf("invalid risk level: %s", s)
	}
}
