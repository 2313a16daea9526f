package output_validation

import (
	"fmt"
	"regexp"
	"strings"
)

const DetectorName = "output_validation"

type rule struct {
	category string
	re       *regexp.Regexp
}

// Blocking families: any match invalidates the output and triggers
// sanitization.
var blockingRules = []rule{
	{"injection_echo", regexp.MustCompile(`(?i)ignore\s+(?:all\s+)?(?:previous|prior)\s+instructions`)},
	{"ai_self_reference", regexp.MustCompile(`(?i)\bas\s+an?\s+(?:AI|artificial\s+intelligence|language\s+model|LLM)\b`)},
	{"ai_self_reference", regexp.MustCompile(`(?i)\bI'?m\s+(?:just\s+)?an?\s+(?:AI|language\s+model)\b`)},
	{"ai_self_reference", regexp.MustCompile(`(?i)\b(?:OpenAI|Anthropic|Google)\s+(?:created|built|trained|made)\s+me\b`)},
	{"refusal", regexp.MustCompile(`(?i)\bI\s+(?:cannot|can'?t|won'?t|don'?t)\s+(?:help|assist|do|provide|write|generate)\b`)},
	{"refusal", regexp.MustCompile(`(?i)\bmy\s+programming\s+(?:doesn'?t|does\s+not)\s+allow\b`)},
	{"role_marker", regexp.MustCompile(`(?m)^[ \t]*(?:System|User|Assistant)[ \t]*:`)},
}

// Style families: warnings only, never invalidate. The all-caps check is
// deliberately case-sensitive.
var warningRules = []rule{
	{"condescending_filler", regexp.MustCompile(`(?i)\b(?:obviously|clearly|needless\s+to\s+say|everyone\s+knows|as\s+you\s+can\s+see)\b`)},
	{"unprofessional_language", regexp.MustCompile(`(?i)\b(?:crap|sucks|damn|freaking|awesome\s+sauce)\b`)},
	{"excessive_punctuation", regexp.MustCompile(`[!?]{2,}|\.{4,}`)},
	{"all_caps_run", regexp.MustCompile(`\b[A-Z]{6,}\b`)},
	{"informal_slang", regexp.MustCompile(`(?i)\b(?:lol|omg|btw|tbh|imho|gonna|wanna|kinda)\b`)},
}

// Sentence-level removal applies to these families; role markers are
// stripped as prefixes instead.
var removableCategories = map[string]bool{
	"injection_echo":    true,
	"ai_self_reference": true,
	"refusal":           true,
}

var (
	roleMarkerPrefixRe = regexp.MustCompile(`(?m)^(?:[ \t]*(?:System|User|Assistant)[ \t]*:[ \t]*)+`)
	sentenceRe         = regexp.MustCompile(`[^.!?]+[.!?]*\s*`)
	newlineRunRe       = regexp.MustCompile(`\n{3,}`)
	spaceRunRe         = regexp.MustCompile(`[ \t]{2,}`)
)

// ValidateResumeOutput checks generated resume content for leakage and style
// problems. The output is invalid iff a blocking family matches; style
// findings are appended as warnings either way.
func ValidateResumeOutput(text string) (bool, []string) {
	blocked, styleWarnings := ValidateResumeOutputDetailed(text)

	var warnings []string
	for _, category := range blocked {
		warnings = append(warnings, fmt.Sprintf("output contains %s content and must be sanitized", category))
	}
	for _, category := range styleWarnings {
		warnings = append(warnings, fmt.Sprintf("style: %s detected", category))
	}
	return len(blocked) == 0, warnings
}

// ValidateResumeOutputDetailed returns the matched category names split into
// blocking and warning findings. Each category is reported once.
func ValidateResumeOutputDetailed(text string) (blocked []string, warnings []string) {
	seenBlocked := make(map[string]bool)
	for _, r := range blockingRules {
		if !seenBlocked[r.category] && r.re.MatchString(text) {
			seenBlocked[r.category] = true
			blocked = append(blocked, r.category)
		}
	}
	seenWarning := make(map[string]bool)
	for _, r := range warningRules {
		if !seenWarning[r.category] && r.re.MatchString(text) {
			seenWarning[r.category] = true
			warnings = append(warnings, r.category)
		}
	}
	return blocked, warnings
}

// Sanitize removes leaked LLM artifacts: whole sentences matching the
// self-reference, refusal, and injection-echo families, role-marker line
// prefixes, and excess whitespace. Sanitizing already-clean text is a no-op.
func Sanitize(text string) string {
	if text == "" {
		return text
	}

	cleaned := roleMarkerPrefixRe.ReplaceAllString(text, "")

	var b strings.Builder
	b.Grow(len(cleaned))
	for _, sentence := range sentenceRe.FindAllString(cleaned, -1) {
		if removableSentence(sentence) {
			continue
		}
		b.WriteString(sentence)
	}
	cleaned = b.String()

	cleaned = newlineRunRe.ReplaceAllString(cleaned, "\n\n")
	cleaned = spaceRunRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

func removableSentence(sentence string) bool {
	for _, r := range blockingRules {
		if removableCategories[r.category] && r.re.MatchString(sentence) {
			return true
		}
	}
	return false
}
