package content_safety

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/resumegate/guardrails/pkg/types"
)

const DetectorName = "content_safety"

// Professional and technical homonyms that must never trip the blocking
// patterns. They are neutralized before the blocking scan runs, so allowlist
// precedence is explicit rather than an accident of pattern ordering.
var allowedPhrases = []string{
	"kill process",
	"kill processes",
	"kill command",
	"kill switch",
	"kill -9",
	"attack surface",
	"threat model",
	"threat modeling",
	"penetration testing",
	"penetration tester",
	"drug testing",
	"drug screening",
	"terminate employment",
	"terminated employment",
	"execute strategy",
	"executed strategy",
	"execution of strategy",
	"target audience",
	"offensive security",
	"fire department",
	"hit target",
	"hit targets",
	"deadline",
	"suicide prevention",
	"abuse detection",
	"anti-money laundering",
	"fraud detection",
	"race condition",
	"race conditions",
	"hostile takeover",
}

var allowedRes = compileAllowed()

func compileAllowed() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(allowedPhrases))
	for _, phrase := range allowedPhrases {
		res = append(res, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(phrase)))
	}
	return res
}

const neutralMarker = " _ok_ "

type blockRule struct {
	category string
	reason   string
	re       *regexp.Regexp
}

// Blocking patterns are written narrowly: a verb alone is not enough signal,
// it must be aimed at a person or paired with how-to framing.
var blockRules = []blockRule{
	{
		category: "violence",
		reason:   "contains violent threat language",
		re:       regexp.MustCompile(`(?i)\b(?:kill|murder|hurt|harm|shoot|stab|beat)\s+(?:you|yourself|myself|himself|herself|him|her|them|people|someone|everyone)\b`),
	},
	{
		category: "violence",
		reason:   "contains weapons or explosives instructions",
		re:       regexp.MustCompile(`(?i)how\s+to\s+(?:make|build|assemble)\s+(?:a\s+)?(?:bomb|explosive|gun|weapon)|\bbomb[- ]making\b`),
	},
	{
		category: "hate",
		reason:   "contains hate speech",
		re:       regexp.MustCompile(`(?i)\bethnic\s+cleansing\b|\bgenocide\s+(?:of|against)\b|\bexterminate\s+(?:all\s+)?(?:the\s+)?[a-z]+\s+people\b`),
	},
	{
		category: "illegal_drugs",
		reason:   "contains drug manufacturing or trafficking content",
		re:       regexp.MustCompile(`(?i)\b(?:cook|manufacture|synthesize|produce)\s+(?:meth|methamphetamine|heroin|cocaine|fentanyl)\b|\bdrug\s+trafficking\b`),
	},
	{
		category: "financial_crime",
		reason:   "contains money laundering content",
		re:       regexp.MustCompile(`(?i)\b(?:launder|laundering)\s+(?:money|funds|cash)\b|\bhow\s+to\s+launder\b`),
	},
	{
		category: "unauthorized_access",
		reason:   "contains hacking instructions",
		re:       regexp.MustCompile(`(?i)how\s+to\s+hack\s+(?:into)?|\bsteal\s+(?:passwords|credentials|logins)\b|\bgain\s+unauthorized\s+access\b`),
	},
	{
		category: "identity_theft",
		reason:   "contains identity theft content",
		re:       regexp.MustCompile(`(?i)\bsteal\s+(?:someone'?s\s+)?identity\b|\bidentity\s+theft\s+(?:guide|tutorial|method)\b`),
	},
	{
		category: "self_harm",
		reason:   "contains self-harm language",
		re:       regexp.MustCompile(`(?i)\bkill\s+yourself\b|\bcommit\s+suicide\b|\bhow\s+to\s+self[- ]harm\b|\bways\s+to\s+end\s+your\s+life\b`),
	},
}

// Check reports whether text is safe for professional content, with the
// reason for the first violation found. Blank text is trivially safe.
func Check(text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return true, ""
	}

	neutralized := text
	for _, re := range allowedRes {
		neutralized = re.ReplaceAllString(neutralized, neutralMarker)
	}

	for _, rule := range blockRules {
		if rule.re.MatchString(neutralized) {
			return false, rule.reason
		}
	}
	return true, ""
}

// Validate rejects unsafe text with a generic client error; the category is
// kept for the audit log only.
func Validate(text string) error {
	safe, reason := Check(text)
	if !safe {
		return &types.ValidationError{
			StatusCode: 400,
			Message:    "Please keep content professional.",
			Err:        fmt.Errorf("content safety violation: %s", reason),
		}
	}
	return nil
}
