package bias_detection

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

const (
	DetectorName = "bias_detection"

	// Context window captured around a matched term, in bytes, widened to the
	// nearest rune boundary.
	contextWindow = 30
)

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityBlock   Severity = "block"
)

type biasTerm struct {
	category   string
	text       string
	severity   Severity
	suggestion string
}

// Ordered registry of protected-characteristic language. Warning terms are
// advisory; block terms (explicit age thresholds) are treated as outright
// illegal and flip the whole validation result. The order here is the order
// flags are reported in.
var biasTerms = []biasTerm{
	{"age", "young and energetic", SeverityWarning, "motivated and high-energy"},
	{"age", "digital native", SeverityWarning, "proficient with modern technology"},
	{"age", "recent graduate", SeverityWarning, "early-career professional"},
	{"age", "mature worker", SeverityWarning, "experienced professional"},
	{"age", "overqualified", SeverityWarning, "highly experienced"},
	{"age", "must be under", SeverityBlock, ""},
	{"age", "under 30", SeverityBlock, ""},
	{"age", "under 35", SeverityBlock, ""},
	{"age", "under 40", SeverityBlock, ""},
	{"age", "no older than", SeverityBlock, ""},
	{"age", "maximum age", SeverityBlock, ""},
	{"age", "age limit", SeverityBlock, ""},
	{"age", "between the ages of", SeverityBlock, ""},
	{"gender", "salesman", SeverityWarning, "sales representative"},
	{"gender", "chairman", SeverityWarning, "chairperson"},
	{"gender", "manpower", SeverityWarning, "workforce"},
	{"gender", "he or she will", SeverityWarning, "they will"},
	{"gender", "career woman", SeverityWarning, "professional"},
	{"race", "cultural fit", SeverityWarning, "values alignment"},
	{"race", "native english speaker", SeverityWarning, "fluent in English"},
	{"race", "blacklist", SeverityWarning, "blocklist"},
	{"race", "whitelist", SeverityWarning, "allowlist"},
	{"race", "grandfathered", SeverityWarning, "legacy status"},
	{"disability", "able-bodied", SeverityWarning, "able to perform the physical requirements"},
	{"disability", "handicapped", SeverityWarning, "person with a disability"},
	{"disability", "suffers from", SeverityWarning, "has"},
	{"disability", "wheelchair-bound", SeverityWarning, "wheelchair user"},
	{"religion", "christian values", SeverityWarning, "company values"},
	{"religion", "god-fearing", SeverityWarning, "principled"},
	{"religion", "church-going", SeverityWarning, "community-involved"},
	{"nationality", "american-born", SeverityWarning, "authorized to work in the US"},
	{"nationality", "local candidates only", SeverityWarning, "based in or willing to relocate to the area"},
	{"nationality", "foreigners", SeverityWarning, "international candidates"},
}

var biasRes = compileTerms()

func compileTerms() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(biasTerms))
	for _, t := range biasTerms {
		res = append(res, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(t.text)))
	}
	return res
}

// Flag is one detected occurrence of a biased term.
type Flag struct {
	Category   string   `json:"category"`
	Term       string   `json:"term"`
	Context    string   `json:"context"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Detect scans text for biased language. Matching is case-insensitive; a term
// appearing multiple times produces one flag per occurrence. Flags follow
// registry order, then position within the text.
func Detect(text string) []Flag {
	if text == "" {
		return nil
	}

	var flags []Flag
	for i, t := range biasTerms {
		for _, span := range biasRes[i].FindAllStringIndex(text, -1) {
			flags = append(flags, Flag{
				Category:   t.category,
				Term:       t.text,
				Context:    contextAround(text, span[0], span[1]),
				Severity:   t.severity,
				Suggestion: t.suggestion,
			})
		}
	}
	return flags
}

func contextAround(text string, start, end int) string {
	from := start - contextWindow
	if from < 0 {
		from = 0
	}
	for from > 0 && !utf8.RuneStart(text[from]) {
		from--
	}
	to := end + contextWindow
	if to > len(text) {
		to = len(text)
	}
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}
	return text[from:to]
}

// HasBlocking reports whether any flag carries block severity. This is the
// only bias condition that fails the top-level validation result.
func HasBlocking(flags []Flag) bool {
	for _, flag := range flags {
		if flag.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// FormatWarnings renders flags as human-readable messages.
func FormatWarnings(flags []Flag) []string {
	messages := make([]string, 0, len(flags))
	for _, flag := range flags {
		if flag.Suggestion != "" {
			messages = append(messages, fmt.Sprintf(
				"'%s' may indicate %s bias. Consider: %s.", flag.Term, flag.Category, flag.Suggestion))
		} else {
			messages = append(messages, fmt.Sprintf(
				"'%s' may indicate %s bias.", flag.Term, flag.Category))
		}
	}
	return messages
}
