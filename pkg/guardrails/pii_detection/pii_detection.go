package pii_detection

import (
	"regexp"
	"sort"
	"strings"
)

const (
	DetectorName = "pii_detection"

	// DefaultMinConfidence drops weak matches unless the caller overrides it.
	DefaultMinConfidence = 0.5
)

type EntityType string

// Sensitive tier: identifiers that must never appear in a resume. Allowed
// tier: identifiers that are expected there (contact details).
const (
	SSN            EntityType = "ssn"
	CreditCard     EntityType = "credit_card"
	BankAccount    EntityType = "bank_account"
	RoutingNumber  EntityType = "routing_number"
	DriversLicense EntityType = "drivers_license"
	Passport       EntityType = "passport"
	DateOfBirth    EntityType = "date_of_birth"
	IPAddress      EntityType = "ip_address"

	Email EntityType = "email"
	Phone EntityType = "phone"
	URL   EntityType = "url"
)

type patternEntry struct {
	entity     EntityType
	confidence float64
	sensitive  bool
	re         *regexp.Regexp
}

// Ordered registry: when two patterns claim the same span, the earlier entry
// wins. Card patterns precede the generic account-number patterns so digit
// runs are attributed to the more specific entity.
var piiPatterns = []patternEntry{
	{SSN, 0.95, true, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{SSN, 0.85, true, regexp.MustCompile(`\b\d{3}\s\d{2}\s\d{4}\b`)},
	{CreditCard, 0.9, true, regexp.MustCompile(`\b4\d{12}(?:\d{3})?\b`)},                 // Visa
	{CreditCard, 0.9, true, regexp.MustCompile(`\b5[1-5]\d{14}\b`)},                      // Mastercard
	{CreditCard, 0.9, true, regexp.MustCompile(`\b3[47]\d{13}\b`)},                       // Amex
	{CreditCard, 0.85, true, regexp.MustCompile(`\b6(?:011|5\d{2})\d{12}\b`)},            // Discover
	{RoutingNumber, 0.7, true, regexp.MustCompile(`\b(?:0[1-9]|1[0-2]|2[1-9]|3[0-2])\d{7}\b`)}, // ABA prefix ranges
	{BankAccount, 0.5, true, regexp.MustCompile(`\b\d{10,17}\b`)},
	{DriversLicense, 0.75, true, regexp.MustCompile(`(?i)\bdriver'?s?\s+licen[cs]e\s*(?:#|no\.?|number)?\s*:?\s*[A-Z0-9]{5,13}\b`)},
	{Passport, 0.8, true, regexp.MustCompile(`(?i)\bpassport\s*(?:#|no\.?|number)?\s*:?\s*[A-Z][0-9]{6,9}\b`)},
	{DateOfBirth, 0.85, true, regexp.MustCompile(`(?i)\b(?:dob|date\s+of\s+birth|born)\s*:?\s*\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\b`)},
	{IPAddress, 0.85, true, regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4]\d|[01]?\d\d?)\.){3}(?:25[0-5]|2[0-4]\d|[01]?\d\d?)\b`)},
	{Email, 0.95, false, regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
	{Phone, 0.8, false, regexp.MustCompile(`\b(?:\+?1[-.\s])?\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}\b`)},
	{URL, 0.9, false, regexp.MustCompile(`\bhttps?://[^\s<>"']+`)},
}

// Match is one detected identifier with its character span.
type Match struct {
	Entity     EntityType `json:"entity"`
	Value      string     `json:"value"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Confidence float64    `json:"confidence"`
	Sensitive  bool       `json:"is_sensitive"`
}

type DetectOptions struct {
	IncludeAllowed bool
	MinConfidence  float64
}

// Detect scans text for PII. By default only sensitive-tier matches are
// returned; IncludeAllowed adds contact-detail matches. Matches below
// MinConfidence are dropped, and a later pattern never re-claims a span an
// earlier pattern already matched.
func Detect(text string, opts DetectOptions) []Match {
	if text == "" {
		return nil
	}
	minConfidence := opts.MinConfidence
	if minConfidence == 0 {
		minConfidence = DefaultMinConfidence
	}

	var matches []Match
	seen := make(map[[2]int]bool)
	for _, entry := range piiPatterns {
		if entry.sensitive && entry.confidence < minConfidence {
			continue
		}
		if !entry.sensitive && (!opts.IncludeAllowed || entry.confidence < minConfidence) {
			continue
		}
		for _, span := range entry.re.FindAllStringIndex(text, -1) {
			key := [2]int{span[0], span[1]}
			if seen[key] {
				continue
			}
			seen[key] = true
			matches = append(matches, Match{
				Entity:     entry.entity,
				Value:      text[span[0]:span[1]],
				Start:      span[0],
				End:        span[1],
				Confidence: entry.confidence,
				Sensitive:  entry.sensitive,
			})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
	return matches
}

// Redaction records one replaced span.
type Redaction struct {
	Entity EntityType `json:"entity"`
	Marker string     `json:"marker"`
	Start  int        `json:"start"`
	End    int        `json:"end"`
}

// RedactSensitive replaces every sensitive-tier match with a literal
// [REDACTED-<TYPE>] marker. Replacement runs in descending start order so
// earlier spans stay valid; allowed-tier PII is never touched.
func RedactSensitive(text string) (string, []Redaction) {
	matches := Detect(text, DetectOptions{})
	if len(matches) == 0 {
		return text, nil
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Start > matches[j].Start
	})

	redacted := text
	var records []Redaction
	lastStart := len(text) + 1
	for _, match := range matches {
		// Overlapping spans were already replaced by a later (righter) match.
		if match.End > lastStart {
			continue
		}
		lastStart = match.Start
		marker := "[REDACTED-" + strings.ToUpper(string(match.Entity)) + "]"
		redacted = redacted[:match.Start] + marker + redacted[match.End:]
		records = append(records, Redaction{
			Entity: match.Entity,
			Marker: marker,
			Start:  match.Start,
			End:    match.End,
		})
	}

	// Records in ascending span order for callers.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Start < records[j].Start
	})
	return redacted, records
}

// HasSensitive reports whether text contains any sensitive-tier PII.
func HasSensitive(text string) bool {
	return len(Detect(text, DetectOptions{})) > 0
}

// Warning is the display form of a match. The matched value is masked to its
// first and last two characters.
type Warning struct {
	Entity     EntityType `json:"entity"`
	Masked     string     `json:"masked"`
	Confidence float64    `json:"confidence"`
}

func FormatWarnings(matches []Match) []Warning {
	warnings := make([]Warning, 0, len(matches))
	for _, match := range matches {
		warnings = append(warnings, Warning{
			Entity:     match.Entity,
			Masked:     maskValue(match.Value),
			Confidence: match.Confidence,
		})
	}
	return warnings
}

func maskValue(value string) string {
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
}
