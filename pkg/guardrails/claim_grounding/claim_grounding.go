package claim_grounding

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	DetectorName = "claim_grounding"

	// Empirically tuned confidence constants. Changing them changes product
	// behavior; callers override per call, never here.
	DefaultConfidenceThreshold = 0.6
	QuantifiedClaimConfidence  = 0.7
	PercentClaimConfidence     = 0.8
	CurrencyClaimConfidence    = 0.8
	CompanyClaimConfidence     = 0.75
	TitleClaimConfidence       = 0.5
	HighRiskThreshold          = 0.8

	// A generated number is grounded when the source contains it exactly or
	// within this relative tolerance.
	numberTolerance = 0.10

	// Titles tolerate paraphrase: flagged only when fewer than half their
	// words appear in the source.
	titleOverlapThreshold = 0.5

	contextWindow = 40
)

// UngroundedClaim is a generated statement with no evidence in the
// candidate's source material.
type UngroundedClaim struct {
	Type       string  `json:"type"`
	Claim      string  `json:"claim"`
	Context    string  `json:"context"`
	Confidence float64 `json:"confidence"`
}

type claimPattern struct {
	claimType  string
	confidence float64
	re         *regexp.Regexp
}

var quantifiedPatterns = []claimPattern{
	{"percentage", PercentClaimConfidence, regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*%(?:\s+(?:increase|decrease|improvement|growth|reduction|gain|boost|uplift))?`)},
	{"currency", CurrencyClaimConfidence, regexp.MustCompile(`(?i)[$€£]\s*\d+(?:,\d{3})*(?:\.\d+)?\s*(?:k|m|b|million|billion|thousand)?\b`)},
	{"multiplier", QuantifiedClaimConfidence, regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?x\b`)},
	{"count", QuantifiedClaimConfidence, regexp.MustCompile(`(?i)\b\d{1,3}(?:,\d{3})+\s+(?:users|customers|employees|clients|transactions|requests|downloads|records)\b`)},
	{"count", QuantifiedClaimConfidence, regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s+(?:million|billion|thousand)\s+(?:users|customers|employees|clients|transactions|requests|downloads|records)\b`)},
	{"experience", QuantifiedClaimConfidence, regexp.MustCompile(`(?i)\b\d+\+?\s+years?\s+(?:of\s+)?experience\b`)},
	{"team_size", QuantifiedClaimConfidence, regexp.MustCompile(`(?i)\bteam\s+of\s+\d+\b`)},
	{"team_size", QuantifiedClaimConfidence, regexp.MustCompile(`(?i)\b(?:led|managed|supervised|mentored)\s+\d+\s+(?:engineers|developers|designers|analysts|people|direct\s+reports)\b`)},
}

var companyRe = regexp.MustCompile(`\b(?:at|for|with|joined|left)\s+((?:[A-Z][A-Za-z0-9&.']*\s?){1,4})`)

// Capitalized words that follow a preposition without being company names.
var companyStopWords = map[string]bool{
	"The": true, "A": true, "An": true, "I": true, "We": true, "They": true,
	"He": true, "She": true, "It": true, "My": true, "Our": true, "Their": true,
	"This": true, "That": true, "These": true, "Those": true, "You": true,
}

var titleRes = []*regexp.Regexp{
	regexp.MustCompile(`\b((?:Senior|Staff|Principal|Lead|Junior|Associate|Chief|Head of|VP of|Vice President of)\s+[A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+){0,2})`),
	regexp.MustCompile(`\b([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+){0,2}\s+(?:Engineer|Manager|Director|Developer|Designer|Analyst|Architect|Scientist|Consultant|Officer))\b`),
}

var (
	numberRe     = regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d+)?`)
	wordRe       = regexp.MustCompile(`[a-z0-9&.']+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ValidateGrounded extracts quantified claims, company mentions, and job
// titles from generated text and returns those not evidenced in the source
// material. Claims below threshold are dropped; a zero threshold selects the
// default.
func ValidateGrounded(generated, source string, discoveries []string, threshold float64) []UngroundedClaim {
	if generated == "" {
		return nil
	}
	if threshold == 0 {
		threshold = DefaultConfidenceThreshold
	}

	pool := source
	for _, discovery := range discoveries {
		pool += "\n" + discovery
	}
	normalizedPool := normalize(pool)
	sourceNumbers, sourceNumberStrings := extractNumbers(normalizedPool)
	sourceWords := wordSet(normalizedPool)

	var claims []UngroundedClaim
	seen := make(map[string]bool)

	add := func(claimType, claim string, start, end int, confidence float64) {
		claim = strings.TrimSpace(claim)
		key := claimType + "|" + strings.ToLower(claim)
		if claim == "" || seen[key] || confidence < threshold {
			return
		}
		seen[key] = true
		claims = append(claims, UngroundedClaim{
			Type:       claimType,
			Claim:      claim,
			Context:    contextAround(generated, start, end),
			Confidence: confidence,
		})
	}

	for _, pattern := range quantifiedPatterns {
		for _, span := range pattern.re.FindAllStringIndex(generated, -1) {
			claim := generated[span[0]:span[1]]
			if !numberGrounded(claim, sourceNumbers, sourceNumberStrings) {
				add(pattern.claimType, claim, span[0], span[1], pattern.confidence)
			}
		}
	}

	for _, match := range companyRe.FindAllStringSubmatchIndex(generated, -1) {
		name := strings.TrimSpace(generated[match[2]:match[3]])
		first := strings.Fields(name)
		if len(first) == 0 || companyStopWords[first[0]] {
			continue
		}
		if !strings.Contains(normalizedPool, normalize(name)) {
			add("company", name, match[2], match[3], CompanyClaimConfidence)
		}
	}

	for _, re := range titleRes {
		for _, match := range re.FindAllStringSubmatchIndex(generated, -1) {
			title := generated[match[2]:match[3]]
			if titleOverlap(title, sourceWords) < titleOverlapThreshold {
				add("title", title, match[2], match[3], TitleClaimConfidence)
			}
		}
	}

	return claims
}

// HasHighRisk reports whether any claim's confidence meets the escalation
// threshold. A zero threshold selects the default.
func HasHighRisk(claims []UngroundedClaim, threshold float64) bool {
	if threshold == 0 {
		threshold = HighRiskThreshold
	}
	for _, claim := range claims {
		if claim.Confidence >= threshold {
			return true
		}
	}
	return false
}

// normalize lowercases, collapses whitespace, and strips thousands
// separators so "1,200" and "1200" compare equal.
func normalize(text string) string {
	text = strings.ToLower(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == ',' && i > 0 && i+1 < len(text) &&
			isDigit(text[i-1]) && isDigit(text[i+1]) {
			continue
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func extractNumbers(normalized string) ([]float64, map[string]bool) {
	tokens := numberRe.FindAllString(normalized, -1)
	values := make([]float64, 0, len(tokens))
	strs := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		token = strings.ReplaceAll(token, ",", "")
		strs[token] = true
		if value, err := strconv.ParseFloat(token, 64); err == nil {
			values = append(values, value)
		}
	}
	return values, strs
}

// numberGrounded checks the claim's leading number against the source: an
// exact digit-string hit, or a source value within ±10%, counts as grounded.
func numberGrounded(claim string, sourceNumbers []float64, sourceStrings map[string]bool) bool {
	token := numberRe.FindString(normalize(claim))
	if token == "" {
		return true
	}
	token = strings.ReplaceAll(token, ",", "")
	if sourceStrings[token] {
		return true
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return false
	}
	for _, sourceValue := range sourceNumbers {
		delta := value * numberTolerance
		if delta < 0 {
			delta = -delta
		}
		if sourceValue >= value-delta && sourceValue <= value+delta {
			return true
		}
	}
	return false
}

func wordSet(normalized string) map[string]bool {
	words := wordRe.FindAllString(normalized, -1)
	set := make(map[string]bool, len(words))
	for _, word := range words {
		set[word] = true
	}
	return set
}

func titleOverlap(title string, sourceWords map[string]bool) float64 {
	words := wordRe.FindAllString(strings.ToLower(title), -1)
	if len(words) == 0 {
		return 1
	}
	found := 0
	for _, word := range words {
		if sourceWords[word] {
			found++
		}
	}
	return float64(found) / float64(len(words))
}

func contextAround(text string, start, end int) string {
	from := start - contextWindow
	if from < 0 {
		from = 0
	}
	to := end + contextWindow
	if to > len(text) {
		to = len(text)
	}
	return strings.TrimSpace(text[from:to])
}
