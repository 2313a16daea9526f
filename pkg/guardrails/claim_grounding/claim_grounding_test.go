package claim_grounding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGroundedPercentage(t *testing.T) {
	generated := "Achieved 95% improvement in system performance"
	source := "Worked on system performance tuning and caching."

	claims := ValidateGrounded(generated, source, nil, 0)
	require.Len(t, claims, 1)
	assert.Equal(t, "percentage", claims[0].Type)
	assert.Contains(t, claims[0].Claim, "95%")
	assert.InDelta(t, PercentClaimConfidence, claims[0].Confidence, 1e-9)
}

func TestValidateGroundedExactNumber(t *testing.T) {
	generated := "Delivered a 40% reduction in latency"
	source := "Cut p99 latency by 40% over two quarters."
	assert.Empty(t, ValidateGrounded(generated, source, nil, 0))
}

func TestValidateGroundedNumberTolerance(t *testing.T) {
	tests := []struct {
		name       string
		generated  string
		source     string
		ungrounded bool
	}{
		{
			name:      "within ten percent",
			generated: "Improved throughput by 100%",
			source:    "throughput gains of 92% measured in production",
		},
		{
			name:       "outside ten percent",
			generated:  "Improved throughput by 150%",
			source:     "throughput gains of 92% measured in production",
			ungrounded: true,
		},
		{
			name:      "comma separators ignored",
			generated: "Grew a team of 1200",
			source:    "managed 1,200 people across four offices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := ValidateGrounded(tt.generated, tt.source, nil, 0)
			if tt.ungrounded {
				assert.NotEmpty(t, claims)
			} else {
				assert.Empty(t, claims)
			}
		})
	}
}

func TestValidateGroundedCurrency(t *testing.T) {
	generated := "Managed a $2.5M annual budget"
	claims := ValidateGrounded(generated, "no budget figures here", nil, 0)
	require.Len(t, claims, 1)
	assert.Equal(t, "currency", claims[0].Type)

	assert.Empty(t, ValidateGrounded(generated, "owned the $2.5M infrastructure budget", nil, 0))
}

func TestValidateGroundedCompany(t *testing.T) {
	generated := "I worked at Globex Corporation for three years."

	claims := ValidateGrounded(generated, "Employment history: retail and logistics.", nil, 0)
	require.Len(t, claims, 1)
	assert.Equal(t, "company", claims[0].Type)
	assert.Equal(t, "Globex Corporation", claims[0].Claim)
	assert.InDelta(t, CompanyClaimConfidence, claims[0].Confidence, 1e-9)

	assert.Empty(t, ValidateGrounded(generated, "Globex Corporation, 2019-2022, operations analyst", nil, 0))
}

func TestValidateGroundedCompanySkipsPronouns(t *testing.T) {
	// "with They" style captures are grammar, not employers.
	claims := ValidateGrounded("I worked with They Might Be Giants posters on my wall", "", nil, 0)
	for _, claim := range claims {
		assert.NotEqual(t, "company", claim.Type)
	}
}

func TestValidateGroundedTitleOverlap(t *testing.T) {
	generated := "Senior Platform Engineer with cloud experience"

	// Below the default threshold, title claims are dropped entirely.
	assert.Empty(t, ValidateGrounded(generated, "worked in retail", nil, 0))

	// At a lower threshold a title with no source overlap is flagged.
	claims := ValidateGrounded(generated, "worked in retail", nil, TitleClaimConfidence)
	require.NotEmpty(t, claims)
	assert.Equal(t, "title", claims[0].Type)

	// Paraphrased titles with majority word overlap stay grounded.
	assert.Empty(t, ValidateGrounded(generated, "platform engineer on the infrastructure team", nil, TitleClaimConfidence))
}

func TestValidateGroundedUsesDiscoveries(t *testing.T) {
	generated := "Increased signups by 85%"
	discoveries := []string{"Interview note: signups rose 85% after the redesign."}

	assert.NotEmpty(t, ValidateGrounded(generated, "", nil, 0))
	assert.Empty(t, ValidateGrounded(generated, "", discoveries, 0))
}

func TestValidateGroundedDeduplicates(t *testing.T) {
	generated := "Improved conversion by 12%. Later improved conversion by 12% again."
	claims := ValidateGrounded(generated, "no numbers", nil, 0)
	assert.Len(t, claims, 1)
}

func TestValidateGroundedThresholdFilter(t *testing.T) {
	generated := "Achieved 95% improvement"
	assert.Empty(t, ValidateGrounded(generated, "nothing relevant", nil, 0.9))
}

func TestValidateGroundedEmptyGenerated(t *testing.T) {
	assert.Empty(t, ValidateGrounded("", "any source", nil, 0))
}

func TestHasHighRisk(t *testing.T) {
	low := []UngroundedClaim{{Type: "team_size", Confidence: QuantifiedClaimConfidence}}
	high := []UngroundedClaim{{Type: "percentage", Confidence: PercentClaimConfidence}}

	assert.False(t, HasHighRisk(low, 0))
	assert.True(t, HasHighRisk(high, 0))
	assert.True(t, HasHighRisk(low, 0.5))
	assert.False(t, HasHighRisk(nil, 0))
}
