// internal/eligibility/score_test.go
package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeScore(t *testing.T) {
	tests := []struct {
		name string
		pred Prediction
		want float64
	}{
		{"high tier full confidence", Prediction{SupportTier: TierHigh, Confidence: 1.0}, 0.85*0.7 + 0.3},
		{"high tier half confidence", Prediction{SupportTier: TierHigh, Confidence: 0.5}, 0.85*0.7 + 0.5*0.3},
		{"medium tier", Prediction{SupportTier: TierMedium, Confidence: 0.8}, 0.65*0.7 + 0.8*0.3},
		{"low tier", Prediction{SupportTier: TierLow, Confidence: 0.6}, 0.45*0.7 + 0.6*0.3},
		{"not eligible low confidence", Prediction{SupportTier: TierNotEligible, Confidence: 0.2}, 0.05*0.9 + 0.2*0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComposeScore(tt.pred), 1e-9)
		})
	}
}

// Full confidence in a rejection must never lift the score above the cap.
func TestComposeScoreNotEligibleCap(t *testing.T) {
	for _, conf := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
		score := ComposeScore(Prediction{SupportTier: TierNotEligible, Confidence: conf})
		assert.LessOrEqual(t, score, 0.15, "confidence %v", conf)
	}
}

// Within a tier, more confidence never lowers the score.
func TestComposeScoreMonotonicInConfidence(t *testing.T) {
	for _, tier := range []SupportTier{TierHigh, TierMedium, TierLow, TierNotEligible} {
		prev := -1.0
		for conf := 0.0; conf <= 1.0; conf += 0.05 {
			score := ComposeScore(Prediction{SupportTier: tier, Confidence: conf})
			assert.GreaterOrEqual(t, score, prev, "tier %s confidence %v", tier, conf)
			prev = score
		}
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.6, RecommendApprove},
		{0.75, RecommendApprove},
		{0.5999, RecommendConditionalApprove},
		{0.45, RecommendConditionalApprove},
		{0.4499, RecommendSoftDecline},
		{0.3, RecommendSoftDecline},
		{0.2999, RecommendDecline},
		{0.0, RecommendDecline},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Recommend(tt.score), "score %v", tt.score)
	}
}

func TestSupportAmount(t *testing.T) {
	tests := []struct {
		name           string
		recommendation string
		score          float64
		familySize     int
		want           int
	}{
		{"approve single member", RecommendApprove, 0.6, 1, 8000},
		{"approve family of three", RecommendApprove, 0.7, 3, 11900},
		{"conditional family of four", RecommendConditionalApprove, 0.5, 4, 4350},
		{"conditional single", RecommendConditionalApprove, 0.5, 1, 3000},
		{"soft decline no amount", RecommendSoftDecline, 0.35, 4, 0},
		{"decline no amount", RecommendDecline, 0.1, 2, 0},
		{"family size clamped", RecommendConditionalApprove, 0.5, 0, 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SupportAmount(tt.recommendation, tt.score, tt.familySize))
		})
	}
}

func TestSupportType(t *testing.T) {
	assert.Equal(t, SupportFinancial, SupportType(0.6), "boundary approval is financial only")
	assert.Equal(t, SupportBoth, SupportType(0.61))
	assert.Equal(t, SupportFinancial, SupportType(0.3))
}

func TestBoostedConfidence(t *testing.T) {
	assert.InDelta(t, 0.6, BoostedConfidence(0.5), 1e-9)
	assert.Equal(t, 1.0, BoostedConfidence(0.9))
	assert.Equal(t, 0.0, BoostedConfidence(0.0))
}
