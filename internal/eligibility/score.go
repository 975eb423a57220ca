// internal/eligibility/score.go
package eligibility

// Recommendation categories in descending score order.
const (
	RecommendApprove            = "approve"
	RecommendConditionalApprove = "conditional_approve"
	RecommendSoftDecline        = "soft_decline"
	RecommendDecline            = "decline"
)

// Support type for approved applications.
const (
	SupportFinancial = "financial"
	SupportBoth      = "both"
)

var tierBaseScores = map[SupportTier]float64{
	TierHigh:        0.85,
	TierMedium:      0.65,
	TierLow:         0.45,
	TierNotEligible: 0.05,
}

// ComposeScore maps tier + confidence into [0,1]. NOT_ELIGIBLE is weighted
// asymmetrically: confidence contributes only 10% and the result is capped at
// 0.15, so a model that is very sure an applicant is ineligible cannot push
// the score toward an approval band. All other tiers blend 70/30.
func ComposeScore(p Prediction) float64 {
	base := tierBaseScores[p.SupportTier]
	if p.SupportTier == TierNotEligible {
		score := base*0.9 + p.Confidence*0.1
		if score > 0.15 {
			score = 0.15
		}
		return score
	}
	return base*0.7 + p.Confidence*0.3
}

// Recommend maps a composed score to a recommendation. Band lower bounds are
// inclusive: exactly 0.6 approves, exactly 0.45 conditionally approves.
func Recommend(score float64) string {
	switch {
	case score >= 0.6:
		return RecommendApprove
	case score >= 0.45:
		return RecommendConditionalApprove
	case score >= 0.3:
		return RecommendSoftDecline
	default:
		return RecommendDecline
	}
}

// SupportAmount computes the monthly grant in whole AED. Amounts scale with
// score and family size for approvals, family size only for conditional
// approvals, and are zero for declines.
func SupportAmount(recommendation string, score float64, familySize int) int {
	if familySize < 1 {
		familySize = 1
	}
	switch recommendation {
	case RecommendApprove:
		return int(5000.0 * (1 + score) * (1 + float64(familySize-1)*0.2))
	case RecommendConditionalApprove:
		return int(3000.0 * (1 + float64(familySize-1)*0.15))
	default:
		return 0
	}
}

// SupportType grants enablement support on top of financial support for
// strictly high scores. Note > 0.6, not >= : a boundary approval is
// financial-only.
func SupportType(score float64) string {
	if score > 0.6 {
		return SupportBoth
	}
	return SupportFinancial
}

// BoostedConfidence is the decision-level confidence reported downstream.
func BoostedConfidence(score float64) float64 {
	c := score * 1.2
	if c > 1.0 {
		c = 1.0
	}
	return c
}
