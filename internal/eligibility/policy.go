// internal/eligibility/policy.go
package eligibility

import (
	"fmt"
	"strconv"
	"strings"
)

// SupportTier is the discrete eligibility class produced by the gate or the classifier.
type SupportTier string

const (
	TierHigh        SupportTier = "HIGH"
	TierMedium      SupportTier = "MEDIUM"
	TierLow         SupportTier = "LOW"
	TierNotEligible SupportTier = "NOT_ELIGIBLE"
)

// PolicyAction is the routing outcome attached to every prediction.
type PolicyAction string

const (
	ActionAutoApprove  PolicyAction = "AUTO_APPROVE"
	ActionManualReview PolicyAction = "MANUAL_REVIEW"
	ActionReject       PolicyAction = "REJECT"
)

// Policy thresholds, in AED. These constants are the single source of truth
// for BOTH the income override gate and the synthetic label generator: the
// training labels must agree with the production gate on every boundary or
// the classifier learns a policy the gate then contradicts.
const (
	MaxMonthlyIncome   = 50000.0
	MaxIncomePerCapita = 25000.0

	HighTierPerCapitaLimit   = 600.0
	HighTierDebtRatioLimit   = 0.4
	MediumTierPerCapitaLimit = 900.0
	LowTierPerCapitaLimit    = 1300.0
)

// Prediction is the immutable output of one eligibility evaluation.
type Prediction struct {
	SupportTier     SupportTier  `json:"supportTier"`
	Confidence      float64      `json:"confidence"`
	PolicyAction    PolicyAction `json:"policyAction"`
	RejectionReason string       `json:"rejectionReason,omitempty"`
}

// ApplyIncomeGate runs the deterministic override before any model is
// consulted. When it fires, the classifier is bypassed entirely and the
// returned prediction carries full confidence.
func ApplyIncomeGate(f FeatureVector) (Prediction, bool) {
	if f.MonthlyIncome > MaxMonthlyIncome || f.IncomePerCapita > MaxIncomePerCapita {
		return Prediction{
			SupportTier:  TierNotEligible,
			Confidence:   1.0,
			PolicyAction: ActionReject,
			RejectionReason: fmt.Sprintf(
				"High income threshold exceeded (Income: %s AED/month, Per Capita: %s AED)",
				formatAmount(f.MonthlyIncome), formatAmount(f.IncomePerCapita)),
		}, true
	}
	return Prediction{}, false
}

// LabelTier assigns the training label for a synthetic sample. The first two
// branches mirror ApplyIncomeGate exactly; see the threshold constants above.
func LabelTier(income, incomePerCapita, debtToIncome float64) SupportTier {
	switch {
	case income > MaxMonthlyIncome:
		return TierNotEligible
	case incomePerCapita > MaxIncomePerCapita:
		return TierNotEligible
	case incomePerCapita < HighTierPerCapitaLimit && debtToIncome < HighTierDebtRatioLimit:
		return TierHigh
	case incomePerCapita < MediumTierPerCapitaLimit:
		return TierMedium
	case incomePerCapita < LowTierPerCapitaLimit:
		return TierLow
	default:
		return TierNotEligible
	}
}

// ActionForTier maps a tier to its downstream routing action.
func ActionForTier(tier SupportTier) PolicyAction {
	switch tier {
	case TierHigh:
		return ActionAutoApprove
	case TierNotEligible:
		return ActionReject
	default:
		return ActionManualReview
	}
}

// formatAmount renders a non-negative amount with thousands separators and
// no decimal places, e.g. 52000 -> "52,000".
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
