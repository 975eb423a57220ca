// internal/eligibility/reasoning.go
package eligibility

import (
	"fmt"
	"strings"
)

// ReasoningContext carries the raw figures the narrative mentions beyond the
// normalized feature vector (net worth and credit score come straight from
// the documents and are not model features).
type ReasoningContext struct {
	Income           float64
	FamilySize       int
	NetWorth         float64
	CreditScore      int
	EmploymentStatus string
}

// CategorizeIncome buckets monthly income for reporting.
func CategorizeIncome(income float64) string {
	switch {
	case income < 5000:
		return "very_low"
	case income < 10000:
		return "low"
	case income < 20000:
		return "medium"
	case income < 50000:
		return "high"
	default:
		return "very_high"
	}
}

// WealthScore maps net worth onto a 0-100 scale for reporting.
func WealthScore(netWorth float64) float64 {
	score := netWorth / 10000.0
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// BuildReasoning assembles the assessment narrative as labeled clauses joined
// by " | ". The clause order is fixed so two evaluations of the same input
// produce byte-identical reasoning.
func BuildReasoning(ctx ReasoningContext, p Prediction, score float64, recommendation string) string {
	parts := []string{}

	if p.RejectionReason != "" {
		parts = append(parts, "Policy Rejection: "+p.RejectionReason)
	}

	parts = append(parts, fmt.Sprintf("Eligibility Score: %.2f%%", score*100))

	familySize := ctx.FamilySize
	if familySize < 1 {
		familySize = 1
	}
	perCapita := ctx.Income / float64(familySize)
	switch {
	case ctx.Income > MaxMonthlyIncome || perCapita > MaxIncomePerCapita:
		parts = append(parts, fmt.Sprintf(
			"Income Level: Very High (%s AED/month, %s AED per capita) - Exceeds eligibility threshold for social support",
			formatAmount(ctx.Income), formatAmount(perCapita)))
	case ctx.Income < 5000:
		parts = append(parts, fmt.Sprintf("Income Level: Very Low (%s AED/month) - Strong indicator of financial need", formatAmount(ctx.Income)))
	case ctx.Income < 10000:
		parts = append(parts, fmt.Sprintf("Income Level: Low (%s AED/month) - Indicates financial need", formatAmount(ctx.Income)))
	case ctx.Income < 20000:
		parts = append(parts, fmt.Sprintf("Income Level: Moderate (%s AED/month)", formatAmount(ctx.Income)))
	default:
		parts = append(parts, fmt.Sprintf("Income Level: High (%s AED/month) - May exceed eligibility thresholds", formatAmount(ctx.Income)))
	}

	switch {
	case familySize >= 4:
		parts = append(parts, fmt.Sprintf("Family Size: Large (%d members) - Higher support need", familySize))
	case familySize >= 2:
		parts = append(parts, fmt.Sprintf("Family Size: Medium (%d members)", familySize))
	default:
		parts = append(parts, fmt.Sprintf("Family Size: Small (%d member)", familySize))
	}

	switch strings.ToLower(strings.TrimSpace(ctx.EmploymentStatus)) {
	case "unemployed":
		parts = append(parts, "Employment Status: Unemployed - High priority for support")
	case "part-time", "part time":
		parts = append(parts, "Employment Status: Part-time - Moderate need")
	default:
		parts = append(parts, "Employment Status: "+ctx.EmploymentStatus)
	}

	switch {
	case ctx.NetWorth < 0:
		parts = append(parts, fmt.Sprintf("Net Worth: Negative (%s AED) - Significant financial distress", formatAmount(ctx.NetWorth)))
	case ctx.NetWorth < 10000:
		parts = append(parts, fmt.Sprintf("Net Worth: Very Low (%s AED) - Limited financial resources", formatAmount(ctx.NetWorth)))
	default:
		parts = append(parts, fmt.Sprintf("Net Worth: %s AED", formatAmount(ctx.NetWorth)))
	}

	switch {
	case ctx.CreditScore < 600:
		parts = append(parts, fmt.Sprintf("Credit Score: Low (%d) - May indicate financial difficulties", ctx.CreditScore))
	case ctx.CreditScore < 700:
		parts = append(parts, fmt.Sprintf("Credit Score: Moderate (%d)", ctx.CreditScore))
	default:
		parts = append(parts, fmt.Sprintf("Credit Score: Good (%d)", ctx.CreditScore))
	}

	switch recommendation {
	case RecommendApprove:
		parts = append(parts, "Recommendation: APPROVE - Applicant meets eligibility criteria for social support")
	case RecommendConditionalApprove:
		parts = append(parts, "Recommendation: CONDITIONAL APPROVE - Applicant may qualify with additional verification")
	case RecommendSoftDecline:
		parts = append(parts, "Recommendation: SOFT DECLINE - Applicant may benefit from economic enablement programs")
	default:
		parts = append(parts, "Recommendation: DECLINE - Applicant does not meet current eligibility criteria")
	}

	return strings.Join(parts, " | ")
}

// DetailedRationale builds the multi-section decision narrative attached to
// the terminal decision record.
func DetailedRationale(recommendation string, score float64, assessmentReasoning string, ctx ReasoningContext) string {
	parts := []string{
		"DECISION: " + strings.ToUpper(strings.ReplaceAll(recommendation, "_", " ")),
		fmt.Sprintf("Eligibility Score: %.2f%%", score*100),
		"",
		"KEY FACTORS:",
		"- Income Level: " + CategorizeIncome(ctx.Income),
		fmt.Sprintf("- Family Size: %d", ctx.FamilySize),
		"- Employment Status: " + ctx.EmploymentStatus,
		fmt.Sprintf("- Wealth Score: %.2f", WealthScore(ctx.NetWorth)),
	}

	if assessmentReasoning != "" {
		parts = append(parts, "", "ELIGIBILITY ASSESSMENT:", assessmentReasoning)
	}

	parts = append(parts, "", "DECISION RATIONALE:")
	switch recommendation {
	case RecommendApprove:
		parts = append(parts, "The applicant demonstrates significant financial need based on low income, "+
			"large family size, and limited assets. Approval is recommended to provide essential social support.")
	case RecommendConditionalApprove:
		parts = append(parts, "The applicant shows moderate financial need. Conditional approval is recommended "+
			"with additional verification of circumstances.")
	case RecommendSoftDecline:
		parts = append(parts, "While the applicant may not qualify for direct financial support, they may benefit "+
			"from economic enablement programs such as job training and career counseling.")
	default:
		parts = append(parts, "The applicant's financial situation does not meet the current eligibility criteria "+
			"for social support programs.")
	}

	return strings.Join(parts, "\n")
}

// NextSteps returns the ordered applicant-facing follow-ups per decision.
func NextSteps(recommendation string) []string {
	switch recommendation {
	case RecommendApprove:
		return []string{
			"Application approved",
			"Awaiting final verification",
			"Support will be disbursed within 5 business days",
		}
	case RecommendConditionalApprove:
		return []string{
			"Conditional approval granted",
			"Additional documentation may be required",
			"Review in progress",
		}
	case RecommendSoftDecline:
		return []string{
			"Application requires review",
			"Applicant may reapply with additional information",
			"Consider economic enablement programs",
		}
	default:
		return []string{
			"Application declined",
			"Applicant may appeal the decision",
			"Consider alternative support programs",
		}
	}
}

// EnablementRecommendations suggests economic enablement programs for
// applicants who are declined for direct support but employable.
func EnablementRecommendations(ctx ReasoningContext) map[string][]string {
	upskilling := []string{"General upskilling programs"}
	if strings.EqualFold(strings.TrimSpace(ctx.EmploymentStatus), "unemployed") {
		upskilling = []string{"Professional training programs", "Skills development workshops"}
	}
	return map[string][]string{
		"upskilling_opportunities": upskilling,
		"job_matching":             {"Job matching services", "Career placement assistance"},
		"career_counseling":        {"Career counseling sessions", "Professional development guidance"},
	}
}
