// internal/eligibility/reasoning_test.go
package eligibility

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeIncome(t *testing.T) {
	tests := []struct {
		income float64
		want   string
	}{
		{0, "very_low"},
		{4999, "very_low"},
		{5000, "low"},
		{9999, "low"},
		{10000, "medium"},
		{19999, "medium"},
		{20000, "high"},
		{49999, "high"},
		{50000, "very_high"},
		{120000, "very_high"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategorizeIncome(tt.income), "income %v", tt.income)
	}
}

func TestWealthScore(t *testing.T) {
	assert.Equal(t, 0.0, WealthScore(-5000))
	assert.Equal(t, 2.5, WealthScore(25000))
	assert.Equal(t, 100.0, WealthScore(2000000))
}

func TestBuildReasoning(t *testing.T) {
	ctx := ReasoningContext{
		Income:           3200,
		FamilySize:       5,
		NetWorth:         4000,
		CreditScore:      580,
		EmploymentStatus: "unemployed",
	}
	pred := Prediction{SupportTier: TierHigh, Confidence: 0.9, PolicyAction: ActionAutoApprove}

	reasoning := BuildReasoning(ctx, pred, 0.865, RecommendApprove)
	parts := strings.Split(reasoning, " | ")

	assert.Equal(t, "Eligibility Score: 86.50%", parts[0])
	assert.Contains(t, reasoning, "Income Level: Very Low (3,200 AED/month)")
	assert.Contains(t, reasoning, "Family Size: Large (5 members)")
	assert.Contains(t, reasoning, "Employment Status: Unemployed - High priority for support")
	assert.Contains(t, reasoning, "Net Worth: Very Low (4,000 AED)")
	assert.Contains(t, reasoning, "Credit Score: Low (580)")
	assert.Contains(t, reasoning, "Recommendation: APPROVE")
	assert.NotContains(t, reasoning, "Policy Rejection")
}

func TestBuildReasoningPolicyRejection(t *testing.T) {
	f := FeatureVector{MonthlyIncome: 75000, HouseholdSize: 2, IncomePerCapita: 37500}
	pred, fired := ApplyIncomeGate(f)
	assert.True(t, fired)

	reasoning := BuildReasoning(ReasoningContext{
		Income:           75000,
		FamilySize:       2,
		NetWorth:         500000,
		CreditScore:      780,
		EmploymentStatus: "employed",
	}, pred, 0.145, RecommendDecline)

	assert.True(t, strings.HasPrefix(reasoning, "Policy Rejection: High income threshold exceeded"))
	assert.Contains(t, reasoning, "Income Level: Very High")
	assert.Contains(t, reasoning, "Recommendation: DECLINE")
}

func TestBuildReasoningDeterministic(t *testing.T) {
	ctx := ReasoningContext{Income: 8000, FamilySize: 3, NetWorth: 15000, CreditScore: 650, EmploymentStatus: "part-time"}
	pred := Prediction{SupportTier: TierMedium, Confidence: 0.7}

	a := BuildReasoning(ctx, pred, 0.665, RecommendApprove)
	b := BuildReasoning(ctx, pred, 0.665, RecommendApprove)
	assert.Equal(t, a, b)
}

func TestDetailedRationale(t *testing.T) {
	rationale := DetailedRationale(RecommendConditionalApprove, 0.5, "Eligibility Score: 50.00%", ReasoningContext{
		Income:           7500,
		FamilySize:       4,
		NetWorth:         12000,
		CreditScore:      640,
		EmploymentStatus: "part-time",
	})

	assert.Contains(t, rationale, "DECISION: CONDITIONAL APPROVE")
	assert.Contains(t, rationale, "Eligibility Score: 50.00%")
	assert.Contains(t, rationale, "- Income Level: low")
	assert.Contains(t, rationale, "- Wealth Score: 1.20")
	assert.Contains(t, rationale, "ELIGIBILITY ASSESSMENT:")
	assert.Contains(t, rationale, "DECISION RATIONALE:")
	assert.Contains(t, rationale, "Conditional approval is recommended")
}

func TestNextSteps(t *testing.T) {
	assert.Equal(t, []string{
		"Application approved",
		"Awaiting final verification",
		"Support will be disbursed within 5 business days",
	}, NextSteps(RecommendApprove))

	assert.Len(t, NextSteps(RecommendConditionalApprove), 3)
	assert.Len(t, NextSteps(RecommendSoftDecline), 3)
	assert.Equal(t, "Application declined", NextSteps(RecommendDecline)[0])
	assert.Equal(t, "Application declined", NextSteps("unknown")[0])
}

func TestEnablementRecommendations(t *testing.T) {
	recs := EnablementRecommendations(ReasoningContext{EmploymentStatus: "unemployed"})
	assert.Contains(t, recs["upskilling_opportunities"], "Professional training programs")
	assert.NotEmpty(t, recs["job_matching"])
	assert.NotEmpty(t, recs["career_counseling"])
}
