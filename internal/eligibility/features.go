// internal/eligibility/features.go
package eligibility

import (
	"math"
	"strconv"
	"strings"

	"social-support-workers/internal/models"
)

// Feature order expected by the classifier. The persisted artifact is only
// valid for this exact ordering.
var featureNames = []string{
	"monthly_income",
	"household_size",
	"income_per_capita",
	"debt_to_income",
	"employment_stability",
	"assets_to_liabilities",
}

// Defaults applied when a feature cannot be derived from the documents.
const (
	defaultDebtToIncome        = 0.3
	defaultEmploymentStability = 0.7
	defaultAssetsToLiabilities = 0.6
)

// FeatureVector is the canonical numeric input to the gate and classifier.
// Invariant: every field is finite by the time it leaves Normalize.
type FeatureVector struct {
	MonthlyIncome       float64 `json:"monthlyIncome"`
	HouseholdSize       int     `json:"householdSize"`
	IncomePerCapita     float64 `json:"incomePerCapita"`
	DebtToIncome        float64 `json:"debtToIncome"`
	EmploymentStability float64 `json:"employmentStability"`
	AssetsToLiabilities float64 `json:"assetsToLiabilities"`
}

func (f FeatureVector) values() []float64 {
	return []float64{
		f.MonthlyIncome,
		float64(f.HouseholdSize),
		f.IncomePerCapita,
		f.DebtToIncome,
		f.EmploymentStability,
		f.AssetsToLiabilities,
	}
}

// fieldValue distinguishes a parsed number from an unparseable raw value so
// callers choose the fallback instead of the parser guessing one.
type fieldValue struct {
	num    float64
	parsed bool
	raw    string
}

func (v fieldValue) or(fallback float64) float64 {
	if v.parsed && !math.IsNaN(v.num) && !math.IsInf(v.num, 0) {
		return v.num
	}
	return fallback
}

// parseAmount accepts JSON numbers and currency-formatted strings. String
// cleanup strips thousands separators and the "AED" suffix before parsing.
// An absent or unparseable value is reported, not defaulted, here.
func parseAmount(raw interface{}) fieldValue {
	switch v := raw.(type) {
	case float64:
		return fieldValue{num: v, parsed: true}
	case float32:
		return fieldValue{num: float64(v), parsed: true}
	case int:
		return fieldValue{num: float64(v), parsed: true}
	case int64:
		return fieldValue{num: float64(v), parsed: true}
	case string:
		cleaned := strings.TrimSpace(v)
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		cleaned = strings.ReplaceAll(cleaned, "AED", "")
		cleaned = strings.TrimSpace(cleaned)
		if n, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return fieldValue{num: n, parsed: true}
		}
		return fieldValue{raw: v}
	default:
		return fieldValue{}
	}
}

// employmentStability maps categorical employment status to [0,1]. Unknown
// statuses fall back to the middle-ground default rather than failing.
func employmentStability(status string) float64 {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "unemployed":
		return 0.2
	case "part-time", "part time":
		return 0.5
	case "employed", "full-time", "full time":
		return 0.9
	default:
		return defaultEmploymentStability
	}
}

// Normalize derives the canonical feature vector from raw extracted document
// fields. Money fields that fail to parse become 0 rather than errors: a
// missing income is a legitimate (and strongly negative-signal) input.
func Normalize(raw models.RawExtractedFields) FeatureVector {
	form := raw[models.DocApplicationForm]
	assets := raw[models.DocAssetsLiabilities]
	credit := raw[models.DocCreditReport]

	income := parseAmount(form["income"]).or(0)
	if income < 0 {
		income = 0
	}

	household := int(parseAmount(form["family_size"]).or(1))
	if household < 1 {
		household = 1
	}

	status, _ := form["employment_status"].(string)
	stability := employmentStability(status)

	// With zero income the ratio is undeterminable; otherwise a missing
	// debt figure reads as zero debt.
	debtToIncome := defaultDebtToIncome
	if income > 0 {
		debtToIncome = parseAmount(credit["outstanding_debt"]).or(0) / (income * 12)
	}

	totalAssets := parseAmount(assets["total_assets"]).or(0)
	totalLiabilities := parseAmount(assets["total_liabilities"]).or(0)
	assetsToLiabilities := defaultAssetsToLiabilities
	if totalLiabilities > 0 {
		assetsToLiabilities = totalAssets / totalLiabilities
	} else if totalAssets > 0 {
		assetsToLiabilities = 1.0
	}

	f := FeatureVector{
		MonthlyIncome:       income,
		HouseholdSize:       household,
		IncomePerCapita:     income / float64(household),
		DebtToIncome:        debtToIncome,
		EmploymentStability: stability,
		AssetsToLiabilities: assetsToLiabilities,
	}
	return f.sanitized()
}

// sanitized replaces any non-finite field with its documented default so the
// classifier boundary invariant always holds.
func (f FeatureVector) sanitized() FeatureVector {
	clean := func(v, fallback float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fallback
		}
		return v
	}
	f.MonthlyIncome = clean(f.MonthlyIncome, 0)
	if f.HouseholdSize < 1 {
		f.HouseholdSize = 1
	}
	f.IncomePerCapita = clean(f.IncomePerCapita, 0)
	f.DebtToIncome = clean(f.DebtToIncome, defaultDebtToIncome)
	f.EmploymentStability = clean(f.EmploymentStability, defaultEmploymentStability)
	f.AssetsToLiabilities = clean(f.AssetsToLiabilities, defaultAssetsToLiabilities)
	return f
}
