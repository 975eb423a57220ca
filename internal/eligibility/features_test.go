// internal/eligibility/features_test.go
package eligibility

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"social-support-workers/internal/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name       string
		in         interface{}
		want       float64
		wantParsed bool
	}{
		{"plain number", 12500.0, 12500, true},
		{"integer", 4, 4, true},
		{"plain string", "8000", 8000, true},
		{"thousands separators", "12,500", 12500, true},
		{"currency suffix", "8,000 AED", 8000, true},
		{"currency no space", "8000AED", 8000, true},
		{"whitespace", "  9,250 AED  ", 9250, true},
		{"garbage", "approximately lots", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAmount(tt.in)
			assert.Equal(t, tt.wantParsed, got.parsed)
			if tt.wantParsed {
				assert.Equal(t, tt.want, got.num)
			}
		})
	}
}

func TestEmploymentStability(t *testing.T) {
	tests := []struct {
		status string
		want   float64
	}{
		{"unemployed", 0.2},
		{"Unemployed", 0.2},
		{"part-time", 0.5},
		{"part time", 0.5},
		{"employed", 0.9},
		{"full-time", 0.9},
		{"Full Time", 0.9},
		{"  EMPLOYED  ", 0.9},
		{"freelancer", 0.7},
		{"", 0.7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, employmentStability(tt.status), "status %q", tt.status)
	}
}

func TestNormalize(t *testing.T) {
	raw := models.RawExtractedFields{
		models.DocApplicationForm: {
			"income":            "4,500 AED",
			"family_size":       float64(4),
			"employment_status": "part-time",
		},
		models.DocAssetsLiabilities: {
			"total_assets":      "20,000",
			"total_liabilities": "10,000",
		},
		models.DocCreditReport: {
			"outstanding_debt": "5,400",
		},
	}

	f := Normalize(raw)

	assert.Equal(t, 4500.0, f.MonthlyIncome)
	assert.Equal(t, 4, f.HouseholdSize)
	assert.InDelta(t, 1125.0, f.IncomePerCapita, 1e-9)
	assert.InDelta(t, 5400.0/(4500.0*12), f.DebtToIncome, 1e-9)
	assert.Equal(t, 0.5, f.EmploymentStability)
	assert.Equal(t, 2.0, f.AssetsToLiabilities)
}

func TestNormalizeDefaults(t *testing.T) {
	t.Run("empty documents", func(t *testing.T) {
		f := Normalize(models.RawExtractedFields{})

		assert.Equal(t, 0.0, f.MonthlyIncome)
		assert.Equal(t, 1, f.HouseholdSize)
		assert.Equal(t, 0.0, f.IncomePerCapita)
		assert.Equal(t, defaultDebtToIncome, f.DebtToIncome)
		assert.Equal(t, defaultEmploymentStability, f.EmploymentStability)
		assert.Equal(t, defaultAssetsToLiabilities, f.AssetsToLiabilities)
	})

	t.Run("unparseable money becomes zero", func(t *testing.T) {
		f := Normalize(models.RawExtractedFields{
			models.DocApplicationForm: {"income": "unknown", "family_size": "two-ish"},
		})
		assert.Equal(t, 0.0, f.MonthlyIncome)
		assert.Equal(t, 1, f.HouseholdSize)
	})

	t.Run("negative income clamped", func(t *testing.T) {
		f := Normalize(models.RawExtractedFields{
			models.DocApplicationForm: {"income": float64(-500)},
		})
		assert.Equal(t, 0.0, f.MonthlyIncome)
	})

	t.Run("assets without liabilities", func(t *testing.T) {
		f := Normalize(models.RawExtractedFields{
			models.DocAssetsLiabilities: {"total_assets": float64(5000)},
		})
		assert.Equal(t, 1.0, f.AssetsToLiabilities)
	})

	t.Run("no assets no liabilities", func(t *testing.T) {
		f := Normalize(models.RawExtractedFields{
			models.DocAssetsLiabilities: {},
		})
		assert.Equal(t, defaultAssetsToLiabilities, f.AssetsToLiabilities)
	})
}

// Every field must be finite regardless of input: this is the boundary
// invariant the classifier depends on.
func TestNormalizeAlwaysFinite(t *testing.T) {
	inputs := []models.RawExtractedFields{
		{},
		{models.DocApplicationForm: {"income": math.Inf(1)}},
		{models.DocApplicationForm: {"income": math.NaN(), "family_size": float64(0)}},
		{models.DocAssetsLiabilities: {"total_assets": math.NaN(), "total_liabilities": math.Inf(-1)}},
		{models.DocCreditReport: {"outstanding_debt": "NaN"}},
	}

	for _, raw := range inputs {
		f := Normalize(raw)
		for i, v := range f.values() {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0),
				"feature %s not finite for input %v", featureNames[i], raw)
		}
		assert.GreaterOrEqual(t, f.HouseholdSize, 1)
	}
}

func TestSanitized(t *testing.T) {
	f := FeatureVector{
		MonthlyIncome:       math.NaN(),
		HouseholdSize:       0,
		IncomePerCapita:     math.Inf(1),
		DebtToIncome:        math.NaN(),
		EmploymentStability: math.Inf(-1),
		AssetsToLiabilities: math.NaN(),
	}.sanitized()

	assert.Equal(t, 0.0, f.MonthlyIncome)
	assert.Equal(t, 1, f.HouseholdSize)
	assert.Equal(t, 0.0, f.IncomePerCapita)
	assert.Equal(t, defaultDebtToIncome, f.DebtToIncome)
	assert.Equal(t, defaultEmploymentStability, f.EmploymentStability)
	assert.Equal(t, defaultAssetsToLiabilities, f.AssetsToLiabilities)
}
