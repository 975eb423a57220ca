// internal/eligibility/synthetic.go
package eligibility

import "math/rand"

// Synthetic population parameters. The income distribution is bimodal: a
// gamma-distributed low-income majority and a lognormal high-income minority,
// so the classifier sees both sides of the rejection thresholds in training.
const (
	SyntheticSamples = 10000
	SyntheticSeed    = 42

	lowIncomeShare    = 0.7
	lowIncomeShape    = 2.0
	lowIncomeScale    = 1200.0
	lowIncomeCeiling  = 15000.0
	highIncomeMu      = 10.5
	highIncomeSigma   = 0.8
	highIncomeFloor   = 20000.0
	highIncomeCeiling = 1000000.0
)

// Sample is one labeled training row.
type Sample struct {
	Features FeatureVector
	Tier     SupportTier
}

// GenerateSyntheticPopulation produces n labeled samples from the fixed seed.
// Labels come from LabelTier, so training labels and the production gate
// share one threshold definition.
func GenerateSyntheticPopulation(n int, seed int64) []Sample {
	r := rand.New(rand.NewSource(seed))

	lowCount := int(float64(n) * lowIncomeShare)
	incomes := make([]float64, 0, n)
	for i := 0; i < lowCount; i++ {
		incomes = append(incomes, clip(gammaSample(r, lowIncomeShape, lowIncomeScale), 0, lowIncomeCeiling))
	}
	for i := lowCount; i < n; i++ {
		incomes = append(incomes, clip(lognormalSample(r, highIncomeMu, highIncomeSigma), highIncomeFloor, highIncomeCeiling))
	}
	r.Shuffle(len(incomes), func(i, j int) {
		incomes[i], incomes[j] = incomes[j], incomes[i]
	})

	samples := make([]Sample, 0, n)
	for _, income := range incomes {
		household := r.Intn(6) + 1
		perCapita := income / float64(household)

		f := FeatureVector{
			MonthlyIncome:       income,
			HouseholdSize:       household,
			IncomePerCapita:     perCapita,
			DebtToIncome:        normalClipped(r, 0.35, 0.15, 0, 1.2),
			EmploymentStability: clip(betaSample(r, 2, 2), 0, 1),
			AssetsToLiabilities: normalClipped(r, 0.6, 0.4, 0, 3),
		}
		samples = append(samples, Sample{
			Features: f,
			Tier:     LabelTier(income, perCapita, f.DebtToIncome),
		})
	}
	return samples
}
