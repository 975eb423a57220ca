// internal/eligibility/engine_test.go
package eligibility

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-support-workers/internal/common/logger"
	"social-support-workers/internal/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(filepath.Join(t.TempDir(), "eligibility_model.json"), logger.NewTestLogger(t))
}

func TestEngineGatePrecedesClassifier(t *testing.T) {
	e := newTestEngine(t)

	p, err := e.Evaluate(context.Background(), FeatureVector{
		MonthlyIncome:   80000,
		HouseholdSize:   2,
		IncomePerCapita: 40000,
	})

	require.NoError(t, err)
	assert.Equal(t, TierNotEligible, p.SupportTier)
	assert.Equal(t, 1.0, p.Confidence)
	assert.Equal(t, ActionReject, p.PolicyAction)
	assert.NotEmpty(t, p.RejectionReason)
	// The gate must answer without touching the model at all.
	assert.Nil(t, e.model)
}

func TestEngineRetrainsOnMissingArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	e := NewEngine(path, logger.NewNoOpLogger())

	p, err := e.Evaluate(context.Background(), FeatureVector{
		MonthlyIncome:       2000,
		HouseholdSize:       5,
		IncomePerCapita:     400,
		DebtToIncome:        0.2,
		EmploymentStability: 0.2,
		AssetsToLiabilities: 0.4,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, p.SupportTier)
	assert.Empty(t, p.RejectionReason)
	assert.GreaterOrEqual(t, p.Confidence, 0.0)
	assert.LessOrEqual(t, p.Confidence, 1.0)

	// The retrained model was persisted for the next process.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestEngineRetrainsOnCorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	e := NewEngine(path, logger.NewNoOpLogger())
	_, err := e.Evaluate(context.Background(), FeatureVector{MonthlyIncome: 1000, HouseholdSize: 2, IncomePerCapita: 500})
	require.NoError(t, err)

	// Corrupt artifact was replaced by a loadable one.
	_, err = LoadArtifact(path)
	assert.NoError(t, err)
}

func TestEngineRetrainsOnVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 999, "classifier": null}`), 0o644))

	e := NewEngine(path, logger.NewNoOpLogger())
	_, err := e.Evaluate(context.Background(), FeatureVector{MonthlyIncome: 1000, HouseholdSize: 2, IncomePerCapita: 500})
	require.NoError(t, err)

	m, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.NotNil(t, m.Scaler)
}

func TestArtifactRoundTrip(t *testing.T) {
	samples := GenerateSyntheticPopulation(500, SyntheticSeed)
	model := TrainClassifier(samples)
	path := filepath.Join(t.TempDir(), "model.json")

	require.NoError(t, SaveArtifact(path, model, len(samples)))
	loaded, err := LoadArtifact(path)
	require.NoError(t, err)

	// Loaded model must predict identically to the in-memory one.
	for _, s := range samples[:20] {
		wantTier, wantConf := model.Predict(s.Features)
		gotTier, gotConf := loaded.Predict(s.Features)
		assert.Equal(t, wantTier, gotTier)
		assert.InDelta(t, wantConf, gotConf, 1e-12)
	}
}

func TestEngineConcurrentEvaluate(t *testing.T) {
	e := newTestEngine(t)
	samples := GenerateSyntheticPopulation(100, SyntheticSeed)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, s := range samples {
				p, err := e.Evaluate(context.Background(), s.Features)
				assert.NoError(t, err)
				assert.NotEmpty(t, p.SupportTier)
			}
		}()
	}
	wg.Wait()
}

func TestEvaluateRaw(t *testing.T) {
	e := newTestEngine(t)

	f, p, err := e.EvaluateRaw(context.Background(), models.RawExtractedFields{
		models.DocApplicationForm: {
			"income":            "60,000 AED",
			"family_size":       float64(1),
			"employment_status": "employed",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 60000.0, f.MonthlyIncome)
	assert.Equal(t, TierNotEligible, p.SupportTier)
	assert.Equal(t, ActionReject, p.PolicyAction)
}

func TestEvaluateCancelledContext(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The gate still answers: it is pure rule evaluation.
	p, err := e.Evaluate(ctx, FeatureVector{MonthlyIncome: 80000, HouseholdSize: 1, IncomePerCapita: 80000})
	require.NoError(t, err)
	assert.Equal(t, TierNotEligible, p.SupportTier)

	// Model-backed evaluation respects cancellation.
	_, err = e.Evaluate(ctx, FeatureVector{MonthlyIncome: 1000, HouseholdSize: 2, IncomePerCapita: 500})
	assert.Error(t, err)
}
