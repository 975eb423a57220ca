// internal/eligibility/engine.go
package eligibility

import (
	"context"
	"sync"

	"social-support-workers/internal/common/logger"
	"social-support-workers/internal/models"
)

// Engine is the synchronous eligibility decision engine: gate first, then
// classifier, then score composition. Evaluate is pure once the model is
// loaded and safe for concurrent use; the model itself is read-only after
// initialization.
type Engine struct {
	artifactPath string
	logger       logger.Logger

	once  sync.Once
	model *Classifier
}

func NewEngine(artifactPath string, log logger.Logger) *Engine {
	return &Engine{
		artifactPath: artifactPath,
		logger:       log.WithFields(map[string]interface{}{"component": "eligibility-engine"}),
	}
}

// ensureModel loads the persisted artifact exactly once. A missing, corrupt
// or version-mismatched artifact triggers an automatic retrain on the fixed
// synthetic population: predictions must never fail for artifact reasons.
func (e *Engine) ensureModel() *Classifier {
	e.once.Do(func() {
		model, err := LoadArtifact(e.artifactPath)
		if err == nil {
			e.logger.Info("eligibility model loaded", map[string]interface{}{
				"path": e.artifactPath,
			})
			e.model = model
			return
		}

		e.logger.Warn("model artifact unusable, retraining", map[string]interface{}{
			"path":  e.artifactPath,
			"error": err.Error(),
		})
		samples := GenerateSyntheticPopulation(SyntheticSamples, SyntheticSeed)
		e.model = TrainClassifier(samples)

		if saveErr := SaveArtifact(e.artifactPath, e.model, len(samples)); saveErr != nil {
			// Keep serving from the in-memory model; only persistence failed.
			e.logger.Warn("failed to persist retrained model", map[string]interface{}{
				"path":  e.artifactPath,
				"error": saveErr.Error(),
			})
		} else {
			e.logger.Info("eligibility model retrained and saved", map[string]interface{}{
				"path":     e.artifactPath,
				"samples":  len(samples),
				"accuracy": e.model.Accuracy(samples),
			})
		}
	})
	return e.model
}

// Evaluate produces the immutable prediction for a normalized feature vector.
// The income gate runs first and suppresses the classifier entirely when it
// fires.
func (e *Engine) Evaluate(ctx context.Context, f FeatureVector) (Prediction, error) {
	f = f.sanitized()

	if p, fired := ApplyIncomeGate(f); fired {
		e.logger.Info("income gate fired", map[string]interface{}{
			"monthlyIncome":   f.MonthlyIncome,
			"incomePerCapita": f.IncomePerCapita,
		})
		return p, nil
	}

	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	tier, confidence := e.ensureModel().Predict(f)
	return Prediction{
		SupportTier:  tier,
		Confidence:   confidence,
		PolicyAction: ActionForTier(tier),
	}, nil
}

// EvaluateRaw normalizes extracted document fields and evaluates them.
func (e *Engine) EvaluateRaw(ctx context.Context, raw models.RawExtractedFields) (FeatureVector, Prediction, error) {
	f := Normalize(raw)
	p, err := e.Evaluate(ctx, f)
	return f, p, err
}

// Retrain regenerates the synthetic population, fits a fresh model and
// persists it. Used by the offline trainer; the running engine keeps its
// already-loaded model.
func Retrain(artifactPath string) (*Classifier, []Sample, error) {
	samples := GenerateSyntheticPopulation(SyntheticSamples, SyntheticSeed)
	model := TrainClassifier(samples)
	if err := SaveArtifact(artifactPath, model, len(samples)); err != nil {
		return nil, nil, err
	}
	return model, samples, nil
}
