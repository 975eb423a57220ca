// internal/workers/assessment/assess-eligibility/handler.go
package assesseligibility

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"social-support-workers/internal/common/logger"
	"social-support-workers/internal/eligibility"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "assess-eligibility"
)

type Handler struct {
	config *Config
	engine *eligibility.Engine
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, engine *eligibility.Engine, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
		redis:  redisClient,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "ELIGIBILITY_ASSESSMENT_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.ExtractedData) == 0 {
		return nil, fmt.Errorf("no extracted data for application %s", input.ApplicationID)
	}

	features := eligibility.Normalize(input.ExtractedData)

	// Prediction cache: identical feature vectors always produce identical
	// verdicts, so the verdict is keyed on the features alone.
	cacheKey := h.cacheKey(features)
	if cached, ok := h.cachedPrediction(ctx, cacheKey); ok {
		h.logger.Debug("prediction cache hit", map[string]interface{}{
			"applicationId": input.ApplicationID,
			"cacheKey":      cacheKey,
		})
		return h.buildOutput(input.ApplicationID, features, cached, true), nil
	}

	prediction, err := h.engine.Evaluate(ctx, features)
	if err != nil {
		return nil, fmt.Errorf("evaluate eligibility: %w", err)
	}

	verdict := cachedPrediction{
		SupportTier:     string(prediction.SupportTier),
		Confidence:      prediction.Confidence,
		PolicyAction:    string(prediction.PolicyAction),
		RejectionReason: prediction.RejectionReason,
	}
	h.storePrediction(ctx, cacheKey, verdict)

	h.logger.Info("eligibility assessed", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"supportTier":   verdict.SupportTier,
		"confidence":    verdict.Confidence,
		"policyAction":  verdict.PolicyAction,
	})

	return h.buildOutput(input.ApplicationID, features, verdict, false), nil
}

func (h *Handler) buildOutput(applicationID string, f eligibility.FeatureVector, verdict cachedPrediction, cacheHit bool) *Output {
	return &Output{
		ApplicationID:   applicationID,
		SupportTier:     verdict.SupportTier,
		Confidence:      verdict.Confidence,
		PolicyAction:    verdict.PolicyAction,
		RejectionReason: verdict.RejectionReason,
		Features: map[string]float64{
			"monthly_income":        f.MonthlyIncome,
			"household_size":        float64(f.HouseholdSize),
			"income_per_capita":     f.IncomePerCapita,
			"debt_to_income":        f.DebtToIncome,
			"employment_stability":  f.EmploymentStability,
			"assets_to_liabilities": f.AssetsToLiabilities,
		},
		CacheHit: cacheHit,
	}
}

func (h *Handler) cacheKey(f eligibility.FeatureVector) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%.6f|%d|%.6f|%.6f|%.6f|%.6f",
		f.MonthlyIncome, f.HouseholdSize, f.IncomePerCapita,
		f.DebtToIncome, f.EmploymentStability, f.AssetsToLiabilities)))
	return fmt.Sprintf("eligibility:prediction:%x", sum[:16])
}

func (h *Handler) cachedPrediction(ctx context.Context, key string) (cachedPrediction, bool) {
	var verdict cachedPrediction
	if h.redis == nil || h.config.CacheTTL <= 0 {
		return verdict, false
	}

	data, err := h.redis.Get(ctx, key).Result()
	if err != nil {
		return verdict, false
	}
	if err := json.Unmarshal([]byte(data), &verdict); err != nil {
		h.logger.Warn("discarding malformed cached prediction", map[string]interface{}{
			"cacheKey": key,
			"error":    err.Error(),
		})
		return verdict, false
	}
	return verdict, true
}

func (h *Handler) storePrediction(ctx context.Context, key string, verdict cachedPrediction) {
	if h.redis == nil || h.config.CacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(verdict)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		// Caching is best effort; the verdict was already computed.
		h.logger.Warn("failed to cache prediction", map[string]interface{}{
			"cacheKey": key,
			"error":    err.Error(),
		})
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
