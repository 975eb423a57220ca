// internal/workers/assessment/resolve-decision/handler.go
package resolvedecision

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"social-support-workers/internal/common/logger"
	"social-support-workers/internal/eligibility"
	"social-support-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "resolve-decision"
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "DECISION_RESOLUTION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.SupportTier == "" {
		return nil, fmt.Errorf("missing support tier for application %s", input.ApplicationID)
	}

	prediction := eligibility.Prediction{
		SupportTier:     eligibility.SupportTier(input.SupportTier),
		Confidence:      input.Confidence,
		PolicyAction:    eligibility.PolicyAction(input.PolicyAction),
		RejectionReason: input.RejectionReason,
	}

	rctx := h.reasoningContext(input)

	score := eligibility.ComposeScore(prediction)
	recommendation := eligibility.Recommend(score)
	amount := eligibility.SupportAmount(recommendation, score, rctx.FamilySize)
	supportType := eligibility.SupportType(score)
	reasoning := eligibility.BuildReasoning(rctx, prediction, score, recommendation)

	output := &Output{
		ApplicationID:     input.ApplicationID,
		Recommendation:    recommendation,
		EligibilityScore:  score,
		SupportAmount:     amount,
		SupportType:       supportType,
		Confidence:        eligibility.BoostedConfidence(score),
		Reasoning:         reasoning,
		DetailedRationale: eligibility.DetailedRationale(recommendation, score, reasoning, rctx),
		NextSteps:         eligibility.NextSteps(recommendation),
	}

	// Declined applicants get pointed at enablement programs instead.
	if recommendation == eligibility.RecommendSoftDecline || recommendation == eligibility.RecommendDecline {
		output.Enablement = eligibility.EnablementRecommendations(rctx)
	}

	h.logger.Info("decision resolved", map[string]interface{}{
		"applicationId":  input.ApplicationID,
		"recommendation": recommendation,
		"score":          score,
		"supportAmount":  amount,
		"supportType":    supportType,
	})

	return output, nil
}

// reasoningContext pulls the narrative figures from the feature vector and the
// raw documents. Net worth and credit score are document-only: the classifier
// never sees them, the narrative does.
func (h *Handler) reasoningContext(input *Input) eligibility.ReasoningContext {
	rctx := eligibility.ReasoningContext{
		Income:     input.Features["monthly_income"],
		FamilySize: int(input.Features["household_size"]),
	}
	if rctx.FamilySize < 1 {
		rctx.FamilySize = 1
	}

	if form, ok := input.ExtractedData[models.DocApplicationForm]; ok {
		if status, ok := form["employment_status"].(string); ok {
			rctx.EmploymentStatus = strings.TrimSpace(status)
		}
	}

	if assets, ok := input.ExtractedData[models.DocAssetsLiabilities]; ok {
		rctx.NetWorth = h.parseFloat(assets["total_assets"]) - h.parseFloat(assets["total_liabilities"])
	}

	if credit, ok := input.ExtractedData[models.DocCreditReport]; ok {
		rctx.CreditScore = int(h.parseFloat(credit["credit_score"]))
	}

	return rctx
}

func (h *Handler) parseFloat(raw interface{}) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return f
		}
	}
	return 0
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
