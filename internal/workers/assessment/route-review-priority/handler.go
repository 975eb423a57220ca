// internal/workers/assessment/route-review-priority/handler.go
package routereviewpriority

import (
	"context"
	"encoding/json"
	"fmt"

	"social-support-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "route-review-priority"

	// Scores this close to the approval band get a senior reviewer: a small
	// judgment call flips the outcome.
	nearApprovalScore = 0.55

	// Below this data quality, the documents themselves need a second look.
	lowQualityScore = 0.5
)

type Handler struct {
	config *Config
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "REVIEW_ROUTING_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ApplicationID == "" {
		return nil, fmt.Errorf("missing application id")
	}

	// Only manual-review verdicts reach a human; auto approvals and policy
	// rejections pass straight through.
	if input.PolicyAction != "MANUAL_REVIEW" {
		h.logger.Info("no review required", map[string]interface{}{
			"applicationId": input.ApplicationID,
			"policyAction":  input.PolicyAction,
		})
		return &Output{
			ApplicationID:  input.ApplicationID,
			RequiresReview: false,
		}, nil
	}

	priority, reasons := h.determinePriority(input)
	queue := QueueStandard
	if priority == PriorityHigh {
		queue = QueueSenior
	}

	output := &Output{
		ApplicationID:  input.ApplicationID,
		RequiresReview: true,
		ReviewQueue:    queue,
		ReviewPriority: priority,
		SLAHours:       h.slaHours(priority),
		Reasons:        reasons,
	}

	output.QueueDepth = h.enqueue(ctx, queue, input.ApplicationID)

	h.logger.Info("review routing determined", map[string]interface{}{
		"applicationId":  input.ApplicationID,
		"reviewQueue":    queue,
		"reviewPriority": priority,
		"slaHours":       output.SLAHours,
		"queueDepth":     output.QueueDepth,
	})

	return output, nil
}

func (h *Handler) determinePriority(input *Input) (string, []string) {
	var reasons []string

	if input.DataQualityScore < lowQualityScore {
		reasons = append(reasons, fmt.Sprintf("low data quality (%.2f)", input.DataQualityScore))
	}
	if input.EligibilityScore >= nearApprovalScore {
		reasons = append(reasons, fmt.Sprintf("score near approval boundary (%.2f)", input.EligibilityScore))
	}
	if len(reasons) > 0 {
		return PriorityHigh, reasons
	}

	if input.EligibilityScore >= 0.45 {
		return PriorityMedium, []string{fmt.Sprintf("conditional approval candidate (%.2f)", input.EligibilityScore)}
	}
	return PriorityLow, []string{fmt.Sprintf("low eligibility score (%.2f)", input.EligibilityScore)}
}

func (h *Handler) slaHours(priority string) int {
	switch priority {
	case PriorityHigh:
		return 24
	case PriorityMedium:
		return 48
	default:
		return 72
	}
}

// enqueue tracks the application in the review queue. Best effort: routing
// output stands even when the queue tracker is down.
func (h *Handler) enqueue(ctx context.Context, queue, applicationID string) int64 {
	if h.redis == nil {
		return 0
	}
	key := "review:queue:" + queue
	depth, err := h.redis.LPush(ctx, key, applicationID).Result()
	if err != nil {
		h.logger.Warn("failed to enqueue application for review", map[string]interface{}{
			"applicationId": applicationID,
			"queue":         queue,
			"error":         err.Error(),
		})
		return 0
	}
	return depth
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
