// internal/workers/assessment/create-decision-record/handler.go
package createdecisionrecord

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"social-support-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "create-decision-record"
)

var (
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrDuplicateDecision    = errors.New("DUPLICATE_DECISION")
	ErrInvalidDecision      = errors.New("INVALID_DECISION")
)

type Handler struct {
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		db:     db,
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "UNKNOWN_ERROR"
		retries := int32(0)
		if errors.Is(err, ErrDatabaseInsertFailed) {
			errorCode = "DATABASE_INSERT_FAILED"
			retries = 3
		} else if errors.Is(err, ErrDuplicateDecision) {
			errorCode = "DUPLICATE_DECISION"
		} else if errors.Is(err, ErrInvalidDecision) {
			errorCode = "INVALID_DECISION"
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ApplicationID == "" {
		return nil, fmt.Errorf("%w: missing application id", ErrInvalidDecision)
	}
	if input.Recommendation == "" {
		return nil, fmt.Errorf("%w: missing recommendation", ErrInvalidDecision)
	}

	// One terminal decision per application.
	var exists bool
	err := h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM decisions
			WHERE application_id = $1
		)`, input.ApplicationID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrDatabaseInsertFailed, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: decision already recorded for application %s",
			ErrDuplicateDecision, input.ApplicationID)
	}

	decisionID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	nextStepsJSON, err := json.Marshal(input.NextSteps)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal next steps: %v", ErrDatabaseInsertFailed, err)
	}
	enablementJSON, err := json.Marshal(input.Enablement)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal enablement recommendations: %v", ErrDatabaseInsertFailed, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO decisions (
			id, application_id, recommendation, eligibility_score,
			support_amount, support_type, confidence, reasoning,
			detailed_rationale, next_steps, enablement, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		decisionID,
		input.ApplicationID,
		input.Recommendation,
		input.EligibilityScore,
		input.SupportAmount,
		input.SupportType,
		input.Confidence,
		input.Reasoning,
		input.DetailedRationale,
		nextStepsJSON,
		enablementJSON,
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	// Audit log entry is non-critical, log error but don't fail.
	auditDetailsJSON, err := json.Marshal(map[string]interface{}{
		"applicationId":    input.ApplicationID,
		"applicantId":      input.ApplicantID,
		"recommendation":   input.Recommendation,
		"eligibilityScore": input.EligibilityScore,
		"supportAmount":    input.SupportAmount,
	})
	if err != nil {
		h.logger.Warn("failed to marshal audit log details", map[string]interface{}{
			"error": err,
		})
		auditDetailsJSON = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"decision_recorded",
		"decision",
		decisionID,
		auditDetailsJSON,
		createdAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":      err,
			"decisionId": decisionID,
		})
	}

	h.logger.Info("decision record created", map[string]interface{}{
		"decisionId":     decisionID,
		"applicationId":  input.ApplicationID,
		"recommendation": input.Recommendation,
		"supportAmount":  input.SupportAmount,
	})

	return &Output{
		DecisionID:     decisionID,
		DecisionStatus: "recorded",
		CreatedAt:      createdAt,
	}, nil
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
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
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
