// internal/workers/data-access/query-postgresql/queries/decisions.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

func DecisionDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	applicationID, ok := params["applicationId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, recommendation, supportType, reasoning, createdAt string
	var eligibilityScore, confidence float64
	var supportAmount int
	var nextStepsJSON []byte

	err := db.QueryRowContext(ctx, `
		SELECT id, recommendation, eligibility_score, support_amount,
		       support_type, confidence, reasoning, next_steps, created_at
		FROM decisions
		WHERE application_id = $1`, applicationID).Scan(
		&id, &recommendation, &eligibilityScore, &supportAmount,
		&supportType, &confidence, &reasoning, &nextStepsJSON, &createdAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	var nextSteps []string
	if len(nextStepsJSON) > 0 {
		_ = json.Unmarshal(nextStepsJSON, &nextSteps)
	}

	result := map[string]interface{}{
		"id":               id,
		"applicationId":    applicationID,
		"recommendation":   recommendation,
		"eligibilityScore": eligibilityScore,
		"supportAmount":    supportAmount,
		"supportType":      supportType,
		"confidence":       confidence,
		"reasoning":        reasoning,
		"nextSteps":        nextSteps,
		"createdAt":        createdAt,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

func ApplicantProfile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	applicantID, ok := params["applicantId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, name, email, phone, emiratesID string

	err := db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, emirates_id
		FROM applicants
		WHERE id = $1`, applicantID).Scan(
		&id, &name, &email, &phone, &emiratesID,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":         id,
		"name":       name,
		"email":      email,
		"phone":      phone,
		"emiratesId": emiratesID,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}
