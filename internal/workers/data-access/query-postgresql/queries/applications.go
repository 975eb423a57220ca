// internal/workers/data-access/query-postgresql/queries/applications.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func ApplicationDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	applicationID, ok := params["applicationId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, applicantID, applicantName, status, createdAt, updatedAt string
	var qualityScore float64

	err := db.QueryRowContext(ctx, `
		SELECT id, applicant_id, applicant_name, quality_score, status, created_at, updated_at
		FROM applications
		WHERE id = $1`, applicationID).Scan(
		&id, &applicantID, &applicantName,
		&qualityScore, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":            id,
		"applicantId":   applicantID,
		"applicantName": applicantName,
		"qualityScore":  qualityScore,
		"status":        status,
		"createdAt":     createdAt,
		"updatedAt":     updatedAt,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

func ApplicationHistory(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	applicantID, ok := params["applicantId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, status, quality_score, created_at
		FROM applications
		WHERE applicant_id = $1
		ORDER BY created_at DESC`, applicantID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, status, createdAt string
		var qualityScore float64
		if err := rows.Scan(&id, &status, &qualityScore, &createdAt); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":           id,
			"status":       status,
			"qualityScore": qualityScore,
			"createdAt":    createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func PendingReviews(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	limit := 50
	if filters, ok := params["filters"].(map[string]interface{}); ok {
		if l, ok := filters["limit"].(float64); ok && l > 0 && l <= 200 {
			limit = int(l)
		}
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, applicant_id, applicant_name, quality_score, created_at
		FROM applications
		WHERE status = 'review_pending'
		ORDER BY created_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, applicantID, applicantName, createdAt string
		var qualityScore float64
		if err := rows.Scan(&id, &applicantID, &applicantName, &qualityScore, &createdAt); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":            id,
			"applicantId":   applicantID,
			"applicantName": applicantName,
			"qualityScore":  qualityScore,
			"createdAt":     createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}
