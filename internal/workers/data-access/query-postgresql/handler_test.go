// internal/workers/data-access/query-postgresql/handler_test.go
package querypostgresql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-support-workers/internal/common/logger"
)

func createTestConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHandler(createTestConfig(), db, logger.NewTestLogger(t)), mock
}

func TestExecuteApplicationDetails(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT id, applicant_id, applicant_name, quality_score, status, created_at, updated_at\s+FROM applications`).
		WithArgs("app-801").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "applicant_id", "applicant_name", "quality_score", "status", "created_at", "updated_at",
		}).AddRow("app-801", "applicant-11", "Fatima Al Mansoori", 0.92, "decision_recorded",
			"2026-08-01T09:00:00Z", "2026-08-01T10:30:00Z"))

	output, err := h.Execute(context.Background(), &Input{
		QueryType:     "application_details",
		ApplicationID: "app-801",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.RowCount)
	data, ok := output.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "app-801", data["id"])
	assert.Equal(t, "applicant-11", data["applicantId"])
	assert.Equal(t, 0.92, data["qualityScore"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteApplicationHistory(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT id, status, quality_score, created_at\s+FROM applications\s+WHERE applicant_id`).
		WithArgs("applicant-11").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "quality_score", "created_at"}).
			AddRow("app-802", "decision_recorded", 0.88, "2026-07-15T12:00:00Z").
			AddRow("app-801", "review_pending", 0.61, "2026-06-02T08:00:00Z"))

	output, err := h.Execute(context.Background(), &Input{
		QueryType:   "application_history",
		ApplicantID: "applicant-11",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, output.RowCount)
	rows, ok := output.Data.([]map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "app-802", rows[0]["id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteDecisionDetails(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`FROM decisions\s+WHERE application_id`).
		WithArgs("app-801").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "recommendation", "eligibility_score", "support_amount",
			"support_type", "confidence", "reasoning", "next_steps", "created_at",
		}).AddRow("dec-31", "approve", 0.72, 9800, "both", 0.86,
			"Income within threshold", []byte(`["Review approved amount","Expect disbursement schedule"]`),
			"2026-08-01T10:30:00Z"))

	output, err := h.Execute(context.Background(), &Input{
		QueryType:     "decision_details",
		ApplicationID: "app-801",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.RowCount)
	data, ok := output.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "approve", data["recommendation"])
	assert.Equal(t, 9800, data["supportAmount"])
	steps, ok := data["nextSteps"].([]string)
	require.True(t, ok)
	assert.Len(t, steps, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteApplicantProfile(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT id, name, email, phone, emirates_id\s+FROM applicants`).
		WithArgs("applicant-11").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "emirates_id"}).
			AddRow("applicant-11", "Fatima Al Mansoori", "fatima@example.ae", "+971501234567", "784-1990-1234567-1"))

	output, err := h.Execute(context.Background(), &Input{
		QueryType:   "applicant_profile",
		ApplicantID: "applicant-11",
	})

	require.NoError(t, err)
	data, ok := output.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "fatima@example.ae", data["email"])
	assert.Equal(t, "784-1990-1234567-1", data["emiratesId"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutePendingReviews(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`FROM applications\s+WHERE status = 'review_pending'`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "applicant_id", "applicant_name", "quality_score", "created_at"}).
			AddRow("app-803", "applicant-12", "Omar Haddad", 0.55, "2026-08-20T07:00:00Z"))

	output, err := h.Execute(context.Background(), &Input{
		QueryType: "pending_reviews",
		Filters:   map[string]interface{}{"limit": float64(10)},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.RowCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutePendingReviewsDefaultLimit(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`FROM applications\s+WHERE status = 'review_pending'`).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "applicant_id", "applicant_name", "quality_score", "created_at"}))

	output, err := h.Execute(context.Background(), &Input{
		QueryType: "pending_reviews",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, output.RowCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteInvalidQueryType(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{
		QueryType:     "application_index",
		ApplicationID: "app-801",
	})

	assert.ErrorIs(t, err, ErrInvalidQueryType)
}

func TestExecuteMissingParam(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{
		QueryType:   "application_details",
		ApplicantID: "applicant-11",
	})

	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
}

func TestExecuteQueryFailure(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`FROM applications`).
		WithArgs("app-801").
		WillReturnError(assert.AnError)

	_, err := h.Execute(context.Background(), &Input{
		QueryType:     "application_details",
		ApplicationID: "app-801",
	})

	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
}
