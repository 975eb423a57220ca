// internal/workers/assessment/create-decision-record/handler_test.go
package createdecisionrecord

import (
	"context"
	"errors"
	"testing"
	"time"

	"social-support-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHandler(&Config{Timeout: 10 * time.Second}, db, logger.NewTestLogger(t)), mock
}

func approvedInput() *Input {
	return &Input{
		ApplicationID:     "app-401",
		ApplicantID:       "applicant-401",
		Recommendation:    "approve",
		EligibilityScore:  0.865,
		SupportAmount:     16785,
		SupportType:       "both",
		Confidence:        1.0,
		Reasoning:         "Eligibility Score: 86.50% | Income Level: Very Low (2,500 AED/month) - Strong indicator of financial need",
		DetailedRationale: "DECISION: APPROVE",
		NextSteps:         []string{"Application approved", "Awaiting final verification"},
	}
}

func TestExecuteSuccess(t *testing.T) {
	h, mock := newTestHandler(t)
	input := approvedInput()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(input.ApplicationID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectExec(`INSERT INTO decisions`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := h.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.NotEmpty(t, output.DecisionID)
	assert.Equal(t, "recorded", output.DecisionStatus)
	assert.NotEmpty(t, output.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteDuplicateDecision(t *testing.T) {
	h, mock := newTestHandler(t)
	input := approvedInput()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(input.ApplicationID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := h.Execute(context.Background(), input)

	assert.ErrorIs(t, err, ErrDuplicateDecision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteDuplicateCheckFailure(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnError(errors.New("connection refused"))

	_, err := h.Execute(context.Background(), approvedInput())

	assert.ErrorIs(t, err, ErrDatabaseInsertFailed)
}

func TestExecuteInsertFailure(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectExec(`INSERT INTO decisions`).
		WillReturnError(errors.New("constraint violation"))

	_, err := h.Execute(context.Background(), approvedInput())

	assert.ErrorIs(t, err, ErrDatabaseInsertFailed)
}

func TestExecuteAuditLogFailureIsNonFatal(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectExec(`INSERT INTO decisions`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnError(errors.New("audit table locked"))

	output, err := h.Execute(context.Background(), approvedInput())

	require.NoError(t, err)
	assert.Equal(t, "recorded", output.DecisionStatus)
}

func TestExecuteInvalidInput(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{Recommendation: "approve"})
	assert.ErrorIs(t, err, ErrInvalidDecision)

	_, err = h.Execute(context.Background(), &Input{ApplicationID: "app-402"})
	assert.ErrorIs(t, err, ErrInvalidDecision)
}
