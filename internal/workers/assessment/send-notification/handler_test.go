// internal/workers/assessment/send-notification/handler_test.go
package sendnotification

import (
	"context"
	"errors"
	"testing"
	"time"

	"social-support-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSES struct {
	sent []ses.SendEmailInput
	err  error
}

func (m *mockSES) SendEmail(_ context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, *params)
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	published []sns.PublishInput
	err       error
}

func (m *mockSNS) Publish(_ context.Context, params *sns.PublishInput) (*sns.PublishOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.published = append(m.published, *params)
	return &sns.PublishOutput{}, nil
}

func newTestHandler(t *testing.T, cfg *Config) (*Handler, sqlmock.Sqlmock, *mockSES, *mockSNS) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	templates, err := loadTemplates("")
	require.NoError(t, err)

	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	h := &Handler{
		config:      cfg,
		db:          db,
		logger:      logger.NewTestLogger(t),
		sesClient:   sesMock,
		snsClient:   snsMock,
		templateMap: templates,
	}
	return h, mock, sesMock, snsMock
}

func expectContact(mock sqlmock.Sqlmock, email, phone string) {
	mock.ExpectQuery(`SELECT email, phone FROM applicants`).
		WillReturnRows(sqlmock.NewRows([]string{"email", "phone"}).AddRow(email, phone))
}

func TestExecuteSendsApprovalEmail(t *testing.T) {
	h, mock, sesMock, snsMock := newTestHandler(t, &Config{
		EmailEnabled: true,
		FromEmail:    "noreply@support.example",
		Timeout:      30 * time.Second,
	})
	expectContact(mock, "applicant@example.com", "+971500000001")

	output, err := h.Execute(context.Background(), &Input{
		ApplicantID:      "applicant-601",
		NotificationType: TypeDecisionApproved,
		ApplicationID:    "app-601",
		Metadata: map[string]interface{}{
			"supportAmount": 16785,
			"nextStep":      "Support will be disbursed within 5 business days.",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	require.Len(t, sesMock.sent, 1)
	body := *sesMock.sent[0].Message.Body.Text.Data
	assert.Contains(t, body, "app-601")
	assert.Contains(t, body, "16785 AED/month")
	assert.Contains(t, body, "disbursed within 5 business days")
	assert.Empty(t, snsMock.published)
}

func TestExecuteHighPrioritySendsSMS(t *testing.T) {
	h, mock, sesMock, snsMock := newTestHandler(t, &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "noreply@support.example",
		Timeout:      30 * time.Second,
	})
	expectContact(mock, "applicant@example.com", "+971500000002")

	output, err := h.Execute(context.Background(), &Input{
		ApplicantID:      "applicant-602",
		NotificationType: TypeReviewPending,
		ApplicationID:    "app-602",
		Priority:         "high",
		Metadata:         map[string]interface{}{"slaHours": 24},
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Len(t, sesMock.sent, 1)
	require.Len(t, snsMock.published, 1)
	assert.Equal(t, "+971500000002", *snsMock.published[0].PhoneNumber)
	assert.Contains(t, *snsMock.published[0].Message, "within 24 hours")
}

func TestExecuteLowPrioritySkipsSMS(t *testing.T) {
	h, mock, _, snsMock := newTestHandler(t, &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "noreply@support.example",
		Timeout:      30 * time.Second,
	})
	expectContact(mock, "applicant@example.com", "+971500000003")

	output, err := h.Execute(context.Background(), &Input{
		ApplicantID:      "applicant-603",
		NotificationType: TypeDecisionDeclined,
		ApplicationID:    "app-603",
		Priority:         "low",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Empty(t, snsMock.published)
}

func TestExecuteUnknownApplicantReturnsDisabled(t *testing.T) {
	h, mock, _, _ := newTestHandler(t, &Config{EmailEnabled: true, Timeout: 30 * time.Second})
	mock.ExpectQuery(`SELECT email, phone FROM applicants`).
		WillReturnError(errors.New("no rows"))

	output, err := h.Execute(context.Background(), &Input{
		ApplicantID:      "missing",
		NotificationType: TypeDecisionApproved,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
}

func TestExecuteUnknownTemplate(t *testing.T) {
	h, mock, _, _ := newTestHandler(t, &Config{EmailEnabled: true, Timeout: 30 * time.Second})
	expectContact(mock, "applicant@example.com", "")

	_, err := h.Execute(context.Background(), &Input{
		ApplicantID:      "applicant-604",
		NotificationType: "nonexistent",
	})
	assert.Error(t, err)
}

func TestExecuteEmailFailureReturnsFailedStatus(t *testing.T) {
	h, mock, sesMock, _ := newTestHandler(t, &Config{
		EmailEnabled: true,
		FromEmail:    "noreply@support.example",
		Timeout:      30 * time.Second,
	})
	sesMock.err = errors.New("ses throttled")
	expectContact(mock, "applicant@example.com", "")

	output, err := h.Execute(context.Background(), &Input{
		ApplicantID:      "applicant-605",
		NotificationType: TypeDecisionApproved,
		ApplicationID:    "app-605",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, output.Status)
}

func TestExecuteAllChannelsDisabled(t *testing.T) {
	h, mock, _, _ := newTestHandler(t, &Config{Timeout: 30 * time.Second})
	expectContact(mock, "applicant@example.com", "+971500000006")

	output, err := h.Execute(context.Background(), &Input{
		ApplicantID:      "applicant-606",
		NotificationType: TypeDecisionApproved,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
}

func TestRenderTemplate(t *testing.T) {
	out := renderTemplate("Application {{applicationId}} approved for {{supportAmount}} AED. {{missing}}done", map[string]interface{}{
		"applicationId": "app-607",
		"supportAmount": 8000,
	})
	assert.Equal(t, "Application app-607 approved for 8000 AED. done", out)
}
