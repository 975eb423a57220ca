// internal/workers/assessment/send-notification/models.go
package sendnotification

type Input struct {
	ApplicantID      string                 `json:"applicantId"`
	NotificationType string                 `json:"notificationType"`
	ApplicationID    string                 `json:"applicationId,omitempty"`
	Priority         string                 `json:"priority,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Notification types
const (
	TypeDecisionApproved    = "decision_approved"
	TypeDecisionConditional = "decision_conditional"
	TypeDecisionDeclined    = "decision_declined"
	TypeReviewPending       = "review_pending"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
