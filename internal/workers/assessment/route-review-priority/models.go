// internal/workers/assessment/route-review-priority/models.go
package routereviewpriority

type Input struct {
	ApplicationID    string  `json:"applicationId"`
	PolicyAction     string  `json:"policyAction"`
	Recommendation   string  `json:"recommendation"`
	EligibilityScore float64 `json:"eligibilityScore"`
	DataQualityScore float64 `json:"dataQualityScore"`
	SupportAmount    int     `json:"supportAmount"`
}

type Output struct {
	ApplicationID  string   `json:"applicationId"`
	RequiresReview bool     `json:"requiresReview"`
	ReviewQueue    string   `json:"reviewQueue,omitempty"`
	ReviewPriority string   `json:"reviewPriority,omitempty"`
	SLAHours       int      `json:"slaHours,omitempty"`
	QueueDepth     int64    `json:"queueDepth,omitempty"`
	Reasons        []string `json:"reasons,omitempty"`
}

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	QueueSenior   = "senior-review"
	QueueStandard = "standard-review"
)
