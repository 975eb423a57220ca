// internal/workers/assessment/create-decision-record/models.go
package createdecisionrecord

type Input struct {
	ApplicationID     string              `json:"applicationId"`
	ApplicantID       string              `json:"applicantId"`
	Recommendation    string              `json:"recommendation"`
	EligibilityScore  float64             `json:"eligibilityScore"`
	SupportAmount     int                 `json:"supportAmount"`
	SupportType       string              `json:"supportType"`
	Confidence        float64             `json:"confidence"`
	Reasoning         string              `json:"reasoning"`
	DetailedRationale string              `json:"detailedRationale"`
	NextSteps         []string            `json:"nextSteps"`
	Enablement        map[string][]string `json:"enablementRecommendations,omitempty"`
}

type Output struct {
	DecisionID     string `json:"decisionId"`
	DecisionStatus string `json:"decisionStatus"`
	CreatedAt      string `json:"createdAt"`
}
