// internal/workers/assessment/resolve-decision/models.go
package resolvedecision

import "social-support-workers/internal/models"

type Input struct {
	ApplicationID   string                    `json:"applicationId"`
	SupportTier     string                    `json:"supportTier"`
	Confidence      float64                   `json:"confidence"`
	PolicyAction    string                    `json:"policyAction"`
	RejectionReason string                    `json:"rejectionReason,omitempty"`
	Features        map[string]float64        `json:"features"`
	ExtractedData   models.RawExtractedFields `json:"extractedData"`
}

type Output struct {
	ApplicationID     string              `json:"applicationId"`
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
