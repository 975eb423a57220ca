// internal/workers/assessment/validate-application-data/models.go
package validateapplicationdata

import "social-support-workers/internal/models"

type Input struct {
	ApplicationID string                    `json:"applicationId"`
	ApplicantName string                    `json:"applicantName"`
	ExtractedData models.RawExtractedFields `json:"extractedData"`
}

type Output struct {
	ApplicationID    string        `json:"applicationId"`
	IsValid          bool          `json:"isValid"`
	DataQualityScore float64       `json:"dataQualityScore"`
	Checks           []CheckResult `json:"checks"`
	Issues           []string      `json:"issues,omitempty"`
	MissingDocuments []string      `json:"missingDocuments,omitempty"`
}

// CheckResult is one cross-document consistency check. Confidence feeds the
// overall data quality score as an unweighted mean.
type CheckResult struct {
	Check      string  `json:"check"`
	Passed     bool    `json:"passed"`
	Confidence float64 `json:"confidence"`
	Details    string  `json:"details"`
}
