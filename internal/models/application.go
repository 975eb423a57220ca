// internal/models/application.go
package models

// Document type keys produced by the extraction layer.
const (
	DocApplicationForm   = "application_form"
	DocAssetsLiabilities = "assets_liabilities"
	DocCreditReport      = "credit_report"
	DocResume            = "resume"
	DocBankStatement     = "bank_statement"
	DocEmiratesID        = "emirates_id"
)

// RequiredDocuments lists the document types a complete application carries.
var RequiredDocuments = []string{
	DocApplicationForm,
	DocAssetsLiabilities,
	DocCreditReport,
	DocResume,
	DocBankStatement,
	DocEmiratesID,
}

// RawExtractedFields maps document-type keys to loosely-typed field maps.
// Values may be numbers, numeric-formatted strings (thousands separators,
// currency suffixes) or absent entirely. Immutable once extracted.
type RawExtractedFields map[string]map[string]interface{}

type Application struct {
	ID            string             `json:"id"`
	ApplicantID   string             `json:"applicantId"`
	ApplicantName string             `json:"applicantName,omitempty"`
	ExtractedData RawExtractedFields `json:"extractedData"`
	QualityScore  float64            `json:"qualityScore"`
	Status        string             `json:"status"`
	CreatedAt     string             `json:"createdAt"`
	UpdatedAt     string             `json:"updatedAt"`
}

type Decision struct {
	ID             string   `json:"id"`
	ApplicationID  string   `json:"applicationId"`
	Recommendation string   `json:"recommendation"`
	SupportAmount  int      `json:"supportAmount"`
	SupportType    string   `json:"supportType"`
	Confidence     float64  `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
	NextSteps      []string `json:"nextSteps"`
	CreatedAt      string   `json:"createdAt"`
}
