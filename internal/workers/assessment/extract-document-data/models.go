// internal/workers/assessment/extract-document-data/models.go
package extractdocumentdata

import "social-support-workers/internal/models"

type Input struct {
	ApplicationID string `json:"applicationId"`
	ApplicantID   string `json:"applicantId"`
	// InlineDocuments carries extraction results already attached to the
	// process instance (e.g. re-runs after manual correction). They take
	// precedence over the document store.
	InlineDocuments models.RawExtractedFields `json:"inlineDocuments,omitempty"`
}

type Output struct {
	ApplicationID string                    `json:"applicationId"`
	ApplicantName string                    `json:"applicantName"`
	ExtractedData models.RawExtractedFields `json:"extractedData"`
	DocumentCount int                       `json:"documentCount"`
	Sources       map[string]string         `json:"sources"` // document type -> "inline" | "store" | "service"
}

// storedDocument is the shape of one hit in the document index.
type storedDocument struct {
	ApplicationID string                 `json:"applicationId"`
	DocumentType  string                 `json:"documentType"`
	Fields        map[string]interface{} `json:"fields"`
	RawText       string                 `json:"rawText,omitempty"`
}

// extractionRequest is sent to the external extraction service for documents
// that only have raw text.
type extractionRequest struct {
	DocumentType string `json:"documentType"`
	RawText      string `json:"rawText"`
}

type extractionResponse struct {
	Fields map[string]interface{} `json:"fields"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source storedDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
