// internal/workers/assessment/extract-document-data/config.go
package extractdocumentdata

import "time"

type Config struct {
	Timeout       time.Duration
	DocumentIndex string
	// ServiceURL of the field extraction service. Empty disables the service
	// fallback; documents without structured fields are then skipped.
	ServiceURL string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		DocumentIndex: "applicant-documents",
	}
}
