// internal/workers/assessment/assess-eligibility/models.go
package assesseligibility

import "social-support-workers/internal/models"

type Input struct {
	ApplicationID string                    `json:"applicationId"`
	ExtractedData models.RawExtractedFields `json:"extractedData"`
}

type Output struct {
	ApplicationID   string             `json:"applicationId"`
	SupportTier     string             `json:"supportTier"`
	Confidence      float64            `json:"confidence"`
	PolicyAction    string             `json:"policyAction"`
	RejectionReason string             `json:"rejectionReason,omitempty"`
	Features        map[string]float64 `json:"features"`
	CacheHit        bool               `json:"cacheHit"`
}

// cachedPrediction is the redis cache payload. Features are not cached: they
// are recomputed from input on every call and only the model verdict is reused.
type cachedPrediction struct {
	SupportTier     string  `json:"supportTier"`
	Confidence      float64 `json:"confidence"`
	PolicyAction    string  `json:"policyAction"`
	RejectionReason string  `json:"rejectionReason,omitempty"`
}
