// internal/eligibility/artifact.go
package eligibility

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArtifactSchemaVersion tags the persisted model blob. A mismatch on load is
// treated the same as a corrupt file: retrain, overwrite.
const ArtifactSchemaVersion = 1

// artifact is the single on-disk blob holding scaler and model together.
type artifact struct {
	Version    int         `json:"version"`
	TrainedAt  string      `json:"trainedAt"`
	Samples    int         `json:"samples"`
	Features   []string    `json:"features"`
	Classifier *Classifier `json:"classifier"`
}

// SaveArtifact writes the model atomically (temp file + rename) so a crashed
// writer never leaves a half-written artifact for the next load to trip on.
func SaveArtifact(path string, m *Classifier, trainedOn int) error {
	blob, err := json.MarshalIndent(artifact{
		Version:    ArtifactSchemaVersion,
		TrainedAt:  time.Now().UTC().Format(time.RFC3339),
		Samples:    trainedOn,
		Features:   featureNames,
		Classifier: m,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal model artifact: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("write model artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace model artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads and validates a persisted model. Any structural problem
// is an error; callers are expected to fall back to retraining.
func LoadArtifact(path string) (*Classifier, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(blob, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if a.Version != ArtifactSchemaVersion {
		return nil, fmt.Errorf("model artifact version %d, want %d", a.Version, ArtifactSchemaVersion)
	}
	if a.Classifier == nil || a.Classifier.Scaler == nil {
		return nil, fmt.Errorf("model artifact missing classifier or scaler")
	}

	dims := len(featureNames)
	if len(a.Classifier.Scaler.Means) != dims || len(a.Classifier.Scaler.Stds) != dims {
		return nil, fmt.Errorf("model artifact scaler shape mismatch")
	}
	if len(a.Classifier.Weights) != len(tierOrder) || len(a.Classifier.Bias) != len(tierOrder) {
		return nil, fmt.Errorf("model artifact class count mismatch")
	}
	for _, w := range a.Classifier.Weights {
		if len(w) != dims {
			return nil, fmt.Errorf("model artifact weight shape mismatch")
		}
	}
	return a.Classifier, nil
}
