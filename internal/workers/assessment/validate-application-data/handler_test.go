// internal/workers/assessment/validate-application-data/handler_test.go
package validateapplicationdata

import (
	"context"
	"testing"
	"time"

	"social-support-workers/internal/common/logger"
	"social-support-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(&Config{Timeout: 15 * time.Second}, logger.NewTestLogger(t))
}

func completeApplicationData(name string) models.RawExtractedFields {
	return models.RawExtractedFields{
		models.DocApplicationForm: {
			"name":              name,
			"income":            "4,500 AED",
			"family_size":       float64(4),
			"employment_status": "part-time",
		},
		models.DocAssetsLiabilities: {
			"account_holder":    name,
			"total_assets":      float64(12000),
			"total_liabilities": float64(8000),
		},
		models.DocCreditReport: {
			"name":             name,
			"credit_score":     float64(610),
			"outstanding_debt": float64(3000),
		},
		models.DocResume: {
			"name": name,
		},
		models.DocBankStatement: {
			"account_holder": name,
		},
		models.DocEmiratesID: {
			"full_name": name,
		},
	}
}

func TestExecuteValidApplication(t *testing.T) {
	h := newTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-201",
		ApplicantName: "Fatima Al Mansoori",
		ExtractedData: completeApplicationData("Fatima Al Mansoori"),
	})

	require.NoError(t, err)
	assert.True(t, output.IsValid)
	assert.Empty(t, output.Issues)
	assert.Empty(t, output.MissingDocuments)
	require.Len(t, output.Checks, 3)

	// Identical names: similarity 1.0, confidence 0.7 + 0.2.
	assert.Equal(t, "name_consistency", output.Checks[0].Check)
	assert.InDelta(t, 0.9, output.Checks[0].Confidence, 1e-9)

	// All six documents present.
	assert.Equal(t, 1.0, output.Checks[1].Confidence)

	assert.InDelta(t, (0.9+1.0+0.9)/3, output.DataQualityScore, 1e-9)
}

func TestExecuteNameMismatch(t *testing.T) {
	h := newTestHandler(t)
	data := completeApplicationData("Fatima Al Mansoori")
	data[models.DocBankStatement]["account_holder"] = "Ahmed Hassan"

	output, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-202",
		ApplicantName: "Fatima Al Mansoori",
		ExtractedData: data,
	})

	require.NoError(t, err)
	assert.False(t, output.IsValid)
	require.NotEmpty(t, output.Issues)
	assert.Contains(t, output.Issues[0], "name mismatch")
	assert.Contains(t, output.Issues[0], "Ahmed Hassan")
	assert.Equal(t, 0.3, output.Checks[0].Confidence)
}

func TestExecuteReorderedNameStillConsistent(t *testing.T) {
	h := newTestHandler(t)
	data := completeApplicationData("Fatima Al Mansoori")
	data[models.DocResume]["name"] = "Al Mansoori Fatima"

	output, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-203",
		ApplicantName: "Fatima Al Mansoori",
		ExtractedData: data,
	})

	require.NoError(t, err)
	assert.True(t, output.Checks[0].Passed)
}

func TestExecuteMissingDocuments(t *testing.T) {
	h := newTestHandler(t)
	data := completeApplicationData("Fatima Al Mansoori")
	delete(data, models.DocResume)
	delete(data, models.DocEmiratesID)

	output, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-204",
		ApplicantName: "Fatima Al Mansoori",
		ExtractedData: data,
	})

	require.NoError(t, err)
	assert.False(t, output.IsValid)
	assert.ElementsMatch(t, []string{models.DocResume, models.DocEmiratesID}, output.MissingDocuments)

	// 4 of 6 documents is below the 0.8 completeness threshold.
	assert.False(t, output.Checks[1].Passed)
	assert.InDelta(t, 4.0/6.0, output.Checks[1].Confidence, 1e-9)
}

func TestExecuteOneMissingDocumentStillComplete(t *testing.T) {
	h := newTestHandler(t)
	data := completeApplicationData("Fatima Al Mansoori")
	delete(data, models.DocResume)

	output, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-205",
		ApplicantName: "Fatima Al Mansoori",
		ExtractedData: data,
	})

	require.NoError(t, err)
	// 5 of 6 = 0.833 passes the threshold but is still reported as missing.
	assert.True(t, output.Checks[1].Passed)
	assert.Equal(t, []string{models.DocResume}, output.MissingDocuments)
}

func TestExecuteUnreadableIncome(t *testing.T) {
	h := newTestHandler(t)
	data := completeApplicationData("Fatima Al Mansoori")
	data[models.DocApplicationForm]["income"] = "confidential"

	output, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-206",
		ApplicantName: "Fatima Al Mansoori",
		ExtractedData: data,
	})

	require.NoError(t, err)
	assert.False(t, output.IsValid)
	assert.False(t, output.Checks[2].Passed)
	assert.Equal(t, 0.4, output.Checks[2].Confidence)
}

func TestExecuteDataQualityTooLow(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-207",
		ExtractedData: models.RawExtractedFields{},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataQualityTooLow)
}

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"John Smith", "John Smith", 1.0},
		{"John Smith", "Smith John", 1.0},
		{"john smith", "JOHN SMITH", 1.0},
		{"John Smith", "John A Smith", 2.0 / 3.0},
		{"John Smith", "Jane Doe", 0.0},
		{"", "John", 0.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, jaccardSimilarity(tt.a, tt.b), 1e-9, "%q vs %q", tt.a, tt.b)
	}
}

func TestParseAmount(t *testing.T) {
	got, err := parseAmount("12,500 AED")
	require.NoError(t, err)
	assert.Equal(t, 12500.0, got)

	got, err = parseAmount(float64(900))
	require.NoError(t, err)
	assert.Equal(t, 900.0, got)

	_, err = parseAmount(nil)
	assert.Error(t, err)

	_, err = parseAmount(true)
	assert.Error(t, err)
}
