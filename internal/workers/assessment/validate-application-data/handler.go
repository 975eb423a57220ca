// internal/workers/assessment/validate-application-data/handler.go
package validateapplicationdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"social-support-workers/internal/common/logger"
	"social-support-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-application-data"

	// Name similarity at or above this is treated as the same person.
	nameSimilarityThreshold = 0.7

	// Document completeness at or above this passes the completeness check.
	completenessThreshold = 0.8

	// Applications scoring below this cannot continue through assessment.
	minDataQualityScore = 0.3
)

var ErrDataQualityTooLow = errors.New("DATA_QUALITY_TOO_LOW")

// Field names that carry an applicant name, checked per document.
var nameFields = []string{"name", "full_name", "applicant_name", "account_holder"}

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		if errors.Is(err, ErrDataQualityTooLow) {
			h.failJob(client, job, "DATA_QUALITY_TOO_LOW", err.Error())
			return
		}
		h.failJob(client, job, "APPLICATION_VALIDATION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	checks := []CheckResult{
		h.checkNameConsistency(input),
		h.checkCompleteness(input),
		h.checkFinancialFigures(input),
	}

	var issues []string
	total := 0.0
	for _, c := range checks {
		total += c.Confidence
		if !c.Passed {
			issues = append(issues, c.Details)
		}
	}
	quality := total / float64(len(checks))

	output := &Output{
		ApplicationID:    input.ApplicationID,
		IsValid:          len(issues) == 0,
		DataQualityScore: quality,
		Checks:           checks,
		Issues:           issues,
		MissingDocuments: h.missingDocuments(input),
	}

	h.logger.Info("application data validated", map[string]interface{}{
		"applicationId":    input.ApplicationID,
		"isValid":          output.IsValid,
		"dataQualityScore": quality,
		"issues":           len(issues),
	})

	if quality < minDataQualityScore {
		return nil, fmt.Errorf("%w: data quality score %.2f below minimum %.2f",
			ErrDataQualityTooLow, quality, minDataQualityScore)
	}

	return output, nil
}

// checkNameConsistency compares the declared applicant name against every
// name-bearing field across documents using word-overlap similarity.
func (h *Handler) checkNameConsistency(input *Input) CheckResult {
	declared := strings.TrimSpace(input.ApplicantName)
	names := h.collectNames(input.ExtractedData)

	if declared == "" && len(names) > 0 {
		declared = names[0]
		names = names[1:]
	}
	if declared == "" || len(names) == 0 {
		return CheckResult{
			Check:      "name_consistency",
			Passed:     true,
			Confidence: 0.5,
			Details:    "insufficient name data for cross-document comparison",
		}
	}

	minSim := 1.0
	worst := ""
	for _, name := range names {
		sim := jaccardSimilarity(declared, name)
		if sim < minSim {
			minSim = sim
			worst = name
		}
	}

	if minSim >= nameSimilarityThreshold {
		return CheckResult{
			Check:      "name_consistency",
			Passed:     true,
			Confidence: 0.7 + minSim*0.2,
			Details:    fmt.Sprintf("names consistent across %d documents (similarity %.2f)", len(names), minSim),
		}
	}

	return CheckResult{
		Check:      "name_consistency",
		Passed:     false,
		Confidence: 0.3,
		Details:    fmt.Sprintf("name mismatch: %q vs %q (similarity %.2f)", declared, worst, minSim),
	}
}

func (h *Handler) checkCompleteness(input *Input) CheckResult {
	missing := h.missingDocuments(input)
	present := len(models.RequiredDocuments) - len(missing)
	ratio := float64(present) / float64(len(models.RequiredDocuments))

	if ratio >= completenessThreshold {
		return CheckResult{
			Check:      "completeness",
			Passed:     true,
			Confidence: ratio,
			Details:    fmt.Sprintf("%d of %d required documents present", present, len(models.RequiredDocuments)),
		}
	}

	return CheckResult{
		Check:      "completeness",
		Passed:     false,
		Confidence: ratio,
		Details:    fmt.Sprintf("missing documents: %s", strings.Join(missing, ", ")),
	}
}

// checkFinancialFigures verifies the figures the assessment depends on are
// present and parseable.
func (h *Handler) checkFinancialFigures(input *Input) CheckResult {
	form, ok := input.ExtractedData[models.DocApplicationForm]
	if !ok {
		return CheckResult{
			Check:      "financial_figures",
			Passed:     false,
			Confidence: 0.2,
			Details:    "application form missing, no income figure available",
		}
	}

	income, err := parseAmount(form["income"])
	if err != nil {
		return CheckResult{
			Check:      "financial_figures",
			Passed:     false,
			Confidence: 0.4,
			Details:    fmt.Sprintf("income figure unreadable: %v", err),
		}
	}
	if income < 0 {
		return CheckResult{
			Check:      "financial_figures",
			Passed:     false,
			Confidence: 0.4,
			Details:    fmt.Sprintf("income figure negative: %.2f", income),
		}
	}

	return CheckResult{
		Check:      "financial_figures",
		Passed:     true,
		Confidence: 0.9,
		Details:    "income figure present and parseable",
	}
}

func (h *Handler) missingDocuments(input *Input) []string {
	var missing []string
	for _, doc := range models.RequiredDocuments {
		fields, ok := input.ExtractedData[doc]
		if !ok || len(fields) == 0 {
			missing = append(missing, doc)
		}
	}
	return missing
}

func (h *Handler) collectNames(data models.RawExtractedFields) []string {
	var names []string
	for _, doc := range models.RequiredDocuments {
		fields, ok := data[doc]
		if !ok {
			continue
		}
		for _, field := range nameFields {
			if raw, ok := fields[field]; ok {
				if name, ok := raw.(string); ok && strings.TrimSpace(name) != "" {
					names = append(names, strings.TrimSpace(name))
					break
				}
			}
		}
	}
	return names
}

// jaccardSimilarity is word-overlap similarity over lowercased tokens, which
// tolerates reordered and partially abbreviated names.
func jaccardSimilarity(a, b string) float64 {
	wordsA := tokenize(a)
	wordsB := tokenize(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	union := make(map[string]bool, len(wordsA)+len(wordsB))
	for w := range wordsA {
		union[w] = true
		if wordsB[w] {
			intersection++
		}
	}
	for w := range wordsB {
		union[w] = true
	}

	return float64(intersection) / float64(len(union))
}

func tokenize(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		words[w] = true
	}
	return words
}

func parseAmount(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		cleaned := strings.ReplaceAll(v, ",", "")
		cleaned = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cleaned), "AED"))
		return strconv.ParseFloat(cleaned, 64)
	case nil:
		return 0, fmt.Errorf("value missing")
	default:
		return 0, fmt.Errorf("not a number: %T", raw)
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
