// internal/workers/assessment/extract-document-data/handler.go
package extractdocumentdata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"

	"social-support-workers/internal/common/http"
	"social-support-workers/internal/common/logger"
	"social-support-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
)

const (
	TaskType = "extract-document-data"
)

var (
	ErrDocumentNotFound  = errors.New("DOCUMENT_NOT_FOUND")
	ErrExtractionFailed  = errors.New("DOCUMENT_EXTRACTION_FAILED")
	ErrExtractionTimeout = errors.New("EXTRACTION_TIMEOUT")
)

type Handler struct {
	config *Config
	es     *elasticsearch.Client
	http   *http.Client
	logger logger.Logger
}

func NewHandler(config *Config, esClient *elasticsearch.Client, httpClient *http.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		es:     esClient,
		http:   httpClient,
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
		h.failJob(client, job, h.mapErrorToCode(err), err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ApplicationID == "" {
		return nil, fmt.Errorf("%w: missing application id", ErrExtractionFailed)
	}

	data := models.RawExtractedFields{}
	sources := map[string]string{}

	// Inline documents win over anything in the store.
	for docType, fields := range input.InlineDocuments {
		if len(fields) == 0 {
			continue
		}
		data[docType] = fields
		sources[docType] = "inline"
	}

	stored, err := h.fetchStoredDocuments(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	for _, doc := range stored {
		if _, taken := data[doc.DocumentType]; taken {
			continue
		}
		if len(doc.Fields) > 0 {
			data[doc.DocumentType] = doc.Fields
			sources[doc.DocumentType] = "store"
			continue
		}
		if doc.RawText != "" && h.config.ServiceURL != "" {
			fields, err := h.extractViaService(ctx, doc)
			if err != nil {
				h.logger.Warn("extraction service failed for document", map[string]interface{}{
					"applicationId": input.ApplicationID,
					"documentType":  doc.DocumentType,
					"error":         err.Error(),
				})
				continue
			}
			data[doc.DocumentType] = fields
			sources[doc.DocumentType] = "service"
		}
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no documents for application %s", ErrDocumentNotFound, input.ApplicationID)
	}

	output := &Output{
		ApplicationID: input.ApplicationID,
		ApplicantName: h.applicantName(data),
		ExtractedData: data,
		DocumentCount: len(data),
		Sources:       sources,
	}

	h.logger.Info("document data extracted", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"documentCount": output.DocumentCount,
		"applicantName": output.ApplicantName,
	})

	return output, nil
}

func (h *Handler) fetchStoredDocuments(ctx context.Context, applicationID string) ([]storedDocument, error) {
	if h.es == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`{
		"query": {"term": {"applicationId": %q}},
		"size": 50
	}`, applicationID)

	res, err := h.es.Search(
		h.es.Search.WithContext(ctx),
		h.es.Search.WithIndex(h.config.DocumentIndex),
		h.es.Search.WithBody(strings.NewReader(query)),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrExtractionTimeout
		}
		return nil, fmt.Errorf("%w: search documents: %v", ErrExtractionFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		// A missing index means no documents were ever stored, which the
		// not-found path reports with more context.
		if res.StatusCode == nethttp.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: search returned %s", ErrExtractionFailed, res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", ErrExtractionFailed, err)
	}

	docs := make([]storedDocument, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}

func (h *Handler) extractViaService(ctx context.Context, doc storedDocument) (map[string]interface{}, error) {
	body, err := json.Marshal(extractionRequest{
		DocumentType: doc.DocumentType,
		RawText:      doc.RawText,
	})
	if err != nil {
		return nil, err
	}

	req, err := nethttp.NewRequest(nethttp.MethodPost, h.config.ServiceURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.http.DoWithContext(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("extraction service returned %d: %s", resp.StatusCode, payload)
	}

	var parsed extractionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Fields) == 0 {
		return nil, errors.New("extraction service returned no fields")
	}
	return parsed.Fields, nil
}

func (h *Handler) applicantName(data models.RawExtractedFields) string {
	for _, docType := range []string{models.DocApplicationForm, models.DocEmiratesID, models.DocResume} {
		fields, ok := data[docType]
		if !ok {
			continue
		}
		for _, field := range []string{"name", "full_name", "applicant_name"} {
			if name, ok := fields[field].(string); ok && strings.TrimSpace(name) != "" {
				return strings.TrimSpace(name)
			}
		}
	}
	return ""
}

func (h *Handler) mapErrorToCode(err error) string {
	switch {
	case errors.Is(err, ErrDocumentNotFound):
		return "DOCUMENT_NOT_FOUND"
	case errors.Is(err, ErrExtractionTimeout):
		return "EXTRACTION_TIMEOUT"
	default:
		return "DOCUMENT_EXTRACTION_FAILED"
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
