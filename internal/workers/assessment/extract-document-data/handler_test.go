// internal/workers/assessment/extract-document-data/handler_test.go
package extractdocumentdata

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"social-support-workers/internal/common/http"
	"social-support-workers/internal/common/logger"
	"social-support-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeElasticsearch(t *testing.T, docs []storedDocument) *elasticsearch.Client {
	t.Helper()

	ts := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		var resp searchResponse
		for _, doc := range docs {
			hit := struct {
				Source storedDocument `json:"_source"`
			}{Source: doc}
			resp.Hits.Hits = append(resp.Hits.Hits, hit)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(ts.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{ts.URL}})
	require.NoError(t, err)
	return client
}

func newErrorElasticsearch(t *testing.T, status int) *elasticsearch.Client {
	t.Helper()

	ts := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{}}`))
	}))
	t.Cleanup(ts.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{ts.URL}})
	require.NoError(t, err)
	return client
}

func newTestHandler(t *testing.T, es *elasticsearch.Client, serviceURL string) *Handler {
	t.Helper()
	cfg := &Config{
		Timeout:       10 * time.Second,
		DocumentIndex: "applicant-documents",
		ServiceURL:    serviceURL,
	}
	return NewHandler(cfg, es, http.NewClient(5*time.Second), logger.NewTestLogger(t))
}

func TestExecuteInlineDocumentsOnly(t *testing.T) {
	h := newTestHandler(t, nil, "")

	output, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-301",
		InlineDocuments: models.RawExtractedFields{
			models.DocApplicationForm: {
				"name":   "Omar Khalil",
				"income": "6,000 AED",
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.DocumentCount)
	assert.Equal(t, "Omar Khalil", output.ApplicantName)
	assert.Equal(t, "inline", output.Sources[models.DocApplicationForm])
}

func TestExecuteFetchesFromStore(t *testing.T) {
	es := newFakeElasticsearch(t, []storedDocument{
		{
			ApplicationID: "app-302",
			DocumentType:  models.DocApplicationForm,
			Fields:        map[string]interface{}{"name": "Omar Khalil", "income": float64(4000)},
		},
		{
			ApplicationID: "app-302",
			DocumentType:  models.DocCreditReport,
			Fields:        map[string]interface{}{"credit_score": float64(620)},
		},
	})
	h := newTestHandler(t, es, "")

	output, err := h.Execute(context.Background(), &Input{ApplicationID: "app-302"})

	require.NoError(t, err)
	assert.Equal(t, 2, output.DocumentCount)
	assert.Equal(t, "store", output.Sources[models.DocApplicationForm])
	assert.Equal(t, "store", output.Sources[models.DocCreditReport])
	assert.Equal(t, "Omar Khalil", output.ApplicantName)
	assert.Equal(t, float64(620), output.ExtractedData[models.DocCreditReport]["credit_score"])
}

func TestExecuteInlineTakesPrecedence(t *testing.T) {
	es := newFakeElasticsearch(t, []storedDocument{
		{
			ApplicationID: "app-303",
			DocumentType:  models.DocApplicationForm,
			Fields:        map[string]interface{}{"name": "Stale Name", "income": float64(1)},
		},
	})
	h := newTestHandler(t, es, "")

	output, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-303",
		InlineDocuments: models.RawExtractedFields{
			models.DocApplicationForm: {
				"name":   "Corrected Name",
				"income": float64(5000),
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "inline", output.Sources[models.DocApplicationForm])
	assert.Equal(t, "Corrected Name", output.ApplicantName)
	assert.Equal(t, float64(5000), output.ExtractedData[models.DocApplicationForm]["income"])
}

func TestExecuteServiceFallback(t *testing.T) {
	service := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/extract", r.URL.Path)

		var req extractionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.DocBankStatement, req.DocumentType)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(extractionResponse{
			Fields: map[string]interface{}{"account_holder": "Omar Khalil"},
		})
	}))
	defer service.Close()

	es := newFakeElasticsearch(t, []storedDocument{
		{
			ApplicationID: "app-304",
			DocumentType:  models.DocBankStatement,
			RawText:       "Statement for Omar Khalil ...",
		},
	})
	h := newTestHandler(t, es, service.URL)

	output, err := h.Execute(context.Background(), &Input{ApplicationID: "app-304"})

	require.NoError(t, err)
	assert.Equal(t, "service", output.Sources[models.DocBankStatement])
	assert.Equal(t, "Omar Khalil", output.ExtractedData[models.DocBankStatement]["account_holder"])
}

func TestExecuteServiceFailureSkipsDocument(t *testing.T) {
	service := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusInternalServerError)
	}))
	defer service.Close()

	es := newFakeElasticsearch(t, []storedDocument{
		{
			ApplicationID: "app-305",
			DocumentType:  models.DocApplicationForm,
			Fields:        map[string]interface{}{"income": float64(3000)},
		},
		{
			ApplicationID: "app-305",
			DocumentType:  models.DocBankStatement,
			RawText:       "unparsed",
		},
	})
	h := newTestHandler(t, es, service.URL)

	output, err := h.Execute(context.Background(), &Input{ApplicationID: "app-305"})

	require.NoError(t, err)
	assert.Equal(t, 1, output.DocumentCount)
	assert.NotContains(t, output.Sources, models.DocBankStatement)
}

func TestExecuteNoDocuments(t *testing.T) {
	es := newFakeElasticsearch(t, nil)
	h := newTestHandler(t, es, "")

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "app-306"})
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.Equal(t, "DOCUMENT_NOT_FOUND", h.mapErrorToCode(err))
}

func TestExecuteMissingIndexTreatedAsEmpty(t *testing.T) {
	es := newErrorElasticsearch(t, nethttp.StatusNotFound)
	h := newTestHandler(t, es, "")

	output, err := h.Execute(context.Background(), &Input{
		ApplicationID: "app-307",
		InlineDocuments: models.RawExtractedFields{
			models.DocApplicationForm: {"income": float64(2000)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.DocumentCount)
}

func TestExecuteSearchError(t *testing.T) {
	es := newErrorElasticsearch(t, nethttp.StatusInternalServerError)
	h := newTestHandler(t, es, "")

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "app-308"})
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExecuteMissingApplicationID(t *testing.T) {
	h := newTestHandler(t, nil, "")

	_, err := h.Execute(context.Background(), &Input{})
	assert.ErrorIs(t, err, ErrExtractionFailed)
}
