// internal/workers/data-access/query-documents/queries/builders.go
package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// DocumentQuery defines the structure of a document store query request
type DocumentQuery struct {
	Index         string
	QueryType     string
	Filters       map[string]interface{}
	ApplicationID string
	DocumentType  string
	Pagination    struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters
func BuildQuery(esClient *elasticsearch.Client, dq DocumentQuery) (*esapi.SearchRequest, error) {
	if dq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch dq.QueryType {
	case "application_documents":
		queryBody = buildApplicationDocumentsQuery(dq)
	case "document_search":
		queryBody = buildDocumentSearchQuery(dq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, dq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index:  []string{dq.Index},
		Body:   strings.NewReader(string(body)),
		From:   &dq.Pagination.From,
		Size:   &dq.Pagination.Size,
		Pretty: true,
	}

	return &req, nil
}

// buildApplicationDocumentsQuery fetches all stored documents for one
// application, optionally narrowed to a single document type.
func buildApplicationDocumentsQuery(dq DocumentQuery) map[string]interface{} {
	if dq.ApplicationID == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	filterClauses := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"applicationId": dq.ApplicationID},
		},
	}

	if dq.DocumentType != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"documentType": dq.DocumentType},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filterClauses,
			},
		},
		"sort": []map[string]interface{}{{"uploadedAt": "desc"}},
	}
}

// buildDocumentSearchQuery builds the general document search query dynamically
func buildDocumentSearchQuery(dq DocumentQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	// Full-text search over extracted text
	if keywords, ok := dq.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"rawText^2", "fields.name^3", "fields.employment_status"},
				"type":   "best_fields",
			},
		})
	}

	// Applicant filter
	if applicantID, ok := dq.Filters["applicantId"].(string); ok && applicantID != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"applicantId": applicantID},
		})
	}

	// Document type filter
	if docType, ok := dq.Filters["documentType"].(string); ok && docType != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"documentType": docType},
		})
	} else if dq.DocumentType != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"documentType": dq.DocumentType},
		})
	}

	// Upload date range filter
	if uploaded, ok := dq.Filters["uploadedRange"].(map[string]interface{}); ok {
		rangeClause := map[string]interface{}{}
		if from, ok := uploaded["from"].(string); ok && from != "" {
			rangeClause["gte"] = from
		}
		if to, ok := uploaded["to"].(string); ok && to != "" {
			rangeClause["lte"] = to
		}
		if len(rangeClause) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{"uploadedAt": rangeClause},
			})
		}
	}

	// Default match_all if no keyword
	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	// Sorting logic
	if sortBy, ok := dq.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "uploadedAt":
			query["sort"] = []map[string]interface{}{{"uploadedAt": "desc"}}
		case "documentType":
			query["sort"] = []map[string]interface{}{{"documentType": "asc"}}
		}
	}

	return query
}
