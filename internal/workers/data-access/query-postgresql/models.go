// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

type Input struct {
	QueryType     string                 `json:"queryType"`
	ApplicationID string                 `json:"applicationId,omitempty"`
	ApplicantID   string                 `json:"applicantId,omitempty"`
	Filters       map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}
