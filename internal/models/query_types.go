// internal/models/query_types.go
package models

// QueryType names a registered read-only query served by the query-postgresql
// worker.
type QueryType string

const (
	QueryTypeApplicationDetails QueryType = "application_details"
	QueryTypeApplicationHistory QueryType = "application_history"
	QueryTypeDecisionDetails    QueryType = "decision_details"
	QueryTypeApplicantProfile   QueryType = "applicant_profile"
	QueryTypePendingReviews     QueryType = "pending_reviews"
)
