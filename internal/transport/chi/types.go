package chi

import (
	"github.com/kailas-cloud/layersearch/internal/domain/criteria"
	"github.com/kailas-cloud/layersearch/internal/domain/search/page"
)

// ErrorCode is the machine-readable error category.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeInvalidScope     ErrorCode = "invalid_scope"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeEmptyExport      ErrorCode = "empty_export"
	ErrorCodeSuperseded       ErrorCode = "superseded"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SessionResponse identifies a session.
type SessionResponse struct {
	ID string `json:"id"`
}

// CriterionIDResponse identifies a new criterion.
type CriterionIDResponse struct {
	ID int `json:"id"`
}

// CriteriaResponse lists a session's criteria in order.
type CriteriaResponse struct {
	Items []criteria.Criterion `json:"items"`
}

// UpdateCriterionRequest changes one criterion attribute.
type UpdateCriterionRequest struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// SearchRequest starts a search over a scope selector; empty means all layers.
type SearchRequest struct {
	Scope string `json:"scope"`
}

// LayerCount is the number of matches in one layer.
type LayerCount struct {
	Ref   string `json:"ref"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// LayerFailure is one isolated layer failure.
type LayerFailure struct {
	Ref     string `json:"ref"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// RecordResponse is one matched feature.
type RecordResponse struct {
	Layer      string         `json:"layer"`
	Attributes map[string]any `json:"attributes"`
}

// PageResponse is one page of the visible records.
type PageResponse struct {
	Page    page.Page        `json:"page"`
	Filter  string           `json:"filter,omitempty"`
	Visible int              `json:"visible"`
	Items   []RecordResponse `json:"items"`
}

// SearchResponse summarizes a finished search.
type SearchResponse struct {
	ID         string         `json:"id"`
	Generation uint64         `json:"generation"`
	Total      int            `json:"total"`
	Layers     []LayerCount   `json:"layers"`
	Failures   []LayerFailure `json:"failures"`
	First      PageResponse   `json:"first_page"`
}

// ValuesResponse lists sampled field values.
type ValuesResponse struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}

// LayerNode is one catalog entry.
type LayerNode struct {
	Ref      string      `json:"ref"`
	Title    string      `json:"title"`
	Table    string      `json:"table,omitempty"`
	Children []LayerNode `json:"children,omitempty"`
}

// LayersResponse is the catalog tree.
type LayersResponse struct {
	Items []LayerNode `json:"items"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
