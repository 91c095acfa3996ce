// Package response shapes every JSON body the API returns.
package response

import (
	"time"

	"dashboard-api/internal/domain"
)

const (
	MsgOK        = "Operation completed successfully"
	MsgRetrieved = "Data retrieved successfully"
	MsgDeleted   = "Entity deleted successfully"
)

// StandardApiResponse is the success envelope.
type StandardApiResponse[T any] struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Data       T                      `json:"data"`
	Pagination *domain.PaginationInfo `json:"pagination,omitempty"`
	Timestamp  string                 `json:"timestamp"`
	Path       string                 `json:"path"`
}

// MessageResponse is a success envelope without data.
type MessageResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
	Path      string `json:"path,omitempty"`
}

// ErrorResponse is the failure envelope; it never carries data.
type ErrorResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Error     string              `json:"error"`
	Fields    []domain.FieldError `json:"fields,omitempty"`
	Path      string              `json:"path"`
	Timestamp string              `json:"timestamp"`
	RequestID string              `json:"request_id,omitempty"`
}

// Timestamp formats t the way every envelope does.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Transformer maps entities E to response DTOs R and wraps them in envelopes.
type Transformer[E, R any] struct {
	transform func(E) R
	path      string
	now       func() time.Time
}

// NewTransformer panics on a nil transform; it is wired once at startup.
func NewTransformer[E, R any](path string, transform func(E) R) *Transformer[E, R] {
	if transform == nil {
		panic("response: nil transform for " + path)
	}
	return &Transformer[E, R]{transform: transform, path: path, now: time.Now}
}

// WithClock returns a copy using now for timestamps.
func (t *Transformer[E, R]) WithClock(now func() time.Time) *Transformer[E, R] {
	cp := *t
	cp.now = now
	return &cp
}

func (t *Transformer[E, R]) Transform(e E) R { return t.transform(e) }

func (t *Transformer[E, R]) Path() string { return t.path }

func (t *Transformer[E, R]) Now() time.Time { return t.now() }

func (t *Transformer[E, R]) ToResponse(e E) StandardApiResponse[R] {
	return StandardApiResponse[R]{
		Success:   true,
		Message:   MsgOK,
		Data:      t.transform(e),
		Timestamp: Timestamp(t.now()),
		Path:      t.path,
	}
}

// ToPaginatedResponse keeps item order and attaches p unchanged.
func (t *Transformer[E, R]) ToPaginatedResponse(items []E, p domain.PaginationInfo) StandardApiResponse[[]R] {
	out := make([]R, len(items))
	for i, e := range items {
		out[i] = t.transform(e)
	}
	return StandardApiResponse[[]R]{
		Success:    true,
		Message:    MsgRetrieved,
		Data:       out,
		Pagination: &p,
		Timestamp:  Timestamp(t.now()),
		Path:       t.path,
	}
}

func (t *Transformer[E, R]) Deleted() MessageResponse {
	return MessageResponse{Success: true, Message: MsgDeleted, Timestamp: Timestamp(t.now()), Path: t.path}
}
