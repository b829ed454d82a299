// Package apierror defines the JSON error envelopes the API returns to the
// booking and production screens. Handlers never hand gorm or engine errors
// to clients directly; everything crosses the wire as one of these shapes so
// the frontend can always read "detail" and, on validation failures, a map
// of offending fields.
package apierror

// Error is the body of every 4xx/5xx response.
type Error struct {
	Detail string `json:"detail"`
	// Fields carries per-field messages on validation failures, keyed by
	// the JSON name the client sent. Omitted otherwise.
	Fields map[string]string `json:"fields,omitempty"`
}

func New(detail string) *Error {
	return &Error{Detail: detail}
}

// NewValidation reports binding problems on event, comanda and order payloads.
func NewValidation(fields map[string]string) *Error {
	return &Error{Detail: "Datos de entrada no válidos", Fields: fields}
}
