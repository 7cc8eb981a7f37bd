// Package errors renders the JSON error envelope returned by the HTTP API:
// a human message plus an optional description of the underlying error.
package errors

import (
	"fmt"
	"net/http"
)

// Error kinds reported in Detail.Name.
const (
	KindValidation = "ValidationError"
	KindDatabase   = "DatabaseError"
	KindUpload     = "UploadError"
	KindGeneric    = "Error"
)

// Body is the wire shape of every error response.
type Body struct {
	Message string  `json:"message"`
	Error   *Detail `json:"error,omitempty"`
}

// Detail describes the error that caused a failed operation.
type Detail struct {
	Name       string   `json:"name"`
	Detail     string   `json:"detail"`
	Fields     []string `json:"fields,omitempty"`
	Code       string   `json:"code,omitempty"`
	Constraint string   `json:"constraint,omitempty"`
}

// Problem pairs an HTTP status with the response body.
type Problem struct {
	Status  int
	Message string
	Detail  *Detail
}

// Error implements the error interface.
func (p Problem) Error() string {
	if p.Detail != nil && p.Detail.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Message, p.Detail.Detail)
	}
	return p.Message
}

// WithDetail returns a copy carrying detail.
func (p Problem) WithDetail(detail Detail) Problem {
	p.Detail = &detail
	return p
}

// Body returns the serializable form.
func (p Problem) Body() Body {
	return Body{Message: p.Message, Error: p.Detail}
}

// New builds a problem without error detail.
func New(status int, message string) Problem {
	return Problem{Status: status, Message: message}
}

// NotFound builds a 404 problem.
func NotFound(message string) Problem {
	return New(http.StatusNotFound, message)
}

// BadRequest builds a 400 problem.
func BadRequest(message string) Problem {
	return New(http.StatusBadRequest, message)
}

// Internal builds a 500 problem.
func Internal(message string) Problem {
	return New(http.StatusInternalServerError, message)
}
