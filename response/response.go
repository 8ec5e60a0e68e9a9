// Package response defines the JSON envelopes returned to API clients.
//
// Failed requests are wrapped in an ErrorResponse carrying one
// ErrorInformation and, for validation failures, the offending
// property failures. Successful requests use the plain Response
// envelope so both share a single content-based shape.
package response

import (
	"github.com/apifault/apifault/failure"
)

// ErrorInformation describes the failure category returned to clients.
type ErrorInformation struct {
	// Title is the human-readable failure summary.
	Title string `json:"title"`
	// Type is the category code, a numeric status code as string when set.
	Type string `json:"type,omitempty"`
}

// NewErrorInformation creates the descriptive part of an error response.
func NewErrorInformation(title, errType string) ErrorInformation {
	return ErrorInformation{
		Title: title,
		Type:  errType,
	}
}

// ErrorResponse is the envelope returned for failed requests.
type ErrorResponse struct {
	// Error describes the failure category.
	Error ErrorInformation `json:"error"`
	// Content lists the property failures for validation categories,
	// omitted otherwise.
	Content []failure.PropertyFailure `json:"content,omitempty"`
}

// NewError assembles an error envelope from its information and the
// optional property failures. Every failure category funnels through
// this single constructor.
func NewError(info ErrorInformation, content []failure.PropertyFailure) ErrorResponse {
	return ErrorResponse{
		Error:   info,
		Content: content,
	}
}

// Response is the envelope returned for successful requests.
type Response struct {
	Content any `json:"content"`
}

// New wraps a payload in the success envelope.
func New(content any) Response {
	return Response{Content: content}
}
