package model

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}
