package dto

// ErrorResponse is the JSON error envelope returned by every handler.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
