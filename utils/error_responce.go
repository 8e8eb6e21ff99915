package utils

// ErrorResponse is a struct for error response
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NewErrorResponse uses msg for both fields, which older clients read
// interchangeably.
func NewErrorResponse(msg string) ErrorResponse {
	return ErrorResponse{Message: msg, Error: msg}
}
