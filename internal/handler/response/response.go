package response

import (
	"encoding/json"
	"net/http"
)

// Error codes carried in the error envelope
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeSearchFailed = "SEARCH_FAILED"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorBody describes a failed request
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every 4xx/5xx answer
type ErrorResponse struct {
	Error   ErrorBody `json:"error"`
	Success bool      `json:"success"`
}

// JSON writes v with the given status
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes the error envelope
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorResponse{
		Error:   ErrorBody{Code: code, Message: message},
		Success: false,
	})
}

// MethodNotAllowed is the shared answer for a wrong HTTP method
func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
}
