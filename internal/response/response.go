// Package response defines the JSON envelopes and error codes shared by all handlers.
package response

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeCancelled    = "REQUEST_CANCELLED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// RequestIDKey is the gin context key the request id middleware stores under
const RequestIDKey = "request_id"

// SuccessResponse wraps a successful payload
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"requestId,omitempty"`
}

// ErrorResponse wraps an error payload
type ErrorResponse struct {
	Error     interface{} `json:"error"`
	RequestID string      `json:"requestId,omitempty"`
}

// ErrorDetail is the body of ErrorResponse.Error
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagedResult is the data payload of list endpoints
type PagedResult struct {
	Items      interface{} `json:"items"`
	TotalCount int64       `json:"totalCount"`
	Page       int         `json:"page"`
	Size       int         `json:"size"`
}

// AppError is an error carrying an API error code
type AppError struct {
	Code    string
	Message string
	Details string
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAppError creates an AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewValidationError creates a VALIDATION_ERROR AppError
func NewValidationError(message, details string) *AppError {
	return NewAppError(ErrCodeValidation, message, details)
}

// NewNotFoundError creates a NOT_FOUND AppError
func NewNotFoundError(message, details string) *AppError {
	return NewAppError(ErrCodeNotFound, message, details)
}

// NewConflictError creates a CONFLICT AppError
func NewConflictError(message, details string) *AppError {
	return NewAppError(ErrCodeConflict, message, details)
}

// SendSuccess writes data in a SuccessResponse envelope
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{
		Data:      data,
		RequestID: c.GetString(RequestIDKey),
	})
}

// SendError writes an ErrorResponse and aborts the handler chain
func SendError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     ErrorDetail{Code: code, Message: message},
		RequestID: c.GetString(RequestIDKey),
	})
}
