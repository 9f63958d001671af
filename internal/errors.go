package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation          ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound            ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized        ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden           ErrorType = "FORBIDDEN"
	ErrorTypeConflict            ErrorType = "CONFLICT"
	ErrorTypeInsufficientBalance ErrorType = "INSUFFICIENT_BALANCE"
	ErrorTypeInternal            ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidPoints    ErrorCode = "INVALID_POINTS"
	ErrCodeInvalidContent   ErrorCode = "INVALID_CONTENT"
	ErrCodeInvalidRecipient ErrorCode = "INVALID_RECIPIENT"

	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodePostNotFound        ErrorCode = "POST_NOT_FOUND"
	ErrCodeCommentNotFound     ErrorCode = "COMMENT_NOT_FOUND"
	ErrCodeTransactionNotFound ErrorCode = "TRANSACTION_NOT_FOUND"

	ErrCodeCrossCompany    ErrorCode = "CROSS_COMPANY_ACCESS"
	ErrCodeAdminRequired   ErrorCode = "ADMIN_REQUIRED"
	ErrCodeSelfTarget      ErrorCode = "SELF_TARGET_FORBIDDEN"
	ErrCodeUserDeactivated ErrorCode = "USER_DEACTIVATED"

	ErrCodeInsufficientBalance ErrorCode = "INSUFFICIENT_GIVEABLE_POINTS"

	ErrCodeAlreadyLiked  ErrorCode = "ALREADY_LIKED"
	ErrCodeNotLiked      ErrorCode = "NOT_LIKED"
	ErrCodeEmailTaken    ErrorCode = "EMAIL_ALREADY_REGISTERED"
	ErrCodeDuplicateRow  ErrorCode = "DUPLICATE_ROW"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Join() string {
	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Message
	}
	return strings.Join(messages, "; ")
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInsufficientBalanceError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInsufficientBalance,
		Code:       ErrCodeInsufficientBalance,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrUserNotFound        = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrPostNotFound        = NewNotFoundError("post not found", ErrCodePostNotFound)
	ErrCommentNotFound     = NewNotFoundError("comment not found", ErrCodeCommentNotFound)
	ErrCrossCompany        = NewForbiddenError("resource belongs to another company", ErrCodeCrossCompany)
	ErrAdminRequired       = NewForbiddenError("admin role required", ErrCodeAdminRequired)
	ErrSelfTarget          = NewValidationError("operation cannot target yourself", ErrCodeSelfTarget)
	ErrUserDeactivated     = NewForbiddenError("user account is deactivated", ErrCodeUserDeactivated)
	ErrInsufficientBalance = NewInsufficientBalanceError("not enough giveable points")
	ErrAlreadyLiked        = NewConflictError("already liked", ErrCodeAlreadyLiked)
	ErrNotLiked            = NewConflictError("not liked", ErrCodeNotLiked)
	ErrEmailTaken          = NewConflictError("email already registered", ErrCodeEmailTaken)

	ErrInvalidCredentials = NewUnauthorizedError("invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
