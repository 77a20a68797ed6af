package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeState      ErrorType = "STATE_ERROR"
	ErrorTypeTooEarly   ErrorType = "TOO_EARLY"
	ErrorTypePermission ErrorType = "PERMISSION_ERROR"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidTimeRange ErrorCode = "INVALID_TIME_RANGE"
	ErrCodeInvalidPeriod    ErrorCode = "INVALID_PERIOD"

	ErrCodeShiftNotFound  ErrorCode = "SHIFT_NOT_FOUND"
	ErrCodeShiftInactive  ErrorCode = "SHIFT_INACTIVE"
	ErrCodeShiftNotOwned  ErrorCode = "SHIFT_NOT_OWNED"
	ErrCodeShiftOverlap   ErrorCode = "SHIFT_OVERLAP"

	ErrCodeTimeEntryNotFound ErrorCode = "TIME_ENTRY_NOT_FOUND"
	ErrCodeAlreadyClockedIn  ErrorCode = "ALREADY_CLOCKED_IN"
	ErrCodeAlreadyClockedOut ErrorCode = "ALREADY_CLOCKED_OUT"
	ErrCodeClockInTooEarly   ErrorCode = "CLOCK_IN_TOO_EARLY"
	ErrCodeNotTimeEntryOwner ErrorCode = "NOT_TIME_ENTRY_OWNER"

	ErrCodePayPeriodNotFound  ErrorCode = "PAY_PERIOD_NOT_FOUND"
	ErrCodeDuplicatePayPeriod ErrorCode = "DUPLICATE_PAY_PERIOD"
	ErrCodePayPeriodPaid      ErrorCode = "PAY_PERIOD_PAID"
	ErrCodePeriodNotDue       ErrorCode = "PERIOD_NOT_DUE"

	ErrCodeEmployeeNotFound ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeMissingPayConfig ErrorCode = "MISSING_PAY_CONFIG"
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

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewStateError reports an operation that is invalid for the entity's current
// status, e.g. clocking out an entry twice or mutating a PAID pay period.
func NewStateError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeState,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewTooEarlyError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeTooEarly,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewPermissionError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypePermission,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
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
