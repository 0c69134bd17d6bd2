package lifecycle

import (
	"errors"
	"fmt"
)

// Kind sentinels, usable with errors.Is against any *Error.
var (
	ErrValidation    = errors.New("validation failed")
	ErrStateConflict = errors.New("invalid state transition")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrStore         = errors.New("store failure")
)

// Error codes surfaced to API callers.
const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeServerError             = "SERVER_ERROR"
	CodeForbidden               = "FORBIDDEN"
	CodeNotFound                = "TRANSACTION_NOT_FOUND"
	CodeInvalidState            = "INVALID_TRANSACTION_STATE"
	CodeInvalidStateTransition  = "INVALID_STATE_TRANSITION"
	CodeInvalidRejectionReason  = "INVALID_REJECTION_REASON"
	CodeInvalidSubmission       = "INVALID_SUBMISSION_PAYLOAD"
	CodeNoTransactionsVerified  = "NO_TRANSACTIONS_VERIFIED"
	CodeNoTransactionsSubmitted = "NO_TRANSACTIONS_SUBMITTED"
)

// Field error codes.
const (
	CodeFieldRequired   = "FIELD_REQUIRED"
	CodeInvalidNumeric  = "INVALID_NUMERIC"
	CodeInvalidAmount   = "INVALID_AMOUNT"
	CodeInvalidCurrency = "INVALID_CURRENCY"
	CodeInvalidProvider = "INVALID_PROVIDER"
	CodeInvalidSwift    = "INVALID_SWIFT_CODE"
	CodeInvalidStatus   = "INVALID_STATUS"
	CodeInvalidLength   = "INVALID_LENGTH"
	CodeInvalidID       = "INVALID_ID"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error is the structured failure returned by every engine operation.
type Error struct {
	Kind    error
	Code    string
	Message string
	Field   string
	Details []FieldError
	Err     error
}

func (e *Error) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// AsError extracts the structured error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func validationError(details []FieldError) *Error {
	e := &Error{
		Kind:    ErrValidation,
		Code:    CodeValidation,
		Message: "Validation failed",
		Details: details,
	}
	if len(details) > 0 {
		e.Field = details[0].Field
	}
	return e
}

func invalidInput(code, field, message string) *Error {
	return &Error{Kind: ErrValidation, Code: code, Field: field, Message: message}
}

func stateConflict(code, message string) *Error {
	return &Error{Kind: ErrStateConflict, Code: code, Message: message}
}

func forbidden(message string) *Error {
	return &Error{Kind: ErrForbidden, Code: CodeForbidden, Message: message}
}

func notFound(id string) *Error {
	return &Error{Kind: ErrNotFound, Code: CodeNotFound, Message: fmt.Sprintf("Transaction %s was not found", id)}
}

func storeFailure(message string, err error) *Error {
	return &Error{Kind: ErrStore, Code: CodeServerError, Message: message, Err: err}
}
