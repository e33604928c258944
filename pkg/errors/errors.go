package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared by the storefront packages.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInternal      = errors.New("internal error")
	ErrConflict      = errors.New("conflict")
	ErrPaymentFailed = errors.New("payment failed")
)

// internalMessage is all a client sees of a 500.
const internalMessage = "an internal error occurred"

// kind maps a sentinel to its wire code and status. detail reports whether
// the wrapped error text is safe to return to clients.
type kind struct {
	sentinel error
	code     string
	status   int
	detail   bool
}

var kinds = []kind{
	{ErrNotFound, "NOT_FOUND", http.StatusNotFound, false},
	{ErrInvalidInput, "INVALID_INPUT", http.StatusBadRequest, true},
	{ErrConflict, "CONFLICT", http.StatusConflict, true},
	{ErrPaymentFailed, "PAYMENT_FAILED", http.StatusUnprocessableEntity, true},
}

var internalKind = kind{ErrInternal, "INTERNAL_ERROR", http.StatusInternalServerError, false}

// AppError is a structured application error carrying its HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(k kind, message string, cause error) *AppError {
	return &AppError{Code: k.code, Message: message, Status: k.status, Err: cause}
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return newError(kinds[0], fmt.Sprintf("%s with id %s not found", resource, id), ErrNotFound)
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return newError(kinds[1], message, ErrInvalidInput)
}

// Conflict creates a 409 error, used when a request does not fit the current screen.
func Conflict(message string) *AppError {
	return newError(kinds[2], message, ErrConflict)
}

// PaymentFailed creates a 422 error for a payment that cannot go through.
func PaymentFailed(message string) *AppError {
	return newError(kinds[3], message, ErrPaymentFailed)
}

// Internal creates a 500 error. The cause is kept for logs only.
func Internal(err error) *AppError {
	return newError(internalKind, internalMessage, err)
}

// Classify returns the wire code, status and client-safe message for err.
// An *AppError anywhere in the chain wins; otherwise the first matching
// sentinel decides, and anything unrecognised is an internal error.
func Classify(err error) (code string, status int, message string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, appErr.Status, appErr.Message
	}
	for _, k := range kinds {
		if !errors.Is(err, k.sentinel) {
			continue
		}
		if k.detail {
			return k.code, k.status, err.Error()
		}
		return k.code, k.status, k.sentinel.Error()
	}
	return internalKind.code, internalKind.status, internalMessage
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	_, status, _ := Classify(err)
	return status
}
