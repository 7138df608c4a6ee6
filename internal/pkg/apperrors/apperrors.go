package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Code classifies expected failures so every layer can react without string
// matching (repository -> service -> handler).
type Code string

const (
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeUnknown       Code = "UNKNOWN"
)

// Error is the structured error carried through service boundaries.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound marks a referenced entity that no longer exists at use time.
func NotFound(entity string) *Error {
	return &Error{Code: CodeNotFound, Message: entity + " not found"}
}

// AlreadyExists marks a uniqueness violation (e.g. duplicate legal identifier).
func AlreadyExists(entity string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: entity + " already exists"}
}

// Validation marks input rejected before any state mutation or remote call.
func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// Unauthorized marks a missing or invalid authenticated identity.
func Unauthorized() *Error {
	return &Error{Code: CodeUnauthorized, Message: "Not authenticated"}
}

// Unknown wraps an unclassified backend or network failure.
func Unknown(message string) *Error {
	if message == "" {
		message = "An unknown error occurred"
	}
	return &Error{Code: CodeUnknown, Message: message}
}

// Wrap converts any error into an *Error, passing structured errors through
// untouched so codes survive layer crossings.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Code: CodeUnknown, Message: err.Error()}
}

// CodeOf extracts the code from an error chain; plain errors are UNKNOWN.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// HTTPStatus maps an error code to the response status used by handlers.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeAlreadyExists:
		return fiber.StatusConflict
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}
