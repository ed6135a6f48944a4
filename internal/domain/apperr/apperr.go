package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Code standardizes failure semantics across the marketplace services.
type Code string

const (
	CodeValidation        Code = "validation"
	CodeNotFound          Code = "not_found"
	CodeDuplicateReview   Code = "duplicate_review"
	CodeInvalidTransition Code = "invalid_transition"
	CodeOutOfStock        Code = "out_of_stock"
	CodeEmptyCart         Code = "empty_cart"
	CodeUnauthorized      Code = "unauthorized"
	CodeConflict          Code = "conflict"
	CodeInternal          Code = "internal"
)

// Error is the canonical service error wrapper.
type Error struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s", op, msg)
	case msg != "":
		return msg
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an error with explicit code + operation.
func New(code Code, op, message string) error {
	return &Error{Code: code, Op: strings.TrimSpace(op), Message: strings.TrimSpace(message)}
}

// Wrap annotates an existing error with a code.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: strings.TrimSpace(op), Message: err.Error(), Cause: err}
}

func Validation(op, message string) error { return New(CodeValidation, op, message) }
func NotFound(op, message string) error { return New(CodeNotFound, op, message) }
func Unauthorized(op, message string) error { return New(CodeUnauthorized, op, message) }

func InvalidTransition(op, from, to string) error {
	return New(CodeInvalidTransition, op, fmt.Sprintf("cannot move order from %s to %s", from, to))
}

// Is reports whether err (or a wrapped err) carries code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code when available.
func CodeOf(err error) Code {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return ""
	}
	return appErr.Code
}

// Message returns the human-readable part without the operation prefix.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && strings.TrimSpace(appErr.Message) != "" {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
