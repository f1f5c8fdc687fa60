// Package apperror defines the application error taxonomy. Handlers map
// codes to HTTP statuses; services stay transport-agnostic.
package apperror

import (
	"errors"
	"fmt"
)

// Code classifies an error for the caller: "your input was invalid" versus
// "the system failed".
type Code int

const (
	// CodeValidation marks malformed or incomplete input, rejected before
	// any transaction begins.
	CodeValidation Code = iota + 1000
	// CodeBusinessRule marks an admission rejected by a domain rule before
	// any write.
	CodeBusinessRule
	// CodeDuplicateIdentity marks a document-number uniqueness conflict.
	CodeDuplicateIdentity
	CodeNotFound
	CodeUnauthorized
	// CodeInternal marks unclassified or storage failures; details stay
	// opaque to the caller.
	CodeInternal
)

// AppError carries a code, a human-readable message and the wrapped cause.
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	// Rule names the violated business rule, when applicable.
	Rule string `json:"rule,omitempty"`
	Err  error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(message string, err error) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Err: err}
}

// Rule builds a business-rule violation carrying the rule's name.
func Rule(rule, message string) *AppError {
	return &AppError{Code: CodeBusinessRule, Rule: rule, Message: message}
}

func DuplicateIdentity(document string, err error) *AppError {
	return &AppError{
		Code:    CodeDuplicateIdentity,
		Message: fmt.Sprintf("a patient with document %s already exists", document),
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

func Unauthorized(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "internal error", Err: err}
}

// CodeOf extracts the taxonomy code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
