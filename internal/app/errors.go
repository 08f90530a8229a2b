package app

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned for both unknown emails and bad
	// passwords so responses cannot be used for account enumeration.
	ErrInvalidCredentials = errors.New("Incorrect email address or password")

	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrTestNotFound covers both missing and disabled test
	// configurations.
	ErrTestNotFound = errors.New("test not found or inactive")

	ErrSessionNotFound = errors.New("session not found")

	// ErrQuestionSource marks failures talking to the upstream question
	// API. Any such failure aborts the whole session start.
	ErrQuestionSource = errors.New("question source unavailable")

	ErrResumeStorageUnavailable = errors.New("resume storage not configured")
	ErrResumeNotFound           = errors.New("no resume uploaded")
)

// ValidationError reports missing or invalid request input.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
