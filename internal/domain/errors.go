package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	ErrSourceIO      ErrorCode = "SOURCE_IO_ERROR"
	ErrAuth          ErrorCode = "AUTH_ERROR"
	ErrRemoteAPI     ErrorCode = "REMOTE_API_ERROR"
	ErrMalformed     ErrorCode = "MALFORMED_INPUT"
	ErrInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// HasCode reports whether any DomainError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	var de *DomainError
	for err != nil {
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

func NewSourceIOError(path string, err error) *DomainError {
	return NewError(ErrSourceIO, fmt.Sprintf("cannot read source file %s", path), err)
}

func NewAuthError(message string, err error) *DomainError {
	return NewError(ErrAuth, message, err)
}

func NewRemoteAPIError(message string, err error) *DomainError {
	return NewError(ErrRemoteAPI, message, err)
}

func NewMalformedInputError(message string) *DomainError {
	return NewError(ErrMalformed, message, nil)
}

func NewInvalidConfigError(message string) *DomainError {
	return NewError(ErrInvalidConfig, message, nil)
}
