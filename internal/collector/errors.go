package collector

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	// ErrorTypeConnection marks a stream or sender that could not be
	// opened. Fatal for the current collector call.
	ErrorTypeConnection ErrorType = "connection_error"

	// ErrorTypeNotSupported marks a transport/mode combination with no
	// implementation. Raised before any work starts.
	ErrorTypeNotSupported ErrorType = "not_supported_error"

	// ErrorTypeSample marks an individual pull or command failure.
	// Recorded and counted, never fatal.
	ErrorTypeSample ErrorType = "sample_error"
)

type BenchError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *BenchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed in %s: %s (caused by: %v)", e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s failed in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *BenchError) Unwrap() error {
	return e.Cause
}

func NewError(errType ErrorType, operation, message string, cause error) *BenchError {
	return &BenchError{
		Type:      errType,
		Operation: operation,
		Message:   message,
		Cause:     cause,
	}
}

func NewConnectionError(operation, message string, cause error) *BenchError {
	return NewError(ErrorTypeConnection, operation, message, cause)
}

func NewNotSupportedError(operation, message string) *BenchError {
	return NewError(ErrorTypeNotSupported, operation, message, nil)
}

func NewSampleError(operation, message string, cause error) *BenchError {
	return NewError(ErrorTypeSample, operation, message, cause)
}

// IsErrorType reports whether err or anything it wraps is a BenchError
// of the given type.
func IsErrorType(err error, errType ErrorType) bool {
	var be *BenchError
	return errors.As(err, &be) && be.Type == errType
}
