package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists indicates a resource already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// Scoring pipeline errors

var (
	// ErrNegativeAttention indicates a caller passed a negative attention value
	// to the normalizer, which the scorer contract forbids
	ErrNegativeAttention = errors.New("negative attention value")

	// ErrInvariantViolated indicates a post-computation invariant check failed
	ErrInvariantViolated = errors.New("invariant violated")
)

// Ingestion errors

var (
	// ErrSourceUnavailable indicates the upstream social API is unavailable
	ErrSourceUnavailable = errors.New("source API unavailable")

	// ErrRateLimitExceeded indicates the upstream API rate limit was hit
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
