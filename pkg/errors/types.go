// Package errors defines the error taxonomy for the update engine and the
// exit codes used for scripting integration.
//
// Expected outcomes (package not found, validation failed, rollback failed)
// are modeled as typed error values so that callers branch on outcome kind
// instead of string matching.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes for scripting integration.
// These codes allow scripts to distinguish between different failure modes.
const (
	// ExitSuccess indicates all operations completed successfully.
	ExitSuccess = 0

	// ExitPartialFailure indicates some updates failed but others succeeded.
	ExitPartialFailure = 1

	// ExitFailure indicates all operations failed or a critical error occurred.
	// This includes: parse errors, validation failures, rollback failures.
	ExitFailure = 2

	// ExitConfigError indicates a configuration or validation error.
	// The command could not proceed due to invalid policy or missing requirements.
	ExitConfigError = 3
)

// ParseError indicates a manifest or central version file could not be read
// or is structurally malformed. It is fatal for the whole run: nothing is
// classified when the manifest cannot be parsed.
//
// Fields:
//   - Path: The file that failed to parse
//   - Err: The underlying cause (I/O or XML decoding error)
type ParseError struct {
	// Path is the file that failed to parse.
	Path string

	// Err is the underlying I/O or decoding error.
	Err error
}

// Error implements the error interface.
//
// Returns:
//   - string: The formatted error message including path and cause
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
//
// Returns:
//   - error: The underlying error, or nil if none exists
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a ParseError for the given path and cause.
//
// Parameters:
//   - path: The file that failed to parse
//   - err: The underlying cause
//
// Returns:
//   - *ParseError: New parse error
func NewParseError(path string, err error) *ParseError {
	return &ParseError{Path: path, Err: err}
}

// IsParseError checks if err is a ParseError and returns it.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *ParseError: The ParseError if err is one, nil otherwise
//   - bool: true if err is a ParseError
func IsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// NetworkError indicates a transport failure while querying the remote index
// for a single package. It is isolated: the affected package is excluded from
// classification and sibling resolutions continue.
//
// Fields:
//   - Package: The package id whose query failed
//   - URL: The index URL that was queried
//   - Err: The underlying transport or HTTP error
type NetworkError struct {
	// Package is the package id whose query failed.
	Package string

	// URL is the index URL that was queried.
	URL string

	// Err is the underlying transport or HTTP error.
	Err error
}

// Error implements the error interface.
//
// Returns:
//   - string: The formatted error message including package and cause
func (e *NetworkError) Error() string {
	return fmt.Sprintf("query versions for %s: %v", e.Package, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
//
// Returns:
//   - error: The underlying error, or nil if none exists
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a NetworkError for the given package and cause.
//
// Parameters:
//   - pkg: The package id whose query failed
//   - url: The index URL that was queried
//   - err: The underlying cause
//
// Returns:
//   - *NetworkError: New network error
func NewNetworkError(pkg, url string, err error) *NetworkError {
	return &NetworkError{Package: pkg, URL: url, Err: err}
}

// IsNetworkError checks if err is a NetworkError and returns it.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *NetworkError: The NetworkError if err is one, nil otherwise
//   - bool: true if err is a NetworkError
func IsNetworkError(err error) (*NetworkError, bool) {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

// NotFoundError indicates a package id is absent from the file being mutated.
// It is fatal for that one candidate; the batch continues with the rest.
//
// Fields:
//   - Package: The package id that was not found
//   - Path: The file that was searched
type NotFoundError struct {
	// Package is the package id that was not found.
	Package string

	// Path is the file that was searched.
	Path string
}

// Error implements the error interface.
//
// Returns:
//   - string: The formatted error message including package and path
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("package %s not found in %s", e.Package, e.Path)
}

// NewNotFoundError creates a NotFoundError for the given package and path.
//
// Parameters:
//   - pkg: The package id that was not found
//   - path: The file that was searched
//
// Returns:
//   - *NotFoundError: New not-found error
func NewNotFoundError(pkg, path string) *NotFoundError {
	return &NotFoundError{Package: pkg, Path: path}
}

// IsNotFoundError checks if err is a NotFoundError and returns it.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *NotFoundError: The NotFoundError if err is one, nil otherwise
//   - bool: true if err is a NotFoundError
func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if errors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

// ValidationError indicates the mutated file(s) no longer parse as well-formed
// documents after a batch. It triggers the rollback path.
//
// Fields:
//   - Path: The file that failed post-batch validation
//   - Err: The underlying decoding error, may be nil for a missing file
type ValidationError struct {
	// Path is the file that failed post-batch validation.
	Path string

	// Err is the underlying decoding error, may be nil for a missing file.
	Err error
}

// Error implements the error interface.
//
// Returns:
//   - string: The formatted error message
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed for %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("validation failed for %s", e.Path)
}

// Unwrap returns the underlying error for errors.Is/As support.
//
// Returns:
//   - error: The underlying error, or nil if none exists
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError checks if err is a ValidationError and returns it.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *ValidationError: The ValidationError if err is one, nil otherwise
//   - bool: true if err is a ValidationError
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// RollbackError indicates the restore-from-backup itself failed after a
// validation failure. This is the most severe outcome: the target file may
// be inconsistent and must be surfaced distinctly from a successful rollback.
//
// Fields:
//   - Path: The file that could not be restored
//   - Err: The underlying write error
type RollbackError struct {
	// Path is the file that could not be restored.
	Path string

	// Err is the underlying write error.
	Err error
}

// Error implements the error interface.
//
// Returns:
//   - string: The formatted error message
func (e *RollbackError) Error() string {
	return fmt.Sprintf("rollback failed for %s, file may be inconsistent: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
//
// Returns:
//   - error: The underlying error, or nil if none exists
func (e *RollbackError) Unwrap() error {
	return e.Err
}

// IsRollbackError checks if err is a RollbackError and returns it.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *RollbackError: The RollbackError if err is one, nil otherwise
//   - bool: true if err is a RollbackError
func IsRollbackError(err error) (*RollbackError, bool) {
	var re *RollbackError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
