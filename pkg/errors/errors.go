// Package errors provides custom error types for the completionist system.
// These errors enable programmatic error checking and carry enough context
// to name the file or identifier that caused a failure.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// It's an alias for the standard library errors.As for convenience.
var As = errors.As

// Common sentinel errors for the completionist system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAPIKeyRequired indicates that an API key is required but not provided
	ErrAPIKeyRequired = errors.New("API key required")

	// ErrProfilePrivate indicates that a Steam profile (or part of it) is not public
	ErrProfilePrivate = errors.New("profile private")

	// ErrNoAchievements indicates that a game has no achievements defined
	ErrNoAchievements = errors.New("no achievements")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")
)

// ProfileError represents a failure caused by a profile's privacy settings.
// Library reports whether the owned-games list itself was inaccessible,
// which is fatal for the whole run.
type ProfileError struct {
	SteamID string
	Library bool
	Message string
	Err     error
}

// Error implements the error interface
func (e *ProfileError) Error() string {
	if e.Library {
		return fmt.Sprintf("library for %s is not accessible: %s", e.SteamID, e.Message)
	}
	return fmt.Sprintf("achievement data for %s is not accessible: %s", e.SteamID, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ProfileError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ProfileError) Is(target error) bool {
	return target == ErrProfilePrivate
}

// NewProfileError creates a new ProfileError
func NewProfileError(steamID string, library bool, message string, err error) *ProfileError {
	return &ProfileError{SteamID: steamID, Library: library, Message: message, Err: err}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error from a remote service API
type APIError struct {
	Service    string // "steam" or "hltb"
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{Service: service, StatusCode: statusCode, Message: message}
}

// ParseError represents a failure to parse a persisted store file.
// A parse error on an existing snapshot is fatal: silently discarding
// prior data is never acceptable.
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("failed to parse %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents a file system operation error
type IOError struct {
	Operation string // "read", "write", "create", etc.
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// ConfigError represents a configuration problem
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("config error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Helper checking functions

// IsNotFound returns true if the error indicates a resource was not found
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsProfilePrivate returns true if the error was caused by profile privacy
func IsProfilePrivate(err error) bool {
	return errors.Is(err, ErrProfilePrivate)
}

// IsNoAchievements returns true if the error indicates a game has no achievements
func IsNoAchievements(err error) bool {
	return errors.Is(err, ErrNoAchievements)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(service string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
