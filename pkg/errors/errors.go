// Package errors provides common domain error types for the minute CLI.
//
// This package defines sentinel errors for conditions like "not found" or
// "unauthorized" that can be used across all packages, plus the structured
// error types the meeting-session workflow surfaces to users. Using typed
// errors enables consistent handling with errors.Is() checks.
//
// Usage:
//
//	import mnerrors "github.com/minutehq/minute-cli/pkg/errors"
//
//	// Return a domain error
//	return nil, mnerrors.ErrNotFound
//
//	// Check for domain errors
//	if mnerrors.IsNotFound(err) {
//	    // summary not generated yet - safe to request generation
//	}
package errors

import (
	"errors"
	"fmt"
)

// Domain errors - common sentinel errors for domain conditions.
var (
	// ErrNotFound indicates the requested resource was not found.
	// For summaries this is a legitimate state meaning "not generated yet".
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the request lacks a valid bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates invalid input or validation failure.
	ErrValidation = errors.New("validation error")

	// ErrInvalidState indicates the operation is not valid for the current state.
	ErrInvalidState = errors.New("invalid state")

	// ErrUploadInFlight indicates an audio upload is already in progress
	// for this session. The duplicate attempt is rejected before any
	// network call is made.
	ErrUploadInFlight = errors.New("upload already in flight")

	// ErrGenerationInFlight indicates a summary generation request is
	// already outstanding for this meeting.
	ErrGenerationInFlight = errors.New("summary generation already in flight")

	// ErrNoSession indicates a session id or auth token is missing. Commands
	// refuse with guidance instead of calling the collaborator.
	ErrNoSession = errors.New("no active session")
)

// IsNotFound reports whether any error in err's chain is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether any error in err's chain is ErrUnauthorized.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation reports whether any error in err's chain is ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidState reports whether any error in err's chain is ErrInvalidState.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsUploadInFlight reports whether any error in err's chain is ErrUploadInFlight.
func IsUploadInFlight(err error) bool {
	return errors.Is(err, ErrUploadInFlight)
}

// IsGenerationInFlight reports whether any error in err's chain is ErrGenerationInFlight.
func IsGenerationInFlight(err error) bool {
	return errors.Is(err, ErrGenerationInFlight)
}

// FetchError wraps a polling or read failure. Fetch errors are logged and
// swallowed by the session loop; the last-known-good snapshot is retained.
type FetchError struct {
	// Op names the read that failed ("get meeting", "list transcripts", ...).
	Op string
	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err as a FetchError for the named read operation.
func NewFetchError(op string, err error) *FetchError {
	return &FetchError{Op: op, Err: err}
}

// UploadError is surfaced to the user when an audio upload fails. Message
// carries the collaborator's detail text when present.
type UploadError struct {
	// Message is the user-facing failure description.
	Message string
	// Err is the underlying failure, if any.
	Err error
}

// Error implements the error interface.
func (e *UploadError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *UploadError) Unwrap() error {
	return e.Err
}

// NewUploadError builds an UploadError with the given message. An empty
// message falls back to "Upload failed", matching the collaborator contract.
func NewUploadError(message string, err error) *UploadError {
	if message == "" {
		message = "Upload failed"
	}
	return &UploadError{Message: message, Err: err}
}

// GenerationError is surfaced when a summary generation request fails. The
// view degrades to "no summary available"; retry is user-initiated.
type GenerationError struct {
	// MeetingID is the meeting whose generation failed.
	MeetingID string
	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate summary for meeting %s: %v", e.MeetingID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *GenerationError) Unwrap() error {
	return e.Err
}
