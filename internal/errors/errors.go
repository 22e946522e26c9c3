// Package errors defines typed errors for the aggregation pipeline and the
// resolution engine. Each kind maps to a distinct user-facing message.
package errors

import (
	"errors"
	"fmt"
)

// Error kind constants.
const (
	KindSourceUnavailable   = "SOURCE_UNAVAILABLE"
	KindNoMatch             = "NO_MATCH"
	KindInvalidID           = "INVALID_ID"
	KindTransferFailed      = "TRANSFER_FAILED"
	KindNotReady            = "NOT_READY"
	KindNoPlayableFile      = "NO_PLAYABLE_FILE"
	KindNoDownloadURL       = "NO_DOWNLOAD_URL"
	KindProviderUnsupported = "PROVIDER_UNSUPPORTED"
)

// ResolutionError classifies failures of a single candidate resolution.
type ResolutionError struct {
	Kind    string
	Message string
	Cause   error
}

func (e *ResolutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// NewResolutionError creates a ResolutionError with the given kind.
func NewResolutionError(kind, message string, cause error) *ResolutionError {
	return &ResolutionError{Kind: kind, Message: message, Cause: cause}
}

// NewTransferFailedError reports a transfer the provider marked as failed.
func NewTransferFailedError(message string, cause error) *ResolutionError {
	return NewResolutionError(KindTransferFailed, message, cause)
}

// NewNotReadyError reports a transfer still pending after the poll budget.
func NewNotReadyError(provider string, attempts int) *ResolutionError {
	return NewResolutionError(KindNotReady,
		fmt.Sprintf("%s transfer not ready after %d polls", provider, attempts), nil)
}

// NewNoPlayableFileError reports a ready transfer with no files at all.
func NewNoPlayableFileError(provider string) *ResolutionError {
	return NewResolutionError(KindNoPlayableFile,
		fmt.Sprintf("%s transfer has no playable file", provider), nil)
}

// NewNoDownloadURLError reports a selected file that never produced a link.
func NewNoDownloadURLError(provider string) *ResolutionError {
	return NewResolutionError(KindNoDownloadURL,
		fmt.Sprintf("%s returned no download url", provider), nil)
}

// NewProviderUnsupportedError reports an unknown provider id or a missing
// credential token.
func NewProviderUnsupportedError(provider string) *ResolutionError {
	return NewResolutionError(KindProviderUnsupported,
		fmt.Sprintf("debrid provider %q not supported or not configured", provider), nil)
}

// IsKind reports whether err is a ResolutionError of the given kind.
func IsKind(err error, kind string) bool {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	return false
}

// SourceError marks a single indexer failure; it is always contained at the
// fan-out boundary and never reaches the pipeline caller.
type SourceError struct {
	Source string
	Cause  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: source unavailable: %v", KindSourceUnavailable, e.Cause)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// NewSourceError wraps an indexer failure with the source name.
func NewSourceError(source string, cause error) *SourceError {
	return &SourceError{Source: source, Cause: cause}
}

// NewInvalidIDError reports a media identifier that could not be parsed.
func NewInvalidIDError(id string) error {
	return fmt.Errorf("%s: invalid media id %q", KindInvalidID, id)
}
