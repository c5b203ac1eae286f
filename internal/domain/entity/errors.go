package entity

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for the tool surface. The host assistant
// receives the kind verbatim in the error record and decides how to react
// (skip the source, retry, ask the user for credentials, ...).
type ErrorKind string

const (
	// KindSourceUnavailable covers network failures, timeouts, and 5xx
	// responses from an external service.
	KindSourceUnavailable ErrorKind = "source_unavailable"

	// KindSourceAuth means a credential for the source is missing or expired.
	KindSourceAuth ErrorKind = "source_auth_error"

	// KindSourceRateLimited means the process-wide limiter denied the call
	// before it reached the network.
	KindSourceRateLimited ErrorKind = "source_rate_limited"

	// KindValidationFailed means a draft did not pass validation.
	KindValidationFailed ErrorKind = "validation_failed"

	// KindPublish covers failures handing rendered output to the file store.
	KindPublish ErrorKind = "publish_error"

	// KindBadRequest covers malformed tool argument records.
	KindBadRequest ErrorKind = "bad_request"

	// KindInternal covers handler failures that fit no other kind.
	KindInternal ErrorKind = "internal_error"
)

// SourceError is an adapter-layer failure tied to one source. It is recorded
// per-source in the bundle and never aborts aggregation as a whole.
type SourceError struct {
	Source  SourceTag `json:"source"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`

	cause error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Kind, e.Message)
}

func (e *SourceError) Unwrap() error { return e.cause }

// NewSourceUnavailable wraps a network or timeout failure for a source.
func NewSourceUnavailable(tag SourceTag, cause error) *SourceError {
	return &SourceError{Source: tag, Kind: KindSourceUnavailable, Message: cause.Error(), cause: cause}
}

// NewSourceAuthError reports a missing or expired credential for a source.
func NewSourceAuthError(tag SourceTag, message string) *SourceError {
	return &SourceError{Source: tag, Kind: KindSourceAuth, Message: message}
}

// NewSourceRateLimited reports a limiter denial for a source.
func NewSourceRateLimited(tag SourceTag) *SourceError {
	return &SourceError{Source: tag, Kind: KindSourceRateLimited, Message: "per-minute call budget exhausted"}
}

// AsSourceError extracts a *SourceError from an error chain. Unclassified
// errors are wrapped as source_unavailable, the adapter-layer default.
func AsSourceError(tag SourceTag, err error) *SourceError {
	var se *SourceError
	if errors.As(err, &se) {
		return se
	}
	return NewSourceUnavailable(tag, err)
}

// ValidationFailedError carries the full report so callers can present every
// violation, not just the first.
type ValidationFailedError struct {
	Report ValidationReport
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("draft validation failed: %d finding(s)", len(e.Report.Findings))
}

// PublishError is a boundary-layer failure handing output to the file store.
// It is returned after bounded retries with the underlying transient cause
// preserved for errors.Is/As inspection.
type PublishError struct {
	Op      string
	Attempt int
	cause   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s failed after %d attempt(s): %v", e.Op, e.Attempt, e.cause)
}

func (e *PublishError) Unwrap() error { return e.cause }

// NewPublishError wraps the final cause of a failed publish operation.
func NewPublishError(op string, attempt int, cause error) *PublishError {
	return &PublishError{Op: op, Attempt: attempt, cause: cause}
}
