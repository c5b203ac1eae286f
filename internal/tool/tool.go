// Package tool defines the named operations the host assistant invokes and
// the registry that lists and dispatches them. Each tool carries a JSON
// Schema for its argument record and a handler returning a structured result
// record; handler errors are mapped to {kind, message} records from the
// entity error taxonomy.
package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"newsletter-press/internal/domain/entity"
)

// Tool is one named operation. Handlers must be safe for concurrent use and
// must respect context cancellation.
type Tool struct {
	Name        string
	Description string
	Schema      json.RawMessage
	Handler     func(ctx context.Context, args json.RawMessage) (any, error)
}

// Descriptor is the listing form of a tool, returned by GET /tools.
type Descriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      json.RawMessage `json:"schema"`
}

// ErrorRecord is the error shape handed back to the host assistant.
type ErrorRecord struct {
	Kind    entity.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

// NewErrorRecord classifies a handler error into the taxonomy the host
// assistant understands.
func NewErrorRecord(err error) ErrorRecord {
	var se *entity.SourceError
	if errors.As(err, &se) {
		return ErrorRecord{Kind: se.Kind, Message: se.Message}
	}
	var ve *entity.ValidationFailedError
	if errors.As(err, &ve) {
		return ErrorRecord{Kind: entity.KindValidationFailed, Message: ve.Error()}
	}
	var pe *entity.PublishError
	if errors.As(err, &pe) {
		return ErrorRecord{Kind: entity.KindPublish, Message: pe.Error()}
	}
	var be *BadRequestError
	if errors.As(err, &be) {
		return ErrorRecord{Kind: entity.KindBadRequest, Message: be.Error()}
	}
	return ErrorRecord{Kind: entity.KindInternal, Message: err.Error()}
}

// BadRequestError marks a malformed or out-of-range argument record.
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string { return e.Reason }

// BadRequest builds a BadRequestError with a formatted reason.
func BadRequest(format string, args ...any) error {
	return &BadRequestError{Reason: fmt.Sprintf(format, args...)}
}

// decodeArgs unmarshals an argument record into v. An empty record leaves v
// at its defaults. Malformed JSON becomes a BadRequestError.
func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return BadRequest("invalid argument record: %v", err)
	}
	return nil
}
