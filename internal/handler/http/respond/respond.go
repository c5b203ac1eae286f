// Package respond writes JSON responses for the tool server. Errors go out
// as {error: {kind, message}} records, with credential-looking fragments
// masked before anything reaches a log line or a response body.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/tool"
)

// JSON writes a JSON response with the given status code and body.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent; the failure can only be logged.
			slog.Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// errorEnvelope is the wire shape of a failed tool invocation.
type errorEnvelope struct {
	Error tool.ErrorRecord `json:"error"`
}

// ToolError classifies err into the tool error taxonomy, picks the matching
// status code, and writes the error record. The record's message is
// sanitized; the full error is logged.
func ToolError(w http.ResponseWriter, err error) {
	record := tool.NewErrorRecord(err)
	record.Message = Sanitize(record.Message)

	code := statusFor(record.Kind)
	if code >= 500 {
		slog.Error("tool request failed",
			slog.String("kind", string(record.Kind)),
			slog.String("error", Sanitize(err.Error())))
	}
	JSON(w, code, errorEnvelope{Error: record})
}

// statusFor maps an error kind to its HTTP status code.
func statusFor(kind entity.ErrorKind) int {
	switch kind {
	case entity.KindBadRequest, entity.KindValidationFailed:
		return http.StatusBadRequest
	case entity.KindSourceAuth:
		return http.StatusUnauthorized
	case entity.KindSourceRateLimited:
		return http.StatusTooManyRequests
	case entity.KindSourceUnavailable, entity.KindPublish:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NotFound writes the error record for an unknown route.
func NotFound(w http.ResponseWriter) {
	JSON(w, http.StatusNotFound, errorEnvelope{Error: tool.ErrorRecord{
		Kind:    entity.KindBadRequest,
		Message: "not found",
	}})
}
