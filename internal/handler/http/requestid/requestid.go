// Package requestid tags every tool invocation with an ID so a single call
// can be followed through the request log, the tool handler, and the error
// payload returned to the assistant.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header is the wire header carrying the invocation ID. Assistants that
// retry a call can resend the same value to correlate the attempts.
const Header = "X-Request-ID"

type ctxKey struct{}

// FromContext returns the invocation ID stored by the middleware, or ""
// when the request never passed through it.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// WithRequestID stores an invocation ID on the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Middleware ensures every request carries an invocation ID: the caller's
// header value when present, a fresh UUID otherwise. The ID is echoed on the
// response and placed on the request context for the log layer.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
