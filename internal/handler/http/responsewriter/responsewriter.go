// Package responsewriter wraps http.ResponseWriter to capture the status
// code and byte count for the logging and metrics middleware.
package responsewriter

import "net/http"

// ResponseWriter records the status and payload size of a tool response as
// it is written. The zero status is 200, matching net/http's implicit
// WriteHeader on the first Write.
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	written int
	sent    bool
}

// Wrap decorates w for observation by the middleware chain.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the first status code sent. Later calls are dropped,
// as the underlying writer would reject them anyway.
func (w *ResponseWriter) WriteHeader(status int) {
	if w.sent {
		return
	}
	w.status = status
	w.sent = true
	w.ResponseWriter.WriteHeader(status)
}

// Write sends the header if none was sent yet and accumulates the byte count.
func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.sent {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

// StatusCode returns the recorded status.
func (w *ResponseWriter) StatusCode() int { return w.status }

// BytesWritten returns the total response body size so far.
func (w *ResponseWriter) BytesWritten() int { return w.written }

// Unwrap exposes the inner writer so http.ResponseController keeps working.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
