// Package logging is the request-scoped logger used by the HTTP layer and jobs.
package logging

import (
	"context"
	"fmt"
	"log"
	"strings"
)

const maxMessageLen = 300

type requestIDKey struct{}

// WithRequestID stores the request id on ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request id from ctx, or "".
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides structured logging for one request or job run
type Logger struct {
	requestID string
	out       *log.Logger
}

// New creates a logger with request context
func New(ctx context.Context) *Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{requestID: requestID, out: log.Default()}
}

// WithOutput redirects the logger, mainly for tests.
func (l *Logger) WithOutput(out *log.Logger) *Logger {
	cp := *l
	cp.out = out
	return &cp
}

func (l *Logger) Error(operation string, err error) {
	l.out.Printf("[error] request_id=%s operation=%s error=%s", l.requestID, operation, Sanitize(err))
}

func (l *Logger) Errorf(operation string, format string, args ...interface{}) {
	l.out.Printf("[error] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}

func (l *Logger) Info(operation string, message string) {
	l.out.Printf("[info] request_id=%s operation=%s message=%s", l.requestID, operation, message)
}

func (l *Logger) Infof(operation string, format string, args ...interface{}) {
	l.out.Printf("[info] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}

func (l *Logger) Warn(operation string, message string) {
	l.out.Printf("[warn] request_id=%s operation=%s message=%s", l.requestID, operation, message)
}

// Sanitize reduces an error to a single bounded line. Request payloads never
// reach the log through it.
func Sanitize(err error) string {
	if err == nil {
		return "Unknown error"
	}
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen] + "..."
	}
	return fmt.Sprintf("%q", msg)
}
