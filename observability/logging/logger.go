package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type requestIDKey struct{}

// WithRequestID stores id so that records logged with ctx carry it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func HandlerWithRequestContext(handler slog.Handler) *RequestContextLogHandler {
	return &RequestContextLogHandler{Handler: handler}
}

// RequestContextLogHandler adds the request id and the sampling decision of
// the active span to every record.
type RequestContextLogHandler struct {
	slog.Handler
}

func (h *RequestContextLogHandler) Handle(ctx context.Context, record slog.Record) error {
	if id := RequestID(ctx); id != "" {
		record.AddAttrs(slog.String("requestId", id))
	}
	if s := trace.SpanContextFromContext(ctx); s.IsValid() {
		record.AddAttrs(slog.Bool("trace_sampled", s.TraceFlags().IsSampled()))
	}
	return h.Handler.Handle(ctx, record)
}

func (h *RequestContextLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RequestContextLogHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *RequestContextLogHandler) WithGroup(name string) slog.Handler {
	return &RequestContextLogHandler{Handler: h.Handler.WithGroup(name)}
}

var redactedKeys = map[string]bool{
	"secret":     true,
	"key_secret": true,
	"keySecret":  true,
	"signature":  true,
	"password":   true,
}

// RedactSecrets is a slog ReplaceAttr hook masking credential-like keys.
func RedactSecrets(_ []string, a slog.Attr) slog.Attr {
	if redactedKeys[a.Key] {
		return slog.String(a.Key, "[REDACTED]")
	}
	return a
}
