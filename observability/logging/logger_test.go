package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(HandlerWithRequestContext(slog.NewJSONHandler(buf, &slog.HandlerOptions{ReplaceAttr: RedactSecrets})))
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestHandle_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithRequestID(context.Background(), "req-1")

	newTestLogger(&buf).InfoContext(ctx, "hello")

	assert.Equal(t, "req-1", decode(t, &buf)["requestId"])
}

func TestHandle_NoRequestID(t *testing.T) {
	var buf bytes.Buffer

	newTestLogger(&buf).InfoContext(context.Background(), "hello")

	_, ok := decode(t, &buf)["requestId"]
	assert.False(t, ok)
}

func TestHandle_WithAttrsKeepsRequestContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithRequestID(context.Background(), "req-2")

	newTestLogger(&buf).With(slog.String("component", "checkout")).InfoContext(ctx, "hello")

	record := decode(t, &buf)
	assert.Equal(t, "req-2", record["requestId"])
	assert.Equal(t, "checkout", record["component"])
}

func TestRedactSecrets(t *testing.T) {
	var buf bytes.Buffer

	newTestLogger(&buf).Info("verify",
		slog.String("signature", "8ab882b6"),
		slog.String("secret", "testsecret"),
		slog.String("orderId", "order_ABC123"),
	)

	assert.NotContains(t, buf.String(), "8ab882b6")
	assert.NotContains(t, buf.String(), "testsecret")
	record := decode(t, &buf)
	assert.Equal(t, "[REDACTED]", record["signature"])
	assert.Equal(t, "order_ABC123", record["orderId"])
}

func TestRequestID_Empty(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
}
