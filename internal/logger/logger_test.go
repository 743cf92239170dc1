package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDIsAttached(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, "debug", "json"))

	ctx := WithRequestID(context.Background(), "req-123")
	log.With("booking_id", 7).InfoContext(ctx, "Booking status changed")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-123", record["request_id"])
	assert.Equal(t, float64(7), record["booking_id"])
	assert.Equal(t, "req-123", RequestID(ctx))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, "warn", "text"))

	log.Info("dropped")
	log.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Equal(t, 1, strings.Count(buf.String(), "kept"))
}

func TestNoRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, "info", "text"))
	log.InfoContext(context.Background(), "plain")
	assert.NotContains(t, buf.String(), "request_id")
}
