package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"blogcms/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestWithRequestID(t *testing.T) {
	prev := logger.Default()
	defer logger.SetLogger(prev)

	var buf bytes.Buffer
	logger.SetLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	logger.WithRequestID("req-42").Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "req-42", entry["request_id"])
}
