package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/authflow/pkg/logger"
)

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: slog.LevelInfo, Format: logger.FormatJSON},
		logger.WithOutput(&buf),
		logger.WithAttr(logger.Component("test")),
	)

	log.Info("hello", logger.UserID("u-1"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "u-1", record["user_id"])
	assert.Equal(t, "test", record["component"])
}

func TestNew_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: slog.LevelWarn, Format: logger.FormatText},
		logger.WithOutput(&buf))

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestAttrHelpers_NilSafe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, slog.Attr{}, logger.UserID(""))
}
