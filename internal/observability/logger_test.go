// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/nullpath-cli/internal/config"
)

// syncBuffer adapts a bytes.Buffer to zapcore.WriteSyncer.
type syncBuffer struct {
	bytes.Buffer
}

func (s *syncBuffer) Sync() error { return nil }

func testLoggerConfig(format string) config.LoggerConfig {
	return config.LoggerConfig{
		Level:       "debug",
		Format:      format,
		ServiceName: "nullpath-test",
	}
}

func TestInitialize_ConsoleFormat(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	var buf syncBuffer
	Initialize(testLoggerConfig("console"), zapcore.Lock(&buf))

	logger := GetLogger()
	require.NotNil(t, logger)
	logger.Info("console message")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, "console message")
	assert.Contains(t, out, "nullpath-test")
}

func TestInitialize_JSONFormat(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	var buf syncBuffer
	Initialize(testLoggerConfig("json"), zapcore.Lock(&buf))

	GetLogger().Info("structured message")
	require.NoError(t, GetLogger().Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "structured message", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestInitialize_OnlyOnce(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	var first, second syncBuffer
	Initialize(testLoggerConfig("json"), zapcore.Lock(&first))
	Initialize(testLoggerConfig("json"), zapcore.Lock(&second))

	GetLogger().Info("goes to the first writer")
	require.NoError(t, GetLogger().Sync())

	assert.Contains(t, first.String(), "goes to the first writer")
	assert.Empty(t, second.String())
}

func TestInitialize_InvalidLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	cfg := testLoggerConfig("json")
	cfg.Level = "loud"

	var buf syncBuffer
	Initialize(cfg, zapcore.Lock(&buf))

	GetLogger().Debug("should be filtered at info level")
	GetLogger().Info("should appear")
	require.NoError(t, GetLogger().Sync())

	out := buf.String()
	assert.NotContains(t, out, "should be filtered")
	assert.Contains(t, out, "should appear")
}

func TestGetLogger_FallbackBeforeInitialization(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	assert.NotNil(t, GetLogger())
}
