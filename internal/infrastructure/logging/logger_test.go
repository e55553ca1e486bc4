package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/config"
	"github.com/andrescamacho/simplemediator-go/internal/infrastructure/logging"
)

func fileConfig(t *testing.T, rotate bool) config.LoggingConfig {
	cfg := config.Default().Logging
	cfg.Output = "file"
	cfg.FilePath = filepath.Join(t.TempDir(), "logs", "simpleapi.log")
	cfg.Rotation.Enabled = rotate
	return cfg
}

func TestNewLogger_WritesJSONToFile(t *testing.T) {
	for _, rotate := range []bool{false, true} {
		// Arrange
		cfg := fileConfig(t, rotate)

		// Act
		logger, err := logging.NewLogger(cfg)
		require.NoError(t, err)
		logger.Info("item added", zap.String("name", "Item4"))
		logger.Debug("dropped below level")
		_ = logger.Sync()

		// Assert
		raw, err := os.ReadFile(cfg.FilePath)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
		require.Len(t, lines, 1)

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
		assert.Equal(t, "item added", entry["msg"])
		assert.Equal(t, "Item4", entry["name"])
		assert.Equal(t, "info", entry["level"])
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := config.Default().Logging
	cfg.Level = "loud"

	_, err := logging.NewLogger(cfg)

	assert.ErrorContains(t, err, "invalid log level")
}

func TestNewLogger_FileWithoutPath(t *testing.T) {
	cfg := config.Default().Logging
	cfg.Output = "file"

	_, err := logging.NewLogger(cfg)

	assert.Error(t, err)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	cfg := config.Default().Logging
	cfg.Format = "console"
	cfg.Output = "stderr"

	logger, err := logging.NewLogger(cfg)

	require.NoError(t, err)
	assert.NotNil(t, logger)
}
