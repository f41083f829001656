package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		checkFunc func(t *testing.T, output string)
	}{
		{
			name:   "Text Logger Info Level",
			config: Config{Level: "info", Format: "text"},
			checkFunc: func(t *testing.T, output string) {
				assert.Contains(t, output, "level=INFO")
				assert.Contains(t, output, `msg="test message"`)
				assert.NotContains(t, output, "level=DEBUG")
			},
		},
		{
			name:   "JSON Logger Debug Level",
			config: Config{Level: "DEBUG", Format: "json"},
			checkFunc: func(t *testing.T, output string) {
				dec := json.NewDecoder(bytes.NewBufferString(output))
				var entry map[string]any
				require.NoError(t, dec.Decode(&entry))
				assert.Equal(t, "DEBUG", entry["level"])
				assert.Equal(t, "test message", entry["msg"])
				assert.EqualValues(t, 42, entry["pr"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewLogger(tt.config, &buf)
			log.Debug("test message", "pr", 42)
			log.Info("test message", "pr", 42)
			tt.checkFunc(t, buf.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.log")
	log := NewLogger(Config{Level: "info", Output: "file", FilePath: path}, nil)
	log.Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestOpen(t *testing.T) {
	w, closeFn, err := Open(Config{Output: "stdout"})
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, w)
	closeFn()

	w, _, err = Open(Config{})
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, w)

	_, _, err = Open(Config{Output: "file", FilePath: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}
