package logging

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

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvFormat, "json")
	t.Setenv(EnvSource, "yes")
	t.Setenv(EnvFile, "/tmp/poster.log")

	assert.Equal(t, Options{Level: "debug", Format: "json", AddSource: true, File: "/tmp/poster.log"}, FromEnv())
}

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{EnvLevel, EnvFormat, EnvSource, EnvFile} {
		t.Setenv(k, "")
	}
	assert.Equal(t, Options{Level: "info", Format: "text"}, FromEnv())
}

func TestNewJSONConsole(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Format: "json"}, &buf)

	l.Info("dropped")
	l.Warn("kept", slog.Int("n", 3))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "poster", rec["app"])
	assert.EqualValues(t, 3, rec["n"])
}

func TestNewTextConsole(t *testing.T) {
	var buf bytes.Buffer
	New(Options{}, &buf).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "app=poster")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poster.log")
	var console bytes.Buffer
	l := New(Options{Level: "debug", File: path}, &console)

	l.With(slog.String("component", "session")).Debug("to both")

	assert.Contains(t, console.String(), "to both")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rec))
	assert.Equal(t, "to both", rec["msg"])
	assert.Equal(t, "session", rec["component"])
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	slog.SetDefault(New(Options{Format: "json"}, &buf))

	WithComponent("server").Info("up")
	assert.Contains(t, buf.String(), `"component":"server"`)
}
