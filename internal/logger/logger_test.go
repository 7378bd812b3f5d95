package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "warn", Out: &buf})
	t.Cleanup(UseTestMode)

	Debug("hidden debug")
	Info("hidden info")
	Warn("shown %s", "warning")
	LogError("shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown warning")
	assert.Contains(t, out, "shown error")
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "info", Out: &buf})
	t.Cleanup(UseTestMode)

	Debug("before")
	SetLevel("debug")
	Debug("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "info", JSON: true, Out: &buf})
	t.Cleanup(UseTestMode)

	Info("hello")

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "✨ hello", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}

func TestRawSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "info", Out: &buf})
	t.Cleanup(UseTestMode)

	Raw("")
	assert.Empty(t, buf.String())
	Raw("Loaded image: x:latest")
	assert.Contains(t, buf.String(), "Loaded image: x:latest")
}
