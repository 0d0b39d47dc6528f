package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lixenwraith/termsense/config"
)

func TestSetupDisabled(t *testing.T) {
	logger, closer, err := Setup(config.LogConfig{File: "off", Level: "debug"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer closer.Close()

	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("disabled logger reports error level enabled")
	}
}

func TestSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "termsense.log")
	logger, closer, err := Setup(config.LogConfig{File: path, Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger.Debug("probe", "id", "abc")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("log line is not JSON: %q", data)
	}
	if rec["msg"] != "probe" || rec["id"] != "abc" {
		t.Errorf("record = %v", rec)
	}
}

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info logged at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn not logged")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
