package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storevisit/internal/config"
	"storevisit/internal/logging"
	"storevisit/internal/services"
)

func TestNewFromConfigWritesJSONFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	var console bytes.Buffer
	logger, err := logging.New(logging.Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		Console:  &console,
		FilePath: cfg.LogPath(),
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("debug only in file", logging.String("k", "v"))
	logger.Info("visible everywhere")

	if strings.Contains(console.String(), "debug only in file") {
		t.Fatalf("expected debug line to be filtered from console, got %q", console.String())
	}
	if !strings.Contains(console.String(), "visible everywhere") {
		t.Fatalf("expected info line on console, got %q", console.String())
	}

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "storevisit.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSON lines, got %d: %q", len(lines), data)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if entry["msg"] != "debug only in file" || entry["level"] != "debug" || entry["k"] != "v" {
		t.Fatalf("unexpected json entry %#v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key in %#v", entry)
	}
}

func TestNewFromConfigNil(t *testing.T) {
	logger, err := logging.NewFromConfig(nil)
	if err != nil || logger == nil {
		t.Fatalf("expected default logger, got %v %v", logger, err)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleLoggerLiftsSubjectIntoHeader(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithSessionID(context.Background(), "0123456789abcdef")
	ctx = services.WithInvocationID(ctx, "fedcba9876543210")
	logger = logging.NewComponentLogger(logging.WithContext(ctx, logger), "pipeline")

	logger.Info("merged findings", logging.Int("records", 2), logging.String("path", "structured"))

	out := buf.String()
	header := strings.SplitN(out, "\n", 2)[0]
	for _, want := range []string{"INFO", "[pipeline]", "session 01234567", "#fedcba98", "merged findings"} {
		if !strings.Contains(header, want) {
			t.Fatalf("expected %q in header %q", want, header)
		}
	}
	if strings.Contains(out, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", out)
	}
	if !strings.Contains(out, "    - records: 2") || !strings.Contains(out, "    - path: structured") {
		t.Fatalf("expected indented fields, got %q", out)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "candidate dropped", "unknown_category",
		logging.String(logging.FieldErrorHint, "update the taxonomy"),
		logging.Error(errors.New("no such category")),
	)
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v (%q)", err, buf.String())
	}
	if entry[logging.FieldEventType] != "unknown_category" {
		t.Fatalf("unexpected event type %#v", entry)
	}
	if entry[logging.FieldErrorHint] != "update the taxonomy" {
		t.Fatalf("expected caller hint to win, got %#v", entry)
	}
	if entry[logging.FieldImpact] == nil {
		t.Fatalf("expected default impact, got %#v", entry)
	}
}

func TestNopLogger(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("ignored")
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should never be enabled")
	}
}

func TestJSONHandlerRoundsConfidence(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	matches := 3.0
	raw := 0.6 + 0.1*matches
	logger.Info("observation classified",
		logging.Float64(logging.FieldConfidence, raw),
		logging.Float64("ratio", raw),
	)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v\n%s", err, buf.String())
	}
	if line["confidence"] != 0.9 {
		t.Fatalf("expected rounded confidence 0.9, got %v", line["confidence"])
	}
	if line["ratio"] == 0.9 {
		t.Fatalf("expected other floats untouched, got %v", line["ratio"])
	}
}
