package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "batch.log")

	// 1MB is the smallest size lumberjack rotates at
	log, err := New("debug", FileConfig{Path: logFile, MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 1}, nil)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	input := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		log.Info("converted", zap.Int("job", i), zap.String("input", input))
	}
	_ = log.Sync()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read log dir: %v", err)
	}
	rotated := 0
	for _, e := range entries {
		if e.Name() == "batch.log" {
			continue
		}
		// lumberjack backups look like batch-2006-01-02T15-04-05.000.log
		if strings.HasPrefix(e.Name(), "batch-20") && strings.HasSuffix(e.Name(), ".log") {
			rotated++
		}
	}
	if rotated == 0 {
		t.Errorf("expected at least one rotated file, found %d entries", len(entries))
	}
	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("expected current log file: %v", err)
	}
}

func TestLogLevels(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(dir, tt.level+".log")
			if err := InitWithFileConfig(tt.level, FileConfig{Path: logFile, MaxSizeMB: 10}, nil); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			for _, exp := range tt.expected {
				if !strings.Contains(string(content), exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(string(content), exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New("verbose", FileConfig{}, nil); err == nil {
		t.Error("expected New to reject unknown level")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/voxelify.log")
	want := FileConfig{Path: "/tmp/voxelify.log", MaxSizeMB: 20, MaxBackups: 3, MaxAgeDays: 7, Compress: true}
	if cfg != want {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", FileConfig{}, &buf)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	log.Debug("hidden")
	log.Info("converted poring.spr", zap.Int("faces", 10))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be filtered at info level")
	}
	if !strings.Contains(out, "converted poring.spr") || !strings.Contains(out, `"faces": 10`) {
		t.Errorf("expected info message with fields in console output, got %q", out)
	}
}

func TestNoOutputs(t *testing.T) {
	log, err := New("debug", FileConfig{}, nil)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	if log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("expected a logger without outputs to discard everything")
	}
}

func TestFileOutputIsJSON(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "voxelify.log")
	if err := InitWithFileConfig("debug", DefaultFileConfig(logFile), nil); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	Sugar.Infow("converted", "faces", 6)
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("expected a JSON log line, got %q: %v", content, err)
	}
	if entry["msg"] != "converted" {
		t.Errorf("expected msg 'converted', got %v", entry["msg"])
	}
	if entry["faces"] != float64(6) {
		t.Errorf("expected faces 6, got %v", entry["faces"])
	}
}
