package logging

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRotatingLoggerWritesWeeklyFile(t *testing.T) {
	dir := t.TempDir()

	rl, err := NewRotatingLogger(dir, 1, 0)
	if err != nil {
		t.Fatalf("Failed to create rotating logger: %v", err)
	}

	if _, err := rl.Write([]byte("interaction check complete\n")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	expected := filepath.Join(dir, logFilePrefix+weekKey(time.Now())+".log")
	content, err := os.ReadFile(expected)
	if err != nil {
		t.Fatalf("Expected log file %s: %v", expected, err)
	}
	if !strings.Contains(string(content), "interaction check complete") {
		t.Errorf("Expected message in log file, got %q", string(content))
	}

	if err := rl.Close(); err != nil {
		t.Errorf("Expected clean close, got %v", err)
	}
}

func TestRotatingLoggerSizeRotation(t *testing.T) {
	dir := t.TempDir()

	rl, err := NewRotatingLogger(dir, 1, 64)
	if err != nil {
		t.Fatalf("Failed to create rotating logger: %v", err)
	}
	defer rl.Close()

	line := []byte(strings.Repeat("x", 39) + "\n")
	for i := 0; i < 3; i++ {
		if _, err := rl.Write(line); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}

	matches, _ := filepath.Glob(filepath.Join(dir, logFilePrefix+"*.log"))
	if len(matches) != 3 {
		t.Errorf("Expected 3 log files after size rotation, got %d: %v", len(matches), matches)
	}
	if !strings.HasSuffix(rl.CurrentFile(), "_02.log") {
		t.Errorf("Expected current file to be the second numbered part, got %s", rl.CurrentFile())
	}
}

func TestRemoveExpired(t *testing.T) {
	dir := t.TempDir()

	rl, err := NewRotatingLogger(dir, 1, 0)
	if err != nil {
		t.Fatalf("Failed to create rotating logger: %v", err)
	}
	defer rl.Close()

	old := filepath.Join(dir, logFilePrefix+"2020-W01.log")
	unrelated := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, unrelated} {
		if err := os.WriteFile(p, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
		past := time.Now().Add(-30 * 24 * time.Hour)
		if err := os.Chtimes(p, past, past); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := rl.removeExpired(time.Now())
	if err != nil {
		t.Fatalf("removeExpired failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removed file, got %d", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Errorf("Expected %s to be removed", old)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Errorf("Expected unrelated file to survive, got %v", err)
	}
}

func TestMultiHandlerRespectsLevels(t *testing.T) {
	var quiet, verbose strings.Builder
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewTextHandler(&verbose, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}}
	l := slog.New(h).With("component", "engine")

	l.Debug("scoring candidates")
	l.Warn("no dosage guideline")

	if strings.Contains(quiet.String(), "scoring candidates") {
		t.Errorf("Expected debug record to be filtered from warn handler")
	}
	if !strings.Contains(quiet.String(), "no dosage guideline") {
		t.Errorf("Expected warn record in warn handler, got %q", quiet.String())
	}
	if !strings.Contains(verbose.String(), "component=engine") {
		t.Errorf("Expected attrs to propagate, got %q", verbose.String())
	}
	if h.Enabled(context.Background(), slog.LevelDebug-4) {
		t.Errorf("Expected level below every handler to be disabled")
	}
}

func TestInitLoggerConsoleOnly(t *testing.T) {
	prev := DefaultLoggingService
	defer func() { DefaultLoggingService = prev }()

	InitLogger(Options{Level: "debug", ConsoleOnly: true})
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		t.Fatal("Expected logger to be initialised")
	}
	if err := Close(); err != nil {
		t.Errorf("Expected nil close error without a file sink, got %v", err)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var out strings.Builder
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelInfo}))

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	t.Run("probe paths are not logged", func(t *testing.T) {
		out.Reset()
		for _, path := range []string{"/health", "/metrics"} {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		}
		if out.Len() != 0 {
			t.Errorf("Expected no logs for probe paths, got %q", out.String())
		}
	})

	t.Run("api requests are logged", func(t *testing.T) {
		out.Reset()
		req := httptest.NewRequest(http.MethodGet, "/v1/medicines/aspirin?age=30", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-42"))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		logs := out.String()
		for _, want := range []string{"request_id=req-42", "status_code=418", "bytes_written=15", "query=age=30"} {
			if !strings.Contains(logs, want) {
				t.Errorf("Expected %q in log line, got %q", want, logs)
			}
		}
	})
}
