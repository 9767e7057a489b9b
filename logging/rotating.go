package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const logFilePrefix = "safety-"

// RotatingLogger is an io.Writer that starts a new file every ISO week and
// whenever the current file would grow past maxFileSize.
type RotatingLogger struct {
	dir         string
	retention   time.Duration
	maxFileSize int64

	mu      sync.Mutex
	file    *os.File
	week    string
	part    int
	written int64

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRotatingLogger opens the file for the current week and starts the daily
// retention sweep.
func NewRotatingLogger(dir string, retentionWeeks int, maxFileSize int64) (*RotatingLogger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	rl := &RotatingLogger{
		dir:         dir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		cancel:      cancel,
		done:        make(chan struct{}),
	}

	rl.mu.Lock()
	err := rl.openLocked(weekKey(time.Now()))
	rl.mu.Unlock()
	if err != nil {
		cancel()
		return nil, err
	}

	go rl.sweep(ctx)
	return rl, nil
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (rl *RotatingLogger) fileName(week string, part int) string {
	if part == 0 {
		return fmt.Sprintf("%s%s.log", logFilePrefix, week)
	}
	return fmt.Sprintf("%s%s_%02d.log", logFilePrefix, week, part)
}

// openLocked opens the first file of week that still has room. Caller holds mu.
func (rl *RotatingLogger) openLocked(week string) error {
	if rl.file != nil {
		if err := rl.file.Close(); err != nil {
			slog.Warn("Failed to close log file during rotation", "error", err)
		}
		rl.file = nil
	}

	part := 0
	if rl.week == week {
		part = rl.part + 1
	}
	for {
		path := filepath.Join(rl.dir, rl.fileName(week, part))
		info, err := os.Stat(path)
		if err != nil || rl.maxFileSize <= 0 || info.Size() < rl.maxFileSize {
			break
		}
		part++
	}

	path := filepath.Join(rl.dir, rl.fileName(week, part))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	rl.file = f
	rl.week = week
	rl.part = part
	rl.written = 0
	if info, err := f.Stat(); err == nil {
		rl.written = info.Size()
	}
	return nil
}

// Write implements io.Writer.
func (rl *RotatingLogger) Write(p []byte) (int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	week := weekKey(time.Now())
	full := rl.maxFileSize > 0 && rl.written > 0 && rl.written+int64(len(p)) > rl.maxFileSize
	if rl.file == nil || week != rl.week || full {
		if err := rl.openLocked(week); err != nil {
			return 0, err
		}
	}

	n, err := rl.file.Write(p)
	rl.written += int64(n)
	return n, err
}

// CurrentFile returns the path of the file being written.
func (rl *RotatingLogger) CurrentFile() string {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.file == nil {
		return ""
	}
	return rl.file.Name()
}

// removeExpired deletes log files last modified before the retention window.
func (rl *RotatingLogger) removeExpired(now time.Time) (int, error) {
	entries, err := os.ReadDir(rl.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := now.Add(-rl.retention)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(rl.dir, name)) == nil {
			removed++
		}
	}
	return removed, nil
}

func (rl *RotatingLogger) sweep(ctx context.Context) {
	defer close(rl.done)
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n, err := rl.removeExpired(now); err != nil {
				slog.Warn("Log retention sweep failed", "error", err)
			} else if n > 0 {
				slog.Info("Removed expired log files", "count", n)
			}
		}
	}
}

// Close stops the retention sweep and closes the current file.
func (rl *RotatingLogger) Close() error {
	rl.cancel()
	<-rl.done

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.file == nil {
		return nil
	}
	err := rl.file.Close()
	rl.file = nil
	return err
}
