package applog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileConfig holds configuration for the rotating log file.
type FileConfig struct {
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// FileLogger appends to a log file and rotates it by size. It is both an
// io.Writer for slog and the sink for fatal error records.
type FileLogger struct {
	mu          sync.Mutex
	file        *os.File
	config      FileConfig
	currentSize int64
}

// NewFileLogger opens (or creates) the log file.
func NewFileLogger(cfg FileConfig) (*FileLogger, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	// Open or create log file with secure permissions
	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &FileLogger{
		file:        f,
		config:      cfg,
		currentSize: stat.Size(),
	}, nil
}

// Write appends p, rotating first when the file is over its size limit.
func (l *FileLogger) Write(p []byte) (int, error) {
	if l == nil {
		return len(p), nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return 0, os.ErrClosed
	}

	maxBytes := int64(l.config.MaxSizeMB) * 1024 * 1024
	if maxBytes > 0 && l.currentSize >= maxBytes {
		if err := l.rotate(); err != nil {
			// Rotation failed, but continue logging
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
		if l.file == nil {
			return 0, os.ErrClosed
		}
	}

	n, err := l.file.Write(p)
	l.currentSize += int64(n)
	return n, err
}

// Fatal writes a fatal error record (tag, message and serialized stack) to
// stderr and the log file. A nil logger writes to stderr only.
func (l *FileLogger) Fatal(tag, message, stack string) {
	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" ")
	sb.WriteString(tag)
	sb.WriteString(" ")
	sb.WriteString(message)
	sb.WriteString(" stack=")
	sb.WriteString(stack)
	sb.WriteString("\n")

	record := []byte(sb.String())
	os.Stderr.Write(record)
	if _, err := l.Write(record); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write fatal log entry: %v\n", err)
	}
	l.Sync()
}

// Sync flushes the file to disk.
func (l *FileLogger) Sync() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Sync()
	}
}

// Close closes the logger and releases resources.
func (l *FileLogger) Close() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// rotate performs log file rotation.
func (l *FileLogger) rotate() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	// appshell.log.1 -> appshell.log.2 ... with MaxFiles=3 we keep .1, .2, .3
	basePath := l.config.FilePath
	for i := l.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		newPath := fmt.Sprintf("%s.%d", basePath, i+1)
		if i == l.config.MaxFiles {
			os.Remove(oldPath)
		} else {
			os.Rename(oldPath, newPath)
		}
	}

	if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}

	l.file = f
	l.currentSize = 0
	return nil
}
