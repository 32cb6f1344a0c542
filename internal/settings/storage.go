package settings

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/appshell/internal/metrics"
)

// DefaultPath returns ~/.config/appshell/settings.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "appshell", "settings.yaml"), nil
}

// FileStorage reads and writes settings as YAML at Path.
type FileStorage struct {
	Path string
}

// Load reads the file. A missing or empty file yields Default().
func (f *FileStorage) Load() (Settings, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("failed to read settings %s: %w", f.Path, err)
	}

	s := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings %s: %w", f.Path, err)
	}
	return s, nil
}

// Write stores s atomically.
func (f *FileStorage) Write(s Settings) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmpPath, f.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace settings %s: %w", f.Path, err)
	}
	return nil
}

// Persist writes s synchronously and only logs failures.
func (f *FileStorage) Persist(s Settings) {
	if err := f.Write(s); err != nil {
		slog.Warn("settings write failed", "path", f.Path, "error", err)
	}
}

// Writer is the synchronous half of a storage, wrapped by AsyncStorage.
type Writer interface {
	Load() (Settings, error)
	Write(Settings) error
}

// AsyncStorage moves writes off the event loop. Only the newest pending
// snapshot is kept; older ones are dropped since each snapshot is complete.
type AsyncStorage struct {
	inner   Writer
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	pending *Settings
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
}

// NewAsyncStorage starts the writer goroutine. Call Close to flush it.
func NewAsyncStorage(inner Writer, logger *slog.Logger, m *metrics.Metrics) *AsyncStorage {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &AsyncStorage{
		inner:   inner,
		logger:  logger,
		metrics: m,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go a.run()
	return a
}

// Load reads through to the wrapped storage.
func (a *AsyncStorage) Load() (Settings, error) {
	return a.inner.Load()
}

// Persist queues s, replacing any snapshot not yet written.
func (a *AsyncStorage) Persist(s Settings) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		a.logger.Warn("settings persisted after close; dropping")
		return
	}
	snapshot := s.Clone()
	a.pending = &snapshot
	select {
	case a.wake <- struct{}{}:
	default:
	}
	a.mu.Unlock()
}

// Close writes the last pending snapshot and stops the writer.
func (a *AsyncStorage) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		<-a.stopped
		return nil
	}
	a.closed = true
	close(a.wake)
	a.mu.Unlock()

	<-a.stopped
	return nil
}

func (a *AsyncStorage) run() {
	defer close(a.stopped)
	for range a.wake {
		a.flush()
	}
	a.flush()
}

func (a *AsyncStorage) flush() {
	a.mu.Lock()
	next := a.pending
	a.pending = nil
	a.mu.Unlock()

	if next == nil {
		return
	}
	err := a.inner.Write(*next)
	a.metrics.ObservePersist(err)
	if err != nil {
		a.logger.Warn("settings write failed", "error", err)
	}
}
