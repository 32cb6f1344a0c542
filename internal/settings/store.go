package settings

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/appshell/internal/metrics"
)

var (
	// ErrAlreadyInitialized is returned by a second Init.
	ErrAlreadyInitialized = errors.New("settings already initialized")
	// ErrNotInitialized is the panic value of Get/Dispatch before Init.
	ErrNotInitialized = errors.New("settings not initialized")
)

// Storage loads the aggregate once and receives every new snapshot.
// Persist is fire-and-forget; failures are the storage's to report.
type Storage interface {
	Load() (Settings, error)
	Persist(Settings)
}

// Store owns the in-memory settings. Its methods must be called from the
// event loop goroutine; the execution model provides mutual exclusion.
type Store struct {
	current Settings
	storage Storage
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics records dispatches on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// NewStore loads settings from storage.
func NewStore(storage Storage, opts ...Option) (*Store, error) {
	s := &Store{
		storage: storage,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	s.current = loaded
	return s, nil
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	return s.current.Clone()
}

// Dispatch applies a and hands the result to storage.
func (s *Store) Dispatch(a Action) {
	s.current = Reduce(s.current, a)
	s.metrics.ObserveDispatch(string(a.Type()))
	s.logger.Debug("settings dispatch", "action", a.Type())
	s.storage.Persist(s.current.Clone())
}

var process *Store

// Init loads the process-wide store. It can only succeed once.
func Init(storage Storage, opts ...Option) error {
	if process != nil {
		return ErrAlreadyInitialized
	}
	s, err := NewStore(storage, opts...)
	if err != nil {
		return err
	}
	process = s
	return nil
}

// Get returns a copy of the process-wide settings.
func Get() Settings {
	return mustProcess().Get()
}

// Dispatch applies a to the process-wide settings.
func Dispatch(a Action) {
	mustProcess().Dispatch(a)
}

// Process returns the process-wide store for components that take a
// store by interface.
func Process() *Store {
	return mustProcess()
}

func mustProcess() *Store {
	if process == nil {
		panic(ErrNotInitialized)
	}
	return process
}
