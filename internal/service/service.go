// Package service runs the shell's background surfaces: the single-instance
// IPC socket and an optional HTTP listener for health, metrics and MCP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1broseidon/appshell/internal/config"
	"github.com/1broseidon/appshell/internal/ipc"
	"github.com/1broseidon/appshell/internal/metrics"
)

const shutdownTimeout = 3 * time.Second

// Deps are the service's collaborators.
type Deps struct {
	Config     config.ServiceConfig
	App        *App
	Metrics    *metrics.Metrics
	SocketPath string
	Logger     *slog.Logger
}

// Service is a started background service.
type Service struct {
	logger *slog.Logger
	ipc    *ipc.Server
	http   *http.Server

	mu   sync.Mutex
	addr net.Addr

	stopOnce sync.Once
}

// Startup starts the IPC server and, when configured, the HTTP listener. It
// never fails: errors are logged and the affected surface stays down. The
// service stops when ctx is cancelled or Stop is called.
func Startup(ctx context.Context, deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{logger: logger}

	if deps.SocketPath != "" {
		srv := ipc.NewServer(deps.SocketPath, deps.App, logger)
		if err := srv.Start(); err != nil {
			logger.Warn("IPC server not started", "err", err)
		} else {
			s.ipc = srv
		}
	}

	if deps.Config.Listen != "" {
		if err := s.startHTTP(deps); err != nil {
			logger.Warn("HTTP listener not started", "listen", deps.Config.Listen, "err", err)
		}
	}

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return s
}

func (s *Service) startHTTP(deps Deps) error {
	ln, err := net.Listen("tcp", deps.Config.Listen)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.http = &http.Server{
		Handler:           NewHandler(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv := s.http
	s.mu.Unlock()

	s.logger.Info("HTTP listener started", "addr", ln.Addr().String())

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("HTTP listener stopped", "err", err)
		}
	}()
	return nil
}

// NewHandler builds the HTTP routes for deps.
func NewHandler(deps Deps) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	if deps.Config.Metrics && deps.Metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{}))
	}
	if deps.Config.MCP && deps.App != nil {
		server := NewMCPServer(deps.App)
		mux.Handle("/mcp", mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
			return server
		}, nil))
	}
	return mux
}

// Addr returns the HTTP listener address, or nil when it is not running.
func (s *Service) Addr() net.Addr {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Stop shuts both surfaces down. It is safe to call more than once.
func (s *Service) Stop() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() {
		if s.ipc != nil {
			s.ipc.Stop()
		}
		s.mu.Lock()
		srv := s.http
		s.mu.Unlock()
		if srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				s.logger.Warn("HTTP shutdown", "err", err)
			}
		}
	})
}
