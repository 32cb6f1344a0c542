package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/appshell/internal/settings"
)

// requestTimeout bounds how long a handler may wait on the application.
const requestTimeout = 5 * time.Second

// Backend answers IPC commands on behalf of the running application.
type Backend interface {
	Status(ctx context.Context) (StatusData, error)
	Settings(ctx context.Context) (settings.Settings, error)
	Activate(ctx context.Context) error
	SetFramework(ctx context.Context, fw settings.Framework) error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	backend      Backend
	logger       *slog.Logger
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server on socketPath. Any stale socket file is
// removed; callers check for a live instance first.
func NewServer(socketPath string, backend Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		backend:    backend,
		logger:     logger,
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			s.logger.Warn("IPC accept error", "err", err)
			return
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(2 * requestTimeout))
	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "err", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	resp := s.handleCommand(ctx, req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal IPC response", "err", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send IPC response", "err", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandGetSettings:
		return s.handleGetSettings(ctx)
	case CommandActivate:
		return s.handleActivate(ctx)
	case CommandSetFramework:
		return s.handleSetFramework(ctx, req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	status, err := s.backend.Status(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get status: %v", err))
	}
	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleGetSettings(ctx context.Context) *Response {
	st, err := s.backend.Settings(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get settings: %v", err))
	}
	resp, err := NewOKResponse(st)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleActivate(ctx context.Context) *Response {
	if err := s.backend.Activate(ctx); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to activate: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetFramework(ctx context.Context, payload json.RawMessage) *Response {
	var req SetFrameworkPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid framework payload: %v", err))
	}
	if err := s.backend.SetFramework(ctx, req.Framework); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set framework: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
