package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/appshell/internal/config"
	"github.com/1broseidon/appshell/internal/eventloop"
	"github.com/1broseidon/appshell/internal/geometry"
	"github.com/1broseidon/appshell/internal/ipc"
	"github.com/1broseidon/appshell/internal/metrics"
	"github.com/1broseidon/appshell/internal/platform"
	"github.com/1broseidon/appshell/internal/platform/platformtest"
	"github.com/1broseidon/appshell/internal/settings"
)

type memStorage struct {
	mu        sync.Mutex
	initial   settings.Settings
	persisted []settings.Settings
}

func (m *memStorage) Load() (settings.Settings, error) { return m.initial.Clone(), nil }

func (m *memStorage) Persist(s settings.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persisted = append(m.persisted, s)
}

type fakeWindows struct {
	win platform.Window
}

func (f *fakeWindows) HasWindow() bool { return f.win != nil }

func (f *fakeWindows) Window() (platform.Window, bool) { return f.win, f.win != nil }

func runLoop(t *testing.T) *eventloop.Loop {
	t.Helper()
	loop := eventloop.New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return loop
}

func newAttachedApp(t *testing.T) (*App, *eventloop.Loop, *settings.Store, *fakeWindows) {
	t.Helper()
	loop := runLoop(t)
	initial := settings.Default()
	initial.WindowState = geometry.FromRect(10, 20, 640, 480)
	store, err := settings.NewStore(&memStorage{initial: initial})
	require.NoError(t, err)

	sys := platformtest.NewSystem(loop)
	win, err := sys.CreateWindow(platform.WindowOptions{
		X: geometry.Int(5), Y: geometry.Int(6), Width: geometry.Int(700), Height: geometry.Int(500),
	})
	require.NoError(t, err)

	windows := &fakeWindows{win: win}
	app := NewApp(loop, "Bot Framework Emulator", "3.5.0", "linux")
	app.Attach(store, windows)
	return app, loop, store, windows
}

func ctxTimeout(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestApp_StatusBeforeAttach(t *testing.T) {
	app := NewApp(runLoop(t), "Emu", "1.0.0", "win32")

	status, err := app.Status(ctxTimeout(t))
	require.NoError(t, err)
	assert.False(t, status.WindowPresent)
	assert.Equal(t, "win32", status.Platform)
	_, err = uuid.Parse(status.InstanceID)
	assert.NoError(t, err)

	_, err = app.Settings(ctxTimeout(t))
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, app.SetFramework(ctxTimeout(t), settings.Framework{}), ErrNotReady)
}

func TestApp_InstanceIDsDiffer(t *testing.T) {
	loop := eventloop.New(nil)
	a := NewApp(loop, "Emu", "1.0.0", "linux")
	b := NewApp(loop, "Emu", "1.0.0", "linux")
	assert.NotEqual(t, a.Info().InstanceID, b.Info().InstanceID)
}

func TestApp_SetFrameworkDispatches(t *testing.T) {
	app, _, _, _ := newAttachedApp(t)
	fw := settings.Framework{NgrokPath: "/bin/ngrok", StateSizeLimitKB: 256, Locale: "fr-FR"}

	require.NoError(t, app.SetFramework(ctxTimeout(t), fw))

	st, err := app.Settings(ctxTimeout(t))
	require.NoError(t, err)
	assert.Equal(t, fw, st.Framework)
	assert.Equal(t, geometry.FromRect(10, 20, 640, 480), st.WindowState)
}

func TestApp_ActivateEmitsEvent(t *testing.T) {
	app, loop, _, _ := newAttachedApp(t)
	fired := make(chan struct{}, 1)
	loop.On(platform.AppSource, platform.EventActivate, func() { fired <- struct{}{} })

	require.NoError(t, app.Activate(ctxTimeout(t)))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("activate event not delivered")
	}
}

func TestApp_WindowState(t *testing.T) {
	app, _, _, windows := newAttachedApp(t)

	out, err := app.WindowState(ctxTimeout(t))
	require.NoError(t, err)
	assert.True(t, out.Present)
	assert.Equal(t, 700, out.Width)
	assert.Equal(t, 6, out.Y)
	assert.Equal(t, geometry.FromRect(10, 20, 640, 480), out.Stored)

	windows.win = nil
	out, err = app.WindowState(ctxTimeout(t))
	require.NoError(t, err)
	assert.False(t, out.Present)
	assert.Zero(t, out.Width)
}

func TestApp_StoppedLoop(t *testing.T) {
	loop := eventloop.New(nil)
	loop.Stop()
	app := NewApp(loop, "Emu", "1.0.0", "linux")

	assert.ErrorIs(t, app.Activate(ctxTimeout(t)), eventloop.ErrStopped)
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	m := metrics.New()
	m.ObserveDispatch(string(settings.TypeRememberBounds))
	h := NewHandler(Deps{
		Config:  config.ServiceConfig{Metrics: true},
		Metrics: m,
	})

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `appshell_settings_dispatches_total{action="Window_RememberBounds"} 1`)
}

func TestHandler_MetricsDisabled(t *testing.T) {
	h := NewHandler(Deps{Config: config.ServiceConfig{}, Metrics: metrics.New()})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMCPServer_Tools(t *testing.T) {
	app, _, _, _ := newAttachedApp(t)
	ctx := ctxTimeout(t)

	server := NewMCPServer(app)
	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"get_window_state", "get_settings", "activate_window"}, names)

	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: "get_settings"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.NotNil(t, res.StructuredContent)
}

func TestStartup_ServesIPCAndHTTP(t *testing.T) {
	app, _, _, _ := newAttachedApp(t)
	dir, err := os.MkdirTemp("", "appshell-svc")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	socket := filepath.Join(dir, "s.sock")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := Startup(ctx, Deps{
		Config:     config.ServiceConfig{Listen: "127.0.0.1:0", Metrics: true, MCP: true},
		App:        app,
		Metrics:    metrics.New(),
		SocketPath: socket,
	})
	defer svc.Stop()

	status, err := ipc.NewClientWithPath(socket).GetStatus()
	require.NoError(t, err)
	assert.Equal(t, app.Info().InstanceID, status.InstanceID)
	assert.True(t, status.WindowPresent)

	require.NotNil(t, svc.Addr())
	resp, err := http.Get("http://" + svc.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	svc.Stop()
	svc.Stop()
	assert.Error(t, ipc.NewClientWithPath(socket).Ping())
}

func TestStartup_BadListenStillServesIPC(t *testing.T) {
	app, _, _, _ := newAttachedApp(t)
	dir, err := os.MkdirTemp("", "appshell-svc")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	socket := filepath.Join(dir, "s.sock")

	svc := Startup(context.Background(), Deps{
		Config:     config.ServiceConfig{Listen: "256.0.0.1:99999"},
		App:        app,
		SocketPath: socket,
	})
	defer svc.Stop()

	assert.Nil(t, svc.Addr())
	assert.NoError(t, ipc.NewClientWithPath(socket).Ping())
}
