package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/appshell/internal/eventloop"
	"github.com/1broseidon/appshell/internal/geometry"
	"github.com/1broseidon/appshell/internal/ipc"
	"github.com/1broseidon/appshell/internal/platform"
	"github.com/1broseidon/appshell/internal/settings"
)

// ErrNotReady is returned while the settings store or coordinator has not
// been attached yet.
var ErrNotReady = errors.New("application not ready")

// Store is the settings access the service needs.
type Store interface {
	Get() settings.Settings
	Dispatch(a settings.Action)
}

// WindowState reports on the main window. *lifecycle.Coordinator satisfies it.
type WindowState interface {
	HasWindow() bool
	Window() (platform.Window, bool)
}

// Info identifies this launch.
type Info struct {
	InstanceID  string
	ProductName string
	Version     string
	Platform    string
	Started     time.Time
}

// WindowStateOutput is the main window snapshot returned over MCP.
type WindowStateOutput struct {
	Present bool              `json:"present" jsonschema:"Whether the main window exists"`
	X       int               `json:"x,omitempty"`
	Y       int               `json:"y,omitempty"`
	Width   int               `json:"width,omitempty"`
	Height  int               `json:"height,omitempty"`
	Stored  geometry.Geometry `json:"stored" jsonschema:"Geometry remembered in settings"`
}

// App adapts the running application for the IPC and MCP surfaces. Every
// read and write hops onto the scheduler with Call, so the store and
// coordinator are only touched from the loop goroutine.
type App struct {
	loop    *eventloop.Loop
	info    Info
	store   Store
	windows WindowState
}

// NewApp creates the adapter and assigns a fresh instance id.
func NewApp(loop *eventloop.Loop, productName, version, platform string) *App {
	return &App{
		loop: loop,
		info: Info{
			InstanceID:  uuid.NewString(),
			ProductName: productName,
			Version:     version,
			Platform:    platform,
			Started:     time.Now(),
		},
	}
}

// Attach wires the store and coordinator. It must be called before the loop
// runs.
func (a *App) Attach(store Store, windows WindowState) {
	a.store = store
	a.windows = windows
}

// Info returns the launch identity.
func (a *App) Info() Info {
	return a.info
}

// Status implements ipc.Backend.
func (a *App) Status(ctx context.Context) (ipc.StatusData, error) {
	status := ipc.StatusData{
		InstanceID:    a.info.InstanceID,
		ProductName:   a.info.ProductName,
		Version:       a.info.Version,
		Platform:      a.info.Platform,
		UptimeSeconds: int64(time.Since(a.info.Started).Seconds()),
	}
	err := a.loop.Call(ctx, func() {
		status.WindowPresent = a.windows != nil && a.windows.HasWindow()
	})
	return status, err
}

// Settings implements ipc.Backend.
func (a *App) Settings(ctx context.Context) (settings.Settings, error) {
	var (
		st    settings.Settings
		ready bool
	)
	if err := a.loop.Call(ctx, func() {
		if a.store == nil {
			return
		}
		st = a.store.Get()
		ready = true
	}); err != nil {
		return settings.Settings{}, err
	}
	if !ready {
		return settings.Settings{}, ErrNotReady
	}
	return st, nil
}

// Activate implements ipc.Backend by emitting the activate event.
func (a *App) Activate(ctx context.Context) error {
	return a.loop.Call(ctx, func() {
		a.loop.Emit(platform.AppSource, platform.EventActivate)
	})
}

// SetFramework implements ipc.Backend.
func (a *App) SetFramework(ctx context.Context, fw settings.Framework) error {
	var ready bool
	if err := a.loop.Call(ctx, func() {
		if a.store == nil {
			return
		}
		a.store.Dispatch(settings.SetFramework{State: fw})
		ready = true
	}); err != nil {
		return err
	}
	if !ready {
		return ErrNotReady
	}
	return nil
}

// WindowState returns the live window bounds and the stored geometry.
func (a *App) WindowState(ctx context.Context) (WindowStateOutput, error) {
	var (
		out      WindowStateOutput
		boundErr error
		ready    bool
	)
	if err := a.loop.Call(ctx, func() {
		if a.store == nil || a.windows == nil {
			return
		}
		ready = true
		out.Stored = a.store.Get().WindowState
		win, ok := a.windows.Window()
		if !ok {
			return
		}
		out.Present = true
		r, err := win.Bounds()
		if err != nil {
			boundErr = err
			return
		}
		out.X, out.Y, out.Width, out.Height = r.X, r.Y, r.Width, r.Height
	}); err != nil {
		return WindowStateOutput{}, err
	}
	if !ready {
		return WindowStateOutput{}, ErrNotReady
	}
	return out, boundErr
}

var _ ipc.Backend = (*App)(nil)
