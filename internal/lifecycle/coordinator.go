// Package lifecycle owns the main window: when it is created, how its
// geometry is remembered, and what happens when it goes away.
package lifecycle

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/appshell/internal/eventloop"
	"github.com/1broseidon/appshell/internal/geometry"
	"github.com/1broseidon/appshell/internal/metrics"
	"github.com/1broseidon/appshell/internal/platform"
	"github.com/1broseidon/appshell/internal/settings"
)

// Darwin is the platform that keeps the app running with no windows and
// needs a menu bar for clipboard shortcuts.
const Darwin = "darwin"

// Store is the settings access the coordinator needs. *settings.Store
// satisfies it.
type Store interface {
	Get() settings.Settings
	Dispatch(a settings.Action)
}

// Scheduler is the part of the event loop the coordinator subscribes with.
type Scheduler interface {
	On(source eventloop.Source, kind eventloop.Kind, h eventloop.Handler) (cancel func())
	Once(source eventloop.Source, kind eventloop.Kind, h eventloop.Handler) (cancel func())
	RemoveSource(source eventloop.Source)
}

// ContentLoader shows content in a new window.
type ContentLoader interface {
	Load(win platform.Window) error
}

// Quitter ends the process's event processing.
type Quitter interface {
	Quit()
}

// Config holds what the coordinator needs besides its collaborators.
type Config struct {
	ProductName string
	Version     string
	Platform    string
}

// Title returns the main window title.
func (c Config) Title() string {
	return fmt.Sprintf("%s (v%s)", c.ProductName, c.Version)
}

// Coordinator reacts to application lifecycle events and owns the main window.
type Coordinator struct {
	cfg       Config
	scheduler Scheduler
	windows   platform.WindowSystem
	store     Store
	content   ContentLoader
	quitter   Quitter
	tracker   *Tracker
	logger    *slog.Logger
	metrics   *metrics.Metrics

	main windowHandle
}

// Deps are the coordinator's collaborators.
type Deps struct {
	Scheduler Scheduler
	Windows   platform.WindowSystem
	Store     Store
	Content   ContentLoader
	Quitter   Quitter
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// NewCoordinator creates a coordinator. Call Start to subscribe it.
func NewCoordinator(cfg Config, deps Deps) *Coordinator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		cfg:       cfg,
		scheduler: deps.Scheduler,
		windows:   deps.Windows,
		store:     deps.Store,
		content:   deps.Content,
		quitter:   deps.Quitter,
		tracker:   NewTracker(deps.Store, logger, deps.Metrics),
		logger:    logger,
		metrics:   deps.Metrics,
	}
}

// Start subscribes to ready, window-all-closed and activate.
func (c *Coordinator) Start() {
	c.scheduler.On(platform.AppSource, platform.EventReady, c.OnReady)
	c.scheduler.On(platform.AppSource, platform.EventAllWindowsClosed, c.OnAllWindowsClosed)
	c.scheduler.On(platform.AppSource, platform.EventActivate, c.OnActivate)
}

// OnReady creates the main window once the window system is up.
func (c *Coordinator) OnReady() {
	c.logger.Info("window system ready", "platform", c.cfg.Platform)
	if c.main.Present() {
		return
	}
	c.createWindow()
}

// OnAllWindowsClosed quits, except on darwin where apps stay resident.
func (c *Coordinator) OnAllWindowsClosed() {
	if c.cfg.Platform == Darwin {
		c.logger.Debug("all windows closed; staying resident")
		return
	}
	c.logger.Info("all windows closed; quitting")
	c.quitter.Quit()
}

// OnActivate reopens the main window if it was closed.
func (c *Coordinator) OnActivate() {
	if c.main.Present() {
		return
	}
	c.logger.Info("reactivated without a window; recreating")
	c.createWindow()
}

// HasWindow reports whether the main window exists.
func (c *Coordinator) HasWindow() bool {
	return c.main.Present()
}

// Window returns the main window if it exists.
func (c *Coordinator) Window() (platform.Window, bool) {
	return c.main.Get()
}

// createWindow builds the main window from the remembered geometry. Errors
// are not recovered here; they panic to the process boundary.
func (c *Coordinator) createWindow() {
	bounds := geometry.Sanitize(c.store.Get().WindowState, 0)

	win, err := c.windows.CreateWindow(platform.WindowOptions{
		X:      bounds.Left,
		Y:      bounds.Top,
		Width:  bounds.Width,
		Height: bounds.Height,
		Title:  c.cfg.Title(),
	})
	if err != nil {
		panic(fmt.Errorf("create main window: %w", err))
	}
	c.main.set(win)
	c.metrics.SetWindowOpen(true)

	if err := win.SetTitle(c.cfg.Title()); err != nil {
		c.logger.Warn("failed to set window title", "error", err)
	}
	if c.cfg.Platform != Darwin {
		if err := win.RemoveMenu(); err != nil {
			c.logger.Warn("failed to remove menu bar", "error", err)
		}
	}

	c.tracker.Track(c.scheduler, win)
	c.scheduler.On(win.Source(), platform.EventClosed, func() { c.onClosed(win) })

	if err := c.content.Load(win); err != nil {
		panic(fmt.Errorf("load window content: %w", err))
	}
	c.logger.Info("main window created", "window_id", win.ID(), "title", c.cfg.Title())
}

func (c *Coordinator) onClosed(win platform.Window) {
	current, ok := c.main.Get()
	if !ok || current.ID() != win.ID() {
		return
	}
	// Drops the tracker and any content listener that never fired.
	c.scheduler.RemoveSource(win.Source())
	c.main.clear()
	c.metrics.SetWindowOpen(false)
	c.logger.Info("main window closed", "window_id", win.ID())
}
