package lifecycle

import (
	"log/slog"

	"github.com/1broseidon/appshell/internal/eventloop"
	"github.com/1broseidon/appshell/internal/geometry"
	"github.com/1broseidon/appshell/internal/metrics"
	"github.com/1broseidon/appshell/internal/platform"
	"github.com/1broseidon/appshell/internal/settings"
)

// Tracker remembers the window's bounds in settings on every resize and move.
type Tracker struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewTracker returns a tracker dispatching into store.
func NewTracker(store Store, logger *slog.Logger, m *metrics.Metrics) *Tracker {
	return &Tracker{store: store, logger: logger, metrics: m}
}

// Track subscribes to win's resize and move events. The returned funcs
// remove the subscriptions.
func (t *Tracker) Track(scheduler Scheduler, win platform.Window) []func() {
	return []func(){
		scheduler.On(win.Source(), platform.EventResize, func() { t.remember(win, platform.EventResize) }),
		scheduler.On(win.Source(), platform.EventMove, func() { t.remember(win, platform.EventMove) }),
	}
}

func (t *Tracker) remember(win platform.Window, kind eventloop.Kind) {
	bounds, err := win.Bounds()
	if err != nil {
		t.logger.Warn("failed to read window bounds", "window_id", win.ID(), "error", err)
		return
	}
	t.metrics.ObserveWindowEvent(string(kind))
	t.store.Dispatch(settings.RememberBounds{
		State: geometry.FromRect(bounds.X, bounds.Y, bounds.Width, bounds.Height),
	})
}
