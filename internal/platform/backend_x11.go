package platform

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/appshell/internal/eventloop"
	"github.com/1broseidon/appshell/internal/x11"
)

const (
	defaultWidth  = 1024
	defaultHeight = 768
)

// X11System is the WindowSystem backed by an X11 connection. X events are
// read on the goroutine running EventLoop and forwarded to the Emitter.
type X11System struct {
	conn     *x11.Connection
	emitter  Emitter
	class    string
	logger   *slog.Logger
	urlAtom  xproto.Atom
	mu       sync.Mutex
	windows  map[WindowID]*x11Window
	shutdown bool
}

var _ WindowSystem = (*X11System)(nil)

// NewX11System opens a connection to display ($DISPLAY when empty).
func NewX11System(display, class string, emitter Emitter, logger *slog.Logger) (*X11System, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	atom, err := conn.ContentURLAtom()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to intern %s: %w", x11.ContentURLProperty, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &X11System{
		conn:    conn,
		emitter: emitter,
		class:   class,
		logger:  logger,
		urlAtom: atom,
		windows: make(map[WindowID]*x11Window),
	}, nil
}

// EventLoop reads X events until Quit (blocking).
func (s *X11System) EventLoop() {
	s.conn.EventLoop()
}

// Quit stops EventLoop and disconnects.
func (s *X11System) Quit() {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		return
	}
	s.shutdown = true
	s.mu.Unlock()

	s.conn.Quit()
	s.conn.Close()
}

// CreateWindow creates, maps and starts tracking a top-level window.
func (s *X11System) CreateWindow(opts WindowOptions) (Window, error) {
	width := valueOr(opts.Width, defaultWidth)
	height := valueOr(opts.Height, defaultHeight)

	x, y := 0, 0
	if opts.X == nil || opts.Y == nil {
		m := s.conn.PointerMonitor()
		x = m.X + (m.Width-width)/2
		y = m.Y + (m.Height-height)/2
	}
	x = valueOr(opts.X, x)
	y = valueOr(opts.Y, y)
	x, y, width, height = x11.ClampRect(x, y, width, height)

	xwin, err := s.conn.CreateTopLevel(x, y, width, height, s.class)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w := &x11Window{
		sys:  s,
		xwin: xwin,
		id:   WindowID(xwin.Id),
		last: Rect{X: x, Y: y, Width: width, Height: height},
	}
	if opts.Title != "" {
		if err := w.SetTitle(opts.Title); err != nil {
			s.logger.Warn("failed to set window title", "window_id", w.id, "error", err)
		}
	}

	s.mu.Lock()
	s.windows[w.id] = w
	s.mu.Unlock()

	w.attach()
	return w, nil
}

func (s *X11System) forget(id WindowID) (remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, id)
	return len(s.windows)
}

type x11Window struct {
	sys  *X11System
	xwin *xwindow.Window
	id   WindowID

	mu        sync.Mutex
	last      Rect
	closeOnce sync.Once
}

func (w *x11Window) ID() WindowID { return w.id }

func (w *x11Window) Source() eventloop.Source { return WindowSource(w.id) }

func (w *x11Window) Bounds() (Rect, error) {
	x, y, width, height, err := w.sys.conn.WindowRect(w.xwin.Id)
	if err != nil {
		return Rect{}, fmt.Errorf("failed to read bounds of window %d: %w", w.id, err)
	}
	return Rect{X: x, Y: y, Width: width, Height: height}, nil
}

func (w *x11Window) SetTitle(title string) error {
	return w.sys.conn.SetTitle(w.xwin.Id, title)
}

// RemoveMenu is a no-op: X11 windows have no native menu bar.
func (w *x11Window) RemoveMenu() error {
	return nil
}

func (w *x11Window) LoadURL(url string) error {
	return w.sys.conn.SetContentURL(w.xwin.Id, url)
}

func (w *x11Window) Close() error {
	w.destroy()
	return nil
}

func (w *x11Window) attach() {
	xu := w.sys.conn.XUtil

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, _ xevent.ConfigureNotifyEvent) {
		w.geometryChanged()
	}).Connect(xu, w.xwin.Id)

	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if ev.Atom == w.sys.urlAtom && ev.State == xproto.PropertyNewValue {
			w.sys.emitter.Emit(w.Source(), EventContentLoaded)
		}
	}).Connect(xu, w.xwin.Id)

	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, _ xevent.DestroyNotifyEvent) {
		w.destroy()
	}).Connect(xu, w.xwin.Id)

	w.xwin.WMGracefulClose(func(_ *xwindow.Window) {
		w.destroy()
	})
}

// geometryChanged compares the current bounds with the last seen ones and
// emits move and/or resize.
func (w *x11Window) geometryChanged() {
	rect, err := w.Bounds()
	if err != nil {
		return
	}

	w.mu.Lock()
	prev := w.last
	w.last = rect
	w.mu.Unlock()

	for _, kind := range boundsEvents(prev, rect) {
		w.sys.emitter.Emit(w.Source(), kind)
	}
}

// boundsEvents returns the window events for a change from prev to next:
// resize before move, nothing when the rect is unchanged.
func boundsEvents(prev, next Rect) []eventloop.Kind {
	var kinds []eventloop.Kind
	if next.Width != prev.Width || next.Height != prev.Height {
		kinds = append(kinds, EventResize)
	}
	if next.X != prev.X || next.Y != prev.Y {
		kinds = append(kinds, EventMove)
	}
	return kinds
}

func (w *x11Window) destroy() {
	w.closeOnce.Do(func() {
		w.xwin.Destroy()
		w.sys.closed(w.id)
	})
}

// closed forgets id and emits its closed event, followed by
// window-all-closed when it was the last window.
func (s *X11System) closed(id WindowID) {
	s.emitter.Emit(WindowSource(id), EventClosed)
	if s.forget(id) == 0 {
		s.emitter.Emit(AppSource, EventAllWindowsClosed)
	}
}

func valueOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
