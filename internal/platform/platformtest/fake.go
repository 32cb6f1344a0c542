// Package platformtest provides an in-memory WindowSystem for tests.
package platformtest

import (
	"errors"

	"github.com/1broseidon/appshell/internal/eventloop"
	"github.com/1broseidon/appshell/internal/platform"
)

// ErrCreateFailed is returned by CreateWindow when FailCreate is set.
var ErrCreateFailed = errors.New("fake window creation failed")

// System records created windows and emits their events like a real backend.
type System struct {
	Emitter    platform.Emitter
	FailCreate bool

	Created []*Window
	nextID  platform.WindowID
	open    int
}

var _ platform.WindowSystem = (*System)(nil)

// NewSystem returns a fake emitting into e.
func NewSystem(e platform.Emitter) *System {
	return &System{Emitter: e, nextID: 100}
}

// CreateWindow records opts and returns a new open Window.
func (s *System) CreateWindow(opts platform.WindowOptions) (platform.Window, error) {
	if s.FailCreate {
		return nil, ErrCreateFailed
	}
	s.nextID++
	w := &Window{
		sys:     s,
		id:      s.nextID,
		Options: opts,
		Title:   opts.Title,
		Rect: platform.Rect{
			X:      deref(opts.X, 0),
			Y:      deref(opts.Y, 0),
			Width:  deref(opts.Width, 800),
			Height: deref(opts.Height, 600),
		},
	}
	s.Created = append(s.Created, w)
	s.open++
	return w, nil
}

// Last returns the most recently created window, or nil.
func (s *System) Last() *Window {
	if len(s.Created) == 0 {
		return nil
	}
	return s.Created[len(s.Created)-1]
}

// Window is a fake top-level window.
type Window struct {
	sys *System
	id  platform.WindowID

	Options     platform.WindowOptions
	Title       string
	Rect        platform.Rect
	BoundsErr   error
	MenuRemoved bool
	URLs        []string
	Closed      bool
}

func (w *Window) ID() platform.WindowID          { return w.id }
func (w *Window) Source() eventloop.Source       { return platform.WindowSource(w.id) }
func (w *Window) SetTitle(title string) error    { w.Title = title; return nil }
func (w *Window) RemoveMenu() error              { w.MenuRemoved = true; return nil }
func (w *Window) LoadURL(url string) error       { w.URLs = append(w.URLs, url); return nil }
func (w *Window) Bounds() (platform.Rect, error) { return w.Rect, w.BoundsErr }

// Close destroys the window and emits closed, plus window-all-closed when it
// was the last open window.
func (w *Window) Close() error {
	if w.Closed {
		return nil
	}
	w.Closed = true
	w.sys.open--
	w.sys.Emitter.Emit(w.Source(), platform.EventClosed)
	if w.sys.open == 0 {
		w.sys.Emitter.Emit(platform.AppSource, platform.EventAllWindowsClosed)
	}
	return nil
}

// CurrentURL returns the last loaded URL.
func (w *Window) CurrentURL() string {
	if len(w.URLs) == 0 {
		return ""
	}
	return w.URLs[len(w.URLs)-1]
}

// FinishLoad emits did-finish-load.
func (w *Window) FinishLoad() {
	w.sys.Emitter.Emit(w.Source(), platform.EventContentLoaded)
}

// Resize changes the size and emits resize.
func (w *Window) Resize(width, height int) {
	w.Rect.Width, w.Rect.Height = width, height
	w.sys.Emitter.Emit(w.Source(), platform.EventResize)
}

// Move changes the position and emits move.
func (w *Window) Move(x, y int) {
	w.Rect.X, w.Rect.Y = x, y
	w.sys.Emitter.Emit(w.Source(), platform.EventMove)
}

func deref(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
