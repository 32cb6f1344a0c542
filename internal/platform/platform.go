// Package platform abstracts the windowing subsystem: window creation,
// bounds, content loading and the app and window events fed to the
// scheduler.
package platform

import (
	"fmt"

	"github.com/1broseidon/appshell/internal/eventloop"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Application-scoped events, emitted on AppSource.
const (
	AppSource eventloop.Source = "app"

	EventReady            eventloop.Kind = "ready"
	EventActivate         eventloop.Kind = "activate"
	EventAllWindowsClosed eventloop.Kind = "window-all-closed"
)

// Window-scoped events, emitted on Window.Source().
const (
	EventResize        eventloop.Kind = "resize"
	EventMove          eventloop.Kind = "move"
	EventClosed        eventloop.Kind = "closed"
	EventContentLoaded eventloop.Kind = "did-finish-load"
)

// WindowSource returns the event source for a window.
func WindowSource(id WindowID) eventloop.Source {
	return eventloop.Source(fmt.Sprintf("window:%d", id))
}

// WindowOptions are the initial properties of a new window. Nil bounds are
// chosen by the window system.
type WindowOptions struct {
	X      *int
	Y      *int
	Width  *int
	Height *int
	Title  string
}

// Window is a live top-level window.
type Window interface {
	ID() WindowID
	Source() eventloop.Source
	Bounds() (Rect, error)
	SetTitle(title string) error
	RemoveMenu() error
	LoadURL(url string) error
	Close() error
}

// WindowSystem creates windows and reports their events to an Emitter.
type WindowSystem interface {
	CreateWindow(opts WindowOptions) (Window, error)
}

// Emitter receives events from a window system. *eventloop.Loop satisfies it.
type Emitter interface {
	Emit(source eventloop.Source, kind eventloop.Kind)
}
