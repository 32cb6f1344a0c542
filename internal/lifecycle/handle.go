package lifecycle

import "github.com/1broseidon/appshell/internal/platform"

// windowHandle is the optional main window. Only the Coordinator sets or
// clears it.
type windowHandle struct {
	win platform.Window
}

func (h *windowHandle) Get() (platform.Window, bool) {
	return h.win, h.win != nil
}

func (h *windowHandle) Present() bool {
	return h.win != nil
}

func (h *windowHandle) set(win platform.Window) {
	h.win = win
}

func (h *windowHandle) clear() {
	h.win = nil
}
