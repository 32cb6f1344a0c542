// Package content sequences what the main window displays: a local splash
// page first, then the application once the splash has finished loading.
package content

import (
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/1broseidon/appshell/internal/eventloop"
	"github.com/1broseidon/appshell/internal/platform"
)

// Scheduler is the part of the event loop the loader needs.
type Scheduler interface {
	Once(source eventloop.Source, kind eventloop.Kind, h eventloop.Handler) (cancel func())
}

// Loader builds file URLs under Dir and drives the two-stage load.
type Loader struct {
	Dir    string
	Splash string
	Main   string

	scheduler Scheduler
	logger    *slog.Logger
}

// NewLoader returns a loader for pages in dir.
func NewLoader(scheduler Scheduler, dir, splash, main string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		Dir:       dir,
		Splash:    splash,
		Main:      main,
		scheduler: scheduler,
		logger:    logger,
	}
}

// SplashURL returns the file URL of the splash page.
func (l *Loader) SplashURL() string {
	return FileURL(filepath.Join(l.Dir, l.Splash))
}

// MainURL returns the file URL of the application page.
func (l *Loader) MainURL() string {
	return FileURL(filepath.Join(l.Dir, l.Main))
}

// Load shows the splash page now and swaps to the main page on the window's
// first did-finish-load. The swap happens once per window.
func (l *Loader) Load(win platform.Window) error {
	l.scheduler.Once(win.Source(), platform.EventContentLoaded, func() {
		if err := win.LoadURL(l.MainURL()); err != nil {
			l.logger.Error("failed to load main content", "window_id", win.ID(), "error", err)
		}
	})

	if err := win.LoadURL(l.SplashURL()); err != nil {
		return fmt.Errorf("failed to load splash content: %w", err)
	}
	return nil
}

// FileURL formats an absolute path as a file:// URL.
func FileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	slashed := filepath.ToSlash(path)
	if len(slashed) == 0 || slashed[0] != '/' {
		// Windows drive paths need a leading slash: file:///C:/app/client
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return u.String()
}
