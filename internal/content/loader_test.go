package content

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/appshell/internal/eventloop"
	"github.com/1broseidon/appshell/internal/platform"
	"github.com/1broseidon/appshell/internal/platform/platformtest"
)

func newTestLoader(t *testing.T) (*eventloop.Loop, *platformtest.Window, *Loader) {
	t.Helper()
	loop := eventloop.New(nil)
	sys := platformtest.NewSystem(loop)
	win, err := sys.CreateWindow(platform.WindowOptions{})
	require.NoError(t, err)
	dir := t.TempDir()
	return loop, win.(*platformtest.Window), NewLoader(loop, dir, "splash.html", "index.html", nil)
}

func TestLoader_SplashFirstThenMainOnce(t *testing.T) {
	loop, win, loader := newTestLoader(t)

	require.NoError(t, loader.Load(win))
	loop.RunPending()
	assert.Equal(t, loader.SplashURL(), win.CurrentURL(), "splash must show immediately")

	win.FinishLoad()
	loop.RunPending()
	assert.Equal(t, loader.MainURL(), win.CurrentURL())

	// Finishing the main page load must not trigger another swap.
	win.FinishLoad()
	win.FinishLoad()
	loop.RunPending()
	assert.Equal(t, []string{loader.SplashURL(), loader.MainURL()}, win.URLs)
}

func TestLoader_URLsAreFileURLs(t *testing.T) {
	_, _, loader := newTestLoader(t)

	assert.Equal(t, "file://"+filepath.ToSlash(filepath.Join(loader.Dir, "splash.html")), loader.SplashURL())
	assert.Equal(t, "file://"+filepath.ToSlash(filepath.Join(loader.Dir, "index.html")), loader.MainURL())
}

func TestFileURL_EscapesSpaces(t *testing.T) {
	got := FileURL("/opt/my app/client/index.html")
	assert.Equal(t, "file:///opt/my%20app/client/index.html", got)
}
