package x11

import (
	"math"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ContentURLProperty is the window property holding the URL the renderer
// should display. The server's PropertyNotify for it marks the load as done.
const ContentURLProperty = "_APPSHELL_CONTENT_URL"

// ClampRect fits a window rect into what CreateWindow can carry: positions
// are INT16 and sizes CARD16 with a minimum of 1. Larger values would wrap.
func ClampRect(x, y, width, height int) (int, int, int, int) {
	return clampInt(x, math.MinInt16, math.MaxInt16),
		clampInt(y, math.MinInt16, math.MaxInt16),
		clampInt(width, 1, math.MaxUint16),
		clampInt(height, 1, math.MaxUint16)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CreateTopLevel creates and maps a normal application window.
func (c *Connection) CreateTopLevel(x, y, width, height int, class string) (*xwindow.Window, error) {
	x, y, width, height = ClampRect(x, y, width, height)

	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, err
	}

	// Value list order follows the bit positions of the mask (low → high).
	err = win.CreateChecked(
		c.Root,
		x, y, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		0xffffff,
		xproto.EventMaskStructureNotify|xproto.EventMaskPropertyChange,
	)
	if err != nil {
		return nil, err
	}

	if class != "" {
		icccm.WmClassSet(c.XUtil, win.Id, &icccm.WmClass{Instance: class, Class: class})
	}
	ewmh.WmWindowTypeSet(c.XUtil, win.Id, []string{"_NET_WM_WINDOW_TYPE_NORMAL"})
	ewmh.WmPidSet(c.XUtil, win.Id, uint(os.Getpid()))

	win.Map()
	return win, nil
}

// SetTitle sets both the EWMH and ICCCM window names.
func (c *Connection) SetTitle(windowID xproto.Window, title string) error {
	if err := ewmh.WmNameSet(c.XUtil, windowID, title); err != nil {
		return err
	}
	return icccm.WmNameSet(c.XUtil, windowID, title)
}

// SetContentURL publishes url on the window's content property.
func (c *Connection) SetContentURL(windowID xproto.Window, url string) error {
	return xprop.ChangeProp(c.XUtil, windowID, 8, ContentURLProperty, "UTF8_STRING", []byte(url))
}

// ContentURLAtom returns the atom of ContentURLProperty.
func (c *Connection) ContentURLAtom() (xproto.Atom, error) {
	return xprop.Atm(c.XUtil, ContentURLProperty)
}

// WindowRect returns the window geometry in root coordinates.
func (c *Connection) WindowRect(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}
