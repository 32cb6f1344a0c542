package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// PointerMonitor returns the monitor under the mouse cursor, falling back to
// the first monitor and then to the whole root window.
func (c *Connection) PointerMonitor() Monitor {
	monitors, err := c.GetMonitors()
	if err == nil && len(monitors) > 0 {
		if pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
			px, py := int(pointer.RootX), int(pointer.RootY)
			for _, m := range monitors {
				if px >= m.X && px < m.X+m.Width && py >= m.Y && py < m.Y+m.Height {
					return m
				}
			}
		}
		return monitors[0]
	}

	screen := c.XUtil.Screen()
	return Monitor{
		Name:   "root",
		Width:  int(screen.WidthInPixels),
		Height: int(screen.HeightInPixels),
	}
}
