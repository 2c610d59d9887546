package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ClientWindow is the raw per-window data read from the X server.
type ClientWindow struct {
	ID     xproto.Window
	Title  string
	PID    int
	X      int
	Y      int
	Width  int
	Height int
}

// ClientWindows returns all normal top-level windows from
// _NET_CLIENT_LIST. Docks, desktops, splash screens and notifications
// are excluded, as are windows whose geometry cannot be read.
func (c *Connection) ClientWindows() ([]ClientWindow, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, err
	}

	windows := make([]ClientWindow, 0, len(clients))
	for _, id := range clients {
		if !c.isNormalWindow(id) {
			continue
		}
		x, y, width, height, ok := c.geometry(id)
		if !ok {
			continue
		}
		pid := 0
		if p, err := ewmh.WmPidGet(c.XUtil, id); err == nil {
			pid = int(p)
		}
		windows = append(windows, ClientWindow{
			ID:     id,
			Title:  c.title(id),
			PID:    pid,
			X:      x,
			Y:      y,
			Width:  width,
			Height: height,
		})
	}
	return windows, nil
}

// Window reads one window by id, with the same geometry and title rules
// as ClientWindows. ok is false when the window no longer exists.
func (c *Connection) Window(id xproto.Window) (ClientWindow, bool) {
	x, y, width, height, geomOK := c.geometry(id)
	if !geomOK {
		return ClientWindow{}, false
	}
	pid := 0
	if p, err := ewmh.WmPidGet(c.XUtil, id); err == nil {
		pid = int(p)
	}
	return ClientWindow{
		ID:     id,
		Title:  c.title(id),
		PID:    pid,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}, true
}

// ActiveWindow returns the focused window id, 0 when none.
func (c *Connection) ActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// Activate asks the window manager to focus the window.
func (c *Connection) Activate(id xproto.Window) error {
	return ewmh.ActiveWindowReq(c.XUtil, id)
}

// MoveResize places a window at (x, y) with the given size using the
// EWMH moveresize request, falling back to direct configuration for
// window managers that ignore it.
func (c *Connection) MoveResize(id xproto.Window, x, y, width, height int) error {
	if err := ewmh.MoveresizeWindow(c.XUtil, id, x, y, width, height); err != nil {
		xwindow.New(c.XUtil, id).MoveResize(x, y, width, height)
	}
	return nil
}

// SetMaximized adds or removes the horizontal and vertical maximized
// states.
func (c *Connection) SetMaximized(id xproto.Window, maximized bool) error {
	action := ewmh.StateRemove
	if maximized {
		action = ewmh.StateAdd
	}
	if err := ewmh.WmStateReq(c.XUtil, id, action, "_NET_WM_STATE_MAXIMIZED_HORZ"); err != nil {
		return err
	}
	return ewmh.WmStateReq(c.XUtil, id, action, "_NET_WM_STATE_MAXIMIZED_VERT")
}

// IsMaximized reports whether both maximized state atoms are set on the
// window.
func (c *Connection) IsMaximized(id xproto.Window) (bool, error) {
	states, err := ewmh.WmStateGet(c.XUtil, id)
	if err != nil {
		return false, err
	}
	var horz, vert bool
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			horz = true
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			vert = true
		}
	}
	return horz && vert, nil
}

// Minimize iconifies a window via WM_CHANGE_STATE.
func (c *Connection) Minimize(id xproto.Window) error {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len("WM_CHANGE_STATE")), "WM_CHANGE_STATE").Reply()
	if err != nil {
		return err
	}

	const iconicState = 3
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: id,
		Type:   reply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// CloseWindow requests a graceful close via WM_DELETE_WINDOW.
func (c *Connection) CloseWindow(id xproto.Window) error {
	deleteReply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len("WM_DELETE_WINDOW")), "WM_DELETE_WINDOW").Reply()
	if err != nil {
		return err
	}
	protocolsReply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len("WM_PROTOCOLS")), "WM_PROTOCOLS").Reply()
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: id,
		Type:   protocolsReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteReply.Atom), 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		id,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

func (c *Connection) isNormalWindow(id xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, id)
	if err != nil {
		// Unknown type, assume normal.
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return len(types) == 0
}

func (c *Connection) geometry(id xproto.Window) (x, y, width, height int, ok bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(id)).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), id, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}
	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), true
}

func (c *Connection) title(id xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, id); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, id); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	return ""
}
