package backend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/gu1p/janela/internal/wm"
	"github.com/gu1p/janela/internal/x11"
)

// X11 is the native X backend built on xgb. Window ids are the X window
// ids rendered as lowercase hex ("0x3a00007"). Maximized state uses the
// _NET_WM_STATE atoms reported by the window manager. Docks, desktops,
// splash screens and notifications are excluded from listings.
type X11 struct {
	conn *x11.Connection
	log  zerolog.Logger
}

var _ wm.Manager = (*X11)(nil)

// NewX11 opens a fresh X11 connection.
func NewX11(log zerolog.Logger) (*X11, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &X11{conn: conn, log: log}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *X11) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

func (b *X11) Name() string { return "x11" }

func (b *X11) Monitors() ([]wm.Monitor, error) {
	raw, err := b.conn.Monitors()
	if err != nil {
		return nil, err
	}
	monitors := make([]wm.Monitor, 0, len(raw))
	for _, m := range raw {
		monitors = append(monitors, wm.Monitor{
			ID:     m.ID,
			Name:   m.Name,
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		})
	}
	return monitors, nil
}

func (b *X11) ListWindows() ([]wm.Window, error) {
	activeID, err := b.ActiveWindowID()
	if err != nil {
		activeID = ""
	}

	raw, err := b.conn.ClientWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]wm.Window, 0, len(raw))
	for _, cw := range raw {
		id := formatWindowID(cw.ID)
		windows = append(windows, wm.Window{
			ID:     id,
			Name:   cw.Title,
			X:      cw.X,
			Y:      cw.Y,
			Width:  cw.Width,
			Height: cw.Height,
			Active: strings.EqualFold(id, activeID),
			PID:    cw.PID,
		})
	}
	return windows, nil
}

func (b *X11) ActiveWindowID() (string, error) {
	id, err := b.conn.ActiveWindow()
	if err != nil {
		return "", err
	}
	if id == 0 {
		return "", nil
	}
	return formatWindowID(id), nil
}

func (b *X11) Move(w wm.Window, x, y int) (wm.Window, error) {
	id, err := parseWindowID(w.ID)
	if err != nil {
		return w, err
	}
	if err := b.conn.MoveResize(id, x, y, w.Width, w.Height); err != nil {
		return w, fmt.Errorf("move window %s: %w", w.ID, err)
	}
	w.X, w.Y = x, y
	return w, nil
}

func (b *X11) Resize(w wm.Window, width, height int) (wm.Window, error) {
	id, err := parseWindowID(w.ID)
	if err != nil {
		return w, err
	}
	// Maximized windows ignore resize requests.
	if err := b.conn.SetMaximized(id, false); err != nil {
		return w, fmt.Errorf("unmaximize window %s: %w", w.ID, err)
	}
	if err := b.conn.MoveResize(id, w.X, w.Y, width, height); err != nil {
		return w, fmt.Errorf("resize window %s: %w", w.ID, err)
	}
	w.Width, w.Height = width, height
	return w, nil
}

func (b *X11) Minimize(w wm.Window) error {
	id, err := parseWindowID(w.ID)
	if err != nil {
		return err
	}
	return b.conn.Minimize(id)
}

func (b *X11) Maximize(w wm.Window) (wm.Window, error) {
	id, err := parseWindowID(w.ID)
	if err != nil {
		return w, err
	}
	if err := b.conn.SetMaximized(id, true); err != nil {
		return w, fmt.Errorf("maximize window %s: %w", w.ID, err)
	}

	monitors, err := b.Monitors()
	if err != nil {
		return w, err
	}
	if mon := monitorContaining(monitors, w.X, w.Y); mon != nil {
		w.X, w.Y = mon.X, mon.Y
		w.Width, w.Height = mon.Width, mon.Height
	}
	return w, nil
}

func (b *X11) Unmaximize(w wm.Window) error {
	id, err := parseWindowID(w.ID)
	if err != nil {
		return err
	}
	return b.conn.SetMaximized(id, false)
}

func (b *X11) Maximized(w wm.Window) (bool, error) {
	id, err := parseWindowID(w.ID)
	if err != nil {
		return false, err
	}
	return b.conn.IsMaximized(id)
}

func (b *X11) Focus(w wm.Window) (wm.Window, error) {
	id, err := parseWindowID(w.ID)
	if err != nil {
		return w, err
	}
	if err := b.conn.Activate(id); err != nil {
		return w, fmt.Errorf("focus window %s: %w", w.ID, err)
	}
	w.Active = true
	return w, nil
}

func (b *X11) Close(w wm.Window) error {
	id, err := parseWindowID(w.ID)
	if err != nil {
		return err
	}
	return b.conn.CloseWindow(id)
}

func formatWindowID(id xproto.Window) string {
	return fmt.Sprintf("0x%x", uint32(id))
}

func parseWindowID(id string) (xproto.Window, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(id)), "0x")
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q: %w", id, err)
	}
	return xproto.Window(v), nil
}
