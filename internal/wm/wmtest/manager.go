// Package wmtest provides a deterministic in-memory Manager for tests.
// It models the window-manager behavior the real backends depend on:
// maximize snaps geometry to the containing monitor, resize implicitly
// unmaximizes, and every mutation is observable through a fresh
// ListWindows call. Maximized state is detected by geometry equality,
// matching the wmctrl and mac backends.
package wmtest

import (
	"fmt"
	"sort"

	"github.com/gu1p/janela/internal/wm"
)

type rect struct {
	x, y, w, h int
}

// Manager is an in-memory wm.Manager.
type Manager struct {
	monitors []wm.Monitor
	windows  map[string]wm.Window
	restore  map[string]rect // pre-maximize geometry
	activeID string

	// Minimized and Closed record fire-and-verify operations in order.
	Minimized []string
	Closed    []string

	// Hooks inject failures. A non-nil error aborts the operation before
	// any state change.
	MoveHook   func(w wm.Window, x, y int) error
	ResizeHook func(w wm.Window, width, height int) error
}

var _ wm.Manager = (*Manager)(nil)

// New builds a Manager with the given topology and initial windows.
func New(monitors []wm.Monitor, windows ...wm.Window) *Manager {
	m := &Manager{
		monitors: append([]wm.Monitor(nil), monitors...),
		windows:  make(map[string]wm.Window, len(windows)),
		restore:  make(map[string]rect),
	}
	for _, w := range windows {
		m.windows[w.ID] = w
		if w.Active {
			m.activeID = w.ID
		}
	}
	return m
}

func (m *Manager) Name() string { return "wmtest" }

func (m *Manager) Monitors() ([]wm.Monitor, error) {
	return append([]wm.Monitor(nil), m.monitors...), nil
}

func (m *Manager) ListWindows() ([]wm.Window, error) {
	out := make([]wm.Window, 0, len(m.windows))
	for _, w := range m.windows {
		w.Active = w.ID == m.activeID
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Manager) ActiveWindowID() (string, error) {
	return m.activeID, nil
}

func (m *Manager) Move(w wm.Window, x, y int) (wm.Window, error) {
	if m.MoveHook != nil {
		if err := m.MoveHook(w, x, y); err != nil {
			return w, err
		}
	}
	stored, ok := m.windows[w.ID]
	if !ok {
		return w, fmt.Errorf("window %q does not exist", w.ID)
	}
	stored.X, stored.Y = x, y
	m.windows[w.ID] = stored
	w.X, w.Y = x, y
	return w, nil
}

func (m *Manager) Resize(w wm.Window, width, height int) (wm.Window, error) {
	if m.ResizeHook != nil {
		if err := m.ResizeHook(w, width, height); err != nil {
			return w, err
		}
	}
	if err := m.Unmaximize(w); err != nil {
		return w, err
	}
	stored, ok := m.windows[w.ID]
	if !ok {
		return w, fmt.Errorf("window %q does not exist", w.ID)
	}
	stored.Width, stored.Height = width, height
	m.windows[w.ID] = stored
	w.X, w.Y = stored.X, stored.Y
	w.Width, w.Height = width, height
	return w, nil
}

func (m *Manager) Minimize(w wm.Window) error {
	if _, ok := m.windows[w.ID]; !ok {
		return fmt.Errorf("window %q does not exist", w.ID)
	}
	m.Minimized = append(m.Minimized, w.ID)
	return nil
}

func (m *Manager) Maximize(w wm.Window) (wm.Window, error) {
	stored, ok := m.windows[w.ID]
	if !ok {
		return w, fmt.Errorf("window %q does not exist", w.ID)
	}
	mon := m.monitorFor(stored)
	if mon == nil {
		return w, fmt.Errorf("window %q is outside all monitors", w.ID)
	}
	if _, saved := m.restore[w.ID]; !saved {
		m.restore[w.ID] = rect{stored.X, stored.Y, stored.Width, stored.Height}
	}
	stored.X, stored.Y = mon.X, mon.Y
	stored.Width, stored.Height = mon.Width, mon.Height
	m.windows[w.ID] = stored
	w.X, w.Y, w.Width, w.Height = stored.X, stored.Y, stored.Width, stored.Height
	return w, nil
}

func (m *Manager) Unmaximize(w wm.Window) error {
	stored, ok := m.windows[w.ID]
	if !ok {
		return fmt.Errorf("window %q does not exist", w.ID)
	}
	if r, saved := m.restore[w.ID]; saved {
		stored.X, stored.Y, stored.Width, stored.Height = r.x, r.y, r.w, r.h
		delete(m.restore, w.ID)
		m.windows[w.ID] = stored
		return nil
	}
	// No saved geometry: shrink only when the window actually fills its
	// monitor, so a plain window is untouched.
	if mon := m.monitorFor(stored); mon != nil &&
		stored.X == mon.X && stored.Y == mon.Y &&
		stored.Width == mon.Width && stored.Height == mon.Height {
		stored.Width, stored.Height = 800, 600
		m.windows[w.ID] = stored
	}
	return nil
}

func (m *Manager) Maximized(w wm.Window) (bool, error) {
	stored, ok := m.windows[w.ID]
	if !ok {
		return false, fmt.Errorf("window %q does not exist", w.ID)
	}
	mon := m.monitorFor(stored)
	if mon == nil {
		return false, nil
	}
	return stored.X == mon.X && stored.Y == mon.Y &&
		stored.Width == mon.Width && stored.Height == mon.Height, nil
}

func (m *Manager) Focus(w wm.Window) (wm.Window, error) {
	if _, ok := m.windows[w.ID]; !ok {
		return w, fmt.Errorf("window %q does not exist", w.ID)
	}
	m.activeID = w.ID
	w.Active = true
	return w, nil
}

func (m *Manager) Close(w wm.Window) error {
	if _, ok := m.windows[w.ID]; !ok {
		return fmt.Errorf("window %q does not exist", w.ID)
	}
	delete(m.windows, w.ID)
	m.Closed = append(m.Closed, w.ID)
	return nil
}

// Window returns the current stored state of a window, for assertions.
func (m *Manager) Window(id string) (wm.Window, bool) {
	w, ok := m.windows[id]
	return w, ok
}

func (m *Manager) monitorFor(w wm.Window) *wm.Monitor {
	for i := range m.monitors {
		if m.monitors[i].Contains(w.X, w.Y) {
			return &m.monitors[i]
		}
	}
	return nil
}
