package wm

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultMoveTolerance is the pixel slack allowed between a requested and
// an observed window position when verifying a move. Window managers
// routinely nudge windows by a few pixels for decorations and snapping.
const DefaultMoveTolerance = 10

// Session provides navigation and composite operations over a Manager.
// Monitor and Window stay plain values; everything that needs to reach
// back into the backend goes through a Session.
type Session struct {
	mgr       Manager
	tolerance int
	log       zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithTolerance overrides the move-verification tolerance in pixels.
func WithTolerance(px int) Option {
	return func(s *Session) {
		if px >= 0 {
			s.tolerance = px
		}
	}
}

// WithLogger sets the logger used for warnings and diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// NewSession wraps a Manager.
func NewSession(mgr Manager, opts ...Option) *Session {
	s := &Session{
		mgr:       mgr,
		tolerance: DefaultMoveTolerance,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Manager returns the underlying backend.
func (s *Session) Manager() Manager { return s.mgr }

// Tolerance returns the configured move-verification tolerance.
func (s *Session) Tolerance() int { return s.tolerance }

// ListMonitors returns the current monitor set sorted by name ascending.
func (s *Session) ListMonitors() ([]Monitor, error) {
	monitors, err := s.mgr.Monitors()
	if err != nil {
		return nil, err
	}
	sort.Slice(monitors, func(i, j int) bool {
		return monitors[i].Name < monitors[j].Name
	})
	return monitors, nil
}

// ActiveWindow returns the focused window, or nil when no window has
// focus or the focused window is not in the visible list.
func (s *Session) ActiveWindow() (*Window, error) {
	id, err := s.mgr.ActiveWindowID()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	return s.WindowByID(id)
}

// WindowByID returns the window with the given id (case-insensitive
// match), or nil when no such window exists.
func (s *Session) WindowByID(id string) (*Window, error) {
	windows, err := s.mgr.ListWindows()
	if err != nil {
		return nil, err
	}
	for _, w := range windows {
		if strings.EqualFold(w.ID, id) {
			return &w, nil
		}
	}
	return nil, nil
}

// WindowByName returns the first window whose title contains name,
// case-insensitively, or nil when nothing matches.
func (s *Session) WindowByName(name string) (*Window, error) {
	windows, err := s.mgr.ListWindows()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	for _, w := range windows {
		if strings.Contains(strings.ToLower(w.Name), needle) {
			return &w, nil
		}
	}
	return nil, nil
}

// MonitorByID returns the monitor with the given id, or nil.
func (s *Session) MonitorByID(id int) (*Monitor, error) {
	monitors, err := s.mgr.Monitors()
	if err != nil {
		return nil, err
	}
	for _, m := range monitors {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, nil
}

// MonitorForWindow returns the first monitor whose rectangle contains the
// window's origin, or nil when the origin falls outside all known
// monitors (common for partially off-screen windows).
func (s *Session) MonitorForWindow(w Window) (*Monitor, error) {
	monitors, err := s.mgr.Monitors()
	if err != nil {
		return nil, err
	}
	for _, m := range monitors {
		if m.Contains(w.X, w.Y) {
			return &m, nil
		}
	}
	return nil, nil
}

// MoveToMonitor moves a window to the center of the target monitor,
// preserving its size and maximized state. The move is verified by a
// single re-query; on verification failure the window is left at its new,
// unverified position and a warning is logged. No rollback is attempted.
func (s *Session) MoveToMonitor(w Window, target Monitor) (Window, error) {
	wasMaximized, err := s.mgr.Maximized(w)
	if err != nil {
		return w, err
	}
	if wasMaximized {
		if err := s.mgr.Unmaximize(w); err != nil {
			return w, err
		}
	}

	// Floor division, not Go's truncation: a window larger than the
	// monitor centers at a negative offset, which is valid and left
	// unclamped.
	targetX := target.X + floorDiv(target.Width-w.Width, 2)
	targetY := target.Y + floorDiv(target.Height-w.Height, 2)

	moved, err := s.mgr.Move(w, targetX, targetY)
	if err != nil {
		return w, err
	}

	verified, ok := s.VerifyWindowMove(moved, target, targetX, targetY)
	if !ok {
		s.log.Warn().
			Str("window", w.Name).
			Int("monitor", target.ID).
			Msg("window did not land at the expected position")
		return moved, nil
	}
	if wasMaximized {
		return s.mgr.Maximize(verified)
	}
	return verified, nil
}

// VerifyWindowMove re-queries the window by id and reports whether it now
// resolves to the target monitor with both coordinates within the session
// tolerance of the expected position. It performs exactly one re-query
// and never waits. The refreshed window is returned alongside the result;
// when the window cannot be re-queried the input is returned unchanged.
func (s *Session) VerifyWindowMove(w Window, target Monitor, expectedX, expectedY int) (Window, bool) {
	updated, err := s.WindowByID(w.ID)
	if err != nil || updated == nil {
		s.log.Warn().Str("window", w.Name).Msg("window not found after move attempt")
		return w, false
	}

	current, err := s.MonitorForWindow(*updated)
	if err != nil || current == nil || *current != target {
		s.log.Warn().
			Str("window", w.Name).
			Int("monitor", target.ID).
			Msg("window resolved to a different monitor than the target")
		return *updated, false
	}

	if abs(updated.X-expectedX) > s.tolerance || abs(updated.Y-expectedY) > s.tolerance {
		s.log.Warn().
			Str("window", w.Name).
			Int("x", updated.X).
			Int("y", updated.Y).
			Int("expected_x", expectedX).
			Int("expected_y", expectedY).
			Msg("window position outside tolerance")
		return *updated, false
	}

	return *updated, true
}

// VerifyWindowPositions walks every monitor and logs the windows that
// currently resolve to it. The sweep is diagnostic only.
func (s *Session) VerifyWindowPositions() bool {
	monitors, err := s.ListMonitors()
	if err != nil {
		s.log.Error().Err(err).Msg("cannot list monitors")
		return false
	}
	windows, err := s.mgr.ListWindows()
	if err != nil {
		s.log.Error().Err(err).Msg("cannot list windows")
		return false
	}
	for _, m := range monitors {
		s.log.Debug().Int("id", m.ID).Str("name", m.Name).Msg("monitor")
		for _, w := range windows {
			current, err := s.MonitorForWindow(w)
			if err != nil || current == nil || *current != m {
				continue
			}
			s.log.Debug().
				Str("window", w.Name).
				Int("x", w.X).
				Int("y", w.Y).
				Msg("window position")
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// floorDiv rounds the quotient toward negative infinity, where Go's
// division truncates toward zero.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
