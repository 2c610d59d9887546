package wm

// Monitor describes one display output in the shared virtual-screen
// coordinate space. Values are snapshots: a Monitor is rebuilt on every
// query and never cached across calls, since topology may change.
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point (x, y) falls inside the monitor
// rectangle. The test is half-open: the right and bottom edges are
// outside.
func (m Monitor) Contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// IsVertical reports whether the monitor is taller than it is wide.
func (m Monitor) IsVertical() bool {
	return m.Height > m.Width
}

// IsHorizontal reports whether the monitor is wider than it is tall.
func (m Monitor) IsHorizontal() bool {
	return m.Width > m.Height
}

// AspectRatio returns width divided by height.
func (m Monitor) AspectRatio() float64 {
	return float64(m.Width) / float64(m.Height)
}

// Window describes one top-level OS window. The ID is an opaque,
// backend-defined token that is stable for the life of the window.
// Geometry fields are advisory snapshots: after a mutating operation the
// returned copy carries the requested values, but OS truth is only
// guaranteed after a fresh query.
type Window struct {
	ID     string
	Name   string
	X      int
	Y      int
	Width  int
	Height int
	Active bool
	PID    int // owning process, 0 when the backend cannot determine it
}
