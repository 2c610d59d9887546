// Package tiling arranges a monitor's windows into an automatic
// row/column grid (a mosaic). The engine is backend-agnostic: it only
// consumes the query surface of a wm.Session and drives its mutation
// surface, so it works unchanged against any Manager implementation.
package tiling

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/gu1p/janela/internal/wm"
)

const (
	fullHDWidth = 1920
	qhdWidth    = 2560
)

// Grid computes the number of rows and columns for laying out count
// windows on the given monitor.
//
// Exact 16:9 monitors get hand-picked layouts for the common small
// counts: two windows side by side from full HD up, three side by side
// from QHD up. Otherwise columns start at ceil(sqrt(count*aspect)) so
// cells roughly match the monitor's shape, and the grid grows along the
// monitor's longer axis until it has enough cells.
//
// A non-positive count or a zero monitor height is a caller error.
func Grid(count int, m wm.Monitor) (rows, cols int, err error) {
	if count <= 0 {
		return 0, 0, fmt.Errorf("window count must be greater than zero, got %d", count)
	}
	if m.Height == 0 {
		return 0, 0, fmt.Errorf("monitor %q has zero height", m.Name)
	}

	aspect := m.AspectRatio()
	if aspect == 16.0/9.0 && m.Width >= fullHDWidth {
		if count == 2 {
			return 1, 2, nil
		}
		if count == 3 && m.Width >= qhdWidth {
			return 1, 3, nil
		}
	}

	cols = int(math.Ceil(math.Sqrt(float64(count) * aspect)))
	if cols < 1 {
		cols = 1
	}
	rows = int(math.Ceil(float64(count) / float64(cols)))
	if rows < 1 {
		rows = 1
	}

	// Each step strictly increases capacity, so this terminates.
	for rows*cols < count {
		if m.Width < m.Height {
			rows++
		} else {
			cols++
		}
	}

	return rows, cols, nil
}

// Mosaic tiles the windows of every monitor independently. A single
// window is maximized; multiple windows are sorted by name and packed
// into a Grid layout in row-major order. One window's or monitor's
// failure does not abort the rest; all failures are collected into the
// returned error.
func Mosaic(s *wm.Session, log zerolog.Logger) error {
	monitors, err := s.ListMonitors()
	if err != nil {
		return fmt.Errorf("list monitors: %w", err)
	}

	var result *multierror.Error
	for _, monitor := range monitors {
		if err := mosaicMonitor(s, monitor, log); err != nil {
			log.Error().Err(err).Str("monitor", monitor.Name).Msg("mosaic failed on monitor")
			result = multierror.Append(result, fmt.Errorf("monitor %q: %w", monitor.Name, err))
		}
	}
	return result.ErrorOrNil()
}

func mosaicMonitor(s *wm.Session, monitor wm.Monitor, log zerolog.Logger) error {
	all, err := s.Manager().ListWindows()
	if err != nil {
		return fmt.Errorf("list windows: %w", err)
	}

	var windows []wm.Window
	for _, w := range all {
		current, err := s.MonitorForWindow(w)
		if err != nil {
			return err
		}
		if current != nil && *current == monitor {
			windows = append(windows, w)
		}
	}
	if len(windows) == 0 {
		return nil
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return strings.ToLower(windows[i].Name) < strings.ToLower(windows[j].Name)
	})

	log.Debug().
		Int("windows", len(windows)).
		Str("monitor", monitor.Name).
		Msg("tiling monitor")

	if len(windows) == 1 {
		w := windows[0]
		maximized, err := s.Manager().Maximized(w)
		if err != nil {
			return err
		}
		if !maximized {
			if _, err := s.Manager().Maximize(w); err != nil {
				return fmt.Errorf("maximize %q: %w", w.Name, err)
			}
		}
		return nil
	}

	rows, cols, err := Grid(len(windows), monitor)
	if err != nil {
		return err
	}

	// Integer division: remainder pixels stay as a gap on the last
	// row/column rather than being spread across cells.
	cellWidth := monitor.Width / cols
	cellHeight := monitor.Height / rows

	var result *multierror.Error
	for i, w := range windows {
		if err := placeWindow(s, w, monitor, i, cols, cellWidth, cellHeight); err != nil {
			log.Error().Err(err).Str("window", w.Name).Msg("mosaic failed on window")
			result = multierror.Append(result, fmt.Errorf("window %q: %w", w.Name, err))
		}
	}
	return result.ErrorOrNil()
}

func placeWindow(s *wm.Session, w wm.Window, monitor wm.Monitor, i, cols, cellWidth, cellHeight int) error {
	maximized, err := s.Manager().Maximized(w)
	if err != nil {
		return err
	}
	if maximized {
		if err := s.Manager().Unmaximize(w); err != nil {
			return fmt.Errorf("unmaximize: %w", err)
		}
	}

	row := i / cols
	col := i % cols
	x := monitor.X + col*cellWidth
	y := monitor.Y + row*cellHeight

	resized, err := s.Manager().Resize(w, cellWidth, cellHeight)
	if err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	if _, err := s.Manager().Move(resized, x, y); err != nil {
		return fmt.Errorf("move: %w", err)
	}
	return nil
}
