package tiling_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gu1p/janela/internal/tiling"
	"github.com/gu1p/janela/internal/wm"
	"github.com/gu1p/janela/internal/wm/wmtest"
)

var nop = zerolog.Nop()

func TestGridSpecialCases(t *testing.T) {
	fullHD := wm.Monitor{Width: 1920, Height: 1080}
	qhd := wm.Monitor{Width: 2560, Height: 1440}

	rows, cols, err := tiling.Grid(2, fullHD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 || cols != 2 {
		t.Fatalf("expected (1,2) for two windows on full HD, got (%d,%d)", rows, cols)
	}

	rows, cols, err = tiling.Grid(3, qhd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 || cols != 3 {
		t.Fatalf("expected (1,3) for three windows on QHD, got (%d,%d)", rows, cols)
	}

	// Three windows on plain full HD fall through to the general rule:
	// the QHD special case needs width >= 2560.
	rows, cols, err = tiling.Grid(3, fullHD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows*cols < 3 {
		t.Fatalf("grid too small for three windows: (%d,%d)", rows, cols)
	}
}

func TestGridGeneralCase(t *testing.T) {
	fullHD := wm.Monitor{Width: 1920, Height: 1080}

	// cols = ceil(sqrt(4*16/9)) = ceil(2.666) = 3, rows = ceil(4/3) = 2.
	rows, cols, err := tiling.Grid(4, fullHD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 2 || cols != 3 {
		t.Fatalf("expected (2,3) for four windows on full HD, got (%d,%d)", rows, cols)
	}

	// Five windows: (2,3) again, the minimal grid under the growth rule.
	rows, cols, err = tiling.Grid(5, fullHD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 2 || cols != 3 {
		t.Fatalf("expected (2,3) for five windows on full HD, got (%d,%d)", rows, cols)
	}
	if rows*cols < 5 {
		t.Fatalf("grid too small for five windows")
	}
}

func TestGridPortrait(t *testing.T) {
	portrait := wm.Monitor{Width: 1080, Height: 1920}

	rows, cols, err := tiling.Grid(3, portrait)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows*cols < 3 || rows < cols {
		t.Fatalf("portrait grid must favor rows, got (%d,%d)", rows, cols)
	}

	// With more windows the growth rule stretches along the tall axis.
	rows, cols, err = tiling.Grid(5, portrait)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows <= cols {
		t.Fatalf("expected more rows than columns on a portrait monitor, got (%d,%d)", rows, cols)
	}
}

func TestGridPreconditions(t *testing.T) {
	if _, _, err := tiling.Grid(0, wm.Monitor{Width: 1920, Height: 1080}); err == nil {
		t.Fatalf("expected error for zero window count")
	}
	if _, _, err := tiling.Grid(-1, wm.Monitor{Width: 1920, Height: 1080}); err == nil {
		t.Fatalf("expected error for negative window count")
	}
	if _, _, err := tiling.Grid(3, wm.Monitor{Width: 100, Height: 0}); err == nil {
		t.Fatalf("expected error for zero monitor height")
	}
}

func fullHDMonitor() wm.Monitor {
	return wm.Monitor{ID: 0, Name: "HDMI-1", X: 0, Y: 0, Width: 1920, Height: 1080}
}

func TestMosaicSingleWindowMaximizes(t *testing.T) {
	mgr := wmtest.New([]wm.Monitor{fullHDMonitor()},
		wm.Window{ID: "0x1", Name: "editor", X: 100, Y: 100, Width: 800, Height: 600},
	)
	s := wm.NewSession(mgr)

	if err := tiling.Mosaic(s, nop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w, _ := mgr.Window("0x1")
	mon := fullHDMonitor()
	if w.X != mon.X || w.Y != mon.Y || w.Width != mon.Width || w.Height != mon.Height {
		t.Fatalf("single window must be maximized, got %+v", w)
	}
}

func TestMosaicFourWindowsRowMajor(t *testing.T) {
	mon := fullHDMonitor()
	mgr := wmtest.New([]wm.Monitor{mon},
		wm.Window{ID: "0x3", Name: "chat", X: 5, Y: 5, Width: 300, Height: 300},
		wm.Window{ID: "0x1", Name: "Browser", X: 10, Y: 10, Width: 300, Height: 300},
		wm.Window{ID: "0x4", Name: "daw", X: 15, Y: 15, Width: 300, Height: 300},
		wm.Window{ID: "0x2", Name: "alpha", X: 20, Y: 20, Width: 300, Height: 300},
	)
	s := wm.NewSession(mgr)

	if err := tiling.Mosaic(s, nop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Grid for 4 windows on full HD is 2 rows x 3 columns, cells 640x540.
	// Sorted order: alpha, Browser, chat, daw.
	want := map[string][2]int{
		"0x2": {0, 0},      // alpha: row 0, col 0
		"0x1": {640, 0},    // Browser: row 0, col 1
		"0x3": {1280, 0},   // chat: row 0, col 2
		"0x4": {0, 540},    // daw: row 1, col 0
	}
	for id, pos := range want {
		w, ok := mgr.Window(id)
		if !ok {
			t.Fatalf("window %s disappeared", id)
		}
		if w.X != pos[0] || w.Y != pos[1] {
			t.Fatalf("window %s (%s) at (%d,%d), want (%d,%d)", id, w.Name, w.X, w.Y, pos[0], pos[1])
		}
		if w.Width != 640 || w.Height != 540 {
			t.Fatalf("window %s sized %dx%d, want 640x540", id, w.Width, w.Height)
		}
	}
}

func TestMosaicIsIdempotent(t *testing.T) {
	mon := fullHDMonitor()
	mgr := wmtest.New([]wm.Monitor{mon},
		wm.Window{ID: "0x1", Name: "a", X: 10, Y: 10, Width: 300, Height: 300},
		wm.Window{ID: "0x2", Name: "b", X: 20, Y: 20, Width: 300, Height: 300},
		wm.Window{ID: "0x3", Name: "c", X: 30, Y: 30, Width: 300, Height: 300},
		wm.Window{ID: "0x4", Name: "d", X: 40, Y: 40, Width: 300, Height: 300},
	)
	s := wm.NewSession(mgr)

	if err := tiling.Mosaic(s, nop); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := snapshot(t, mgr, "0x1", "0x2", "0x3", "0x4")

	if err := tiling.Mosaic(s, nop); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second := snapshot(t, mgr, "0x1", "0x2", "0x3", "0x4")

	for id := range first {
		if first[id] != second[id] {
			t.Fatalf("window %s moved between runs: %+v vs %+v", id, first[id], second[id])
		}
	}
}

func TestMosaicSkipsEmptyMonitorsAndOffscreenWindows(t *testing.T) {
	monitors := []wm.Monitor{
		fullHDMonitor(),
		{ID: 1, Name: "DP-1", X: 1920, Y: 0, Width: 1920, Height: 1080},
	}
	mgr := wmtest.New(monitors,
		wm.Window{ID: "0x1", Name: "only", X: 10, Y: 10, Width: 300, Height: 300},
		wm.Window{ID: "0x2", Name: "lost", X: -5000, Y: -5000, Width: 300, Height: 300},
	)
	s := wm.NewSession(mgr)

	if err := tiling.Mosaic(s, nop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The off-screen window resolves to no monitor and is untouched.
	lost, _ := mgr.Window("0x2")
	if lost.X != -5000 || lost.Y != -5000 {
		t.Fatalf("off-screen window must not be tiled, got %+v", lost)
	}
}

func TestMosaicWindowFailureDoesNotAbortOthers(t *testing.T) {
	mon := fullHDMonitor()
	mgr := wmtest.New([]wm.Monitor{mon},
		wm.Window{ID: "0x1", Name: "a", X: 10, Y: 10, Width: 300, Height: 300},
		wm.Window{ID: "0x2", Name: "b", X: 20, Y: 20, Width: 300, Height: 300},
	)
	rejected := errors.New("resize rejected")
	mgr.ResizeHook = func(w wm.Window, _, _ int) error {
		if w.ID == "0x1" {
			return rejected
		}
		return nil
	}
	s := wm.NewSession(mgr)

	err := tiling.Mosaic(s, nop)
	if err == nil {
		t.Fatalf("expected aggregated error for the failed window")
	}
	if !errors.Is(err, rejected) {
		t.Fatalf("aggregated error must wrap the cause, got %v", err)
	}

	// Two windows on full HD tile side by side; the healthy one still
	// landed in its cell.
	b, _ := mgr.Window("0x2")
	if b.X != 960 || b.Y != 0 || b.Width != 960 || b.Height != 1080 {
		t.Fatalf("healthy window must still be placed, got %+v", b)
	}
}

func snapshot(t *testing.T, mgr *wmtest.Manager, ids ...string) map[string]wm.Window {
	t.Helper()
	out := make(map[string]wm.Window, len(ids))
	for _, id := range ids {
		w, ok := mgr.Window(id)
		if !ok {
			t.Fatalf("window %s disappeared", id)
		}
		w.Active = false
		out[id] = w
	}
	return out
}
