package mcp

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gu1p/janela/internal/wm"
	"github.com/gu1p/janela/internal/wm/wmtest"
)

func newTestServer(t *testing.T) (*Server, *wmtest.Manager) {
	t.Helper()
	mgr := wmtest.New(
		[]wm.Monitor{
			{ID: 0, Name: "HDMI-1", X: 0, Y: 0, Width: 1920, Height: 1080},
			{ID: 1, Name: "DP-1", X: 1920, Y: 0, Width: 1920, Height: 1080},
		},
		wm.Window{ID: "0xa1", Name: "Mozilla Firefox", X: 100, Y: 100, Width: 800, Height: 600, Active: true, PID: 4242},
		wm.Window{ID: "0xb2", Name: "Terminal", X: 2000, Y: 50, Width: 640, Height: 480},
	)
	return NewServer(wm.NewSession(mgr), zerolog.Nop()), mgr
}

func TestListMonitorsTool(t *testing.T) {
	s, _ := newTestServer(t)

	_, out, err := s.handleListMonitors(context.Background(), nil, ListMonitorsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Monitors) != 2 {
		t.Fatalf("expected 2 monitors, got %d", len(out.Monitors))
	}
	// Session sorts by name, so DP-1 comes first.
	if out.Monitors[0].Name != "DP-1" || out.Monitors[1].Name != "HDMI-1" {
		t.Fatalf("monitors not sorted by name: %+v", out.Monitors)
	}
}

func TestListWindowsToolResolvesMonitors(t *testing.T) {
	s, _ := newTestServer(t)

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(out.Windows))
	}
	byID := map[string]WindowInfo{}
	for _, w := range out.Windows {
		byID[w.ID] = w
	}
	if byID["0xa1"].Monitor != 0 || byID["0xb2"].Monitor != 1 {
		t.Fatalf("monitor resolution wrong: %+v", byID)
	}
	if !byID["0xa1"].Active || byID["0xb2"].Active {
		t.Fatalf("active flags wrong: %+v", byID)
	}
	if byID["0xa1"].PID != 4242 {
		t.Fatalf("pid not carried through: %+v", byID["0xa1"])
	}
}

func TestActiveWindowTool(t *testing.T) {
	s, mgr := newTestServer(t)

	_, out, err := s.handleActiveWindow(context.Background(), nil, ActiveWindowInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Window == nil || out.Window.ID != "0xa1" {
		t.Fatalf("expected active window 0xa1, got %+v", out.Window)
	}

	// With no focused window the tool returns an empty result, not an
	// error.
	if _, err := mgr.Focus(wm.Window{ID: "0xb2"}); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Close(wm.Window{ID: "0xb2"}); err != nil {
		t.Fatal(err)
	}
	_, out, err = s.handleActiveWindow(context.Background(), nil, ActiveWindowInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Window != nil {
		t.Fatalf("expected no active window, got %+v", out.Window)
	}
}

func TestMoveWindowTool(t *testing.T) {
	s, mgr := newTestServer(t)

	_, out, err := s.handleMoveWindow(context.Background(), nil, MoveWindowInput{
		Window: WindowRef{Name: "fire"},
		X:      300, Y: 200,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Window.X != 300 || out.Window.Y != 200 {
		t.Fatalf("reported geometry wrong: %+v", out.Window)
	}
	stored, _ := mgr.Window("0xa1")
	if stored.X != 300 || stored.Y != 200 {
		t.Fatalf("backend state wrong: %+v", stored)
	}
}

func TestResizeWindowTool(t *testing.T) {
	s, mgr := newTestServer(t)

	_, out, err := s.handleResizeWindow(context.Background(), nil, ResizeWindowInput{
		Window: WindowRef{ID: "0xb2"},
		Width:  1000, Height: 700,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Window.Width != 1000 || out.Window.Height != 700 {
		t.Fatalf("reported geometry wrong: %+v", out.Window)
	}
	stored, _ := mgr.Window("0xb2")
	if stored.Width != 1000 || stored.Height != 700 {
		t.Fatalf("backend state wrong: %+v", stored)
	}
}

func TestMoveToMonitorTool(t *testing.T) {
	s, mgr := newTestServer(t)

	_, out, err := s.handleMoveToMonitor(context.Background(), nil, MoveToMonitorInput{
		Window:  WindowRef{ID: "0xa1"},
		Monitor: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Window.Monitor != 1 {
		t.Fatalf("window must resolve to monitor 1, got %+v", out.Window)
	}
	stored, _ := mgr.Window("0xa1")
	if stored.X < 1920 {
		t.Fatalf("window did not land on the second monitor: %+v", stored)
	}

	_, _, err = s.handleMoveToMonitor(context.Background(), nil, MoveToMonitorInput{
		Window:  WindowRef{ID: "0xa1"},
		Monitor: 9,
	})
	if err == nil {
		t.Fatalf("expected error for unknown monitor id")
	}
}

func TestWindowLifecycleTools(t *testing.T) {
	s, mgr := newTestServer(t)
	ctx := context.Background()

	if _, _, err := s.handleMinimizeWindow(ctx, nil, WindowActionInput{Window: WindowRef{ID: "0xa1"}}); err != nil {
		t.Fatalf("minimize: %v", err)
	}
	if len(mgr.Minimized) != 1 || mgr.Minimized[0] != "0xa1" {
		t.Fatalf("minimize not recorded: %v", mgr.Minimized)
	}

	_, out, err := s.handleMaximizeWindow(ctx, nil, WindowActionInput{Window: WindowRef{ID: "0xa1"}})
	if err != nil {
		t.Fatalf("maximize: %v", err)
	}
	if out.Window.Width != 1920 || out.Window.Height != 1080 {
		t.Fatalf("maximize geometry wrong: %+v", out.Window)
	}

	if _, _, err := s.handleUnmaximizeWindow(ctx, nil, WindowActionInput{Window: WindowRef{ID: "0xa1"}}); err != nil {
		t.Fatalf("unmaximize: %v", err)
	}
	stored, _ := mgr.Window("0xa1")
	if stored.Width != 800 || stored.Height != 600 {
		t.Fatalf("unmaximize did not restore geometry: %+v", stored)
	}

	_, out, err = s.handleFocusWindow(ctx, nil, WindowActionInput{Window: WindowRef{ID: "0xb2"}})
	if err != nil {
		t.Fatalf("focus: %v", err)
	}
	if !out.Window.Active {
		t.Fatalf("focused window must be reported active: %+v", out.Window)
	}

	if _, _, err := s.handleCloseWindow(ctx, nil, WindowActionInput{Window: WindowRef{ID: "0xb2"}}); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(mgr.Closed) != 1 || mgr.Closed[0] != "0xb2" {
		t.Fatalf("close not recorded: %v", mgr.Closed)
	}
}

func TestMosaicTool(t *testing.T) {
	s, mgr := newTestServer(t)

	_, out, err := s.handleMosaic(context.Background(), nil, MosaicInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Tiled {
		t.Fatalf("expected tiled output")
	}
	// One window per monitor, so both end up maximized.
	a, _ := mgr.Window("0xa1")
	if a.Width != 1920 || a.Height != 1080 {
		t.Fatalf("window not maximized by mosaic: %+v", a)
	}
}

func TestResolveWindowErrors(t *testing.T) {
	s, _ := newTestServer(t)

	if _, err := s.resolveWindow(WindowRef{}); err == nil {
		t.Fatalf("empty reference must be rejected")
	}
	if _, err := s.resolveWindow(WindowRef{ID: "0xdead"}); err == nil {
		t.Fatalf("unknown id must be rejected")
	}
	if _, err := s.resolveWindow(WindowRef{Name: "nope"}); err == nil {
		t.Fatalf("unmatched name must be rejected")
	}

	w, err := s.resolveWindow(WindowRef{ID: "0XA1"})
	if err != nil {
		t.Fatalf("id lookup must be case-insensitive: %v", err)
	}
	if w.ID != "0xa1" {
		t.Fatalf("got %+v", w)
	}
}
