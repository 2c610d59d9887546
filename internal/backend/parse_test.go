package backend

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/gu1p/janela/internal/wm"
)

var nop = zerolog.Nop()

func TestParseXrandrMonitors(t *testing.T) {
	out := `Screen 0: minimum 320 x 200, current 3840 x 1080, maximum 16384 x 16384
HDMI-1 connected primary 1920x1080+0+0 (normal left inverted right x axis y axis) 527mm x 296mm
DP-1 connected 1920x1080+1920+0 (normal left inverted right x axis y axis) 527mm x 296mm
DP-2 disconnected (normal left inverted right x axis y axis)
HDMI-2 connected (normal left inverted right x axis y axis)
`
	monitors := parseXrandrMonitors(out, nop)
	if len(monitors) != 2 {
		t.Fatalf("expected 2 monitors, got %d: %+v", len(monitors), monitors)
	}

	want := []wm.Monitor{
		{ID: 0, Name: "HDMI-1", X: 0, Y: 0, Width: 1920, Height: 1080},
		{ID: 1, Name: "DP-1", X: 1920, Y: 0, Width: 1920, Height: 1080},
	}
	for i := range want {
		if monitors[i] != want[i] {
			t.Fatalf("monitor %d: got %+v, want %+v", i, monitors[i], want[i])
		}
	}
}

func TestParseXrandrGeometry(t *testing.T) {
	m, ok := parseXrandrGeometry("2560x1440+1920+0")
	if !ok {
		t.Fatalf("expected geometry to parse")
	}
	if m.X != 1920 || m.Y != 0 || m.Width != 2560 || m.Height != 1440 {
		t.Fatalf("unexpected geometry: %+v", m)
	}

	m, ok = parseXrandrGeometry("1080x1920+-1080+0")
	if !ok {
		t.Fatalf("expected negative offset to parse")
	}
	if m.X != -1080 {
		t.Fatalf("expected x -1080, got %d", m.X)
	}

	for _, bad := range []string{"", "1920x1080", "1920+0+0", "ax b+0+0", "1920x1080+0"} {
		if _, ok := parseXrandrGeometry(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestParseWmctrlLine(t *testing.T) {
	w, ok := parseWmctrlLine("0x03A00007  0 3849 190  1430 1018 host Mozilla Firefox", nop)
	if !ok {
		t.Fatalf("expected line to parse")
	}
	if w.ID != "0x3a00007" {
		t.Fatalf("window id must be normalized lowercase hex, got %q", w.ID)
	}
	if w.Name != "Mozilla Firefox" {
		t.Fatalf("unexpected title %q", w.Name)
	}
	if w.X != 3849 || w.Y != 190 || w.Width != 1430 || w.Height != 1018 {
		t.Fatalf("unexpected geometry: %+v", w)
	}

	// Runs of whitespace inside a title must survive parsing, since
	// name lookups substring-match against it.
	w, ok = parseWmctrlLine("0x04c00001  0 0 0 800 600 host notes  --  draft", nop)
	if !ok {
		t.Fatalf("expected line to parse")
	}
	if w.Name != "notes  --  draft" {
		t.Fatalf("title whitespace must be preserved, got %q", w.Name)
	}

	// A record with exactly seven fields has an empty title.
	w, ok = parseWmctrlLine("0x02c00003  0 0 0 1920 1080 host", nop)
	if !ok {
		t.Fatalf("expected minimal line to parse")
	}
	if w.Name != "" {
		t.Fatalf("expected empty title, got %q", w.Name)
	}

	for _, bad := range []string{
		"",
		"0x1 0 10 10",
		"zzz 0 10 10 100 100 host title",
		"0x1 0 ten 10 100 100 host title",
	} {
		if _, ok := parseWmctrlLine(bad, nop); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestParseMacMonitorLine(t *testing.T) {
	m, ok := parseMacMonitorLine("69733382|0|0|2560|1440|Studio Display", nop)
	if !ok {
		t.Fatalf("expected record to parse")
	}
	want := wm.Monitor{ID: 69733382, Name: "Studio Display", X: 0, Y: 0, Width: 2560, Height: 1440}
	if m != want {
		t.Fatalf("got %+v, want %+v", m, want)
	}

	// A secondary display keeps its own frame origin.
	m, ok = parseMacMonitorLine("69733383|2560|0|1920|1080|", nop)
	if !ok {
		t.Fatalf("expected unnamed record to parse")
	}
	if m.X != 2560 || m.Name != "Display 69733383" {
		t.Fatalf("got %+v", m)
	}

	for _, bad := range []string{"", "1|2|3", "1|a|0|100|100|name"} {
		if _, ok := parseMacMonitorLine(bad, nop); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestParseMacWindowLine(t *testing.T) {
	w, ok := parseMacWindowLine("742|1|0|25|1440|875|Safari — Apple", nop)
	if !ok {
		t.Fatalf("expected line to parse")
	}
	if w.ID != "742:1" || w.PID != 742 {
		t.Fatalf("unexpected id/pid: %q %d", w.ID, w.PID)
	}
	if w.Name != "Safari — Apple" {
		t.Fatalf("unexpected title %q", w.Name)
	}
	if w.X != 0 || w.Y != 25 || w.Width != 1440 || w.Height != 875 {
		t.Fatalf("unexpected geometry: %+v", w)
	}

	// Untitled windows are allowed.
	w, ok = parseMacWindowLine("742|2|10|10|300|200|", nop)
	if !ok {
		t.Fatalf("expected untitled line to parse")
	}
	if w.Name != "" {
		t.Fatalf("expected empty title, got %q", w.Name)
	}

	for _, bad := range []string{"", "742|1|x|25|1440|875|t", "742|1|0"} {
		if _, ok := parseMacWindowLine(bad, nop); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestParseMacWindowID(t *testing.T) {
	pid, index, err := parseMacWindowID("742:3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pid != 742 || index != 3 {
		t.Fatalf("got pid=%d index=%d", pid, index)
	}

	for _, bad := range []string{"", "742", "a:b", "0x3a00007"} {
		if _, _, err := parseMacWindowID(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestX11WindowIDRoundTrip(t *testing.T) {
	id, err := parseWindowID("0x3a00007")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if formatWindowID(id) != "0x3a00007" {
		t.Fatalf("round trip produced %q", formatWindowID(id))
	}

	// Uppercase and unprefixed forms are accepted on parse.
	if _, err := parseWindowID("0X3A00007"); err != nil {
		t.Fatalf("uppercase prefix rejected: %v", err)
	}
	if _, err := parseWindowID("3a00007"); err != nil {
		t.Fatalf("bare hex rejected: %v", err)
	}
	if _, err := parseWindowID("pid:3"); err == nil {
		t.Fatalf("expected malformed id to be rejected")
	}
}

func TestExcludedTitlePrefixes(t *testing.T) {
	b := &Wmctrl{exclude: []string{"Desktop — Plasma", "Plasma"}}
	if !b.excluded("Plasma") {
		t.Fatalf("exact prefix must be excluded")
	}
	if !b.excluded("Desktop — Plasma (folder)") {
		t.Fatalf("prefix match must be excluded")
	}
	if b.excluded("My Plasma Notes") {
		t.Fatalf("substring in the middle must not be excluded")
	}
}

func TestMonitorContaining(t *testing.T) {
	monitors := []wm.Monitor{
		{ID: 0, Name: "HDMI-1", X: 0, Y: 0, Width: 1920, Height: 1080},
		{ID: 1, Name: "DP-1", X: 1920, Y: 0, Width: 1920, Height: 1080},
	}
	if m := monitorContaining(monitors, 2000, 100); m == nil || m.Name != "DP-1" {
		t.Fatalf("expected DP-1, got %+v", m)
	}
	if m := monitorContaining(monitors, 1920, 0); m == nil || m.Name != "DP-1" {
		t.Fatalf("left edge belongs to the right monitor, got %+v", m)
	}
	if m := monitorContaining(monitors, -1, 0); m != nil {
		t.Fatalf("expected nil for off-screen point, got %+v", m)
	}
}
