package backend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gu1p/janela/internal/config"
	"github.com/gu1p/janela/internal/wm"
)

// Mac is the macOS backend built on osascript and the System Events
// accessibility API. Window ids are "pid:index" tokens, stable while the
// window exists within its process. macOS has no maximize concept the
// way X11 does, so Maximize resizes to the monitor rectangle and
// Maximized uses geometry equality; Unmaximize restores a default
// windowed size. Background-only processes are excluded from listings.
type Mac struct {
	osascriptPath string
	log           zerolog.Logger
}

var _ wm.Manager = (*Mac)(nil)

// NewMac resolves the osascript binary.
func NewMac(cfg *config.Config, log zerolog.Logger) (*Mac, error) {
	path, err := lookTool(cfg.Tools.Osascript, "osascript")
	if err != nil {
		return nil, err
	}
	return &Mac{osascriptPath: path, log: log}, nil
}

func (b *Mac) Name() string { return "mac" }

const listWindowsScript = `
set out to ""
tell application "System Events"
	repeat with proc in (every process whose background only is false)
		set procID to unix id of proc
		set i to 1
		repeat with win in (every window of proc)
			set {px, py} to position of win
			set {pw, ph} to size of win
			set out to out & procID & "|" & i & "|" & px & "|" & py & "|" & pw & "|" & ph & "|" & (name of win) & linefeed
			set i to i + 1
		end repeat
	end repeat
end tell
return out`

// listMonitorsScript enumerates NSScreen through the AppleScriptObjC
// bridge, one "id|x|y|width|height|name" record per display. The id is
// the NSScreenNumber, stable while the display stays connected. Frame
// origins are used as-is; the primary display anchors both coordinate
// systems at (0, 0).
const listMonitorsScript = `
use framework "AppKit"
set out to ""
repeat with scr in ((current application's NSScreen's screens()) as list)
	set f to scr's frame()
	set {sx, sy} to item 1 of f
	set {sw, sh} to item 2 of f
	set num to (scr's deviceDescription()'s objectForKey:"NSScreenNumber") as integer
	set nm to (scr's localizedName()) as text
	set out to out & num & "|" & (sx as integer) & "|" & (sy as integer) & "|" & (sw as integer) & "|" & (sh as integer) & "|" & nm & linefeed
end repeat
return out`

func (b *Mac) Monitors() ([]wm.Monitor, error) {
	out, err := run(b.osascriptPath, "-e", listMonitorsScript)
	if err != nil {
		return nil, err
	}
	var monitors []wm.Monitor
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m, ok := parseMacMonitorLine(line, b.log)
		if !ok {
			continue
		}
		monitors = append(monitors, m)
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no displays reported by osascript")
	}
	return monitors, nil
}

func (b *Mac) ListWindows() ([]wm.Window, error) {
	activeID, err := b.ActiveWindowID()
	if err != nil {
		activeID = ""
	}

	out, err := run(b.osascriptPath, "-e", listWindowsScript)
	if err != nil {
		return nil, err
	}

	var windows []wm.Window
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		w, ok := parseMacWindowLine(line, b.log)
		if !ok {
			continue
		}
		w.Active = w.ID == activeID
		windows = append(windows, w)
	}
	return windows, nil
}

func (b *Mac) ActiveWindowID() (string, error) {
	script := `tell application "System Events" to get unix id of first process whose frontmost is true`
	out, err := run(b.osascriptPath, "-e", script)
	if err != nil {
		return "", nil
	}
	pid, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		b.log.Warn().Str("output", strings.TrimSpace(out)).Msg("unexpected frontmost process id")
		return "", nil
	}
	// The frontmost window of the frontmost process is window 1.
	return fmt.Sprintf("%d:1", pid), nil
}

func (b *Mac) Move(w wm.Window, x, y int) (wm.Window, error) {
	pid, index, err := parseMacWindowID(w.ID)
	if err != nil {
		return w, err
	}
	script := fmt.Sprintf(
		`tell application "System Events" to set position of window %d of (first process whose unix id is %d) to {%d, %d}`,
		index, pid, x, y)
	if _, err := run(b.osascriptPath, "-e", script); err != nil {
		return w, fmt.Errorf("move window %s: %w", w.ID, err)
	}
	w.X, w.Y = x, y
	return w, nil
}

func (b *Mac) Resize(w wm.Window, width, height int) (wm.Window, error) {
	pid, index, err := parseMacWindowID(w.ID)
	if err != nil {
		return w, err
	}
	script := fmt.Sprintf(
		`tell application "System Events" to set size of window %d of (first process whose unix id is %d) to {%d, %d}`,
		index, pid, width, height)
	if _, err := run(b.osascriptPath, "-e", script); err != nil {
		return w, fmt.Errorf("resize window %s: %w", w.ID, err)
	}
	w.Width, w.Height = width, height
	return w, nil
}

func (b *Mac) Minimize(w wm.Window) error {
	pid, index, err := parseMacWindowID(w.ID)
	if err != nil {
		return err
	}
	script := fmt.Sprintf(
		`tell application "System Events" to set value of attribute "AXMinimized" of window %d of (first process whose unix id is %d) to true`,
		index, pid)
	if _, err := run(b.osascriptPath, "-e", script); err != nil {
		return fmt.Errorf("minimize window %s: %w", w.ID, err)
	}
	return nil
}

func (b *Mac) Maximize(w wm.Window) (wm.Window, error) {
	monitors, err := b.Monitors()
	if err != nil {
		return w, err
	}
	mon := monitorContaining(monitors, w.X, w.Y)
	if mon == nil {
		return w, fmt.Errorf("window %s is outside all monitors", w.ID)
	}
	moved, err := b.Move(w, mon.X, mon.Y)
	if err != nil {
		return w, err
	}
	return b.Resize(moved, mon.Width, mon.Height)
}

// Unmaximize restores a default windowed size; macOS keeps no windowed
// geometry to return to.
func (b *Mac) Unmaximize(w wm.Window) error {
	_, err := b.Resize(w, 800, 600)
	return err
}

func (b *Mac) Maximized(w wm.Window) (bool, error) {
	windows, err := b.ListWindows()
	if err != nil {
		return false, err
	}
	var current *wm.Window
	for i := range windows {
		if windows[i].ID == w.ID {
			current = &windows[i]
			break
		}
	}
	if current == nil {
		return false, nil
	}
	monitors, err := b.Monitors()
	if err != nil {
		return false, err
	}
	mon := monitorContaining(monitors, current.X, current.Y)
	if mon == nil {
		return false, nil
	}
	return current.X == mon.X && current.Y == mon.Y &&
		current.Width == mon.Width && current.Height == mon.Height, nil
}

func (b *Mac) Focus(w wm.Window) (wm.Window, error) {
	pid, _, err := parseMacWindowID(w.ID)
	if err != nil {
		return w, err
	}
	script := fmt.Sprintf(
		`tell application "System Events" to set frontmost of (first process whose unix id is %d) to true`, pid)
	if _, err := run(b.osascriptPath, "-e", script); err != nil {
		return w, fmt.Errorf("focus window %s: %w", w.ID, err)
	}
	w.Active = true
	return w, nil
}

func (b *Mac) Close(w wm.Window) error {
	pid, index, err := parseMacWindowID(w.ID)
	if err != nil {
		return err
	}
	script := fmt.Sprintf(
		`tell application "System Events" to tell (first process whose unix id is %d) to tell window %d to close`,
		pid, index)
	if _, err := run(b.osascriptPath, "-e", script); err != nil {
		return fmt.Errorf("close window %s: %w", w.ID, err)
	}
	return nil
}

// parseMacMonitorLine parses "id|x|y|width|height|name" records emitted
// by the display listing script. Malformed records are skipped with a
// warning; a missing name falls back to "Display <id>".
func parseMacMonitorLine(line string, log zerolog.Logger) (wm.Monitor, bool) {
	parts := strings.SplitN(line, "|", 6)
	if len(parts) < 5 {
		log.Warn().Str("line", line).Msg("unexpected osascript display record")
		return wm.Monitor{}, false
	}
	nums := make([]int, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			log.Warn().Str("line", line).Msg("unparseable osascript display record")
			return wm.Monitor{}, false
		}
		nums[i] = v
	}
	name := ""
	if len(parts) == 6 {
		name = strings.TrimSpace(parts[5])
	}
	if name == "" {
		name = fmt.Sprintf("Display %d", nums[0])
	}
	return wm.Monitor{
		ID:     nums[0],
		Name:   name,
		X:      nums[1],
		Y:      nums[2],
		Width:  nums[3],
		Height: nums[4],
	}, true
}

// parseMacWindowLine parses "pid|index|x|y|width|height|title" records
// emitted by the listing script. Malformed records are skipped with a
// warning.
func parseMacWindowLine(line string, log zerolog.Logger) (wm.Window, bool) {
	parts := strings.SplitN(line, "|", 7)
	if len(parts) < 6 {
		log.Warn().Str("line", line).Msg("unexpected osascript window record")
		return wm.Window{}, false
	}
	nums := make([]int, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			log.Warn().Str("line", line).Msg("unparseable osascript window record")
			return wm.Window{}, false
		}
		nums[i] = v
	}
	name := ""
	if len(parts) == 7 {
		name = strings.TrimSpace(parts[6])
	}
	return wm.Window{
		ID:     fmt.Sprintf("%d:%d", nums[0], nums[1]),
		Name:   name,
		X:      nums[2],
		Y:      nums[3],
		Width:  nums[4],
		Height: nums[5],
		PID:    nums[0],
	}, true
}

func parseMacWindowID(id string) (pid, index int, err error) {
	parts := strings.SplitN(id, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid window id %q", id)
	}
	pid, err1 := strconv.Atoi(parts[0])
	index, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("invalid window id %q", id)
	}
	return pid, index, nil
}
