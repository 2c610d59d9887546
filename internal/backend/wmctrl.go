package backend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gu1p/janela/internal/config"
	"github.com/gu1p/janela/internal/wm"
)

// Wmctrl is the shell-out backend built on wmctrl, xdotool and xrandr.
// Window ids are the hex tokens wmctrl prints, normalized to lowercase
// "0x…" form. Maximized state uses geometry equality against the
// containing monitor, since the state atoms are not reachable through
// these tools. Windows whose titles match the configured exclusion
// prefixes (desktop chrome) are dropped from listings.
type Wmctrl struct {
	wmctrlPath  string
	xdotoolPath string
	xrandrPath  string
	exclude     []string
	log         zerolog.Logger
}

var _ wm.Manager = (*Wmctrl)(nil)

// NewWmctrl resolves the helper tools, preferring configured paths over
// PATH lookups.
func NewWmctrl(cfg *config.Config, log zerolog.Logger) (*Wmctrl, error) {
	wmctrlPath, err := lookTool(cfg.Tools.Wmctrl, "wmctrl")
	if err != nil {
		return nil, err
	}
	xdotoolPath, err := lookTool(cfg.Tools.Xdotool, "xdotool")
	if err != nil {
		return nil, err
	}
	xrandrPath, err := lookTool(cfg.Tools.Xrandr, "xrandr")
	if err != nil {
		return nil, err
	}
	return &Wmctrl{
		wmctrlPath:  wmctrlPath,
		xdotoolPath: xdotoolPath,
		xrandrPath:  xrandrPath,
		exclude:     cfg.ExcludeTitlePrefixes,
		log:         log,
	}, nil
}

func (b *Wmctrl) Name() string { return "wmctrl" }

func (b *Wmctrl) Monitors() ([]wm.Monitor, error) {
	out, err := run(b.xrandrPath, "--current")
	if err != nil {
		return nil, err
	}
	return parseXrandrMonitors(out, b.log), nil
}

func (b *Wmctrl) ListWindows() ([]wm.Window, error) {
	activeID, err := b.ActiveWindowID()
	if err != nil {
		activeID = ""
	}

	out, err := run(b.wmctrlPath, "-lG")
	if err != nil {
		return nil, err
	}

	var windows []wm.Window
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		w, ok := parseWmctrlLine(line, b.log)
		if !ok {
			continue
		}
		if b.excluded(w.Name) {
			continue
		}
		w.Active = strings.EqualFold(w.ID, activeID)
		windows = append(windows, w)
	}
	return windows, nil
}

func (b *Wmctrl) ActiveWindowID() (string, error) {
	out, err := run(b.xdotoolPath, "getactivewindow")
	if err != nil {
		// No active window is indeterminate, not fatal.
		return "", nil
	}
	decimal := strings.TrimSpace(out)
	v, err := strconv.ParseUint(decimal, 10, 64)
	if err != nil {
		b.log.Warn().Str("output", decimal).Msg("unexpected xdotool active window id")
		return "", nil
	}
	return fmt.Sprintf("0x%x", v), nil
}

func (b *Wmctrl) Move(w wm.Window, x, y int) (wm.Window, error) {
	_, err := run(b.wmctrlPath, "-ir", w.ID, "-e", fmt.Sprintf("0,%d,%d,-1,-1", x, y))
	if err != nil {
		return w, fmt.Errorf("move window %s: %w", w.ID, err)
	}
	w.X, w.Y = x, y
	return w, nil
}

func (b *Wmctrl) Resize(w wm.Window, width, height int) (wm.Window, error) {
	// Maximized windows ignore resize requests.
	if err := b.Unmaximize(w); err != nil {
		return w, err
	}
	_, err := run(b.wmctrlPath, "-ir", w.ID, "-e", fmt.Sprintf("0,%d,%d,%d,%d", w.X, w.Y, width, height))
	if err != nil {
		return w, fmt.Errorf("resize window %s: %w", w.ID, err)
	}
	w.Width, w.Height = width, height
	return w, nil
}

func (b *Wmctrl) Minimize(w wm.Window) error {
	if _, err := run(b.xdotoolPath, "windowminimize", w.ID); err != nil {
		return fmt.Errorf("minimize window %s: %w", w.ID, err)
	}
	return nil
}

func (b *Wmctrl) Maximize(w wm.Window) (wm.Window, error) {
	_, err := run(b.wmctrlPath, "-ir", w.ID, "-b", "add,maximized_vert,maximized_horz")
	if err != nil {
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

func (b *Wmctrl) Unmaximize(w wm.Window) error {
	_, err := run(b.wmctrlPath, "-ir", w.ID, "-b", "remove,maximized_vert,maximized_horz")
	if err != nil {
		return fmt.Errorf("unmaximize window %s: %w", w.ID, err)
	}
	return nil
}

func (b *Wmctrl) Maximized(w wm.Window) (bool, error) {
	// Geometry-equality strategy: re-read the window and compare against
	// its containing monitor.
	windows, err := b.ListWindows()
	if err != nil {
		return false, err
	}
	var current *wm.Window
	for i := range windows {
		if strings.EqualFold(windows[i].ID, w.ID) {
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

func (b *Wmctrl) Focus(w wm.Window) (wm.Window, error) {
	if _, err := run(b.wmctrlPath, "-ia", w.ID); err != nil {
		return w, fmt.Errorf("focus window %s: %w", w.ID, err)
	}
	w.Active = true
	return w, nil
}

func (b *Wmctrl) Close(w wm.Window) error {
	if _, err := run(b.wmctrlPath, "-ic", w.ID); err != nil {
		return fmt.Errorf("close window %s: %w", w.ID, err)
	}
	return nil
}

func (b *Wmctrl) excluded(title string) bool {
	for _, prefix := range b.exclude {
		if strings.HasPrefix(title, prefix) {
			return true
		}
	}
	return false
}

// parseXrandrMonitors extracts connected outputs with an active mode
// from `xrandr --current` output. Outputs without a parseable geometry
// are skipped with a warning.
func parseXrandrMonitors(out string, log zerolog.Logger) []wm.Monitor {
	var monitors []wm.Monitor
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, " connected") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]

		var geometry string
		for _, f := range fields {
			if strings.Contains(f, "x") && strings.Contains(f, "+") {
				geometry = f
				break
			}
		}
		if geometry == "" {
			log.Warn().Str("monitor", name).Msg("could not parse geometry for monitor")
			continue
		}

		m, ok := parseXrandrGeometry(geometry)
		if !ok {
			log.Warn().Str("monitor", name).Str("geometry", geometry).Msg("malformed monitor geometry")
			continue
		}
		m.ID = len(monitors)
		m.Name = name
		monitors = append(monitors, m)
	}
	return monitors
}

// parseXrandrGeometry parses "1920x1080+1920+0" into a monitor
// rectangle. Negative offsets ("-1080") are passed through by xrandr as
// "+-1080" in some builds and are accepted.
func parseXrandrGeometry(geometry string) (wm.Monitor, bool) {
	parts := strings.SplitN(geometry, "+", 3)
	if len(parts) != 3 {
		return wm.Monitor{}, false
	}
	size := strings.SplitN(parts[0], "x", 2)
	if len(size) != 2 {
		return wm.Monitor{}, false
	}
	width, err1 := strconv.Atoi(size[0])
	height, err2 := strconv.Atoi(size[1])
	x, err3 := strconv.Atoi(parts[1])
	y, err4 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return wm.Monitor{}, false
	}
	return wm.Monitor{X: x, Y: y, Width: width, Height: height}, true
}

// parseWmctrlLine parses one `wmctrl -lG` record:
//
//	0x03a00007  0 3849 190  1430 1018 host Window title here
//
// Records with too few columns or non-numeric geometry are skipped with
// a warning. The title is everything after the seventh column, kept
// verbatim so runs of whitespace inside it stay matchable; it may be
// empty.
func parseWmctrlLine(line string, log zerolog.Logger) (wm.Window, bool) {
	fields, name := splitColumns(line, 7)
	if len(fields) < 7 {
		log.Warn().Str("line", line).Msg("unexpected wmctrl output")
		return wm.Window{}, false
	}

	idValue, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(fields[0]), "0x"), 16, 64)
	if err != nil {
		log.Warn().Str("line", line).Msg("unparseable window id in wmctrl output")
		return wm.Window{}, false
	}

	nums := make([]int, 4)
	for i, f := range fields[2:6] {
		v, err := strconv.Atoi(f)
		if err != nil {
			log.Warn().Str("line", line).Msg("unparseable geometry in wmctrl output")
			return wm.Window{}, false
		}
		nums[i] = v
	}

	return wm.Window{
		ID:     fmt.Sprintf("0x%x", idValue),
		Name:   name,
		X:      nums[0],
		Y:      nums[1],
		Width:  nums[2],
		Height: nums[3],
	}, true
}

// splitColumns splits off the first n whitespace-separated columns of
// line and returns them together with the remainder, its leading
// whitespace stripped and the rest untouched.
func splitColumns(line string, n int) ([]string, string) {
	cols := make([]string, 0, n)
	rest := strings.TrimLeft(line, " \t")
	for len(cols) < n && rest != "" {
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			cols = append(cols, rest)
			rest = ""
			break
		}
		cols = append(cols, rest[:i])
		rest = strings.TrimLeft(rest[i:], " \t")
	}
	return cols, rest
}
