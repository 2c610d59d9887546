// Package backend provides the OS-specific wm.Manager implementations
// and the platform dispatch that picks one at startup.
package backend

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gu1p/janela/internal/config"
	"github.com/gu1p/janela/internal/wm"
)

// New constructs the Manager selected by the configuration. With
// BackendAuto the platform is detected once here; individual operations
// never re-check it. On Linux the native X11 backend is preferred, with
// the wmctrl shell-out backend as fallback when no X connection can be
// opened.
func New(cfg *config.Config, log zerolog.Logger) (wm.Manager, error) {
	kind := cfg.Backend
	if kind == config.BackendAuto {
		switch runtime.GOOS {
		case "linux":
			mgr, err := NewX11(log)
			if err == nil {
				return mgr, nil
			}
			log.Debug().Err(err).Msg("native X11 unavailable, trying wmctrl")
			return NewWmctrl(cfg, log)
		case "darwin":
			kind = config.BackendMac
		default:
			return nil, fmt.Errorf("unsupported platform %q", runtime.GOOS)
		}
	}

	switch kind {
	case config.BackendX11:
		return NewX11(log)
	case config.BackendWmctrl:
		return NewWmctrl(cfg, log)
	case config.BackendMac:
		return NewMac(cfg, log)
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}

// lookTool resolves a helper executable, preferring the configured path.
func lookTool(configured, name string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", name, err)
	}
	return path, nil
}

// run executes a helper tool and returns its combined output. A non-zero
// exit is returned as an error carrying the tool output.
func run(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// monitorContaining returns the first monitor whose rectangle contains
// (x, y), or nil.
func monitorContaining(monitors []wm.Monitor, x, y int) *wm.Monitor {
	for i := range monitors {
		if monitors[i].Contains(x, y) {
			return &monitors[i]
		}
	}
	return nil
}
