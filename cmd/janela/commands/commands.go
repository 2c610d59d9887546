// Package commands defines the janela CLI.
package commands

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gu1p/janela/internal/backend"
	"github.com/gu1p/janela/internal/config"
	"github.com/gu1p/janela/internal/logger"
	"github.com/gu1p/janela/internal/mcp"
	"github.com/gu1p/janela/internal/tiling"
	"github.com/gu1p/janela/internal/wm"
)

var (
	configPath string
	logLevel   string
	asJSON     bool

	cfg      *config.Config
	log      zerolog.Logger
	closeLog func() error
	session  *wm.Session

	Root = &cobra.Command{
		Use:           "janela",
		Short:         "Query and arrange windows across monitors",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configPath != "" {
				cfg, err = config.LoadFromPath(configPath)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return err
			}

			level := cfg.Logging.Level
			if logLevel != "" {
				level = logLevel
			}
			opts := []logger.Option{logger.WithLevel(level), logger.WithConsole()}
			if cfg.Logging.File != "" {
				opts = append(opts, logger.WithFile(cfg.Logging.File))
			}
			log, closeLog, err = logger.New(opts...)
			if err != nil {
				return err
			}

			mgr, err := backend.New(cfg, log)
			if err != nil {
				return err
			}
			log.Debug().Str("backend", mgr.Name()).Msg("backend selected")
			session = wm.NewSession(mgr,
				wm.WithTolerance(cfg.MoveTolerance),
				wm.WithLogger(log),
			)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closeLog != nil {
				return closeLog()
			}
			return nil
		},
	}

	monitorsCmd = &cobra.Command{
		Use:   "monitors",
		Short: "List monitors sorted by name",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			monitors, err := session.ListMonitors()
			if err != nil {
				return err
			}
			return printMonitors(monitors, asJSON)
		},
	}

	windowsCmd = &cobra.Command{
		Use:   "windows",
		Short: "List open windows",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			windows, err := session.Manager().ListWindows()
			if err != nil {
				return err
			}
			return printWindows(session, windows, asJSON)
		},
	}

	activeCmd = &cobra.Command{
		Use:   "active",
		Short: "Show the focused window",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := session.ActiveWindow()
			if err != nil {
				return err
			}
			if w == nil {
				fmt.Println("no active window")
				return nil
			}
			return printWindows(session, []wm.Window{*w}, asJSON)
		},
	}

	moveCmd = &cobra.Command{
		Use:   "move <window> <x> <y>",
		Short: "Move a window to an absolute position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := resolveWindow(args[0])
			if err != nil {
				return err
			}
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid x %q", args[1])
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid y %q", args[2])
			}
			moved, err := session.Manager().Move(*w, x, y)
			if err != nil {
				return err
			}
			return printWindows(session, []wm.Window{moved}, asJSON)
		},
	}

	resizeCmd = &cobra.Command{
		Use:   "resize <window> <width> <height>",
		Short: "Resize a window",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := resolveWindow(args[0])
			if err != nil {
				return err
			}
			width, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid width %q", args[1])
			}
			height, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid height %q", args[2])
			}
			resized, err := session.Manager().Resize(*w, width, height)
			if err != nil {
				return err
			}
			return printWindows(session, []wm.Window{resized}, asJSON)
		},
	}

	minimizeCmd = &cobra.Command{
		Use:   "minimize <window>",
		Short: "Minimize a window",
		Args:  cobra.ExactArgs(1),
		RunE:  windowAction(func(w wm.Window) error { return session.Manager().Minimize(w) }),
	}

	maximizeCmd = &cobra.Command{
		Use:   "maximize <window>",
		Short: "Maximize a window to its monitor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := resolveWindow(args[0])
			if err != nil {
				return err
			}
			maximized, err := session.Manager().Maximize(*w)
			if err != nil {
				return err
			}
			return printWindows(session, []wm.Window{maximized}, asJSON)
		},
	}

	unmaximizeCmd = &cobra.Command{
		Use:   "unmaximize <window>",
		Short: "Restore a maximized window",
		Args:  cobra.ExactArgs(1),
		RunE:  windowAction(func(w wm.Window) error { return session.Manager().Unmaximize(w) }),
	}

	focusCmd = &cobra.Command{
		Use:   "focus <window>",
		Short: "Give a window input focus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := resolveWindow(args[0])
			if err != nil {
				return err
			}
			_, err = session.Manager().Focus(*w)
			return err
		},
	}

	closeCmd = &cobra.Command{
		Use:   "close <window>",
		Short: "Request a graceful window close",
		Args:  cobra.ExactArgs(1),
		RunE:  windowAction(func(w wm.Window) error { return session.Manager().Close(w) }),
	}

	moveToMonitorCmd = &cobra.Command{
		Use:   "move-to-monitor <window> <monitor-id>",
		Short: "Move a window to the center of another monitor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := resolveWindow(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid monitor id %q", args[1])
			}
			monitor, err := session.MonitorByID(id)
			if err != nil {
				return err
			}
			if monitor == nil {
				return fmt.Errorf("no monitor with id %d", id)
			}
			moved, err := session.MoveToMonitor(*w, *monitor)
			if err != nil {
				return err
			}
			return printWindows(session, []wm.Window{moved}, asJSON)
		},
	}

	mosaicCmd = &cobra.Command{
		Use:   "mosaic",
		Short: "Tile every monitor's windows into an automatic grid",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tiling.Mosaic(session, log)
		},
	}

	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Log which windows resolve to which monitors",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !session.VerifyWindowPositions() {
				return fmt.Errorf("verification sweep failed")
			}
			return nil
		},
	}

	mcpCmd = &cobra.Command{
		Use:   "mcp",
		Short: "Serve the window operations as MCP tools on stdio",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcp.NewServer(session, log).Run(cmd.Context())
		},
	}
)

func init() {
	Root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/janela/config.yaml)")
	Root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	Root.PersistentFlags().BoolVar(&asJSON, "json", false, "emit JSON instead of tables")

	Root.AddCommand(
		monitorsCmd,
		windowsCmd,
		activeCmd,
		moveCmd,
		resizeCmd,
		minimizeCmd,
		maximizeCmd,
		unmaximizeCmd,
		focusCmd,
		closeCmd,
		moveToMonitorCmd,
		mosaicCmd,
		verifyCmd,
		mcpCmd,
	)
}

// resolveWindow accepts a window id or a title substring.
func resolveWindow(ref string) (*wm.Window, error) {
	w, err := session.WindowByID(ref)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w, err = session.WindowByName(ref)
		if err != nil {
			return nil, err
		}
	}
	if w == nil {
		return nil, fmt.Errorf("no window matching %q", ref)
	}
	return w, nil
}

func windowAction(fn func(wm.Window) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		w, err := resolveWindow(args[0])
		if err != nil {
			return err
		}
		return fn(*w)
	}
}
