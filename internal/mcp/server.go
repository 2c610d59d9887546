// Package mcp exposes the window-management operations as MCP tools over
// stdio, so agent frontends can enumerate and arrange windows.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/gu1p/janela/internal/tiling"
	"github.com/gu1p/janela/internal/wm"
)

const (
	ServerName    = "janela"
	ServerVersion = "0.1.0"
)

// Server is the MCP server wrapping a window-manager session.
type Server struct {
	mcpServer *mcpsdk.Server
	session   *wm.Session
	log       zerolog.Logger
}

// NewServer builds the server and registers its tools.
func NewServer(session *wm.Session, log zerolog.Logger) *Server {
	s := &Server{
		session: session,
		log:     log,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List all monitors with their virtual-screen geometry, sorted by name.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List all open windows with geometry, focus state and the monitor each resolves to.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_active_window",
		Description: "Return the currently focused window, or nothing when focus is indeterminate.",
	}, s.handleActiveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window to an absolute position in virtual-screen pixels.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window, unmaximizing it first when needed.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize (iconify) a window.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Maximize a window to its containing monitor.",
	}, s.handleMaximizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "unmaximize_window",
		Description: "Restore a maximized window to its windowed state.",
	}, s.handleUnmaximizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Give a window input focus.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Request a graceful close of a window.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_to_monitor",
		Description: "Move a window to the center of another monitor, preserving size and maximized state. The move is verified against the window's re-queried position.",
	}, s.handleMoveToMonitor)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "mosaic",
		Description: "Tile every monitor's windows into an automatic grid. A single window on a monitor is maximized instead.",
	}, s.handleMosaic)
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	monitors, err := s.session.ListMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}
	out := ListMonitorsOutput{Monitors: make([]MonitorInfo, 0, len(monitors))}
	for _, m := range monitors {
		out.Monitors = append(out.Monitors, monitorInfo(m))
	}
	return nil, out, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.session.Manager().ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	out := ListWindowsOutput{Windows: make([]WindowInfo, 0, len(windows))}
	for _, w := range windows {
		out.Windows = append(out.Windows, s.windowInfo(w))
	}
	return nil, out, nil
}

func (s *Server) handleActiveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ ActiveWindowInput) (*mcpsdk.CallToolResult, ActiveWindowOutput, error) {
	w, err := s.session.ActiveWindow()
	if err != nil {
		return nil, ActiveWindowOutput{}, err
	}
	if w == nil {
		return nil, ActiveWindowOutput{}, nil
	}
	info := s.windowInfo(*w)
	return nil, ActiveWindowOutput{Window: &info}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowActionOutput, error) {
	w, err := s.resolveWindow(args.Window)
	if err != nil {
		return nil, WindowActionOutput{}, err
	}
	moved, err := s.session.Manager().Move(*w, args.X, args.Y)
	if err != nil {
		return nil, WindowActionOutput{}, err
	}
	return nil, WindowActionOutput{Window: s.windowInfo(moved)}, nil
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowActionOutput, error) {
	w, err := s.resolveWindow(args.Window)
	if err != nil {
		return nil, WindowActionOutput{}, err
	}
	resized, err := s.session.Manager().Resize(*w, args.Width, args.Height)
	if err != nil {
		return nil, WindowActionOutput{}, err
	}
	return nil, WindowActionOutput{Window: s.windowInfo(resized)}, nil
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowActionInput) (*mcpsdk.CallToolResult, WindowActionOutput, error) {
	w, err := s.resolveWindow(args.Window)
	if err != nil {
		return nil, WindowActionOutput{}, err
	}
	if err := s.session.Manager().Minimize(*w); err != nil {
		return nil, WindowActionOutput{}, err
	}
	return nil, WindowActionOutput{Window: s.windowInfo(*w)}, nil
}

func (s *Server) handleMaximizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowActionInput) (*mcpsdk.CallToolResult, WindowActionOutput, error) {
	w, err := s.resolveWindow(args.Window)
	if err != nil {
		return nil, WindowActionOutput{}, err
	}
	maximized, err := s.session.Manager().Maximize(*w)
	if err != nil {
		return nil, WindowActionOutput{}, err
	}
	return nil, WindowActionOutput{Window: s.windowInfo(maximized)}, nil
}

func (s *Server) handleUnmaximizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowActionInput) (*mcpsdk.CallToolResult, WindowActionOutput, error) {
	w, err := s.resolveWindow(args.Window)
	if err != nil {
		return nil, WindowActionOutput{}, err
	}
	if err := s.session.Manager().Unmaximize(*w); err != nil {
		return nil, WindowActionOutput{}, err
	}
	return nil, WindowActionOutput{Window: s.windowInfo(*w)}, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowActionInput) (*mcpsdk.CallToolResult, WindowActionOutput, error) {
	w, err := s.resolveWindow(args.Window)
	if err != nil {
		return nil, WindowActionOutput{}, err
	}
	focused, err := s.session.Manager().Focus(*w)
	if err != nil {
		return nil, WindowActionOutput{}, err
	}
	return nil, WindowActionOutput{Window: s.windowInfo(focused)}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowActionInput) (*mcpsdk.CallToolResult, WindowActionOutput, error) {
	w, err := s.resolveWindow(args.Window)
	if err != nil {
		return nil, WindowActionOutput{}, err
	}
	if err := s.session.Manager().Close(*w); err != nil {
		return nil, WindowActionOutput{}, err
	}
	return nil, WindowActionOutput{Window: s.windowInfo(*w)}, nil
}

func (s *Server) handleMoveToMonitor(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveToMonitorInput) (*mcpsdk.CallToolResult, MoveToMonitorOutput, error) {
	w, err := s.resolveWindow(args.Window)
	if err != nil {
		return nil, MoveToMonitorOutput{}, err
	}
	monitor, err := s.session.MonitorByID(args.Monitor)
	if err != nil {
		return nil, MoveToMonitorOutput{}, err
	}
	if monitor == nil {
		return nil, MoveToMonitorOutput{}, fmt.Errorf("no monitor with id %d", args.Monitor)
	}
	moved, err := s.session.MoveToMonitor(*w, *monitor)
	if err != nil {
		return nil, MoveToMonitorOutput{}, err
	}
	return nil, MoveToMonitorOutput{Window: s.windowInfo(moved)}, nil
}

func (s *Server) handleMosaic(_ context.Context, _ *mcpsdk.CallToolRequest, _ MosaicInput) (*mcpsdk.CallToolResult, MosaicOutput, error) {
	if err := tiling.Mosaic(s.session, s.log); err != nil {
		return nil, MosaicOutput{}, err
	}
	return nil, MosaicOutput{Tiled: true}, nil
}

func (s *Server) resolveWindow(ref WindowRef) (*wm.Window, error) {
	if ref.ID != "" {
		w, err := s.session.WindowByID(ref.ID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, fmt.Errorf("no window with id %q", ref.ID)
		}
		return w, nil
	}
	if ref.Name != "" {
		w, err := s.session.WindowByName(ref.Name)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, fmt.Errorf("no window matching name %q", ref.Name)
		}
		return w, nil
	}
	return nil, fmt.Errorf("window reference needs an id or a name")
}

func (s *Server) windowInfo(w wm.Window) WindowInfo {
	monitorID := -1
	if mon, err := s.session.MonitorForWindow(w); err == nil && mon != nil {
		monitorID = mon.ID
	}
	return WindowInfo{
		ID:      w.ID,
		Name:    w.Name,
		X:       w.X,
		Y:       w.Y,
		Width:   w.Width,
		Height:  w.Height,
		Active:  w.Active,
		PID:     w.PID,
		Monitor: monitorID,
	}
}

func monitorInfo(m wm.Monitor) MonitorInfo {
	return MonitorInfo{
		ID:     m.ID,
		Name:   m.Name,
		X:      m.X,
		Y:      m.Y,
		Width:  m.Width,
		Height: m.Height,
	}
}
