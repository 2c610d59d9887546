package mcp

// WindowRef selects a window by id or, when id is empty, by
// case-insensitive title substring.
type WindowRef struct {
	ID   string `json:"id,omitempty" jsonschema:"Window id as returned by list_windows"`
	Name string `json:"name,omitempty" jsonschema:"Case-insensitive title substring; the first match wins"`
}

// MonitorInfo mirrors wm.Monitor for tool output.
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// WindowInfo mirrors wm.Window for tool output.
type WindowInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Active bool   `json:"active"`
	PID    int    `json:"pid,omitempty"`
	// Monitor is the id of the monitor the window resolves to, -1 when
	// the window is outside all known monitors.
	Monitor int `json:"monitor"`
}

type ListMonitorsInput struct{}

type ListMonitorsOutput struct {
	Monitors []MonitorInfo `json:"monitors"`
}

type ListWindowsInput struct{}

type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

type ActiveWindowInput struct{}

type ActiveWindowOutput struct {
	Window *WindowInfo `json:"window,omitempty"`
}

type MoveWindowInput struct {
	Window WindowRef `json:"window" jsonschema:"required,The window to move"`
	X      int       `json:"x" jsonschema:"required,Target x in virtual-screen pixels"`
	Y      int       `json:"y" jsonschema:"required,Target y in virtual-screen pixels"`
}

type ResizeWindowInput struct {
	Window WindowRef `json:"window" jsonschema:"required,The window to resize"`
	Width  int       `json:"width" jsonschema:"required,New width in pixels"`
	Height int       `json:"height" jsonschema:"required,New height in pixels"`
}

type WindowActionInput struct {
	Window WindowRef `json:"window" jsonschema:"required,The target window"`
}

type WindowActionOutput struct {
	Window WindowInfo `json:"window"`
}

type MoveToMonitorInput struct {
	Window  WindowRef `json:"window" jsonschema:"required,The window to move"`
	Monitor int       `json:"monitor" jsonschema:"required,Target monitor id from list_monitors"`
}

type MoveToMonitorOutput struct {
	Window WindowInfo `json:"window"`
}

type MosaicInput struct{}

type MosaicOutput struct {
	Tiled bool `json:"tiled"`
}
