package wm

// Manager is the primitive operation set implemented once per OS. All
// mutating operations follow the same rule: on success they return a copy
// of the window with the affected fields updated, on failure they return
// the input unchanged together with the error. Callers that need OS truth
// after a mutation must re-query through ListWindows.
//
// Implementations are not required to be safe for concurrent use.
type Manager interface {
	// Name identifies the backend in logs and diagnostics.
	Name() string

	// Monitors returns the current monitor set in OS-defined order.
	// The result is never cached.
	Monitors() ([]Monitor, error)

	// ListWindows returns all currently open, OS-visible windows with
	// Active computed against the current active-window id. Backends may
	// exclude shell and desktop-chrome windows; the exclusion rules are
	// documented per backend.
	ListWindows() ([]Window, error)

	// ActiveWindowID returns the focused window's id, or an empty string
	// when it cannot be determined.
	ActiveWindowID() (string, error)

	// Move requests absolute placement of the window at (x, y).
	Move(w Window, x, y int) (Window, error)

	// Resize requests a new size. Maximized windows ignore resize
	// requests on most platforms, so implementations unmaximize first.
	Resize(w Window, width, height int) (Window, error)

	// Minimize iconifies the window.
	Minimize(w Window) error

	// Maximize requests the maximized state. On success the returned
	// copy's geometry equals its containing monitor's rectangle.
	Maximize(w Window) (Window, error)

	// Unmaximize restores the windowed state. The restored geometry is
	// OS-defined and not guaranteed by this contract.
	Unmaximize(w Window) error

	// Maximized reports whether the window is maximized, either by an
	// OS-reported flag or by geometry equality with its monitor,
	// depending on the backend.
	Maximized(w Window) (bool, error)

	// Focus gives the window input focus.
	Focus(w Window) (Window, error)

	// Close requests a graceful close.
	Close(w Window) error
}
