package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/gu1p/janela/internal/wm"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func styled() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func render(style lipgloss.Style, s string) string {
	if !styled() {
		return s
	}
	return style.Render(s)
}

func printMonitors(monitors []wm.Monitor, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(monitors)
	}
	fmt.Println(render(headerStyle, fmt.Sprintf("%-4s %-12s %-22s %s", "ID", "NAME", "GEOMETRY", "SHAPE")))
	for _, m := range monitors {
		shape := "horizontal"
		if m.IsVertical() {
			shape = "vertical"
		}
		fmt.Printf("%-4d %-12s %-22s %s\n",
			m.ID, m.Name,
			fmt.Sprintf("%dx%d+%d+%d", m.Width, m.Height, m.X, m.Y),
			shape)
	}
	return nil
}

func printWindows(session *wm.Session, windows []wm.Window, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(windows)
	}
	fmt.Println(render(headerStyle, fmt.Sprintf("%-12s %-22s %-8s %s", "ID", "GEOMETRY", "MONITOR", "TITLE")))
	for _, w := range windows {
		monitorName := "-"
		if mon, err := session.MonitorForWindow(w); err == nil && mon != nil {
			monitorName = mon.Name
		}
		line := fmt.Sprintf("%-12s %-22s %-8s %s",
			w.ID,
			fmt.Sprintf("%dx%d+%d+%d", w.Width, w.Height, w.X, w.Y),
			monitorName,
			strings.TrimSpace(w.Name))
		if w.Active {
			line = render(activeStyle, line+" *")
		}
		fmt.Println(line)
	}
	return nil
}
