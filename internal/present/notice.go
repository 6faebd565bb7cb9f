package present

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/freightdesk/internal/notify"
)

var (
	errorBadge   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("160")).Padding(0, 1)
	successBadge = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("28")).Padding(0, 1)
	dim          = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Notice formats one notification as a single line. Styling is applied only
// when styled is set.
func Notice(n notify.Notification, styled bool) string {
	title := n.Title
	if title == "" {
		title = string(n.Type)
	}
	if !styled {
		return fmt.Sprintf("[%s] %s: %s", n.Type, title, n.Message)
	}
	badge := errorBadge
	if n.Type == notify.TypeSuccess {
		badge = successBadge
	}
	return badge.Render(title) + " " + n.Message + " " + dim.Render(n.Time.Local().Format("15:04:05"))
}

// WriteNotices prints each notification on its own line.
func WriteNotices(w io.Writer, list []notify.Notification) {
	styled := IsTerminal(w)
	for _, n := range list {
		_, _ = fmt.Fprintln(w, Notice(n, styled))
	}
}
