package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line with the plan
// size on the left and session counters on the right.
func (m Model) renderStatusBar() string {
	s := m.cmd.Engine.Stats()

	left := fmt.Sprintf(" Entries: %d (%d deferred) | Conflicts: %d", s.Entries, s.Deferred, s.Conflicts)
	right := fmt.Sprintf("L:%d %s ", s.Level, s.Mode)

	candidate := fmt.Sprintf("Ready: %d | Injected: %d | L:%d %s ",
		s.Session.Processed, s.Session.Ledgered, s.Level, s.Mode)
	if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
		right = candidate
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
