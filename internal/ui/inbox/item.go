package inbox

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tempbox/tempbox/internal/model"
	"github.com/tempbox/tempbox/internal/theme"
)

// MessageItem wraps a message summary so it can be used in a bubbles/list.
type MessageItem struct {
	Summary model.MessageSummary
}

// FilterValue returns the string used for fuzzy filtering.
func (i MessageItem) FilterValue() string {
	return i.Summary.From.Address + " " + i.Summary.Subject
}

// itemDelegate renders one inbox line: sender, subject, relative time.
type itemDelegate struct{}

// Height returns the number of lines each item takes.
func (d itemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d itemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single inbox line.
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(MessageItem)
	if !ok {
		return
	}

	sender := mi.Summary.From.Address
	if sender == "" {
		sender = "(unknown sender)"
	}
	subject := mi.Summary.Subject
	if subject == "" {
		subject = "(no subject)"
	}

	line := truncate(fmt.Sprintf("%s  %s  %s",
		sender, subject, relativeTime(mi.Summary.CreatedAt)), m.Width()-4)

	switch {
	case index == m.Index():
		line = theme.SelectedItemStyle.Render(line)
	case !mi.Summary.Seen:
		line = theme.UnseenStyle.Render(theme.ListItemStyle.Render(line))
	default:
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime formats a timestamp as a short age like "3m" or "2h".
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// truncate shortens s to max runes, appending an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
