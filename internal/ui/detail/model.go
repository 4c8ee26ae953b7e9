// Package detail renders a single fetched message.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tempbox/tempbox/internal/keys"
	"github.com/tempbox/tempbox/internal/model"
	"github.com/tempbox/tempbox/internal/theme"
)

// BackMsg signals the parent to close the detail view. The loaded message
// is discarded with it.
type BackMsg struct{}

// MessageLoadedMsg carries a freshly fetched message detail.
type MessageLoadedMsg struct {
	Message *model.Message
	Err     error
}

// ExportRequestMsg asks the parent to save the raw message source.
type ExportRequestMsg struct {
	MessageID string
}

// Model is the message detail view.
type Model struct {
	message  *model.Message
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
	loading  bool
}

// New creates a detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

// SetLoading marks the view as waiting for a fetch.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
	if loading {
		m.message = nil
	}
}

// Reset discards the loaded message.
func (m *Model) Reset() {
	m.message = nil
	m.loading = false
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MessageLoadedMsg:
		m.loading = false
		m.message = msg.Message
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Export):
			if m.message != nil {
				id := m.message.ID
				return m, func() tea.Msg {
					return ExportRequestMsg{MessageID: id}
				}
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			theme.HelpStyle.Render("Loading message..."),
		)
	}
	if m.message == nil {
		return lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			theme.HelpStyle.Render("No message selected."),
		)
	}
	return m.viewport.View()
}

// renderContent formats the message for the viewport.
func (m Model) renderContent() string {
	msg := m.message
	if msg == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(theme.HeaderStyle.Render(orDefault(msg.Subject, "(no subject)")))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("From:     %s\n", formatAddress(msg.From)))
	if len(msg.To) > 0 {
		recipients := make([]string, len(msg.To))
		for i, to := range msg.To {
			recipients[i] = formatAddress(to)
		}
		b.WriteString(fmt.Sprintf("To:       %s\n", strings.Join(recipients, ", ")))
	}
	b.WriteString(fmt.Sprintf("Received: %s\n", msg.CreatedAt.Local().Format("02 Jan 2006 15:04:05")))

	if len(msg.Attachments) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.UnseenStyle.Render(
			fmt.Sprintf("Attachments (%d):", len(msg.Attachments))))
		b.WriteString("\n")
		for _, att := range msg.Attachments {
			b.WriteString(fmt.Sprintf("  %s (%s, %d bytes)\n    %s\n",
				att.Filename, att.ContentType, att.Size, att.DownloadURL))
		}
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(1, m.width-4)))
	b.WriteString("\n\n")

	body := msg.Text
	if body == "" && len(msg.HTML) > 0 {
		body = strings.Join(msg.HTML, "\n")
	}
	b.WriteString(orDefault(body, "No text content available."))
	b.WriteString("\n")

	return theme.DetailPanelStyle.Width(m.width - 2).Render(b.String())
}

// formatAddress renders a participant as "Name <addr>" or just the address.
func formatAddress(a model.Address) string {
	if a.Name != "" && a.Name != a.Address {
		return fmt.Sprintf("%s <%s>", a.Name, a.Address)
	}
	return a.Address
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
