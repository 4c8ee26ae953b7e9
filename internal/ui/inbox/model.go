// Package inbox renders the message list for the active session.
package inbox

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tempbox/tempbox/internal/keys"
	"github.com/tempbox/tempbox/internal/model"
	"github.com/tempbox/tempbox/internal/theme"
)

// SelectedMessageMsg is sent when the user opens a message.
type SelectedMessageMsg struct {
	MessageID string
}

// Model is the inbox list view.
type Model struct {
	list     list.Model
	keys     *keys.KeyMap
	hasToken bool
	width    int
	height   int
}

// New creates an inbox view.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, itemDelegate{}, width, height-2)
	l.Title = "Inbox"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// SetActive records whether a session is active, which switches the
// empty-state text between "no session" and "no messages yet".
func (m *Model) SetActive(active bool) {
	m.hasToken = active
}

// SetMessages replaces the whole listing. The previous selection is kept
// when the selected message still exists.
func (m *Model) SetMessages(messages []model.MessageSummary) tea.Cmd {
	selectedID := ""
	if item, ok := m.list.SelectedItem().(MessageItem); ok {
		selectedID = item.Summary.ID
	}

	items := make([]list.Item, len(messages))
	index := -1
	for i, msg := range messages {
		items[i] = MessageItem{Summary: msg}
		if msg.ID == selectedID {
			index = i
		}
	}

	cmd := m.list.SetItems(items)
	if index >= 0 {
		m.list.Select(index)
	}
	return cmd
}

// Clear empties the listing, used when the identity switches.
func (m *Model) Clear() tea.Cmd {
	return m.list.SetItems([]list.Item{})
}

// Update handles messages for the inbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Select) {
			item, ok := m.list.SelectedItem().(MessageItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedMessageMsg{MessageID: item.Summary.ID}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the inbox.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		text := "No messages yet..."
		if !m.hasToken {
			text = "No active mailbox. Press g for a temp address or c for a custom one."
		}
		return lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			theme.HelpStyle.Render(text),
		)
	}
	return m.list.View()
}
