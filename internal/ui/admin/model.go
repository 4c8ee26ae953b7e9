// Package admin is the passphrase-gated directory of previously created
// accounts with "login as" impersonation.
//
// The gate is a local string comparison against a configured secret. It is
// a convenience only: anyone with the config file or process environment
// can read the passphrase, and the directory database is not otherwise
// protected. It must not be mistaken for an access-control boundary.
package admin

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tempbox/tempbox/internal/keys"
	"github.com/tempbox/tempbox/internal/model"
	"github.com/tempbox/tempbox/internal/theme"
)

// Lister is the slice of the directory store this view needs.
type Lister interface {
	List(ctx context.Context) ([]model.AccountRecord, error)
}

// CloseMsg signals the parent to leave the admin view.
type CloseMsg struct{}

// LoginAsMsg asks the parent to impersonate a listed account: log in with
// its stored credentials and adopt the resulting identity.
type LoginAsMsg struct {
	Email  string
	Secret string
}

// RecordsLoadedMsg carries the directory snapshot.
type RecordsLoadedMsg struct {
	Records []model.AccountRecord
	Err     error
}

// phase tracks which half of the view is active.
type phase int

const (
	phaseGate phase = iota
	phaseDirectory
)

// recordItem wraps an account record for bubbles/list.
type recordItem struct {
	rec model.AccountRecord
}

func (i recordItem) FilterValue() string { return i.rec.Email }

// recordDelegate renders one directory line.
type recordDelegate struct{}

func (d recordDelegate) Height() int                             { return 1 }
func (d recordDelegate) Spacing() int                            { return 0 }
func (d recordDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d recordDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(recordItem)
	if !ok {
		return
	}

	line := fmt.Sprintf("%s  secret:%s  %s",
		ri.rec.Email, ri.rec.Secret,
		ri.rec.CreatedAt.Local().Format("02/01/2006 15:04:05"))

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(line))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(line))
}

// Model is the admin directory view.
type Model struct {
	directory  Lister
	gateSecret string
	keys       *keys.KeyMap

	phase     phase
	gateInput textinput.Model
	gateError string
	list      list.Model
	loadError string
	width     int
	height    int
}

// New creates an admin view gated by the given secret.
func New(directory Lister, gateSecret string, k *keys.KeyMap, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "admin passphrase"
	ti.EchoMode = textinput.EchoPassword
	ti.Prompt = "> "
	ti.Width = 40

	l := list.New([]list.Item{}, recordDelegate{}, width, height-4)
	l.Title = "Created accounts"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		directory:  directory,
		gateSecret: gateSecret,
		keys:       k,
		gateInput:  ti,
		list:       l,
		width:      width,
		height:     height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}

// Start resets the view to the gate phase and focuses the input.
func (m *Model) Start() tea.Cmd {
	m.phase = phaseGate
	m.gateInput.Reset()
	m.gateError = ""
	m.loadError = ""
	return m.gateInput.Focus()
}

// loadRecords fetches the full directory snapshot.
func (m Model) loadRecords() tea.Cmd {
	directory := m.directory
	return func() tea.Msg {
		records, err := directory.List(context.Background())
		return RecordsLoadedMsg{Records: records, Err: err}
	}
}

// Update handles messages for the admin view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RecordsLoadedMsg:
		if msg.Err != nil {
			m.loadError = "Failed to load account directory: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Records))
		for i, rec := range msg.Records {
			items[i] = recordItem{rec: rec}
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg { return CloseMsg{} }
		}

		if m.phase == phaseGate {
			return m.updateGate(msg)
		}
		return m.updateDirectory(msg)
	}

	return m, nil
}

// updateGate processes input while the passphrase prompt is showing.
func (m Model) updateGate(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "enter" {
		if m.gateSecret != "" && m.gateInput.Value() == m.gateSecret {
			m.phase = phaseDirectory
			m.gateError = ""
			return m, m.loadRecords()
		}
		m.gateError = "Incorrect admin passphrase."
		m.gateInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.gateInput, cmd = m.gateInput.Update(msg)
	return m, cmd
}

// updateDirectory processes input while the record list is showing.
func (m Model) updateDirectory(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Select) {
		item, ok := m.list.SelectedItem().(recordItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return LoginAsMsg{Email: item.rec.Email, Secret: item.rec.Secret}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the admin view.
func (m Model) View() string {
	if m.phase == phaseGate {
		lines := []string{
			theme.HeaderStyle.Render("Admin directory"),
			"",
			theme.HelpStyle.Render("Enter the admin passphrase to list created accounts."),
			"",
			m.gateInput.View(),
		}
		if m.gateSecret == "" {
			lines = append(lines, "",
				theme.FlashErrorStyle.Render("Admin view disabled: no gate secret configured."))
		}
		if m.gateError != "" {
			lines = append(lines, "", theme.FlashErrorStyle.Render(m.gateError))
		}
		content := lipgloss.JoinVertical(lipgloss.Left, lines...)
		return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, content)
	}

	if m.loadError != "" {
		return lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			theme.FlashErrorStyle.Render(m.loadError),
		)
	}

	if len(m.list.Items()) == 0 {
		return lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			theme.HelpStyle.Render("No accounts recorded yet."),
		)
	}

	hint := theme.HelpStyle.Render("enter: login as selected account | esc: back")
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), "", hint)
}
