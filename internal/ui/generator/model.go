// Package generator is the form for creating (or re-entering) a custom
// prefix mailbox.
package generator

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/tempbox/tempbox/internal/account"
	"github.com/tempbox/tempbox/internal/theme"
)

// SubmitMsg carries the completed form. The prefix has already been
// sanitized to the allowed character set.
type SubmitMsg struct {
	Prefix string
	Secret string
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	prefix string
	secret string
}

// Model is the Bubble Tea model for the custom identity form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	domain string
	width  int
	height int
}

// New creates a generator form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetDomain records the domain the prefix will be combined with, shown in
// the form description.
func (m *Model) SetDomain(domain string) {
	m.domain = domain
}

// Start initializes a fresh form.
func (m *Model) Start() tea.Cmd {
	m.fb.prefix = ""
	m.fb.secret = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// buildForm constructs the huh form with inline validation. The prefix is
// sanitized before validation, mirroring the strip-as-you-type behavior
// of the submit path.
func (m *Model) buildForm() *huh.Form {
	description := "Address will be <prefix>@" + m.domain
	if m.domain == "" {
		description = "No domain available from the provider"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email prefix").
				Description(description).
				CharLimit(account.MaxLocalPartLen).
				Validate(func(s string) error {
					return account.ValidateLocalPart(account.SanitizeLocalPart(s))
				}).
				Value(&m.fb.prefix),
			huh.NewInput().
				Title("Secret").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("secret must not be empty")
					}
					return nil
				}).
				Value(&m.fb.secret),
		),
	).WithWidth(min(m.width-4, 72)).WithShowHelp(true)
}

// Update handles messages for the generator form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		prefix := account.SanitizeLocalPart(m.fb.prefix)
		secret := m.fb.secret
		return m, func() tea.Msg {
			return SubmitMsg{Prefix: prefix, Secret: secret}
		}
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := theme.HeaderStyle.Render("Create or access custom mailbox")
	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		m.form.View(),
	)
}
