// Package app wires the views, the poller, and the session controller
// into the root Bubble Tea model.
package app

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tempbox/tempbox/internal/account"
	"github.com/tempbox/tempbox/internal/directory"
	"github.com/tempbox/tempbox/internal/keys"
	"github.com/tempbox/tempbox/internal/model"
	"github.com/tempbox/tempbox/internal/poll"
	"github.com/tempbox/tempbox/internal/provider"
	"github.com/tempbox/tempbox/internal/session"
	"github.com/tempbox/tempbox/internal/theme"
	"github.com/tempbox/tempbox/internal/ui"
	"github.com/tempbox/tempbox/internal/ui/admin"
	"github.com/tempbox/tempbox/internal/ui/detail"
	"github.com/tempbox/tempbox/internal/ui/generator"
	"github.com/tempbox/tempbox/internal/ui/inbox"
)

// ViewState identifies the active full-screen view.
type ViewState int

const (
	ViewInbox ViewState = iota
	ViewDetail
	ViewGenerator
	ViewAdmin
	ViewHelp
)

// Model is the root application model.
type Model struct {
	cfg      *model.AppConfig
	keys     *keys.KeyMap
	layout   ui.Layout
	session  *session.Controller
	accounts *account.Service
	provider *provider.Client
	poller   *poll.Poller

	currentView  ViewState
	previousView ViewState

	inbox     inbox.Model
	detail    detail.Model
	generator generator.Model
	admin     admin.Model
	help      help.Model
	spin      spinner.Model

	domain    string
	countdown int
	busy      bool

	flash        string
	flashIsError bool

	ready bool
}

// New assembles the root model from its already-opened dependencies.
func New(
	cfg *model.AppConfig,
	sess *session.Controller,
	accounts *account.Service,
	client *provider.Client,
	dir *directory.Store,
) Model {
	k := keys.DefaultKeyMap()
	layout := ui.NewLayout(80, 24)

	h := help.New()
	h.ShowAll = true

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.FlashInfoStyle

	m := Model{
		cfg:       cfg,
		keys:      k,
		layout:    layout,
		session:   sess,
		accounts:  accounts,
		provider:  client,
		poller:    poll.New(client, time.Duration(cfg.Poll.IntervalSec)*time.Second),
		inbox:     inbox.New(k, layout.Width, layout.ContentHeight()),
		detail:    detail.New(k, layout.Width, layout.ContentHeight()),
		generator: generator.New(layout.Width, layout.ContentHeight()),
		admin:     admin.New(dir, cfg.Admin.GateSecret, k, layout.Width, layout.ContentHeight()),
		help:      h,
		spin:      sp,
		countdown: cfg.Poll.IntervalSec,
	}

	// Restore here, not in Init: Init runs on a model copy, so view state
	// set there would be lost.
	if sess.Restore() {
		m.inbox.SetActive(true)
	}

	return m
}

// Init starts the domain lookup and, for a restored session, the poller.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchDomain()}

	if token := m.session.Token(); token != "" {
		cmds = append(cmds, m.poller.Start(token))
	}

	return tea.Batch(cmds...)
}

// Update routes messages to the active view and handles global concerns.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.inbox.SetSize(m.layout.Width, m.layout.ContentHeight())
		m.detail.SetSize(m.layout.Width, m.layout.ContentHeight())
		m.generator.SetSize(m.layout.Width, m.layout.ContentHeight())
		m.admin.SetSize(m.layout.Width, m.layout.ContentHeight())
		m.help.Width = m.layout.Width
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case domainMsg:
		if msg.err == nil {
			m.domain = msg.domain
			m.generator.SetDomain(msg.domain)
		}
		return m, nil

	case identityMsg:
		return m.handleIdentity(msg)

	case poll.InboxMsg:
		if msg.Err != nil {
			m.setFlash("Inbox refresh failed: "+provider.Description(msg.Err), true)
			return m, m.poller.WaitForNext()
		}
		cmd := m.inbox.SetMessages(msg.Messages)
		return m, tea.Batch(cmd, m.poller.WaitForNext())

	case poll.NewMailMsg:
		noun := "messages"
		if msg.Count == 1 {
			noun = "message"
		}
		m.setFlash(fmt.Sprintf("New mail: %d %s arrived.", msg.Count, noun), false)
		return m, m.poller.WaitForNext()

	case poll.CountdownMsg:
		m.countdown = msg.Remaining
		return m, m.poller.WaitForNext()

	case poll.SessionExpiredMsg:
		if err := m.session.ExpireCurrent(); err != nil {
			m.setFlash("Session expired; clearing stored session failed: "+err.Error(), true)
		} else {
			m.setFlash("Session expired. Create a new address to continue.", true)
		}
		m.inbox.SetActive(false)
		clearCmd := m.inbox.Clear()
		m.detail.Reset()
		m.currentView = ViewInbox
		return m, tea.Batch(clearCmd, m.poller.WaitForNext())

	case inbox.SelectedMessageMsg:
		m.currentView = ViewDetail
		m.detail.SetLoading(true)
		return m, m.fetchMessage(msg.MessageID)

	case detail.BackMsg:
		m.currentView = ViewInbox
		m.detail.Reset()
		return m, nil

	case detail.ExportRequestMsg:
		m.setFlash("Exporting message source...", false)
		return m, m.exportSource(msg.MessageID)

	case exportDoneMsg:
		if msg.err != nil {
			m.setFlash("Export failed: "+provider.Description(msg.err), true)
			return m, nil
		}
		m.setFlash(fmt.Sprintf("Saved %s (%d MIME parts).", msg.path, len(msg.parts)), false)
		return m, nil

	case generator.SubmitMsg:
		m.busy = true
		m.setFlash("Creating mailbox...", false)
		return m, tea.Batch(m.createCustom(msg.Prefix, msg.Secret), m.spin.Tick)

	case generator.CancelMsg:
		m.currentView = ViewInbox
		return m, nil

	case admin.CloseMsg:
		m.currentView = ViewInbox
		return m, nil

	case admin.LoginAsMsg:
		m.busy = true
		m.setFlash("Logging in as "+msg.Email+"...", false)
		return m, tea.Batch(m.adminLogin(msg.Email, msg.Secret), m.spin.Tick)
	}

	return m.updateActiveView(msg)
}

// handleIdentity adopts a freshly generated or impersonated identity.
func (m Model) handleIdentity(msg identityMsg) (tea.Model, tea.Cmd) {
	m.busy = false

	if msg.err != nil {
		m.setFlash(flashForIdentityError(msg.err), true)
		if msg.origin == model.OriginAdmin {
			// Stay in the directory so another record can be tried.
			return m, nil
		}
		m.currentView = ViewInbox
		return m, nil
	}

	if err := m.session.Adopt(msg.identity, msg.origin); err != nil {
		// The session is live in memory even if the keyring write failed.
		m.setFlash("Mailbox ready, but saving credentials failed: "+err.Error(), true)
	} else {
		m.setFlash("Active mailbox: "+msg.identity.Address, false)
	}

	m.inbox.SetActive(true)
	clearCmd := m.inbox.Clear()
	m.detail.Reset()
	m.currentView = ViewInbox
	m.countdown = m.cfg.Poll.IntervalSec

	return m, tea.Batch(clearCmd, m.poller.Start(msg.identity.Token))
}

// handleKey processes global keybindings, deferring to the active view
// for anything else. Single-letter shortcuts only apply on the inbox so
// they never swallow form input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.poller.Stop()
		return m, tea.Quit
	}

	if m.currentView == ViewHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) {
			m.currentView = m.previousView
		}
		return m, nil
	}

	if m.currentView != ViewInbox {
		return m.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.poller.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.NewTemp):
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.setFlash("Generating temp address...", false)
		return m, tea.Batch(m.createTemp(), m.spin.Tick)

	case key.Matches(msg, m.keys.NewCustom):
		m.currentView = ViewGenerator
		return m, m.generator.Start()

	case key.Matches(msg, m.keys.Admin):
		m.currentView = ViewAdmin
		return m, m.admin.Start()

	case key.Matches(msg, m.keys.Refresh):
		if m.poller.State() != poll.Active {
			return m, nil
		}
		m.poller.Refresh()
		m.countdown = m.cfg.Poll.IntervalSec
		m.setFlash("Refreshing inbox...", false)
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		address := m.session.Active().Address
		if address == "" {
			return m, nil
		}
		if err := clipboard.WriteAll(address); err != nil {
			m.setFlash("Clipboard unavailable: "+address, true)
		} else {
			m.setFlash("Copied "+address+" to clipboard.", false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		m.poller.Stop()
		if err := m.session.Logout(); err != nil {
			m.setFlash("Logout failed: "+err.Error(), true)
		} else {
			m.setFlash("Logged out; all stored credentials wiped.", false)
		}
		m.inbox.SetActive(false)
		m.detail.Reset()
		m.countdown = m.cfg.Poll.IntervalSec
		return m, m.inbox.Clear()
	}

	return m.updateActiveView(msg)
}

// updateActiveView dispatches to whichever view owns the screen.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewInbox:
		m.inbox, cmd = m.inbox.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewGenerator:
		m.generator, cmd = m.generator.Update(msg)
	case ViewAdmin:
		m.admin, cmd = m.admin.Update(msg)
	}

	return m, cmd
}

// View renders the full frame.
func (m Model) View() string {
	if !m.ready {
		return "Starting tempbox..."
	}

	header := m.layout.RenderHeader("tempbox", m.sessionStatus())
	content := lipgloss.NewStyle().
		Width(m.layout.Width).
		Height(m.layout.ContentHeight()).
		Render(m.renderContent())
	status := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, content, status)
}

// renderContent renders the active view's body.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDetail:
		return m.detail.View()
	case ViewGenerator:
		return m.generator.View()
	case ViewAdmin:
		return m.admin.View()
	case ViewHelp:
		return lipgloss.Place(
			m.layout.Width, m.layout.ContentHeight(),
			lipgloss.Center, lipgloss.Center,
			m.help.View(m.keys),
		)
	default:
		return m.inbox.View()
	}
}

// sessionStatus summarizes the active mailbox for the header.
func (m Model) sessionStatus() string {
	id := m.session.Active()
	if id.IsZero() {
		return theme.HelpStyle.Render("no active mailbox")
	}

	status := theme.AddressStyle.Render(id.Address)
	if m.poller.State() == poll.Active {
		status += theme.CountdownStyle.Render(
			fmt.Sprintf("  refresh in %ds", m.countdown))
	}
	return status
}

// statusLine renders the flash notice if one is pending, key hints
// otherwise.
func (m Model) statusLine() string {
	if m.busy {
		return m.spin.View() + " " + theme.FlashInfoStyle.Render(m.flash)
	}
	if m.flash != "" {
		if m.flashIsError {
			return theme.FlashErrorStyle.Render(m.flash)
		}
		return theme.FlashInfoStyle.Render(m.flash)
	}
	return theme.HelpStyle.Render(m.keyHints())
}

// keyHints lists the bindings relevant to the active view.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewDetail:
		return "↑/↓: scroll | s: save .eml | esc: back"
	case ViewGenerator:
		return "tab: next field | enter: submit | esc: cancel"
	case ViewAdmin:
		return "enter: confirm | esc: back"
	case ViewHelp:
		return "?: close help"
	default:
		return "g: temp | c: custom | a: admin | r: refresh | y: copy | L: logout | ?: help | q: quit"
	}
}

// setFlash replaces the status-bar notice. Flashes persist until the next
// state change overwrites them.
func (m *Model) setFlash(text string, isError bool) {
	m.flash = text
	m.flashIsError = isError
}
