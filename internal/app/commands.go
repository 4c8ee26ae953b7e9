package app

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tempbox/tempbox/internal/account"
	"github.com/tempbox/tempbox/internal/export"
	"github.com/tempbox/tempbox/internal/model"
	"github.com/tempbox/tempbox/internal/provider"
	"github.com/tempbox/tempbox/internal/ui/detail"
)

// requestTimeout bounds every user-initiated provider call.
const requestTimeout = 30 * time.Second

// domainMsg carries the provider's default domain for the generator form.
type domainMsg struct {
	domain string
	err    error
}

// identityMsg carries the outcome of any identity generation or login
// path. Adoption itself happens in Update, on the UI thread.
type identityMsg struct {
	identity model.Identity
	origin   model.Origin
	err      error
}

// exportDoneMsg carries the outcome of a raw-source export.
type exportDoneMsg struct {
	path  string
	parts []export.Part
	err   error
}

// fetchDomain loads the default domain in the background.
func (m Model) fetchDomain() tea.Cmd {
	p := m.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		domains, err := p.ListDomains(ctx)
		if err != nil {
			return domainMsg{err: err}
		}
		return domainMsg{domain: domains[0].Domain}
	}
}

// createTemp generates a fresh random identity.
func (m Model) createTemp() tea.Cmd {
	svc := m.accounts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		id, err := svc.CreateTemp(ctx)
		return identityMsg{identity: id, origin: model.OriginTemp, err: err}
	}
}

// createCustom creates or re-enters a custom-prefix identity.
func (m Model) createCustom(prefix, secret string) tea.Cmd {
	svc := m.accounts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		id, err := svc.CreateCustom(ctx, prefix, secret, "")
		return identityMsg{identity: id, origin: model.OriginCustom, err: err}
	}
}

// adminLogin impersonates a directory record.
func (m Model) adminLogin(email, secret string) tea.Cmd {
	p := m.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		token, err := p.Login(ctx, email, secret)
		if err != nil {
			return identityMsg{origin: model.OriginAdmin, err: err}
		}
		return identityMsg{
			identity: model.Identity{Address: email, Secret: secret, Token: token},
			origin:   model.OriginAdmin,
		}
	}
}

// fetchMessage loads one message detail for the active session.
func (m Model) fetchMessage(id string) tea.Cmd {
	p := m.provider
	token := m.session.Token()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		msg, err := p.GetMessage(ctx, token, id)
		return detail.MessageLoadedMsg{Message: msg, Err: err}
	}
}

// exportSource downloads the raw source of a message, writes it next to
// the directory database, and summarizes its MIME parts.
func (m Model) exportSource(id string) tea.Cmd {
	p := m.provider
	token := m.session.Token()
	dir := filepath.Join(filepath.Dir(m.cfg.DirectoryPath), "exports")
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		raw, err := p.GetSource(ctx, token, id)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		path, err := export.Write(dir, id, raw)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path, parts: export.Parts(raw)}
	}
}

// flashForIdentityError renders the user-facing text for a failed
// generation or impersonation, mapping the provider's conflict signals
// to specific messages.
func flashForIdentityError(err error) string {
	var validationErr *account.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Reason
	case errors.Is(err, provider.ErrRateLimited):
		return "Too many requests. Please wait and try again later."
	case errors.Is(err, provider.ErrAuthFailed):
		return "Account exists but login failed. Please check your secret."
	case provider.IsInvalidAddress(err):
		return "Address is invalid or contains uppercase letters (only lowercase allowed)."
	default:
		return "Account creation failed: " + provider.Description(err)
	}
}
