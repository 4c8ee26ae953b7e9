// Package session holds the single active mailbox identity and mirrors it
// to the credential store. There is no multi-inbox view: adopting a new
// identity always fully replaces the previous one.
package session

import (
	"fmt"

	"github.com/tempbox/tempbox/internal/credstore"
	"github.com/tempbox/tempbox/internal/model"
)

// Controller owns the active identity. All mutation happens on the UI
// thread (Bubble Tea update loop), so no locking is needed.
type Controller struct {
	creds  *credstore.Store
	active model.Identity
	origin model.Origin
}

// New creates a controller backed by the given credential store.
func New(creds *credstore.Store) *Controller {
	return &Controller{creds: creds}
}

// Active returns the current identity, which may be zero.
func (c *Controller) Active() model.Identity {
	return c.active
}

// Origin returns the generation path that produced the active identity.
// Only meaningful while an identity is active.
func (c *Controller) Origin() model.Origin {
	return c.origin
}

// Token returns the active session token, or "" when no session is active.
func (c *Controller) Token() string {
	return c.active.Token
}

// Adopt makes the identity active and persists it to the current slot and
// to the slot matching its origin. The caller is responsible for restarting
// the poller and dropping any message list or open detail view, since a
// switched identity invalidates prior inbox contents.
func (c *Controller) Adopt(id model.Identity, origin model.Origin) error {
	c.active = id
	c.origin = origin

	if err := c.creds.Save(credstore.SlotCurrent, id); err != nil {
		return fmt.Errorf("persisting current identity: %w", err)
	}
	if err := c.creds.Save(credstore.ForOrigin(origin), id); err != nil {
		return fmt.Errorf("persisting %s identity: %w", origin, err)
	}
	return nil
}

// Restore loads the current slot on startup. A complete triple is adopted
// in memory without a network call; anything less leaves the controller
// empty. The slot origin is unknown after a restart, so restored sessions
// report OriginTemp-agnostic current state via an empty origin.
func (c *Controller) Restore() bool {
	id, ok := c.creds.Load(credstore.SlotCurrent)
	if !ok || !id.Complete() {
		return false
	}
	c.active = id
	c.origin = ""
	return true
}

// Logout clears every slot and the in-memory identity. Irreversible.
func (c *Controller) Logout() error {
	c.active = model.Identity{}
	c.origin = ""
	if err := c.creds.Wipe(); err != nil {
		return fmt.Errorf("wiping credential slots: %w", err)
	}
	return nil
}

// ExpireCurrent handles a forced expiry (a poll rejected the token): the
// in-memory identity and the current slot are cleared, but historical
// temp/custom/admin slots survive for later reuse.
func (c *Controller) ExpireCurrent() error {
	c.active = model.Identity{}
	c.origin = ""
	if err := c.creds.Clear(credstore.SlotCurrent); err != nil {
		return fmt.Errorf("clearing current slot: %w", err)
	}
	return nil
}
