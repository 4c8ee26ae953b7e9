package provider

import (
	"time"

	"github.com/tempbox/tempbox/internal/model"
)

// Domain is a mail domain offered by the provider for new accounts.
type Domain struct {
	ID       string `json:"id"`
	Domain   string `json:"domain"`
	IsActive bool   `json:"isActive"`
}

// Account is the provider's record of a created mailbox account.
type Account struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// The provider wraps collections in a hydra envelope.
type domainCollection struct {
	Members []Domain `json:"hydra:member"`
}

type messageCollection struct {
	Members []model.MessageSummary `json:"hydra:member"`
}

// accountRequest is the wire form of account creation and login. The
// provider calls the secret "password"; the rest of this codebase says
// secret.
type accountRequest struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
}

// hydraError is the provider's error body shape.
type hydraError struct {
	Title       string `json:"hydra:title"`
	Description string `json:"hydra:description"`
	Detail      string `json:"detail"`
	Message     string `json:"message"`
}

// text returns the most specific description available.
func (e hydraError) text() string {
	for _, s := range []string{e.Description, e.Detail, e.Message, e.Title} {
		if s != "" {
			return s
		}
	}
	return ""
}
