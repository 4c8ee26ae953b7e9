// Package account orchestrates identity generation against the provider:
// random temp accounts and user-chosen custom prefixes, including the
// create-then-login sequencing both paths share.
package account

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tempbox/tempbox/internal/model"
	"github.com/tempbox/tempbox/internal/provider"
)

// Provider is the slice of the mailbox client the generators need.
type Provider interface {
	ListDomains(ctx context.Context) ([]provider.Domain, error)
	CreateAccount(ctx context.Context, address, secret string) (*provider.Account, error)
	Login(ctx context.Context, address, secret string) (string, error)
}

// Directory receives a record of every custom account ever created.
type Directory interface {
	Append(ctx context.Context, rec model.AccountRecord) error
}

// Service generates mailbox identities.
type Service struct {
	provider  Provider
	directory Directory
}

// New creates an account service. directory may be nil when record keeping
// is disabled.
func New(p Provider, d Directory) *Service {
	return &Service{provider: p, directory: d}
}

const secretAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// randomLocalPart produces "user" plus five random digits.
func randomLocalPart() string {
	return fmt.Sprintf("user%05d", rand.IntN(100000))
}

// randomSecret produces a ten-character lowercase alphanumeric secret.
func randomSecret() string {
	b := make([]byte, 10)
	for i := range b {
		b[i] = secretAlphabet[rand.IntN(len(secretAlphabet))]
	}
	return string(b)
}

// defaultDomain returns the provider's first listed domain.
func (s *Service) defaultDomain(ctx context.Context) (string, error) {
	domains, err := s.provider.ListDomains(ctx)
	if err != nil {
		return "", err
	}
	return domains[0].Domain, nil
}

// CreateTemp generates a fresh random identity: random local part and
// secret, first available domain, account creation, then login. A
// creation conflict (the random name is taken) falls through to login
// like the custom path.
func (s *Service) CreateTemp(ctx context.Context) (model.Identity, error) {
	domain, err := s.defaultDomain(ctx)
	if err != nil {
		return model.Identity{}, err
	}

	address := randomLocalPart() + "@" + domain
	secret := randomSecret()

	if _, err := s.provider.CreateAccount(ctx, address, secret); err != nil {
		if !errors.Is(err, provider.ErrAlreadyExists) {
			return model.Identity{}, err
		}
	}

	token, err := s.provider.Login(ctx, address, secret)
	if err != nil {
		return model.Identity{}, err
	}

	return model.Identity{Address: address, Secret: secret, Token: token}, nil
}

// CreateCustom creates (or re-enters) an account for a user-chosen prefix.
// A conflict from the provider is treated as "this is my returning
// mailbox" and falls through to login with the same credentials; a login
// failure then surfaces as-is, the secret is never guessed. Rate limiting
// surfaces immediately with no retry. On success the identity is appended
// to the account directory.
func (s *Service) CreateCustom(
	ctx context.Context,
	prefix string,
	secret string,
	domain string,
) (model.Identity, error) {
	prefix = SanitizeLocalPart(prefix)
	if err := ValidateLocalPart(prefix); err != nil {
		return model.Identity{}, err
	}
	if secret == "" {
		return model.Identity{}, &ValidationError{Reason: "secret must not be empty"}
	}

	if domain == "" {
		var err error
		domain, err = s.defaultDomain(ctx)
		if err != nil {
			return model.Identity{}, err
		}
	}

	address := prefix + "@" + domain

	if _, err := s.provider.CreateAccount(ctx, address, secret); err != nil {
		switch {
		case errors.Is(err, provider.ErrAlreadyExists):
			// Fall through to login below.
		case errors.Is(err, provider.ErrRateLimited):
			return model.Identity{}, err
		default:
			return model.Identity{}, err
		}
	}

	token, err := s.provider.Login(ctx, address, secret)
	if err != nil {
		return model.Identity{}, err
	}

	id := model.Identity{Address: address, Secret: secret, Token: token}

	if s.directory != nil {
		rec := model.AccountRecord{
			Email:     address,
			Secret:    secret,
			CreatedAt: time.Now().UTC(),
		}
		// Best effort: the session is usable even when record keeping
		// fails, so a directory error never discards the identity.
		_ = s.directory.Append(ctx, rec)
	}

	return id, nil
}
