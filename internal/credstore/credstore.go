// Package credstore persists mailbox identities in the system keyring
// under fixed logical slots. All slot semantics (which keys move together,
// what counts as an empty slot) live here; callers never touch raw keys.
package credstore

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/tempbox/tempbox/internal/model"
)

const serviceName = "tempbox"

// Slot names one persistent identity copy. current always mirrors the
// identity presently active in memory; the others are historical,
// overwritten on each new generation of their kind.
type Slot string

const (
	SlotTemp    Slot = "temp"
	SlotCustom  Slot = "custom"
	SlotAdmin   Slot = "admin"
	SlotCurrent Slot = "current"
)

// Slots lists every recognized slot.
var Slots = []Slot{SlotTemp, SlotCustom, SlotAdmin, SlotCurrent}

// ForOrigin maps a generation origin to its historical slot.
func ForOrigin(origin model.Origin) Slot {
	switch origin {
	case model.OriginTemp:
		return SlotTemp
	case model.OriginCustom:
		return SlotCustom
	case model.OriginAdmin:
		return SlotAdmin
	}
	return SlotCurrent
}

// Store is a slot-addressed credential store over a keyring backend.
type Store struct {
	ring keyring.Keyring
}

// Open returns a Store backed by the system keyring.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/tempbox/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("tempbox-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewWithKeyring(ring), nil
}

// NewWithKeyring wraps an existing keyring, mainly for tests using
// keyring.NewArrayKeyring.
func NewWithKeyring(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

func addressKey(slot Slot) string { return string(slot) + ".address" }
func secretKey(slot Slot) string  { return string(slot) + ".secret" }
func tokenKey(slot Slot) string   { return string(slot) + ".token" }

// Save writes the identity triple into the slot, replacing any previous
// occupant.
func (s *Store) Save(slot Slot, id model.Identity) error {
	entries := map[string]string{
		addressKey(slot): id.Address,
		secretKey(slot):  id.Secret,
		tokenKey(slot):   id.Token,
	}
	for key, value := range entries {
		err := s.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
		if err != nil {
			return fmt.Errorf("saving credential %q: %w", key, err)
		}
	}
	return nil
}

// Load reads the slot. ok is false when any one of the triple is absent;
// a partial slot is treated as empty.
func (s *Store) Load(slot Slot) (model.Identity, bool) {
	address, err := s.get(addressKey(slot))
	if err != nil {
		return model.Identity{}, false
	}
	secret, err := s.get(secretKey(slot))
	if err != nil {
		return model.Identity{}, false
	}
	token, err := s.get(tokenKey(slot))
	if err != nil {
		return model.Identity{}, false
	}
	return model.Identity{Address: address, Secret: secret, Token: token}, true
}

// Clear removes the slot's triple. Keys that are already absent are not
// an error.
func (s *Store) Clear(slot Slot) error {
	for _, key := range []string{addressKey(slot), secretKey(slot), tokenKey(slot)} {
		err := s.ring.Remove(key)
		if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("clearing credential %q: %w", key, err)
		}
	}
	return nil
}

// Wipe clears every slot. Used only by an explicit full logout.
func (s *Store) Wipe() error {
	for _, slot := range Slots {
		if err := s.Clear(slot); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		return "", err
	}
	if len(item.Data) == 0 {
		return "", keyring.ErrKeyNotFound
	}
	return string(item.Data), nil
}
