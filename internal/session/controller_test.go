package session

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempbox/tempbox/internal/credstore"
	"github.com/tempbox/tempbox/internal/model"
)

func newTestController() (*Controller, *credstore.Store) {
	creds := credstore.NewWithKeyring(keyring.NewArrayKeyring(nil))
	return New(creds), creds
}

func TestAdoptPersistsCurrentAndOriginSlots(t *testing.T) {
	c, creds := newTestController()
	id := model.Identity{Address: "user00042@example.com", Secret: "s", Token: "tok"}

	require.NoError(t, c.Adopt(id, model.OriginTemp))

	assert.Equal(t, id, c.Active())
	assert.Equal(t, model.OriginTemp, c.Origin())

	current, ok := creds.Load(credstore.SlotCurrent)
	require.True(t, ok)
	assert.Equal(t, id, current)

	temp, ok := creds.Load(credstore.SlotTemp)
	require.True(t, ok)
	assert.Equal(t, id, temp)
}

func TestAdoptReplacesPreviousIdentity(t *testing.T) {
	c, creds := newTestController()
	first := model.Identity{Address: "first@example.com", Secret: "s1", Token: "t1"}
	second := model.Identity{Address: "second@example.com", Secret: "s2", Token: "t2"}

	require.NoError(t, c.Adopt(first, model.OriginTemp))
	require.NoError(t, c.Adopt(second, model.OriginCustom))

	assert.Equal(t, second, c.Active())

	current, ok := creds.Load(credstore.SlotCurrent)
	require.True(t, ok)
	assert.Equal(t, second, current)

	// The historical temp slot still holds the first identity.
	temp, ok := creds.Load(credstore.SlotTemp)
	require.True(t, ok)
	assert.Equal(t, first, temp)
}

func TestRestore(t *testing.T) {
	c, creds := newTestController()
	id := model.Identity{Address: "a@x.com", Secret: "s", Token: "t"}
	require.NoError(t, creds.Save(credstore.SlotCurrent, id))

	require.True(t, c.Restore())
	assert.Equal(t, id, c.Active())
	assert.Equal(t, "t", c.Token())
}

func TestRestoreEmptyStore(t *testing.T) {
	c, _ := newTestController()

	assert.False(t, c.Restore())
	assert.True(t, c.Active().IsZero())
	assert.Equal(t, "", c.Token())
}

func TestRestoreIncompleteSlot(t *testing.T) {
	c, creds := newTestController()
	require.NoError(t, creds.Save(credstore.SlotCurrent,
		model.Identity{Address: "a@x.com", Secret: "s"}))

	// A slot without a token never restores a session.
	assert.False(t, c.Restore())
}

func TestLogoutWipesEverySlot(t *testing.T) {
	c, creds := newTestController()
	id := model.Identity{Address: "a@x.com", Secret: "s", Token: "t"}
	require.NoError(t, c.Adopt(id, model.OriginCustom))

	require.NoError(t, c.Logout())

	assert.True(t, c.Active().IsZero())
	for _, slot := range credstore.Slots {
		_, ok := creds.Load(slot)
		assert.False(t, ok, "slot %s should be empty after logout", slot)
	}
}

func TestExpireCurrentKeepsHistoricalSlots(t *testing.T) {
	c, creds := newTestController()
	id := model.Identity{Address: "a@x.com", Secret: "s", Token: "t"}
	require.NoError(t, c.Adopt(id, model.OriginCustom))

	require.NoError(t, c.ExpireCurrent())

	assert.True(t, c.Active().IsZero())

	_, ok := creds.Load(credstore.SlotCurrent)
	assert.False(t, ok)

	// The custom slot survives forced expiry for later reuse.
	custom, ok := creds.Load(credstore.SlotCustom)
	require.True(t, ok)
	assert.Equal(t, id, custom)
}
