package credstore

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempbox/tempbox/internal/model"
)

func newTestStore() *Store {
	return NewWithKeyring(keyring.NewArrayKeyring(nil))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore()
	id := model.Identity{Address: "user12345@example.com", Secret: "s3cret", Token: "tok"}

	require.NoError(t, s.Save(SlotTemp, id))

	got, ok := s.Load(SlotTemp)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestLoadMissingSlot(t *testing.T) {
	s := newTestStore()

	_, ok := s.Load(SlotCustom)
	assert.False(t, ok)
}

func TestPartialSlotIsEmpty(t *testing.T) {
	s := newTestStore()
	id := model.Identity{Address: "user@example.com", Secret: "s", Token: "t"}
	require.NoError(t, s.Save(SlotCurrent, id))

	// Knock out one key of the triple; the slot must then read as empty.
	require.NoError(t, s.ring.Remove(tokenKey(SlotCurrent)))

	_, ok := s.Load(SlotCurrent)
	assert.False(t, ok)
}

func TestEmptyValueIsAbsent(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Save(SlotAdmin, model.Identity{Address: "a@x.com", Secret: "s"}))

	// Token was saved as "", so the slot is incomplete.
	_, ok := s.Load(SlotAdmin)
	assert.False(t, ok)
}

func TestClearIsIdempotent(t *testing.T) {
	s := newTestStore()
	id := model.Identity{Address: "a@x.com", Secret: "s", Token: "t"}
	require.NoError(t, s.Save(SlotTemp, id))

	require.NoError(t, s.Clear(SlotTemp))
	_, ok := s.Load(SlotTemp)
	assert.False(t, ok)

	// Clearing an already-empty slot is not an error.
	require.NoError(t, s.Clear(SlotTemp))
}

func TestClearLeavesOtherSlots(t *testing.T) {
	s := newTestStore()
	tempID := model.Identity{Address: "t@x.com", Secret: "s1", Token: "t1"}
	customID := model.Identity{Address: "c@x.com", Secret: "s2", Token: "t2"}
	require.NoError(t, s.Save(SlotTemp, tempID))
	require.NoError(t, s.Save(SlotCustom, customID))

	require.NoError(t, s.Clear(SlotTemp))

	got, ok := s.Load(SlotCustom)
	require.True(t, ok)
	assert.Equal(t, customID, got)
}

func TestWipe(t *testing.T) {
	s := newTestStore()
	id := model.Identity{Address: "a@x.com", Secret: "s", Token: "t"}
	for _, slot := range Slots {
		require.NoError(t, s.Save(slot, id))
	}

	require.NoError(t, s.Wipe())

	for _, slot := range Slots {
		_, ok := s.Load(slot)
		assert.False(t, ok, "slot %s should be empty after wipe", slot)
	}
}

func TestForOrigin(t *testing.T) {
	assert.Equal(t, SlotTemp, ForOrigin(model.OriginTemp))
	assert.Equal(t, SlotCustom, ForOrigin(model.OriginCustom))
	assert.Equal(t, SlotAdmin, ForOrigin(model.OriginAdmin))
}
