package directory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempbox/tempbox/internal/model"
	"github.com/tempbox/tempbox/tests/testutil"
)

func TestAppendAndList(t *testing.T) {
	s := testutil.NewTestDirectory(t)
	ctx := context.Background()

	older := model.AccountRecord{
		ID:        "rec-1",
		Email:     "first@example.com",
		Secret:    "s1",
		CreatedAt: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := model.AccountRecord{
		ID:        "rec-2",
		Email:     "second@example.com",
		Secret:    "s2",
		CreatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, s.Append(ctx, older))
	require.NoError(t, s.Append(ctx, newer))

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Most recent first.
	assert.Equal(t, "second@example.com", records[0].Email)
	assert.Equal(t, "first@example.com", records[1].Email)
	assert.Equal(t, "s2", records[0].Secret)
}

func TestAppendFillsDefaults(t *testing.T) {
	s := testutil.NewTestDirectory(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, model.AccountRecord{
		Email:  "bare@example.com",
		Secret: "s",
	}))

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.NotEmpty(t, records[0].ID)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestListEmpty(t *testing.T) {
	s := testutil.NewTestDirectory(t)

	records, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDuplicateIDRejected(t *testing.T) {
	s := testutil.NewTestDirectory(t)
	ctx := context.Background()

	rec := model.AccountRecord{ID: "same", Email: "a@x.com", Secret: "s"}
	require.NoError(t, s.Append(ctx, rec))
	assert.Error(t, s.Append(ctx, rec))
}
