package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notekeeper/internal/store"
	"github.com/nhle/notekeeper/tests/testutil"
)

func TestSQLiteMedium_GetSet(t *testing.T) {
	m := testutil.NewTestMedium(t)
	ctx := context.Background()

	_, ok, err := m.Get(ctx, "notes")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "notes", `[{"id":"1"}]`))
	require.NoError(t, m.Set(ctx, "notes", `[]`))

	v, ok, err := m.Get(ctx, "notes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)

	require.NoError(t, m.Set(ctx, "reminders", `[]`))
	keys, err := m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes", "reminders"}, keys)
}

func TestSQLiteMedium_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")
	ctx := context.Background()

	m, err := store.NewSQLiteMedium(path)
	require.NoError(t, err)
	require.NoError(t, m.Set(ctx, "notes", `[{"id":"keep"}]`))
	require.NoError(t, m.Close())

	// Migrations must not run twice on an existing database.
	m, err = store.NewSQLiteMedium(path)
	require.NoError(t, err)
	defer m.Close()

	v, ok, err := m.Get(ctx, "notes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"keep"}]`, v)
}
