package cache_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/2beens/gymprogress/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestSQLiteStore_ReadWrite(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	store, err := cache.NewSQLiteStore(ctx, db)
	require.NoError(t, err)

	_, err = store.Read(ctx, "missing")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, store.Write(ctx, "k", []byte(`{"data":[],"timestamp":1}`)))
	require.NoError(t, store.Write(ctx, "k", []byte(`{"data":[1],"timestamp":2}`)))

	val, err := store.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"data":[1],"timestamp":2}`, string(val))

	// schema creation is idempotent
	_, err = cache.NewSQLiteStore(ctx, db)
	require.NoError(t, err)
}
