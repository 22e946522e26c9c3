package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, ttl time.Duration) *BoltDB {
	t.Helper()
	db, err := NewBolt(filepath.Join(t.TempDir(), "meta.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMetaCacheRoundtrip(t *testing.T) {
	db := openTestDB(t, time.Hour)

	entry := &MetaCache{
		ID:      "meta:movie:tt0133093",
		Type:    "movie",
		Title:   "The Matrix",
		Year:    1999,
		Genres:  []string{"Action", "Sci-Fi"},
		Country: "United States",
	}
	require.NoError(t, db.StoreMetaCache(entry))
	assert.False(t, entry.CreatedAt.IsZero())

	got, err := db.GetCachedMeta(entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "The Matrix", got.Title)
	assert.Equal(t, 1999, got.Year)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, got.Genres)
}

func TestMetaCacheMissing(t *testing.T) {
	db := openTestDB(t, time.Hour)

	got, err := db.GetCachedMeta("meta:movie:tt9999999")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMetaCacheExpired(t *testing.T) {
	db := openTestDB(t, time.Minute)

	entry := &MetaCache{
		ID:        "meta:movie:tt0133093",
		Title:     "The Matrix",
		CreatedAt: time.Now().Add(-2 * time.Minute),
	}
	require.NoError(t, db.StoreMetaCache(entry))

	got, err := db.GetCachedMeta(entry.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
