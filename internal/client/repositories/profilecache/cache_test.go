package profilecache

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newCache(t *testing.T) (*Cache, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return New(db, nil), db
}

func TestCache_SaveLoad(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	assert.Nil(t, c.Load(ctx))
	assert.Empty(t, c.FacultyID(ctx))

	f := &models.Faculty{FacultyID: "f-1", FirstName: "Jane", LastName: "Doe", Emails: []string{"j@acme.edu"}}
	require.NoError(t, c.Save(ctx, f))

	assert.Empty(t, cmp.Diff(f, c.Load(ctx)))
	assert.Equal(t, "f-1", c.FacultyID(ctx))
}

func TestCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	require.NoError(t, c.Save(ctx, &models.Faculty{FacultyID: "f-1"}))
	require.NoError(t, c.Clear(ctx))

	assert.Nil(t, c.Load(ctx))
	assert.Empty(t, c.FacultyID(ctx))
}

func TestCache_MalformedSnapshotIsNil(t *testing.T) {
	ctx := context.Background()
	c, db := newCache(t)

	_, err := db.Exec(`INSERT INTO metadata(key, value) VALUES ('faculty', '{broken')`)
	require.NoError(t, err)

	assert.Nil(t, c.Load(ctx))
}

func TestCache_Merge(t *testing.T) {
	ctx := context.Background()

	t.Run("no snapshot, nothing written", func(t *testing.T) {
		c, _ := newCache(t)
		require.NoError(t, c.Merge(ctx, &models.Faculty{FacultyID: "f-1", Biography: "new"}))
		assert.Nil(t, c.Load(ctx))
	})

	t.Run("snapshot updated", func(t *testing.T) {
		c, _ := newCache(t)
		require.NoError(t, c.Save(ctx, &models.Faculty{FacultyID: "f-1", Biography: "old"}))

		require.NoError(t, c.Merge(ctx, &models.Faculty{Biography: "new"}))

		got := c.Load(ctx)
		require.NotNil(t, got)
		assert.Equal(t, "new", got.Biography)
		assert.Equal(t, "f-1", got.FacultyID)
		assert.Equal(t, "f-1", c.FacultyID(ctx))
	})
}

func TestCache_LeavesOtherKeysAlone(t *testing.T) {
	ctx := context.Background()
	c, db := newCache(t)

	_, err := db.Exec(`INSERT INTO metadata(key, value) VALUES ('signup.session', '{}')`)
	require.NoError(t, err)

	require.NoError(t, c.Save(ctx, &models.Faculty{FacultyID: "f-1"}))
	require.NoError(t, c.Clear(ctx))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM metadata WHERE key = 'signup.session'`).Scan(&n))
	assert.Equal(t, 1, n)
}
