package store

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insider/internal/api"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_SaveLoadRoundTrip(t *testing.T) {
	c := newTestCache(t)

	in := []api.School{
		{ID: 2, SchoolName: "Western State", Conference: "Mountain West", MBB: true,
			AvailableSports: []string{"Men's Basketball"}},
		{ID: 1, SchoolName: "Eastern Tech", Conference: "ACC", FB: true, Location: "Eastville"},
	}
	require.NoError(t, c.SaveSchools(in))

	out, err := c.LoadSchools()
	require.NoError(t, err)

	// Sorted by name regardless of insert order, records intact.
	want := []api.School{in[1], in[0]}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("cached schools mismatch (-want +got):\n%s", diff)
	}
}

func TestCache_SaveReplacesPreviousSync(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.SaveSchools([]api.School{
		{ID: 1, SchoolName: "Old School"},
		{ID: 2, SchoolName: "Gone School"},
	}))
	require.NoError(t, c.SaveSchools([]api.School{
		{ID: 1, SchoolName: "Old School Renamed"},
	}))

	out, err := c.LoadSchools()
	require.NoError(t, err)
	require.Len(t, out, 1, "a sync fully replaces the cache")
	assert.Equal(t, "Old School Renamed", out[0].SchoolName)
}

func TestCache_EmptyIsNotAnError(t *testing.T) {
	c := newTestCache(t)

	out, err := c.LoadSchools()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCache_LastSyncAndStaleness(t *testing.T) {
	c := newTestCache(t)

	_, ok := c.LastSync()
	assert.False(t, ok, "never-synced cache has no sync time")
	assert.True(t, c.Stale(time.Hour), "never-synced cache is stale")

	require.NoError(t, c.SaveSchools([]api.School{{ID: 1, SchoolName: "A"}}))

	last, ok := c.LastSync()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), last, 10*time.Second)
	assert.False(t, c.Stale(time.Hour))
	assert.True(t, c.Stale(0))
}

func TestCache_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, c.SaveSchools([]api.School{{ID: 7, SchoolName: "Persistent U"}}))
	require.NoError(t, c.Close())

	c2, err := Open(dir)
	require.NoError(t, err)
	defer c2.Close()

	out, err := c2.LoadSchools()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 7, out[0].ID)

	_, ok := c2.LastSync()
	assert.True(t, ok, "sync time survives reopen")
}

func TestMigrate_UpgradesV1Database(t *testing.T) {
	dir := t.TempDir()

	// Build a v1 database by hand: schools table without the payload column.
	c, err := Open(dir)
	require.NoError(t, err)
	_, err = c.db.Exec(`ALTER TABLE schools DROP COLUMN payload`)
	require.NoError(t, err)
	_, err = c.db.Exec(`UPDATE meta SET value = '1' WHERE key = 'schema_version'`)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c2, err := Open(dir)
	require.NoError(t, err)
	defer c2.Close()

	version, err := schemaVersion(c2.db)
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
	assert.True(t, columnExists(c2.db, "schools", "payload"))

	require.NoError(t, c2.SaveSchools([]api.School{{ID: 1, SchoolName: "A"}}))
}
