package store

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrations(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"m/002_overrides.sql": {Data: []byte("ALTER TABLE items ADD COLUMN x INT;")},
		"m/001_initial.sql":   {Data: []byte("CREATE TABLE items ();")},
		"m/README.md":         {Data: []byte("notes")},
		"m/003_index.sql":     {Data: []byte("CREATE INDEX i ON items (x);")},
	}

	tests := []struct {
		name    string
		applied map[string]bool
		want    []string
	}{
		{name: "fresh database", applied: nil, want: []string{"001_initial.sql", "002_overrides.sql", "003_index.sql"}},
		{name: "partially applied", applied: map[string]bool{"001_initial.sql": true}, want: []string{"002_overrides.sql", "003_index.sql"}},
		{
			name:    "up to date",
			applied: map[string]bool{"001_initial.sql": true, "002_overrides.sql": true, "003_index.sql": true},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := pendingMigrations(fsys, "m", tt.applied)
			require.NoError(t, err)

			var versions []string
			for _, m := range got {
				versions = append(versions, m.version)
			}
			assert.Equal(t, tt.want, versions)
		})
	}
}

func TestPendingMigrations_CarriesSQL(t *testing.T) {
	t.Parallel()

	got, err := pendingMigrations(fstest.MapFS{"m/001_a.sql": {Data: []byte("SELECT 1;")}}, "m", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "SELECT 1;", got[0].sql)
}

func TestPendingMigrations_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := pendingMigrations(fstest.MapFS{}, "missing", nil)
	assert.Error(t, err)
}

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	got, err := pendingMigrations(migrationsFS, "migrations", nil)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "001_initial.sql", got[0].version)
	assert.Contains(t, got[0].sql, "CREATE TABLE")
}
