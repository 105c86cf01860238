package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("migrations/001_accounts.sql"))
	assert.Equal(t, "010", Version("010_add_news_index.sql"))
}

func TestPendingFilesAreSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md", "010_c.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := PendingFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "001_a.sql", filepath.Base(files[0]))
	assert.Equal(t, "002_b.sql", filepath.Base(files[1]))
	assert.Equal(t, "010_c.sql", filepath.Base(files[2]))
}

func TestShippedMigrationsHaveUniqueVersions(t *testing.T) {
	files, err := PendingFiles(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	seen := map[string]bool{}
	for _, f := range files {
		v := Version(f)
		assert.False(t, seen[v], "duplicate migration version %s", v)
		seen[v] = true
	}
}
