package entity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasbot/internal/models"
)

func writeSynonymsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSynonyms(t *testing.T) {
	t.Run("empty path returns the built-in table", func(t *testing.T) {
		table, err := LoadSynonyms("")
		require.NoError(t, err)
		assert.Equal(t, DefaultSynonyms, table)
	})

	t.Run("valid file preserves declared order", func(t *testing.T) {
		path := writeSynonymsFile(t, `
entities:
  - entity: quantity
    headers: [banyaknya, qty]
  - entity: item_name
    headers: [thing]
`)
		table, err := LoadSynonyms(path)
		require.NoError(t, err)
		require.Len(t, table, 2)
		assert.Equal(t, models.EntityQuantity, table[0].Entity)
		assert.Equal(t, []string{"banyaknya", "qty"}, table[0].Headers)
		assert.Equal(t, models.EntityItemName, table[1].Entity)
	})

	t.Run("missing file returns an error", func(t *testing.T) {
		_, err := LoadSynonyms(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("file with no entities returns an error", func(t *testing.T) {
		path := writeSynonymsFile(t, "entities: []\n")
		_, err := LoadSynonyms(path)
		assert.Error(t, err)
	})

	t.Run("entry without headers returns an error", func(t *testing.T) {
		path := writeSynonymsFile(t, `
entities:
  - entity: quantity
    headers: []
`)
		_, err := LoadSynonyms(path)
		assert.Error(t, err)
	})
}
