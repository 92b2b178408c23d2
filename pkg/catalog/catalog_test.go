// pkg/catalog/catalog_test.go
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `{
	"version": "1",
	"lastUpdated": "2026-08-01",
	"templates": [
		{
			"id": "tpl-hr",
			"title": "HR Screening",
			"version": 2,
			"questions": [
				{"id": "q1", "text": "Why this company", "category": "motivation"},
				{"id": "q2", "text": "Salary expectations", "category": "logistics", "rubric": ["range named", "flexible"]}
			]
		}
	]
}`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))
	return path
}

func TestFileTemplateStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileTemplateStore(writeCatalog(t))
	require.NoError(t, err)

	t.Run("list", func(t *testing.T) {
		templates, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, templates, 1)
		assert.Equal(t, "HR Screening", templates[0].Title)
		assert.Len(t, templates[0].Questions, 2)
	})

	t.Run("get", func(t *testing.T) {
		tpl, err := store.Get(ctx, "tpl-hr")
		require.NoError(t, err)
		require.NotNil(t, tpl)
		assert.Equal(t, 2, tpl.Version)
		assert.Equal(t, []string{"range named", "flexible"}, tpl.Questions[1].Rubric)
	})

	t.Run("get missing returns nil", func(t *testing.T) {
		tpl, err := store.Get(ctx, "tpl-none")
		require.NoError(t, err)
		assert.Nil(t, tpl)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileTemplateStore("/nonexistent/templates.json")
		assert.Error(t, err)
	})
}
