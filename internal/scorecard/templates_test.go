// internal/scorecard/templates_test.go
package scorecard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "recruiting-pipeline/internal/common/errors"
	"recruiting-pipeline/internal/common/logger"
	"recruiting-pipeline/internal/models"
	"recruiting-pipeline/internal/storage"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestTemplateClient(t *testing.T) {
	ctx := context.Background()

	t.Run("get populates the cache", func(t *testing.T) {
		mr, rdb := newTestRedis(t)
		store := storage.NewMemoryTemplateStore(newTestTemplate("tpl-1", "q1", "q2"))
		client, err := NewTemplateClient(store, rdb, time.Minute, logger.NewTestLogger(t))
		require.NoError(t, err)

		tpl, err := client.GetTemplate(ctx, "tpl-1")
		require.NoError(t, err)
		require.NotNil(t, tpl)
		assert.Len(t, tpl.Questions, 2)
		assert.True(t, mr.Exists("template:tpl-1"))
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		store := storage.NewMemoryTemplateStore(newTestTemplate("tpl-1", "q1"))
		client, err := NewTemplateClient(store, rdb, time.Minute, logger.NewTestLogger(t))
		require.NoError(t, err)

		first, err := client.GetTemplate(ctx, "tpl-1")
		require.NoError(t, err)

		// Serve from cache even if the store has since lost the row.
		empty, err := NewTemplateClient(storage.NewMemoryTemplateStore(), rdb, time.Minute, logger.NewTestLogger(t))
		require.NoError(t, err)
		second, err := empty.GetTemplate(ctx, "tpl-1")
		require.NoError(t, err)
		require.NotNil(t, second)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("missing template returns nil", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		client, err := NewTemplateClient(storage.NewMemoryTemplateStore(), rdb, time.Minute, logger.NewTestLogger(t))
		require.NoError(t, err)

		tpl, err := client.GetTemplate(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, tpl)
	})

	t.Run("malformed template fails validation", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		bad := &models.ScorecardTemplate{ID: "tpl-bad", Title: "", Version: 0}
		client, err := NewTemplateClient(storage.NewMemoryTemplateStore(bad), rdb, time.Minute, logger.NewTestLogger(t))
		require.NoError(t, err)

		_, err = client.GetTemplate(ctx, "tpl-bad")
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("list validates every template", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		store := storage.NewMemoryTemplateStore(
			newTestTemplate("tpl-1", "q1"),
			newTestTemplate("tpl-2", "q1", "q2"),
		)
		client, err := NewTemplateClient(store, rdb, time.Minute, logger.NewTestLogger(t))
		require.NoError(t, err)

		templates, err := client.ListTemplates(ctx)
		require.NoError(t, err)
		assert.Len(t, templates, 2)
	})

	t.Run("works without redis", func(t *testing.T) {
		store := storage.NewMemoryTemplateStore(newTestTemplate("tpl-1", "q1"))
		client, err := NewTemplateClient(store, nil, time.Minute, logger.NewTestLogger(t))
		require.NoError(t, err)

		tpl, err := client.GetTemplate(ctx, "tpl-1")
		require.NoError(t, err)
		require.NotNil(t, tpl)
	})
}
