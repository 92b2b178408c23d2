// internal/pipeline/controller_test.go
package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "recruiting-pipeline/internal/common/errors"
	"recruiting-pipeline/internal/common/logger"
	"recruiting-pipeline/internal/models"
	"recruiting-pipeline/internal/storage"
)

func newTestController(t *testing.T) (*Controller, *storage.MemoryApplicationStore) {
	t.Helper()
	store := storage.NewMemoryApplicationStore()
	return NewController(store, logger.NewTestLogger(t)), store
}

func addApplication(t *testing.T, store *storage.MemoryApplicationStore, id string, stage models.Stage) {
	t.Helper()
	err := store.Create(context.Background(), &models.Application{
		ID:            id,
		CandidateName: "Jordan Reyes",
		Email:         "jordan@example.com",
		Stage:         stage,
		CreatedAt:     time.Now().UTC(),
	})
	require.NoError(t, err)
}

// ==========================================
// MOVE
// ==========================================

func TestMoveApplication(t *testing.T) {
	ctx := context.Background()

	t.Run("moves between any stages", func(t *testing.T) {
		cases := []struct {
			name string
			from models.Stage
			to   models.Stage
		}{
			{"forward", models.StageApplied, models.StageInterview},
			{"backward", models.StageOffer, models.StageScreening},
			{"out of hired", models.StageHired, models.StageInterview},
			{"out of rejected", models.StageRejected, models.StageApplied},
			{"same stage", models.StageScreening, models.StageScreening},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				c, store := newTestController(t)
				addApplication(t, store, "app-1", tc.from)

				app, err := c.MoveApplication(ctx, "app-1", tc.to)
				require.NoError(t, err)
				assert.Equal(t, tc.to, app.Stage)
			})
		}
	})

	t.Run("rejects unknown stage", func(t *testing.T) {
		c, store := newTestController(t)
		addApplication(t, store, "app-1", models.StageApplied)

		_, err := c.MoveApplication(ctx, "app-1", models.Stage("ONBOARDING"))
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("unknown application", func(t *testing.T) {
		c, _ := newTestController(t)

		_, err := c.MoveApplication(ctx, "missing", models.StageScreening)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("exam stages stay distinct in storage", func(t *testing.T) {
		c, store := newTestController(t)
		addApplication(t, store, "app-1", models.StageApplied)

		app, err := c.MoveApplication(ctx, "app-1", models.StageExamPending)
		require.NoError(t, err)
		// The board shows it under SCREENING, but the persisted stage is exact.
		assert.Equal(t, models.StageExamPending, app.Stage)
		assert.Equal(t, "SCREENING", app.Stage.BoardColumn())

		stored, err := store.Get(ctx, "app-1")
		require.NoError(t, err)
		assert.Equal(t, models.StageExamPending, stored.Stage)
	})
}

// ==========================================
// DECISIONS
// ==========================================

func TestPromoteOrReject(t *testing.T) {
	ctx := context.Background()

	t.Run("reject always lands in rejected", func(t *testing.T) {
		for _, from := range models.AllStages {
			c, store := newTestController(t)
			addApplication(t, store, "app-1", from)

			app, err := c.PromoteOrReject(ctx, "app-1", models.DecisionReject)
			require.NoError(t, err)
			assert.Equalf(t, models.StageRejected, app.Stage, "from %s", from)
		}
	})

	t.Run("advance from applied goes to screening", func(t *testing.T) {
		c, store := newTestController(t)
		addApplication(t, store, "app-1", models.StageApplied)

		app, err := c.PromoteOrReject(ctx, "app-1", models.DecisionAdvance)
		require.NoError(t, err)
		assert.Equal(t, models.StageScreening, app.Stage)
	})

	t.Run("advance past screening goes to interview", func(t *testing.T) {
		for _, from := range []models.Stage{
			models.StageScreening,
			models.StageExamPending,
			models.StageExamComplete,
			models.StageOffer,
			models.StageHired,
			models.StageRejected,
		} {
			c, store := newTestController(t)
			addApplication(t, store, "app-1", from)

			app, err := c.PromoteOrReject(ctx, "app-1", models.DecisionAdvance)
			require.NoError(t, err)
			assert.Equalf(t, models.StageInterview, app.Stage, "from %s", from)
		}
	})

	t.Run("invalid decision", func(t *testing.T) {
		c, store := newTestController(t)
		addApplication(t, store, "app-1", models.StageApplied)

		_, err := c.PromoteOrReject(ctx, "app-1", models.Decision("MAYBE"))
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("unknown application", func(t *testing.T) {
		c, _ := newTestController(t)

		_, err := c.PromoteOrReject(ctx, "missing", models.DecisionAdvance)
		assert.True(t, errs.IsNotFound(err))
	})
}
