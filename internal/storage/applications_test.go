// internal/storage/applications_test.go
package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "recruiting-pipeline/internal/common/errors"
	"recruiting-pipeline/internal/models"
)

func applicationRows(apps ...*models.Application) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "candidate_name", "email", "phone", "job_id", "stage",
		"match_score", "tags", "notes", "resume_ref", "created_at",
	})
	for _, a := range apps {
		rows.AddRow(a.ID, a.CandidateName, a.Email, a.Phone, a.JobID, string(a.Stage),
			a.MatchScore, pq.StringArray(a.Tags), a.Notes, a.ResumeRef, a.CreatedAt)
	}
	return rows
}

func TestPostgresApplicationStore(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	app := &models.Application{
		ID:            "app-1",
		CandidateName: "Priya Nair",
		Email:         "priya@example.com",
		JobID:         "job-1",
		Stage:         models.StageApplied,
		MatchScore:    0.87,
		Tags:          []string{"golang", "remote"},
		CreatedAt:     now,
	}

	t.Run("create", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("INSERT INTO applications").
			WithArgs(app.ID, app.CandidateName, app.Email, app.Phone, app.JobID,
				string(app.Stage), app.MatchScore, pq.Array(app.Tags), app.Notes,
				app.ResumeRef, app.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		store := NewPostgresApplicationStore(db)
		require.NoError(t, store.Create(ctx, app))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT (.+) FROM applications WHERE id").
			WithArgs("app-1").
			WillReturnRows(applicationRows(app))

		store := NewPostgresApplicationStore(db)
		got, err := store.Get(ctx, "app-1")
		require.NoError(t, err)
		assert.Equal(t, app.CandidateName, got.CandidateName)
		assert.Equal(t, models.StageApplied, got.Stage)
		assert.Equal(t, []string{"golang", "remote"}, got.Tags)
	})

	t.Run("get missing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT (.+) FROM applications WHERE id").
			WithArgs("missing").
			WillReturnRows(applicationRows())

		store := NewPostgresApplicationStore(db)
		_, err = store.Get(ctx, "missing")
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("list preserves arrival order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		second := *app
		second.ID = "app-2"
		second.CreatedAt = now.Add(time.Minute)

		mock.ExpectQuery("SELECT (.+) FROM applications ORDER BY created_at ASC").
			WillReturnRows(applicationRows(app, &second))

		store := NewPostgresApplicationStore(db)
		apps, err := store.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, apps, 2)
		assert.Equal(t, "app-1", apps[0].ID)
		assert.Equal(t, "app-2", apps[1].ID)
	})

	t.Run("list filters by job", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT (.+) FROM applications WHERE job_id").
			WithArgs("job-1").
			WillReturnRows(applicationRows(app))

		store := NewPostgresApplicationStore(db)
		apps, err := store.List(ctx, "job-1")
		require.NoError(t, err)
		assert.Len(t, apps, 1)
	})

	t.Run("update stage", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		moved := *app
		moved.Stage = models.StageInterview

		mock.ExpectExec("UPDATE applications SET stage").
			WithArgs("app-1", string(models.StageInterview)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM applications WHERE id").
			WithArgs("app-1").
			WillReturnRows(applicationRows(&moved))

		store := NewPostgresApplicationStore(db)
		got, err := store.UpdateStage(ctx, "app-1", models.StageInterview)
		require.NoError(t, err)
		assert.Equal(t, models.StageInterview, got.Stage)
	})

	t.Run("update stage on missing row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE applications SET stage").
			WithArgs("missing", string(models.StageInterview)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		store := NewPostgresApplicationStore(db)
		_, err = store.UpdateStage(ctx, "missing", models.StageInterview)
		assert.True(t, errs.IsNotFound(err))
	})
}
