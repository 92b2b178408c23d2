// internal/storage/applications.go
package storage

import (
	"context"
	"database/sql"

	errs "recruiting-pipeline/internal/common/errors"
	"recruiting-pipeline/internal/models"

	"github.com/lib/pq"
)

// PostgresApplicationStore implements ApplicationStore on PostgreSQL.
type PostgresApplicationStore struct {
	db *sql.DB
}

func NewPostgresApplicationStore(db *sql.DB) *PostgresApplicationStore {
	return &PostgresApplicationStore{db: db}
}

const applicationColumns = `id, candidate_name, email, phone, job_id, stage, match_score, tags, notes, resume_ref, created_at`

func (s *PostgresApplicationStore) Create(ctx context.Context, app *models.Application) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, candidate_name, email, phone, job_id, stage,
			match_score, tags, notes, resume_ref, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		app.ID,
		app.CandidateName,
		app.Email,
		app.Phone,
		app.JobID,
		string(app.Stage),
		app.MatchScore,
		pq.Array(app.Tags),
		app.Notes,
		app.ResumeRef,
		app.CreatedAt,
	)
	if err != nil {
		return errs.NewStorageError("insert application", err)
	}
	return nil
}

func (s *PostgresApplicationStore) Get(ctx context.Context, id string) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)

	app, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, errs.NewNotFoundError("application", id)
	}
	if err != nil {
		return nil, errs.NewStorageError("get application", err)
	}
	return app, nil
}

func (s *PostgresApplicationStore) List(ctx context.Context, jobID string) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications ORDER BY created_at ASC`
	args := []interface{}{}
	if jobID != "" {
		query = `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 ORDER BY created_at ASC`
		args = append(args, jobID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewStorageError("list applications", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, errs.NewStorageError("scan application", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewStorageError("list applications", err)
	}
	return apps, nil
}

func (s *PostgresApplicationStore) UpdateStage(ctx context.Context, id string, stage models.Stage) (*models.Application, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE applications SET stage = $2 WHERE id = $1`, id, string(stage))
	if err != nil {
		return nil, errs.NewStorageError("update application stage", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errs.NewNotFoundError("application", id)
	}
	return s.Get(ctx, id)
}

func (s *PostgresApplicationStore) UpdateNotes(ctx context.Context, id string, notes string) (*models.Application, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE applications SET notes = $2 WHERE id = $1`, id, notes)
	if err != nil {
		return nil, errs.NewStorageError("update application notes", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errs.NewNotFoundError("application", id)
	}
	return s.Get(ctx, id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(r rowScanner) (*models.Application, error) {
	var app models.Application
	var stage string
	var tags pq.StringArray

	err := r.Scan(
		&app.ID, &app.CandidateName, &app.Email, &app.Phone, &app.JobID,
		&stage, &app.MatchScore, &tags, &app.Notes, &app.ResumeRef, &app.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	app.Stage = models.Stage(stage)
	app.Tags = []string(tags)
	return &app, nil
}
