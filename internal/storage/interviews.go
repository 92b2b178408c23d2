// internal/storage/interviews.go
package storage

import (
	"context"
	"database/sql"

	errs "recruiting-pipeline/internal/common/errors"
	"recruiting-pipeline/internal/models"
)

// PostgresInterviewStore implements InterviewStore on PostgreSQL.
type PostgresInterviewStore struct {
	db *sql.DB
}

func NewPostgresInterviewStore(db *sql.DB) *PostgresInterviewStore {
	return &PostgresInterviewStore{db: db}
}

const interviewColumns = `id, application_id, interviewer_id, scheduled_at, type, round_name, level, status, meeting_link, feedback, created_at`

func (s *PostgresInterviewStore) Create(ctx context.Context, iv *models.Interview) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interviews (
			id, application_id, interviewer_id, scheduled_at, type,
			round_name, level, status, meeting_link, feedback, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		iv.ID,
		iv.ApplicationID,
		iv.InterviewerID,
		iv.ScheduledAt,
		string(iv.Type),
		iv.RoundName,
		iv.Level,
		string(iv.Status),
		iv.MeetingLink,
		iv.Feedback,
		iv.CreatedAt,
	)
	if err != nil {
		return errs.NewStorageError("insert interview", err)
	}
	return nil
}

func (s *PostgresInterviewStore) Get(ctx context.Context, id string) (*models.Interview, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id)

	iv, err := scanInterview(row)
	if err == sql.ErrNoRows {
		return nil, errs.NewNotFoundError("interview", id)
	}
	if err != nil {
		return nil, errs.NewStorageError("get interview", err)
	}
	return iv, nil
}

func (s *PostgresInterviewStore) ListByApplication(ctx context.Context, applicationID string) ([]*models.Interview, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE application_id = $1 ORDER BY scheduled_at ASC`,
		applicationID)
	if err != nil {
		return nil, errs.NewStorageError("list interviews", err)
	}
	defer rows.Close()

	var interviews []*models.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, errs.NewStorageError("scan interview", err)
		}
		interviews = append(interviews, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewStorageError("list interviews", err)
	}
	return interviews, nil
}

func (s *PostgresInterviewStore) UpdateStatus(ctx context.Context, id string, status models.InterviewStatus, feedback string) (*models.Interview, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE interviews SET status = $2, feedback = $3 WHERE id = $1`,
		id, string(status), feedback)
	if err != nil {
		return nil, errs.NewStorageError("update interview status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errs.NewNotFoundError("interview", id)
	}
	return s.Get(ctx, id)
}

func scanInterview(r rowScanner) (*models.Interview, error) {
	var iv models.Interview
	var typ, status string

	err := r.Scan(
		&iv.ID, &iv.ApplicationID, &iv.InterviewerID, &iv.ScheduledAt,
		&typ, &iv.RoundName, &iv.Level, &status, &iv.MeetingLink,
		&iv.Feedback, &iv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	iv.Type = models.InterviewType(typ)
	iv.Status = models.InterviewStatus(status)
	return &iv, nil
}
