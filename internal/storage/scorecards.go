// internal/storage/scorecards.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	errs "recruiting-pipeline/internal/common/errors"
	"recruiting-pipeline/internal/models"
)

// PostgresScorecardStore implements ScorecardStore on PostgreSQL. The
// template snapshot lives as jsonb on the scorecard row; responses live in
// scorecard_responses with one row per (scorecard_id, question_id) and one
// column per autosaved field, so an upsert only ever touches a single column.
type PostgresScorecardStore struct {
	db *sql.DB
}

func NewPostgresScorecardStore(db *sql.DB) *PostgresScorecardStore {
	return &PostgresScorecardStore{db: db}
}

// responseColumns maps each autosaved field to its column. Only fields in
// this table can ever reach the SQL below.
var responseColumns = map[models.ResponseField]string{
	models.FieldRating:   "rating",
	models.FieldCheckbox: "checkbox_status",
	models.FieldFlags:    "flags",
	models.FieldNotes:    "notes",
}

func (s *PostgresScorecardStore) Create(ctx context.Context, sc *models.ScreeningScorecard) error {
	questionsJSON, err := json.Marshal(sc.Questions)
	if err != nil {
		return errs.NewStorageError("marshal question snapshot", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scorecards (
			id, interview_id, template_id, questions, status,
			recommendation, final_notes, final_score, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sc.ID,
		sc.InterviewID,
		sc.TemplateID,
		questionsJSON,
		string(sc.Status),
		string(sc.Recommendation),
		sc.FinalNotes,
		sc.FinalScore,
		sc.CreatedAt,
	)
	if err != nil {
		// The unique interview_id constraint turns a racing double init
		// into a conflict the engine can resolve.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return errs.NewConflictError("scorecard already exists for interview " + sc.InterviewID)
		}
		return errs.NewStorageError("insert scorecard", err)
	}
	return nil
}

func (s *PostgresScorecardStore) GetByInterview(ctx context.Context, interviewID string) (*models.ScreeningScorecard, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, interview_id, template_id, questions, status,
		       recommendation, final_notes, final_score, created_at, submitted_at
		FROM scorecards WHERE interview_id = $1`, interviewID)

	var sc models.ScreeningScorecard
	var questionsJSON []byte
	var status, recommendation string
	var submittedAt sql.NullTime

	err := row.Scan(
		&sc.ID, &sc.InterviewID, &sc.TemplateID, &questionsJSON, &status,
		&recommendation, &sc.FinalNotes, &sc.FinalScore, &sc.CreatedAt, &submittedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewStorageError("get scorecard", err)
	}

	if err := json.Unmarshal(questionsJSON, &sc.Questions); err != nil {
		return nil, errs.NewStorageError("unmarshal question snapshot", err)
	}
	sc.Status = models.ScorecardStatus(status)
	sc.Recommendation = models.Recommendation(recommendation)
	if submittedAt.Valid {
		t := submittedAt.Time
		sc.SubmittedAt = &t
	}

	responses, err := s.loadResponses(ctx, sc.ID)
	if err != nil {
		return nil, err
	}
	sc.Responses = responses

	return &sc, nil
}

func (s *PostgresScorecardStore) loadResponses(ctx context.Context, scorecardID string) (map[string]*models.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, rating, checkbox_status, flags, notes
		FROM scorecard_responses WHERE scorecard_id = $1`, scorecardID)
	if err != nil {
		return nil, errs.NewStorageError("list responses", err)
	}
	defer rows.Close()

	responses := make(map[string]*models.Response)
	for rows.Next() {
		var r models.Response
		var checkbox, flags string
		if err := rows.Scan(&r.QuestionID, &r.Rating, &checkbox, &flags, &r.Notes); err != nil {
			return nil, errs.NewStorageError("scan response", err)
		}
		r.CheckboxStatus = models.CheckboxStatus(checkbox)
		r.Flags = models.SignalFlag(flags)
		responses[r.QuestionID] = &r
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewStorageError("list responses", err)
	}
	return responses, nil
}

// UpsertResponseField writes exactly one field of one response row. Writes
// are last-write-wins per (questionId, field).
func (s *PostgresScorecardStore) UpsertResponseField(ctx context.Context, scorecardID, questionID string, field models.ResponseField, value FieldValue) error {
	column, ok := responseColumns[field]
	if !ok {
		return errs.NewValidationError(fmt.Sprintf("unknown response field: %s", field))
	}

	var arg interface{}
	switch field {
	case models.FieldRating:
		arg = value.Rating
	case models.FieldCheckbox:
		arg = string(value.Checkbox)
	case models.FieldFlags:
		arg = string(value.Flag)
	case models.FieldNotes:
		arg = value.Notes
	}

	query := fmt.Sprintf(`
		INSERT INTO scorecard_responses (scorecard_id, question_id, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (scorecard_id, question_id) DO UPDATE SET %s = EXCLUDED.%s`,
		column, column, column)

	if _, err := s.db.ExecContext(ctx, query, scorecardID, questionID, arg); err != nil {
		return errs.NewStorageError("upsert response field", err)
	}
	return nil
}

// Submit locks the scorecard. The status guard in the WHERE clause makes a
// racing second submit a no-op at the storage layer.
func (s *PostgresScorecardStore) Submit(ctx context.Context, scorecardID string, rec models.Recommendation, finalNotes string, finalScore float64, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE scorecards
		SET status = $2, recommendation = $3, final_notes = $4, final_score = $5, submitted_at = $6
		WHERE id = $1 AND status = $7`,
		scorecardID,
		string(models.ScorecardSubmitted),
		string(rec),
		finalNotes,
		finalScore,
		at,
		string(models.ScorecardDraft),
	)
	if err != nil {
		return errs.NewStorageError("submit scorecard", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NewLockedError(scorecardID)
	}
	return nil
}
