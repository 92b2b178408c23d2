// internal/storage/templates.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	errs "recruiting-pipeline/internal/common/errors"
	"recruiting-pipeline/internal/models"
)

// PostgresTemplateStore reads scorecard templates. Templates are authored by
// an external collaborator; this core never writes them.
type PostgresTemplateStore struct {
	db *sql.DB
}

func NewPostgresTemplateStore(db *sql.DB) *PostgresTemplateStore {
	return &PostgresTemplateStore{db: db}
}

func (s *PostgresTemplateStore) List(ctx context.Context) ([]*models.ScorecardTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, version, questions
		FROM scorecard_templates ORDER BY title ASC, version DESC`)
	if err != nil {
		return nil, errs.NewStorageError("list templates", err)
	}
	defer rows.Close()

	var templates []*models.ScorecardTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewStorageError("list templates", err)
	}
	return templates, nil
}

func (s *PostgresTemplateStore) Get(ctx context.Context, id string) (*models.ScorecardTemplate, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, version, questions
		FROM scorecard_templates WHERE id = $1`, id)

	tpl, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tpl, nil
}

func scanTemplate(r rowScanner) (*models.ScorecardTemplate, error) {
	var tpl models.ScorecardTemplate
	var questionsJSON []byte

	if err := r.Scan(&tpl.ID, &tpl.Title, &tpl.Version, &questionsJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, errs.NewStorageError("scan template", err)
	}
	if err := json.Unmarshal(questionsJSON, &tpl.Questions); err != nil {
		return nil, errs.NewStorageError("unmarshal template questions", err)
	}
	return &tpl, nil
}
