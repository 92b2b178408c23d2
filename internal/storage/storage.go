// internal/storage/storage.go

// Package storage holds the persistence contracts for the recruiting
// pipeline core plus their postgres, elasticsearch and in-memory
// implementations.
package storage

import (
	"context"
	"time"

	"recruiting-pipeline/internal/models"
)

// ApplicationStore persists candidate applications. Applications are never
// deleted; terminal stages act as a soft archive.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	Get(ctx context.Context, id string) (*models.Application, error)
	// List returns applications in arrival order (created_at ascending).
	// An empty jobID returns every application.
	List(ctx context.Context, jobID string) ([]*models.Application, error)
	UpdateStage(ctx context.Context, id string, stage models.Stage) (*models.Application, error)
	UpdateNotes(ctx context.Context, id string, notes string) (*models.Application, error)
}

// InterviewStore persists interview events.
type InterviewStore interface {
	Create(ctx context.Context, iv *models.Interview) error
	Get(ctx context.Context, id string) (*models.Interview, error)
	ListByApplication(ctx context.Context, applicationID string) ([]*models.Interview, error)
	UpdateStatus(ctx context.Context, id string, status models.InterviewStatus, feedback string) (*models.Interview, error)
}

// FieldValue carries exactly one autosaved response field; which member is
// meaningful is determined by the ResponseField passed alongside it.
type FieldValue struct {
	Rating   int
	Checkbox models.CheckboxStatus
	Flag     models.SignalFlag
	Notes    string
}

// ScorecardStore persists screening scorecards. Response writes are
// single-field upserts so concurrent editors stay last-write-wins per
// (questionId, field), never whole-record replacement.
type ScorecardStore interface {
	Create(ctx context.Context, sc *models.ScreeningScorecard) error
	// GetByInterview returns nil, nil when no scorecard exists for the interview.
	GetByInterview(ctx context.Context, interviewID string) (*models.ScreeningScorecard, error)
	UpsertResponseField(ctx context.Context, scorecardID, questionID string, field models.ResponseField, value FieldValue) error
	// Submit atomically locks the scorecard. It only applies while the
	// scorecard is still DRAFT.
	Submit(ctx context.Context, scorecardID string, rec models.Recommendation, finalNotes string, finalScore float64, at time.Time) error
}

// TemplateStore supplies versioned question sets. Read-only to this core.
type TemplateStore interface {
	List(ctx context.Context) ([]*models.ScorecardTemplate, error)
	// Get returns nil, nil when the template does not exist.
	Get(ctx context.Context, id string) (*models.ScorecardTemplate, error)
}

// ApplicationIndex is the search surface over applications. Indexing is
// best-effort; intake never fails because the index is down.
type ApplicationIndex interface {
	Index(ctx context.Context, app *models.Application) error
	// Search returns matching application ids, best match first.
	Search(ctx context.Context, query string) ([]string, error)
}
