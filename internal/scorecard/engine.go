// internal/scorecard/engine.go
package scorecard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	errs "recruiting-pipeline/internal/common/errors"
	"recruiting-pipeline/internal/common/logger"
	"recruiting-pipeline/internal/common/metrics"
	"recruiting-pipeline/internal/models"
	"recruiting-pipeline/internal/storage"
)

// ==========================================
// SCORECARD ENGINE
// ==========================================

// Engine owns the screening scorecard lifecycle: initialization against a
// template snapshot, per-field autosave of responses, and the one-way
// submit that locks the scorecard.
type Engine struct {
	scorecards storage.ScorecardStore
	interviews storage.InterviewStore
	templates  TemplateSource
	logger     logger.Logger
}

// TemplateSource resolves scorecard templates. Satisfied by TemplateClient
// and, in tests, by a bare TemplateStore.
type TemplateSource interface {
	GetTemplate(ctx context.Context, id string) (*models.ScorecardTemplate, error)
}

func NewEngine(scorecards storage.ScorecardStore, interviews storage.InterviewStore, templates TemplateSource, log logger.Logger) *Engine {
	return &Engine{
		scorecards: scorecards,
		interviews: interviews,
		templates:  templates,
		logger:     log,
	}
}

// FetchScreening returns the scorecard attached to an interview, or nil when
// none has been initialized yet.
func (e *Engine) FetchScreening(ctx context.Context, interviewID string) (*models.ScreeningScorecard, error) {
	if interviewID == "" {
		return nil, errs.NewValidationError("interviewId is required")
	}
	return e.scorecards.GetByInterview(ctx, interviewID)
}

// InitScreening creates a DRAFT scorecard for the interview with a deep copy
// of the template's questions. Calling it again for the same interview is a
// no-op that returns the existing scorecard, regardless of the template
// passed on the second call.
func (e *Engine) InitScreening(ctx context.Context, interviewID, templateID string) (*models.ScreeningScorecard, error) {
	if templateID == "" {
		return nil, errs.NewValidationError("templateId is required")
	}

	existing, err := e.scorecards.GetByInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if _, err := e.interviews.Get(ctx, interviewID); err != nil {
		return nil, err
	}

	tpl, err := e.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, errs.NewNotFoundError("template", templateID)
	}

	sc := &models.ScreeningScorecard{
		ID:          uuid.New().String(),
		InterviewID: interviewID,
		TemplateID:  templateID,
		Questions:   tpl.CloneQuestions(),
		Responses:   make(map[string]*models.Response),
		Status:      models.ScorecardDraft,
		CreatedAt:   time.Now().UTC(),
	}
	if err := e.scorecards.Create(ctx, sc); err != nil {
		// Lost a race with a concurrent init; the winner's scorecard stands.
		if errs.IsConflict(err) {
			return e.scorecards.GetByInterview(ctx, interviewID)
		}
		return nil, err
	}

	e.logger.Info("screening scorecard initialized", map[string]interface{}{
		"interview_id": interviewID,
		"template_id":  templateID,
		"scorecard_id": sc.ID,
		"questions":    len(sc.Questions),
	})
	return sc, nil
}

// RecordResponse autosaves a single field of a single question's response.
// Writes target one field only; concurrent edits to different fields of the
// same response do not clobber each other, and the last write to the same
// field wins.
func (e *Engine) RecordResponse(ctx context.Context, interviewID, questionID string, field models.ResponseField, value interface{}) (*models.ScreeningScorecard, error) {
	if !field.IsValid() {
		return nil, errs.NewValidationError(fmt.Sprintf("unknown response field: %q", field))
	}

	sc, err := e.scorecards.GetByInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, errs.NewNotFoundError("scorecard for interview", interviewID)
	}
	if sc.Status == models.ScorecardSubmitted {
		metrics.AutosaveWrites.WithLabelValues("locked").Inc()
		return nil, errs.NewLockedError(interviewID)
	}
	if !sc.HasQuestion(questionID) {
		return nil, errs.NewValidationError(fmt.Sprintf("question %q is not part of this scorecard", questionID))
	}

	fv, err := coerceFieldValue(field, value)
	if err != nil {
		metrics.AutosaveWrites.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if err := e.scorecards.UpsertResponseField(ctx, sc.ID, questionID, field, fv); err != nil {
		metrics.AutosaveWrites.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.AutosaveWrites.WithLabelValues("ok").Inc()

	return e.scorecards.GetByInterview(ctx, interviewID)
}

// SubmitScreening locks the scorecard, stamps the recommendation and final
// notes, and computes the final score as the mean of the ratings present
// (questions without a rating are excluded; no ratings at all yields 0).
func (e *Engine) SubmitScreening(ctx context.Context, interviewID string, rec models.Recommendation, finalNotes string) (*models.ScreeningScorecard, error) {
	if rec == "" {
		return nil, errs.NewValidationError("recommendation is required")
	}
	if !rec.IsValid() {
		return nil, errs.NewValidationError(fmt.Sprintf("invalid recommendation: %q", rec))
	}

	sc, err := e.scorecards.GetByInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, errs.NewValidationError("no scorecard initialized for interview " + interviewID)
	}
	if sc.Status == models.ScorecardSubmitted {
		return nil, errs.NewLockedError(interviewID)
	}

	finalScore := computeFinalScore(sc)
	submittedAt := time.Now().UTC()

	if err := e.scorecards.Submit(ctx, sc.ID, rec, finalNotes, finalScore, submittedAt); err != nil {
		return nil, err
	}
	metrics.ScreeningsSubmitted.Inc()

	e.logger.Info("screening scorecard submitted", map[string]interface{}{
		"interview_id":   interviewID,
		"scorecard_id":   sc.ID,
		"recommendation": string(rec),
		"final_score":    finalScore,
	})

	return e.scorecards.GetByInterview(ctx, interviewID)
}

// computeFinalScore averages the ratings that are set. Checkbox statuses,
// flags, and notes never contribute.
func computeFinalScore(sc *models.ScreeningScorecard) float64 {
	var sum, n float64
	for _, r := range sc.Responses {
		if r.HasRating() {
			sum += float64(r.Rating)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}

// coerceFieldValue validates an autosave payload against the field it
// targets. Ratings arrive as JSON numbers, everything else as strings.
func coerceFieldValue(field models.ResponseField, value interface{}) (storage.FieldValue, error) {
	var fv storage.FieldValue
	switch field {
	case models.FieldRating:
		rating, ok := asInt(value)
		if !ok {
			return fv, errs.NewValidationError("rating must be an integer")
		}
		if rating < 1 || rating > 5 {
			return fv, errs.NewValidationError(fmt.Sprintf("rating must be between 1 and 5, got %d", rating))
		}
		fv.Rating = rating
	case models.FieldCheckbox:
		s, ok := value.(string)
		if !ok {
			return fv, errs.NewValidationError("checkboxStatus must be a string")
		}
		cb := models.CheckboxStatus(s)
		if !cb.IsValid() {
			return fv, errs.NewValidationError(fmt.Sprintf("invalid checkboxStatus: %q", s))
		}
		fv.Checkbox = cb
	case models.FieldFlags:
		s, ok := value.(string)
		if !ok {
			return fv, errs.NewValidationError("flags must be a string")
		}
		flag := models.SignalFlag(s)
		if !flag.IsValid() {
			return fv, errs.NewValidationError(fmt.Sprintf("invalid flag: %q", s))
		}
		fv.Flag = flag
	case models.FieldNotes:
		s, ok := value.(string)
		if !ok {
			return fv, errs.NewValidationError("notes must be a string")
		}
		fv.Notes = s
	}
	return fv, nil
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
