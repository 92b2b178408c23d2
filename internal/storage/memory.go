// internal/storage/memory.go
package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	errs "recruiting-pipeline/internal/common/errors"
	"recruiting-pipeline/internal/models"
)

// In-memory implementations of the persistence contracts. They back unit and
// end-to-end tests and keep the same semantics as the postgres stores:
// arrival ordering, per-field response upserts, and the DRAFT guard on
// submit.

// MemoryApplicationStore implements ApplicationStore in memory.
type MemoryApplicationStore struct {
	mu    sync.RWMutex
	byID  map[string]*models.Application
	order []string
}

func NewMemoryApplicationStore() *MemoryApplicationStore {
	return &MemoryApplicationStore{byID: make(map[string]*models.Application)}
}

func (s *MemoryApplicationStore) Create(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *app
	s.byID[app.ID] = &cp
	s.order = append(s.order, app.ID)
	return nil
}

func (s *MemoryApplicationStore) Get(_ context.Context, id string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.byID[id]
	if !ok {
		return nil, errs.NewNotFoundError("application", id)
	}
	cp := *app
	return &cp, nil
}

func (s *MemoryApplicationStore) List(_ context.Context, jobID string) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Application
	for _, id := range s.order {
		app := s.byID[id]
		if jobID != "" && app.JobID != jobID {
			continue
		}
		cp := *app
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryApplicationStore) UpdateStage(_ context.Context, id string, stage models.Stage) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.byID[id]
	if !ok {
		return nil, errs.NewNotFoundError("application", id)
	}
	app.Stage = stage
	cp := *app
	return &cp, nil
}

func (s *MemoryApplicationStore) UpdateNotes(_ context.Context, id string, notes string) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.byID[id]
	if !ok {
		return nil, errs.NewNotFoundError("application", id)
	}
	app.Notes = notes
	cp := *app
	return &cp, nil
}

// MemoryInterviewStore implements InterviewStore in memory.
type MemoryInterviewStore struct {
	mu   sync.RWMutex
	byID map[string]*models.Interview
}

func NewMemoryInterviewStore() *MemoryInterviewStore {
	return &MemoryInterviewStore{byID: make(map[string]*models.Interview)}
}

func (s *MemoryInterviewStore) Create(_ context.Context, iv *models.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *iv
	s.byID[iv.ID] = &cp
	return nil
}

func (s *MemoryInterviewStore) Get(_ context.Context, id string) (*models.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	iv, ok := s.byID[id]
	if !ok {
		return nil, errs.NewNotFoundError("interview", id)
	}
	cp := *iv
	return &cp, nil
}

func (s *MemoryInterviewStore) ListByApplication(_ context.Context, applicationID string) ([]*models.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Interview
	for _, iv := range s.byID {
		if iv.ApplicationID == applicationID {
			cp := *iv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (s *MemoryInterviewStore) UpdateStatus(_ context.Context, id string, status models.InterviewStatus, feedback string) (*models.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	iv, ok := s.byID[id]
	if !ok {
		return nil, errs.NewNotFoundError("interview", id)
	}
	iv.Status = status
	if feedback != "" {
		iv.Feedback = feedback
	}
	cp := *iv
	return &cp, nil
}

// MemoryScorecardStore implements ScorecardStore in memory.
type MemoryScorecardStore struct {
	mu          sync.RWMutex
	byID        map[string]*models.ScreeningScorecard
	byInterview map[string]string // interviewID -> scorecardID
}

func NewMemoryScorecardStore() *MemoryScorecardStore {
	return &MemoryScorecardStore{
		byID:        make(map[string]*models.ScreeningScorecard),
		byInterview: make(map[string]string),
	}
}

func (s *MemoryScorecardStore) Create(_ context.Context, sc *models.ScreeningScorecard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byInterview[sc.InterviewID]; exists {
		return errs.NewConflictError("scorecard already exists for interview " + sc.InterviewID)
	}
	cp := copyScorecard(sc)
	s.byID[sc.ID] = cp
	s.byInterview[sc.InterviewID] = sc.ID
	return nil
}

func (s *MemoryScorecardStore) GetByInterview(_ context.Context, interviewID string) (*models.ScreeningScorecard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byInterview[interviewID]
	if !ok {
		return nil, nil
	}
	return copyScorecard(s.byID[id]), nil
}

func (s *MemoryScorecardStore) UpsertResponseField(_ context.Context, scorecardID, questionID string, field models.ResponseField, value FieldValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.byID[scorecardID]
	if !ok {
		return errs.NewNotFoundError("scorecard", scorecardID)
	}
	if sc.Responses == nil {
		sc.Responses = make(map[string]*models.Response)
	}
	r, ok := sc.Responses[questionID]
	if !ok {
		r = &models.Response{QuestionID: questionID}
		sc.Responses[questionID] = r
	}
	switch field {
	case models.FieldRating:
		r.Rating = value.Rating
	case models.FieldCheckbox:
		r.CheckboxStatus = value.Checkbox
	case models.FieldFlags:
		r.Flags = value.Flag
	case models.FieldNotes:
		r.Notes = value.Notes
	default:
		return errs.NewValidationError("unknown response field: " + string(field))
	}
	return nil
}

func (s *MemoryScorecardStore) Submit(_ context.Context, scorecardID string, rec models.Recommendation, finalNotes string, finalScore float64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.byID[scorecardID]
	if !ok {
		return errs.NewNotFoundError("scorecard", scorecardID)
	}
	if sc.Status != models.ScorecardDraft {
		return errs.NewLockedError(scorecardID)
	}
	sc.Status = models.ScorecardSubmitted
	sc.Recommendation = rec
	sc.FinalNotes = finalNotes
	sc.FinalScore = finalScore
	t := at
	sc.SubmittedAt = &t
	return nil
}

func copyScorecard(sc *models.ScreeningScorecard) *models.ScreeningScorecard {
	cp := *sc
	cp.Questions = append([]models.Question(nil), sc.Questions...)
	cp.Responses = make(map[string]*models.Response, len(sc.Responses))
	for k, v := range sc.Responses {
		rv := *v
		cp.Responses[k] = &rv
	}
	if sc.SubmittedAt != nil {
		t := *sc.SubmittedAt
		cp.SubmittedAt = &t
	}
	return &cp
}

// MemoryTemplateStore implements TemplateStore in memory.
type MemoryTemplateStore struct {
	mu        sync.RWMutex
	templates []*models.ScorecardTemplate
}

func NewMemoryTemplateStore(templates ...*models.ScorecardTemplate) *MemoryTemplateStore {
	return &MemoryTemplateStore{templates: templates}
}

func (s *MemoryTemplateStore) List(_ context.Context) ([]*models.ScorecardTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.ScorecardTemplate(nil), s.templates...), nil
}

func (s *MemoryTemplateStore) Get(_ context.Context, id string) (*models.ScorecardTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tpl := range s.templates {
		if tpl.ID == id {
			return tpl, nil
		}
	}
	return nil, nil
}

// MemoryApplicationIndex implements ApplicationIndex with substring matching.
type MemoryApplicationIndex struct {
	mu   sync.RWMutex
	docs map[string]*models.Application
}

func NewMemoryApplicationIndex() *MemoryApplicationIndex {
	return &MemoryApplicationIndex{docs: make(map[string]*models.Application)}
}

func (i *MemoryApplicationIndex) Index(_ context.Context, app *models.Application) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	cp := *app
	i.docs[app.ID] = &cp
	return nil
}

func (i *MemoryApplicationIndex) Search(_ context.Context, query string) ([]string, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	q := strings.ToLower(query)
	var ids []string
	for id, app := range i.docs {
		if strings.Contains(strings.ToLower(app.CandidateName), q) ||
			strings.Contains(strings.ToLower(app.Email), q) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
