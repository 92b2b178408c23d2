// internal/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	errs "recruiting-pipeline/internal/common/errors"
	"recruiting-pipeline/internal/common/logger"
	"recruiting-pipeline/internal/common/metrics"
	"recruiting-pipeline/internal/common/observability"
	"recruiting-pipeline/internal/models"
	"recruiting-pipeline/internal/pipeline"
	"recruiting-pipeline/internal/scheduler"
	"recruiting-pipeline/internal/scorecard"
	"recruiting-pipeline/internal/storage"
)

// ==========================================
// PIPELINE ORCHESTRATOR
// ==========================================

// AddCandidateRequest is the intake payload for a new application.
type AddCandidateRequest struct {
	CandidateName string   `json:"candidateName"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	JobID         string   `json:"jobId"`
	MatchScore    float64  `json:"matchScore"`
	Tags          []string `json:"tags"`
	Notes         string   `json:"notes"`
	ResumeRef     string   `json:"resumeRef"`
}

// Board is the kanban view: applications grouped by column, each column
// sorted by match score descending with arrival order breaking ties.
type Board map[string][]*models.Application

// Orchestrator is the single entry point the HTTP layer talks to. It
// composes the pipeline controller, the interview scheduler, and the
// scorecard engine, and owns the board cache and the search index.
type Orchestrator struct {
	applications storage.ApplicationStore
	index        storage.ApplicationIndex
	controller   *pipeline.Controller
	scheduler    *scheduler.Scheduler
	engine       *scorecard.Engine
	templates    *scorecard.TemplateClient
	cache        *redis.Client
	cacheTTL     time.Duration
	obs          *observability.Observability
	logger       logger.Logger
}

type Deps struct {
	Applications storage.ApplicationStore
	Index        storage.ApplicationIndex
	Controller   *pipeline.Controller
	Scheduler    *scheduler.Scheduler
	Engine       *scorecard.Engine
	Templates    *scorecard.TemplateClient
	Cache        *redis.Client
	CacheTTL     time.Duration
	Obs          *observability.Observability
	Logger       logger.Logger
}

func New(d Deps) *Orchestrator {
	return &Orchestrator{
		applications: d.Applications,
		index:        d.Index,
		controller:   d.Controller,
		scheduler:    d.Scheduler,
		engine:       d.Engine,
		templates:    d.Templates,
		cache:        d.Cache,
		cacheTTL:     d.CacheTTL,
		obs:          d.Obs,
		logger:       d.Logger,
	}
}

// ------------------------------------------
// Intake and board
// ------------------------------------------

// AddCandidate registers a new application in the APPLIED stage. Indexing
// for search is best effort: a failed index write is logged, never surfaced.
func (o *Orchestrator) AddCandidate(ctx context.Context, req AddCandidateRequest) (*models.Application, error) {
	defer o.timed(ctx, "add_candidate")()

	if req.CandidateName == "" {
		return nil, errs.NewValidationError("candidateName is required")
	}
	if req.Email == "" {
		return nil, errs.NewValidationError("email is required")
	}

	app := &models.Application{
		ID:            uuid.New().String(),
		CandidateName: req.CandidateName,
		Email:         req.Email,
		Phone:         req.Phone,
		JobID:         req.JobID,
		Stage:         models.StageApplied,
		MatchScore:    req.MatchScore,
		Tags:          req.Tags,
		Notes:         req.Notes,
		ResumeRef:     req.ResumeRef,
		CreatedAt:     time.Now().UTC(),
	}
	if err := o.applications.Create(ctx, app); err != nil {
		o.obs.RecordOperation(ctx, "add_candidate", "error")
		return nil, err
	}

	if o.index != nil {
		if err := o.index.Index(ctx, app); err != nil {
			o.logger.Warn("failed to index application", map[string]interface{}{
				"application_id": app.ID,
				"error":          err.Error(),
			})
		}
	}

	o.invalidateBoard(ctx, app.JobID)
	o.obs.RecordOperation(ctx, "add_candidate", "ok")
	return app, nil
}

// GetApplication returns one application by id.
func (o *Orchestrator) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	return o.applications.Get(ctx, id)
}

// UpdateNotes replaces the recruiter notes on an application. The cached
// board embeds full applications, so the edit drops it too.
func (o *Orchestrator) UpdateNotes(ctx context.Context, id, notes string) (*models.Application, error) {
	app, err := o.applications.UpdateNotes(ctx, id, notes)
	if err != nil {
		return nil, err
	}
	o.invalidateBoard(ctx, app.JobID)
	return app, nil
}

// ListBoard builds the kanban board, optionally filtered to one job. The
// assembled board is cached in redis; any stage move or new candidate
// invalidates it.
func (o *Orchestrator) ListBoard(ctx context.Context, jobID string) (Board, error) {
	defer o.timed(ctx, "list_board")()
	metrics.BoardRequests.Inc()

	key := boardCacheKey(jobID)
	if o.cache != nil {
		if raw, err := o.cache.Get(ctx, key).Bytes(); err == nil {
			var board Board
			if err := json.Unmarshal(raw, &board); err == nil {
				return board, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			o.logger.Warn("board cache read failed", map[string]interface{}{"error": err.Error()})
		}
	}

	apps, err := o.applications.List(ctx, jobID)
	if err != nil {
		return nil, err
	}

	board := make(Board, len(models.BoardColumns))
	for _, col := range models.BoardColumns {
		board[col] = []*models.Application{}
	}
	for _, app := range apps {
		col := app.Stage.BoardColumn()
		board[col] = append(board[col], app)
	}
	for _, col := range models.BoardColumns {
		column := board[col]
		sort.SliceStable(column, func(i, j int) bool {
			return column[i].MatchScore > column[j].MatchScore
		})
	}

	if o.cache != nil {
		if raw, err := json.Marshal(board); err == nil {
			if err := o.cache.Set(ctx, key, raw, o.cacheTTL).Err(); err != nil {
				o.logger.Warn("board cache write failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}
	return board, nil
}

// SearchApplications resolves a free-text query against the search index and
// hydrates each hit from the primary store. Hits whose backing row has gone
// missing are skipped.
func (o *Orchestrator) SearchApplications(ctx context.Context, query string) ([]*models.Application, error) {
	if query == "" {
		return nil, errs.NewValidationError("query is required")
	}
	if o.index == nil {
		return nil, errs.NewStorageError("search", errors.New("search index not configured"))
	}

	ids, err := o.index.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Application, 0, len(ids))
	for _, id := range ids {
		app, err := o.applications.Get(ctx, id)
		if err != nil {
			if errs.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, app)
	}
	return out, nil
}

// ------------------------------------------
// Stage transitions
// ------------------------------------------

// MoveApplication delegates to the pipeline controller and drops the board
// cache for the affected job.
func (o *Orchestrator) MoveApplication(ctx context.Context, applicationID string, stage models.Stage) (*models.Application, error) {
	defer o.timed(ctx, "move_application")()

	app, err := o.controller.MoveApplication(ctx, applicationID, stage)
	if err != nil {
		return nil, err
	}
	o.invalidateBoard(ctx, app.JobID)
	return app, nil
}

// PromoteOrReject delegates to the pipeline controller and drops the board
// cache for the affected job.
func (o *Orchestrator) PromoteOrReject(ctx context.Context, applicationID string, decision models.Decision) (*models.Application, error) {
	defer o.timed(ctx, "promote_or_reject")()

	app, err := o.controller.PromoteOrReject(ctx, applicationID, decision)
	if err != nil {
		return nil, err
	}
	o.invalidateBoard(ctx, app.JobID)
	return app, nil
}

// ------------------------------------------
// Interviews
// ------------------------------------------

func (o *Orchestrator) ScheduleInterview(ctx context.Context, req scheduler.ScheduleRequest) (*models.Interview, error) {
	defer o.timed(ctx, "schedule_interview")()
	return o.scheduler.ScheduleInterview(ctx, req)
}

func (o *Orchestrator) ListInterviews(ctx context.Context, applicationID string) ([]*models.Interview, error) {
	return o.scheduler.ListInterviews(ctx, applicationID)
}

func (o *Orchestrator) CompleteInterview(ctx context.Context, id, feedback string) (*models.Interview, error) {
	return o.scheduler.CompleteInterview(ctx, id, feedback)
}

func (o *Orchestrator) CancelInterview(ctx context.Context, id string) (*models.Interview, error) {
	return o.scheduler.CancelInterview(ctx, id)
}

// ------------------------------------------
// Screening scorecards
// ------------------------------------------

func (o *Orchestrator) FetchScreening(ctx context.Context, interviewID string) (*models.ScreeningScorecard, error) {
	return o.engine.FetchScreening(ctx, interviewID)
}

func (o *Orchestrator) InitScreening(ctx context.Context, interviewID, templateID string) (*models.ScreeningScorecard, error) {
	defer o.timed(ctx, "init_screening")()
	return o.engine.InitScreening(ctx, interviewID, templateID)
}

func (o *Orchestrator) RecordResponse(ctx context.Context, interviewID, questionID string, field models.ResponseField, value interface{}) (*models.ScreeningScorecard, error) {
	return o.engine.RecordResponse(ctx, interviewID, questionID, field, value)
}

func (o *Orchestrator) SubmitScreening(ctx context.Context, interviewID string, rec models.Recommendation, finalNotes string) (*models.ScreeningScorecard, error) {
	defer o.timed(ctx, "submit_screening")()
	return o.engine.SubmitScreening(ctx, interviewID, rec, finalNotes)
}

func (o *Orchestrator) ListTemplates(ctx context.Context) ([]*models.ScorecardTemplate, error) {
	return o.templates.ListTemplates(ctx)
}

// ------------------------------------------
// Internals
// ------------------------------------------

func boardCacheKey(jobID string) string {
	if jobID == "" {
		return "board:all"
	}
	return "board:" + jobID
}

func (o *Orchestrator) invalidateBoard(ctx context.Context, jobID string) {
	if o.cache == nil {
		return
	}
	keys := []string{boardCacheKey("")}
	if jobID != "" {
		keys = append(keys, boardCacheKey(jobID))
	}
	if err := o.cache.Del(ctx, keys...).Err(); err != nil {
		o.logger.Warn("board cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func (o *Orchestrator) timed(ctx context.Context, operation string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		metrics.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
		o.obs.RecordDuration(ctx, operation, d)
	}
}
