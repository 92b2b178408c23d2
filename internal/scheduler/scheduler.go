// internal/scheduler/scheduler.go
package scheduler

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
// INTERVIEW SCHEDULER
// ==========================================

// roundLevels maps the well-known round names to their funnel depth. Rounds
// outside this table keep whatever level the caller supplies.
var roundLevels = map[string]int{
	"HR Round":           1,
	"Departmental Round": 2,
	"Final Round":        3,
}

// ScheduleRequest carries everything needed to book an interview against an
// application.
type ScheduleRequest struct {
	ApplicationID string               `json:"applicationId"`
	InterviewerID string               `json:"interviewerId"`
	ScheduledAt   time.Time            `json:"scheduledAt"`
	Type          models.InterviewType `json:"type"`
	RoundName     string               `json:"roundName"`
	Level         int                  `json:"level"`
	MeetingLink   string               `json:"meetingLink"`
}

// Scheduler books interview rounds and tracks their lifecycle.
type Scheduler struct {
	interviews   storage.InterviewStore
	applications storage.ApplicationStore
	logger       logger.Logger
}

func NewScheduler(interviews storage.InterviewStore, applications storage.ApplicationStore, log logger.Logger) *Scheduler {
	return &Scheduler{interviews: interviews, applications: applications, logger: log}
}

// ScheduleInterview books a round for an application. Known round names pin
// the level; unknown names pass the requested level through unchanged.
func (s *Scheduler) ScheduleInterview(ctx context.Context, req ScheduleRequest) (*models.Interview, error) {
	if req.InterviewerID == "" {
		return nil, errs.NewValidationError("interviewerId is required")
	}
	if req.ScheduledAt.IsZero() {
		return nil, errs.NewValidationError("scheduledAt is required")
	}
	if req.Type != "" && !req.Type.IsValid() {
		return nil, errs.NewValidationError(fmt.Sprintf("invalid interview type: %q", req.Type))
	}

	if _, err := s.applications.Get(ctx, req.ApplicationID); err != nil {
		return nil, err
	}

	level := req.Level
	if mapped, ok := roundLevels[req.RoundName]; ok {
		level = mapped
	}

	iv := &models.Interview{
		ID:            uuid.New().String(),
		ApplicationID: req.ApplicationID,
		InterviewerID: req.InterviewerID,
		ScheduledAt:   req.ScheduledAt,
		Type:          req.Type,
		RoundName:     req.RoundName,
		Level:         level,
		Status:        models.InterviewScheduled,
		MeetingLink:   req.MeetingLink,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.interviews.Create(ctx, iv); err != nil {
		return nil, err
	}
	metrics.InterviewsScheduled.WithLabelValues(iv.RoundName).Inc()

	s.logger.Info("interview scheduled", map[string]interface{}{
		"interview_id":   iv.ID,
		"application_id": iv.ApplicationID,
		"round_name":     iv.RoundName,
		"level":          iv.Level,
	})
	return iv, nil
}

// GetInterview returns a single interview by id.
func (s *Scheduler) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	return s.interviews.Get(ctx, id)
}

// ListInterviews returns the interviews booked for an application, soonest
// first.
func (s *Scheduler) ListInterviews(ctx context.Context, applicationID string) ([]*models.Interview, error) {
	return s.interviews.ListByApplication(ctx, applicationID)
}

// CompleteInterview marks a scheduled interview as held and records the
// interviewer's free-form feedback.
func (s *Scheduler) CompleteInterview(ctx context.Context, id, feedback string) (*models.Interview, error) {
	return s.transition(ctx, id, models.InterviewCompleted, feedback)
}

// CancelInterview calls off a scheduled interview.
func (s *Scheduler) CancelInterview(ctx context.Context, id string) (*models.Interview, error) {
	return s.transition(ctx, id, models.InterviewCancelled, "")
}

func (s *Scheduler) transition(ctx context.Context, id string, next models.InterviewStatus, feedback string) (*models.Interview, error) {
	iv, err := s.interviews.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.Status != models.InterviewScheduled {
		return nil, errs.NewValidationError(fmt.Sprintf("interview %s is %s, only scheduled interviews can change status", id, iv.Status))
	}

	updated, err := s.interviews.UpdateStatus(ctx, id, next, feedback)
	if err != nil {
		return nil, err
	}

	s.logger.Info("interview status changed", map[string]interface{}{
		"interview_id": id,
		"status":       string(next),
	})
	return updated, nil
}
