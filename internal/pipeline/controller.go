// internal/pipeline/controller.go
package pipeline

import (
	"context"
	"fmt"

	errs "recruiting-pipeline/internal/common/errors"
	"recruiting-pipeline/internal/common/logger"
	"recruiting-pipeline/internal/common/metrics"
	"recruiting-pipeline/internal/models"
	"recruiting-pipeline/internal/storage"
)

// ==========================================
// PIPELINE CONTROLLER
// ==========================================

// Controller moves applications through the hiring funnel. Stage moves are
// deliberately unrestricted: recruiters drag cards anywhere on the board,
// including out of HIRED or REJECTED, and the backend honors it.
type Controller struct {
	applications storage.ApplicationStore
	logger       logger.Logger
}

func NewController(applications storage.ApplicationStore, log logger.Logger) *Controller {
	return &Controller{applications: applications, logger: log}
}

// MoveApplication sets the application's stage. Any valid stage is accepted
// from any current stage.
func (c *Controller) MoveApplication(ctx context.Context, applicationID string, stage models.Stage) (*models.Application, error) {
	if !stage.IsValid() {
		return nil, errs.NewValidationError(fmt.Sprintf("invalid stage: %q", stage))
	}

	app, err := c.applications.UpdateStage(ctx, applicationID, stage)
	if err != nil {
		return nil, err
	}
	metrics.StageMoves.WithLabelValues(string(stage)).Inc()

	c.logger.Info("application moved", map[string]interface{}{
		"application_id": applicationID,
		"stage":          string(stage),
	})
	return app, nil
}

// PromoteOrReject applies a review decision. REJECT always lands in
// REJECTED. ADVANCE sends a freshly applied candidate to SCREENING;
// anyone already past that goes to INTERVIEW.
func (c *Controller) PromoteOrReject(ctx context.Context, applicationID string, decision models.Decision) (*models.Application, error) {
	if !decision.IsValid() {
		return nil, errs.NewValidationError(fmt.Sprintf("invalid decision: %q", decision))
	}

	app, err := c.applications.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	var target models.Stage
	switch decision {
	case models.DecisionReject:
		target = models.StageRejected
	case models.DecisionAdvance:
		if app.Stage == models.StageApplied {
			target = models.StageScreening
		} else {
			target = models.StageInterview
		}
	}

	updated, err := c.applications.UpdateStage(ctx, applicationID, target)
	if err != nil {
		return nil, err
	}
	metrics.StageMoves.WithLabelValues(string(target)).Inc()

	c.logger.Info("decision applied", map[string]interface{}{
		"application_id": applicationID,
		"decision":       string(decision),
		"target_stage":   string(target),
	})
	return updated, nil
}
