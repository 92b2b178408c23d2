// internal/api/server.go
package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	errs "recruiting-pipeline/internal/common/errors"
	"recruiting-pipeline/internal/common/logger"
	"recruiting-pipeline/internal/models"
	"recruiting-pipeline/internal/orchestrator"
	"recruiting-pipeline/internal/scheduler"
)

// ==========================================
// HTTP API
// ==========================================

// Server exposes the pipeline over HTTP. All handlers are thin: decode,
// delegate to the orchestrator, map the error taxonomy to a status code.
type Server struct {
	orch   *orchestrator.Orchestrator
	logger logger.Logger
	engine *gin.Engine
}

func NewServer(orch *orchestrator.Orchestrator, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{orch: orch, logger: log, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	r := s.engine

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/applications", s.addCandidate)
	r.GET("/applications/:id", s.getApplication)
	r.PATCH("/applications/:id/stage", s.moveApplication)
	r.PATCH("/applications/:id/notes", s.updateNotes)
	r.POST("/applications/:id/decision", s.promoteOrReject)
	r.POST("/applications/:id/interviews", s.scheduleInterview)
	r.GET("/applications/:id/interviews", s.listInterviews)

	r.GET("/board", s.listBoard)
	r.GET("/search", s.searchApplications)
	r.GET("/templates", s.listTemplates)

	r.POST("/interviews/:id/complete", s.completeInterview)
	r.POST("/interviews/:id/cancel", s.cancelInterview)
	r.GET("/interviews/:id/screening", s.fetchScreening)
	r.POST("/interviews/:id/screening/init", s.initScreening)
	r.PATCH("/interviews/:id/screening", s.recordResponse)
	r.POST("/interviews/:id/screening/submit", s.submitScreening)
}

// ------------------------------------------
// Applications
// ------------------------------------------

func (s *Server) addCandidate(c *gin.Context) {
	var req orchestrator.AddCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errs.NewValidationError(err.Error()))
		return
	}
	app, err := s.orch.AddCandidate(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (s *Server) getApplication(c *gin.Context) {
	app, err := s.orch.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (s *Server) moveApplication(c *gin.Context) {
	var req struct {
		Stage models.Stage `json:"stage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errs.NewValidationError(err.Error()))
		return
	}
	app, err := s.orch.MoveApplication(c.Request.Context(), c.Param("id"), req.Stage)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (s *Server) updateNotes(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errs.NewValidationError(err.Error()))
		return
	}
	app, err := s.orch.UpdateNotes(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (s *Server) promoteOrReject(c *gin.Context) {
	var req struct {
		Decision models.Decision `json:"decision"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errs.NewValidationError(err.Error()))
		return
	}
	app, err := s.orch.PromoteOrReject(c.Request.Context(), c.Param("id"), req.Decision)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (s *Server) listBoard(c *gin.Context) {
	board, err := s.orch.ListBoard(c.Request.Context(), c.Query("jobId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (s *Server) searchApplications(c *gin.Context) {
	apps, err := s.orch.SearchApplications(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// ------------------------------------------
// Interviews
// ------------------------------------------

func (s *Server) scheduleInterview(c *gin.Context) {
	var req scheduler.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errs.NewValidationError(err.Error()))
		return
	}
	req.ApplicationID = c.Param("id")
	iv, err := s.orch.ScheduleInterview(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, iv)
}

func (s *Server) listInterviews(c *gin.Context) {
	ivs, err := s.orch.ListInterviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ivs)
}

func (s *Server) completeInterview(c *gin.Context) {
	var req struct {
		Feedback string `json:"feedback"`
	}
	// Feedback is optional; an empty body means none.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(c, errs.NewValidationError(err.Error()))
		return
	}
	iv, err := s.orch.CompleteInterview(c.Request.Context(), c.Param("id"), req.Feedback)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}

func (s *Server) cancelInterview(c *gin.Context) {
	iv, err := s.orch.CancelInterview(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}

// ------------------------------------------
// Screening scorecards
// ------------------------------------------

func (s *Server) fetchScreening(c *gin.Context) {
	sc, err := s.orch.FetchScreening(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if sc == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (s *Server) initScreening(c *gin.Context) {
	var req struct {
		TemplateID string `json:"templateId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errs.NewValidationError(err.Error()))
		return
	}
	sc, err := s.orch.InitScreening(c.Request.Context(), c.Param("id"), req.TemplateID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (s *Server) recordResponse(c *gin.Context) {
	var req struct {
		QuestionID string               `json:"questionId"`
		Field      models.ResponseField `json:"field"`
		Value      interface{}          `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errs.NewValidationError(err.Error()))
		return
	}
	sc, err := s.orch.RecordResponse(c.Request.Context(), c.Param("id"), req.QuestionID, req.Field, req.Value)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (s *Server) submitScreening(c *gin.Context) {
	var req struct {
		Recommendation models.Recommendation `json:"recommendation"`
		FinalNotes     string                `json:"finalNotes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errs.NewValidationError(err.Error()))
		return
	}
	sc, err := s.orch.SubmitScreening(c.Request.Context(), c.Param("id"), req.Recommendation, req.FinalNotes)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (s *Server) listTemplates(c *gin.Context) {
	templates, err := s.orch.ListTemplates(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// ------------------------------------------
// Error mapping and middleware
// ------------------------------------------

func (s *Server) fail(c *gin.Context, err error) {
	code := errs.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case errs.ErrCodeValidation:
		status = http.StatusBadRequest
	case errs.ErrCodeNotFound:
		status = http.StatusNotFound
	case errs.ErrCodeLocked:
		status = http.StatusLocked
	case errs.ErrCodeConflict:
		status = http.StatusConflict
	case errs.ErrCodeStorage:
		status = http.StatusServiceUnavailable
	}
	if status >= 500 {
		s.logger.WithError(err).Error("request failed", map[string]interface{}{
			"path":   c.FullPath(),
			"method": c.Request.Method,
		})
	}
	c.JSON(status, gin.H{"code": string(code), "error": err.Error()})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request", map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}
