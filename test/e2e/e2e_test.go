// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruiting-pipeline/internal/api"
	"recruiting-pipeline/internal/common/logger"
	"recruiting-pipeline/internal/models"
	"recruiting-pipeline/internal/orchestrator"
	"recruiting-pipeline/internal/pipeline"
	"recruiting-pipeline/internal/scheduler"
	"recruiting-pipeline/internal/scorecard"
	"recruiting-pipeline/internal/storage"
)

// ==========================================
// HARNESS
// ==========================================

type harness struct {
	t      *testing.T
	server *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.NewNoOpLogger()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	apps := storage.NewMemoryApplicationStore()
	interviews := storage.NewMemoryInterviewStore()
	scorecards := storage.NewMemoryScorecardStore()
	tplStore := storage.NewMemoryTemplateStore(&models.ScorecardTemplate{
		ID:      "tpl-screening",
		Title:   "Phone Screening",
		Version: 1,
		Questions: []models.Question{
			{ID: "q1", Text: "Describe your current role", Category: "experience"},
			{ID: "q2", Text: "Explain a system you designed", Category: "systems"},
			{ID: "q3", Text: "What interests you about this role", Category: "motivation"},
		},
	})

	templates, err := scorecard.NewTemplateClient(tplStore, rdb, time.Minute, log)
	require.NoError(t, err)
	engine := scorecard.NewEngine(scorecards, interviews, templates, log)

	orch := orchestrator.New(orchestrator.Deps{
		Applications: apps,
		Index:        storage.NewMemoryApplicationIndex(),
		Controller:   pipeline.NewController(apps, log),
		Scheduler:    scheduler.NewScheduler(interviews, apps, log),
		Engine:       engine,
		Templates:    templates,
		Cache:        rdb,
		CacheTTL:     time.Minute,
		Logger:       log,
	})

	srv := httptest.NewServer(api.NewServer(orch, log).Handler())
	t.Cleanup(srv.Close)
	return &harness{t: t, server: srv}
}

func (h *harness) do(method, path string, body interface{}, out interface{}) int {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, h.server.URL+path, &buf)
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(h.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// ==========================================
// FULL FUNNEL
// ==========================================

func TestHiringFunnel(t *testing.T) {
	h := newHarness(t)

	// Intake.
	var app models.Application
	status := h.do(http.MethodPost, "/applications", map[string]interface{}{
		"candidateName": "Maya Lindqvist",
		"email":         "maya@example.com",
		"jobId":         "backend-eng",
		"matchScore":    0.91,
		"tags":          []string{"golang", "postgres"},
	}, &app)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, models.StageApplied, app.Stage)

	// She shows up on the board under APPLIED.
	var board map[string][]models.Application
	status = h.do(http.MethodGet, "/board?jobId=backend-eng", nil, &board)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, board["APPLIED"], 1)

	// Recruiter jots down a note from the resume review.
	status = h.do(http.MethodPatch, "/applications/"+app.ID+"/notes",
		map[string]string{"notes": "referred by platform team"}, &app)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "referred by platform team", app.Notes)

	// Recruiter advances her out of intake.
	var moved models.Application
	status = h.do(http.MethodPost, "/applications/"+app.ID+"/decision",
		map[string]string{"decision": "ADVANCE"}, &moved)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.StageScreening, moved.Stage)

	// An HR round gets booked.
	var iv models.Interview
	status = h.do(http.MethodPost, "/applications/"+app.ID+"/interviews", map[string]interface{}{
		"interviewerId": "interviewer-7",
		"scheduledAt":   time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"type":          "VIRTUAL",
		"roundName":     "HR Round",
	}, &iv)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 1, iv.Level)
	assert.Equal(t, models.InterviewScheduled, iv.Status)

	// No scorecard exists until init.
	status = h.do(http.MethodGet, "/interviews/"+iv.ID+"/screening", nil, nil)
	require.Equal(t, http.StatusOK, status)

	var sc models.ScreeningScorecard
	status = h.do(http.MethodPost, "/interviews/"+iv.ID+"/screening/init",
		map[string]string{"templateId": "tpl-screening"}, &sc)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, models.ScorecardDraft, sc.Status)
	require.Len(t, sc.Questions, 3)

	// Interviewer autosaves as the call goes on.
	autosaves := []map[string]interface{}{
		{"questionId": "q1", "field": "rating", "value": 4},
		{"questionId": "q1", "field": "notes", "value": "clear and structured"},
		{"questionId": "q2", "field": "rating", "value": 5},
		{"questionId": "q2", "field": "flags", "value": "STRONG_SIGNAL"},
		{"questionId": "q3", "field": "checkboxStatus", "value": "MEETS"},
	}
	for _, payload := range autosaves {
		status = h.do(http.MethodPatch, "/interviews/"+iv.ID+"/screening", payload, &sc)
		require.Equalf(t, http.StatusOK, status, "autosave %v", payload)
	}

	// A bad rating is rejected without touching anything.
	status = h.do(http.MethodPatch, "/interviews/"+iv.ID+"/screening",
		map[string]interface{}{"questionId": "q1", "field": "rating", "value": 9}, nil)
	require.Equal(t, http.StatusBadRequest, status)

	// Submit computes the mean of the two rated questions.
	status = h.do(http.MethodPost, "/interviews/"+iv.ID+"/screening/submit",
		map[string]string{"recommendation": "Strong Hire", "finalNotes": "move fast on her"}, &sc)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.ScorecardSubmitted, sc.Status)
	assert.InDelta(t, 4.5, sc.FinalScore, 1e-9)
	require.NotNil(t, sc.SubmittedAt)

	// The scorecard is now locked for edits and re-submits.
	status = h.do(http.MethodPatch, "/interviews/"+iv.ID+"/screening",
		map[string]interface{}{"questionId": "q1", "field": "rating", "value": 1}, nil)
	require.Equal(t, http.StatusLocked, status)
	status = h.do(http.MethodPost, "/interviews/"+iv.ID+"/screening/submit",
		map[string]string{"recommendation": "No Hire"}, nil)
	require.Equal(t, http.StatusLocked, status)

	// Interview wraps up, candidate moves through offer to hired.
	status = h.do(http.MethodPost, "/interviews/"+iv.ID+"/complete",
		map[string]string{"feedback": "strong communicator"}, &iv)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.InterviewCompleted, iv.Status)

	for _, stage := range []models.Stage{models.StageOffer, models.StageHired} {
		status = h.do(http.MethodPatch, "/applications/"+app.ID+"/stage",
			map[string]string{"stage": string(stage)}, &moved)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, stage, moved.Stage)
	}

	// Search still finds her by name.
	var hits []models.Application
	status = h.do(http.MethodGet, "/search?q=maya", nil, &hits)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, hits, 1)
	assert.Equal(t, models.StageHired, hits[0].Stage)
}

// ==========================================
// ERROR SURFACE
// ==========================================

func TestErrorMapping(t *testing.T) {
	h := newHarness(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"unknown application", http.MethodGet, "/applications/" + missingID(), nil, http.StatusNotFound},
		{"invalid stage", http.MethodPatch, "/applications/" + missingID() + "/stage",
			map[string]string{"stage": "LIMBO"}, http.StatusBadRequest},
		{"unknown interview init", http.MethodPost, "/interviews/" + missingID() + "/screening/init",
			map[string]string{"templateId": "tpl-screening"}, http.StatusNotFound},
		{"empty template id", http.MethodPost, "/interviews/" + missingID() + "/screening/init",
			map[string]string{"templateId": ""}, http.StatusBadRequest},
		{"submit without init", http.MethodPost, "/interviews/" + missingID() + "/screening/submit",
			map[string]string{"recommendation": "Hire"}, http.StatusBadRequest},
		{"empty search query", http.MethodGet, "/search", nil, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status := h.do(tc.method, tc.path, tc.body, nil)
			assert.Equal(t, tc.status, status)
		})
	}
}

var missingCounter int

func missingID() string {
	missingCounter++
	return fmt.Sprintf("missing-%d", missingCounter)
}
