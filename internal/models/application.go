// internal/models/application.go
package models

import "time"

// Stage is the closed set of pipeline states an application can occupy.
type Stage string

const (
	StageApplied      Stage = "APPLIED"
	StageScreening    Stage = "SCREENING"
	StageExamPending  Stage = "EXAM_PENDING"
	StageExamComplete Stage = "EXAM_COMPLETED"
	StageInterview    Stage = "INTERVIEW"
	StageOffer        Stage = "OFFER"
	StageHired        Stage = "HIRED"
	StageRejected     Stage = "REJECTED"
)

// AllStages lists every stage in funnel order.
var AllStages = []Stage{
	StageApplied,
	StageScreening,
	StageExamPending,
	StageExamComplete,
	StageInterview,
	StageOffer,
	StageHired,
	StageRejected,
}

// IsValid checks that s is a member of the closed stage enumeration.
func (s Stage) IsValid() bool {
	switch s {
	case StageApplied, StageScreening, StageExamPending, StageExamComplete,
		StageInterview, StageOffer, StageHired, StageRejected:
		return true
	default:
		return false
	}
}

func (s Stage) String() string {
	return string(s)
}

// BoardColumn returns the visual column this stage renders in. The three
// screening-phase stages share one column; the persisted stage value is
// never rewritten by this grouping.
func (s Stage) BoardColumn() string {
	switch s {
	case StageScreening, StageExamPending, StageExamComplete:
		return "SCREENING"
	default:
		return string(s)
	}
}

// BoardColumns lists the visual columns in funnel order.
var BoardColumns = []string{
	"APPLIED", "SCREENING", "INTERVIEW", "OFFER", "HIRED", "REJECTED",
}

// Decision is an explicit promote/reject verdict on an application.
type Decision string

const (
	DecisionAdvance Decision = "ADVANCE"
	DecisionReject  Decision = "REJECT"
)

func (d Decision) IsValid() bool {
	return d == DecisionAdvance || d == DecisionReject
}

// Application is one candidate's attempt to fill a job opening. Created on
// intake, mutated only through stage transitions and note edits, never
// deleted; terminal stages act as a soft archive.
type Application struct {
	ID            string    `json:"id"`
	CandidateName string    `json:"candidateName"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	JobID         string    `json:"jobId"`
	Stage         Stage     `json:"stage"`
	MatchScore    float64   `json:"matchScore"` // externally computed, 0-100
	Tags          []string  `json:"tags,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	ResumeRef     string    `json:"resumeRef,omitempty"` // opaque storage key or URL
	CreatedAt     time.Time `json:"createdAt"`
}
