// internal/models/scorecard.go
package models

import "time"

// ScorecardStatus is the two-state scorecard lifecycle. The only legal
// transition is DRAFT -> SUBMITTED; SUBMITTED is terminal.
type ScorecardStatus string

const (
	ScorecardDraft     ScorecardStatus = "DRAFT"
	ScorecardSubmitted ScorecardStatus = "SUBMITTED"
)

func (s ScorecardStatus) IsValid() bool {
	return s == ScorecardDraft || s == ScorecardSubmitted
}

// CheckboxStatus is the per-question expectation checklist value.
type CheckboxStatus string

const (
	CheckboxExceeds CheckboxStatus = "EXCEEDS"
	CheckboxMeets   CheckboxStatus = "MEETS"
	CheckboxPartial CheckboxStatus = "PARTIAL"
	CheckboxNo      CheckboxStatus = "NO"
)

func (c CheckboxStatus) IsValid() bool {
	switch c {
	case CheckboxExceeds, CheckboxMeets, CheckboxPartial, CheckboxNo:
		return true
	default:
		return false
	}
}

// SignalFlag marks a per-question standout signal.
type SignalFlag string

const (
	FlagStrongSignal SignalFlag = "STRONG_SIGNAL"
	FlagRedFlag      SignalFlag = "RED_FLAG"
)

func (f SignalFlag) IsValid() bool {
	return f == FlagStrongSignal || f == FlagRedFlag
}

// Recommendation is the interviewer's categorical hiring verdict recorded at
// submit time.
type Recommendation string

const (
	RecommendStrongHire Recommendation = "Strong Hire"
	RecommendHire       Recommendation = "Hire"
	RecommendLeanHire   Recommendation = "Lean Hire"
	RecommendLeanNo     Recommendation = "Lean No"
	RecommendNoHire     Recommendation = "No Hire"
)

func (r Recommendation) IsValid() bool {
	switch r {
	case RecommendStrongHire, RecommendHire, RecommendLeanHire, RecommendLeanNo, RecommendNoHire:
		return true
	default:
		return false
	}
}

// ResponseField names one of the four independently autosaved fields of a
// Response.
type ResponseField string

const (
	FieldRating   ResponseField = "rating"
	FieldCheckbox ResponseField = "checkboxStatus"
	FieldFlags    ResponseField = "flags"
	FieldNotes    ResponseField = "notes"
)

func (f ResponseField) IsValid() bool {
	switch f {
	case FieldRating, FieldCheckbox, FieldFlags, FieldNotes:
		return true
	default:
		return false
	}
}

// Response holds what the interviewer captured for one question. Absent
// fields use the zero rating / empty strings; rating 0 means "not rated".
type Response struct {
	QuestionID     string         `json:"questionId"`
	Rating         int            `json:"rating,omitempty"` // 1-5 when present
	CheckboxStatus CheckboxStatus `json:"checkboxStatus,omitempty"`
	Flags          SignalFlag     `json:"flags,omitempty"`
	Notes          string         `json:"notes,omitempty"`
}

// HasRating reports whether the interviewer rated this question.
func (r *Response) HasRating() bool {
	return r.Rating >= 1 && r.Rating <= 5
}

// ScreeningScorecard is the per-interview rubric instance. Exactly one exists
// per interview; it carries its own snapshot of the template questions and is
// frozen forever once submitted.
type ScreeningScorecard struct {
	ID             string               `json:"id"`
	InterviewID    string               `json:"interviewId"`
	TemplateID     string               `json:"templateId"`
	Questions      []Question           `json:"questions"` // snapshot taken at init
	Responses      map[string]*Response `json:"responses"` // keyed by questionId
	Status         ScorecardStatus      `json:"status"`
	Recommendation Recommendation       `json:"recommendation,omitempty"`
	FinalNotes     string               `json:"finalNotes,omitempty"`
	FinalScore     float64              `json:"finalScore"` // defined iff SUBMITTED
	CreatedAt      time.Time            `json:"createdAt"`
	SubmittedAt    *time.Time           `json:"submittedAt,omitempty"`
}

// HasQuestion reports whether questionID is part of the snapshot question set.
func (s *ScreeningScorecard) HasQuestion(questionID string) bool {
	for _, q := range s.Questions {
		if q.ID == questionID {
			return true
		}
	}
	return false
}
