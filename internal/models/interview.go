// internal/models/interview.go
package models

import "time"

// InterviewType is how the interview is conducted.
type InterviewType string

const (
	InterviewVirtual  InterviewType = "VIRTUAL"
	InterviewInPerson InterviewType = "IN_PERSON"
	InterviewPhone    InterviewType = "PHONE"
)

func (t InterviewType) IsValid() bool {
	switch t {
	case InterviewVirtual, InterviewInPerson, InterviewPhone:
		return true
	default:
		return false
	}
}

// InterviewStatus tracks the lifecycle of a scheduled interview.
type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "SCHEDULED"
	InterviewCompleted InterviewStatus = "COMPLETED"
	InterviewCancelled InterviewStatus = "CANCELLED"
)

func (s InterviewStatus) IsValid() bool {
	switch s {
	case InterviewScheduled, InterviewCompleted, InterviewCancelled:
		return true
	default:
		return false
	}
}

// Interview is one scheduled evaluation event tied to an application and a
// round. Other than status changes and feedback it is immutable history.
type Interview struct {
	ID            string          `json:"id"`
	ApplicationID string          `json:"applicationId"`
	InterviewerID string          `json:"interviewerId"`
	ScheduledAt   time.Time       `json:"scheduledAt"`
	Type          InterviewType   `json:"type"`
	RoundName     string          `json:"roundName"`
	Level         int             `json:"level"`
	Status        InterviewStatus `json:"status"`
	MeetingLink   string          `json:"meetingLink,omitempty"`
	Feedback      string          `json:"feedback,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}
