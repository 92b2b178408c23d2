// internal/models/template.go
package models

// Question is one rubric-backed prompt inside a scorecard template.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Category string   `json:"category"`
	Rubric   []string `json:"rubric,omitempty"` // ordered "look for" hints
}

// ScorecardTemplate is a versioned, ordered question set. Versions are
// immutable once a scorecard references them.
type ScorecardTemplate struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Version   int        `json:"version"`
	Questions []Question `json:"questions"`
}

// CloneQuestions returns a copy-by-value snapshot of the template's question
// list, so later template edits never alter an in-progress scorecard.
func (t *ScorecardTemplate) CloneQuestions() []Question {
	out := make([]Question, len(t.Questions))
	for i, q := range t.Questions {
		cq := q
		cq.Rubric = append([]string(nil), q.Rubric...)
		out[i] = cq
	}
	return out
}
