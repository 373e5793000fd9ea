package core

import (
	"fmt"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

// QuestionSet is the owned, ordered collection of questions for a single
// documentation item: an insertion-ordered arena keyed by question id. All
// answer mutations for an item flow through it, which keeps the idempotence
// and newly-visible-diff properties easy to verify.
type QuestionSet struct {
	order []string
	byID  map[string]*models.Question
}

// NewQuestionSet builds a set from a slice, preserving input order. Questions
// are cloned so the set owns its entries. A duplicate id is an error.
func NewQuestionSet(questions []*models.Question) (*QuestionSet, error) {
	qs := &QuestionSet{byID: make(map[string]*models.Question, len(questions))}
	for _, q := range questions {
		if _, exists := qs.byID[q.ID]; exists {
			return nil, fmt.Errorf("building question set: duplicate question id %s", q.ID)
		}
		cp := q.Clone()
		qs.order = append(qs.order, cp.ID)
		qs.byID[cp.ID] = cp
	}
	return qs, nil
}

// Questions returns the questions in insertion order. The slice is fresh but
// the elements are the set's own; callers mutate through ApplyAnswer instead.
func (qs *QuestionSet) Questions() []*models.Question {
	out := make([]*models.Question, 0, len(qs.order))
	for _, id := range qs.order {
		out = append(out, qs.byID[id])
	}
	return out
}

// Len returns the number of questions in the set, visible or not.
func (qs *QuestionSet) Len() int {
	return len(qs.order)
}

// Get returns the question with the given id.
func (qs *QuestionSet) Get(questionID string) (*models.Question, error) {
	q, ok := qs.byID[questionID]
	if !ok {
		return nil, fmt.Errorf("question %s: %w", questionID, ErrQuestionNotFound)
	}
	return q, nil
}

// Visible returns the currently visible subset in insertion order.
func (qs *QuestionSet) Visible() []*models.Question {
	return Visible(qs.Questions())
}

// ApplyAnswer sets the answer of the target question and returns the
// questions that became visible as a consequence. Any submitted value counts
// as answered for gating, including "" and the "N/A" sentinel. Reapplying the
// same answer is a no-op: it yields no newly visible questions and no change
// in readiness.
func (qs *QuestionSet) ApplyAnswer(questionID, answer string) ([]*models.Question, error) {
	q, ok := qs.byID[questionID]
	if !ok {
		return nil, fmt.Errorf("applying answer to question %s: %w", questionID, ErrQuestionNotFound)
	}

	before := visibleIDs(qs.Questions())

	q.Answer = answer
	q.Answered = true

	var newly []*models.Question
	for _, vq := range qs.Visible() {
		if !before[vq.ID] {
			newly = append(newly, vq)
		}
	}
	return newly, nil
}

// ClearAnswer resets a question to unanswered. Dependent questions drop out
// of the visible set on the next resolution.
func (qs *QuestionSet) ClearAnswer(questionID string) error {
	q, ok := qs.byID[questionID]
	if !ok {
		return fmt.Errorf("clearing answer for question %s: %w", questionID, ErrQuestionNotFound)
	}
	q.Answer = ""
	q.Answered = false
	return nil
}

// Append adds questions to the end of the set, skipping any whose id already
// exists. It returns the questions actually added. Duplicate-skipping is what
// keeps repeated validation from growing the set.
func (qs *QuestionSet) Append(questions []*models.Question) []*models.Question {
	var added []*models.Question
	for _, q := range questions {
		if _, exists := qs.byID[q.ID]; exists {
			continue
		}
		cp := q.Clone()
		// Continue the zero-based numbering the initial questionnaire uses.
		cp.DisplayOrder = len(qs.order)
		qs.order = append(qs.order, cp.ID)
		qs.byID[cp.ID] = cp
		added = append(added, cp)
	}
	return added
}

// IsReady reports readiness for generation over the visible subset.
func (qs *QuestionSet) IsReady() bool {
	return IsReadyForGeneration(qs.Questions())
}

// CompletionStatus summarizes answer progress for an item's question set.
// Counters are computed over the visible subset, matching what the readiness
// gate evaluates.
type CompletionStatus struct {
	Total               int  `json:"total_questions"`
	Answered            int  `json:"answered_questions"`
	Critical            int  `json:"critical_questions"`
	CriticalAnswered    int  `json:"critical_answered"`
	AllCriticalAnswered bool `json:"all_critical_answered"`
	AllAnswered         bool `json:"all_answered"`
}

// Completion computes the completion counters for the visible subset.
func (qs *QuestionSet) Completion() CompletionStatus {
	visible := qs.Visible()

	var cs CompletionStatus
	cs.Total = len(visible)
	for _, q := range visible {
		if q.IsAnswered() {
			cs.Answered++
		}
		if q.Critical {
			cs.Critical++
			if q.IsAnswered() {
				cs.CriticalAnswered++
			}
		}
	}
	cs.AllCriticalAnswered = cs.Critical == cs.CriticalAnswered
	cs.AllAnswered = cs.Total == cs.Answered
	return cs
}

func visibleIDs(questions []*models.Question) map[string]bool {
	ids := make(map[string]bool)
	for _, q := range Visible(questions) {
		ids[q.ID] = true
	}
	return ids
}
