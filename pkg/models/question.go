package models

// QuestionType represents the input kind of a clarifying question.
type QuestionType string

const (
	QuestionTypeText           QuestionType = "Text"
	QuestionTypeMultipleChoice QuestionType = "MultipleChoice"
	QuestionTypeCheckbox       QuestionType = "Checkbox"
)

// AnswerNotApplicable is the sentinel answer a user submits to dismiss a
// non-critical question without providing real content. It still counts as
// answered for readiness gating.
const AnswerNotApplicable = "N/A"

// TriggerCondition makes a question's visibility conditional on a specific
// answer to another question in the same set. RequiredAnswers with a single
// element behaves like a scalar required answer.
type TriggerCondition struct {
	ParentQuestionID string   `yaml:"parent_question_id" json:"parent_question_id"`
	RequiredAnswers  []string `yaml:"required_answers" json:"required_answers"`
}

// Matches reports whether the given parent answer satisfies the condition.
func (tc TriggerCondition) Matches(parentAnswer string) bool {
	for _, required := range tc.RequiredAnswers {
		if parentAnswer == required {
			return true
		}
	}
	return false
}

// Question is a single clarifying question owned by a documentation item.
// Questions never outlive their owning item, and their IDs are stable for
// the lifetime of the item.
type Question struct {
	ID           string            `yaml:"id" json:"id"`
	Text         string            `yaml:"text" json:"text"`
	Type         QuestionType      `yaml:"type" json:"type"`
	Options      []string          `yaml:"options,omitempty" json:"options,omitempty"`
	Critical     bool              `yaml:"critical" json:"critical"`
	DisplayOrder int               `yaml:"display_order" json:"display_order"`
	Trigger      *TriggerCondition `yaml:"trigger,omitempty" json:"trigger,omitempty"`
	Answer       string            `yaml:"answer,omitempty" json:"answer,omitempty"`
	Answered     bool              `yaml:"answered" json:"answered"`
}

// IsAnswered reports whether the question counts as answered for gating.
// The Answered flag is authoritative once set by an answer submission; data
// loaded without the flag falls back to answer presence.
func (q *Question) IsAnswered() bool {
	return q.Answered || q.Answer != ""
}

// Clone returns a deep copy of the question.
func (q *Question) Clone() *Question {
	cp := *q
	if q.Options != nil {
		cp.Options = append([]string(nil), q.Options...)
	}
	if q.Trigger != nil {
		t := *q.Trigger
		t.RequiredAnswers = append([]string(nil), q.Trigger.RequiredAnswers...)
		cp.Trigger = &t
	}
	return &cp
}
