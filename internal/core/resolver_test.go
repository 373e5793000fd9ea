package core

import (
	"testing"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

func q(id, text string) *models.Question {
	return &models.Question{ID: id, Text: text, Type: models.QuestionTypeText}
}

func answered(question *models.Question, answer string) *models.Question {
	question.Answer = answer
	question.Answered = true
	return question
}

func triggered(question *models.Question, parentID string, required ...string) *models.Question {
	question.Trigger = &models.TriggerCondition{ParentQuestionID: parentID, RequiredAnswers: required}
	return question
}

func TestVisibleNoTriggers(t *testing.T) {
	questions := []*models.Question{q("Q1", "a"), q("Q2", "b"), q("Q3", "c")}

	visible := Visible(questions)

	if len(visible) != 3 {
		t.Fatalf("expected all 3 questions visible, got %d", len(visible))
	}
	for i, want := range []string{"Q1", "Q2", "Q3"} {
		if visible[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, visible[i].ID)
		}
	}
}

func TestVisibleHiddenUntilParentAnswered(t *testing.T) {
	questions := []*models.Question{
		q("Q1", "customer facing?"),
		triggered(q("Q2", "which segments?"), "Q1", "Yes"),
	}

	visible := Visible(questions)
	if len(visible) != 1 || visible[0].ID != "Q1" {
		t.Fatalf("expected only Q1 visible, got %v", ids(visible))
	}

	answered(questions[0], "Yes")
	visible = Visible(questions)
	if len(visible) != 2 {
		t.Fatalf("expected both visible after matching answer, got %v", ids(visible))
	}
}

func TestVisibleAnswerMismatchKeepsHidden(t *testing.T) {
	questions := []*models.Question{
		answered(q("Q1", "customer facing?"), "No"),
		triggered(q("Q2", "which segments?"), "Q1", "Yes"),
	}

	visible := Visible(questions)
	if len(visible) != 1 || visible[0].ID != "Q1" {
		t.Fatalf("expected only Q1 visible on mismatched answer, got %v", ids(visible))
	}
}

func TestVisibleMultiValueTrigger(t *testing.T) {
	questions := []*models.Question{
		answered(q("Q1", "deployment target?"), "Hybrid"),
		triggered(q("Q2", "which cloud?"), "Q1", "Cloud", "Hybrid"),
	}

	visible := Visible(questions)
	if len(visible) != 2 {
		t.Fatalf("expected trigger to accept any listed answer, got %v", ids(visible))
	}
}

func TestVisibleMissingParentFailsClosed(t *testing.T) {
	questions := []*models.Question{
		q("Q1", "a"),
		triggered(q("Q2", "b"), "Q99", "Yes"),
	}

	visible := Visible(questions)
	if len(visible) != 1 || visible[0].ID != "Q1" {
		t.Fatalf("expected dangling trigger to hide the question, got %v", ids(visible))
	}
}

func TestVisibleEmptyParentIDAlwaysVisible(t *testing.T) {
	questions := []*models.Question{
		triggered(q("Q1", "a"), "", "Yes"),
	}

	visible := Visible(questions)
	if len(visible) != 1 {
		t.Fatalf("expected trigger without parent to be inert, got %v", ids(visible))
	}
}

func TestVisibleSingleHop(t *testing.T) {
	// Q2 is hidden (its own parent Q1 is unanswered) but answered; Q3 looks
	// only at Q2's answer, not at Q2's visibility.
	questions := []*models.Question{
		q("Q1", "a"),
		answered(triggered(q("Q2", "b"), "Q1", "Yes"), "Go"),
		triggered(q("Q3", "c"), "Q2", "Go"),
	}

	visible := Visible(questions)
	if !containsID(visible, "Q3") {
		t.Fatalf("expected Q3 visible via single-hop resolution, got %v", ids(visible))
	}
	if containsID(visible, "Q2") {
		t.Fatalf("expected Q2 hidden, got %v", ids(visible))
	}
}

func TestVisibleDoesNotMutateInput(t *testing.T) {
	questions := []*models.Question{
		q("Q1", "a"),
		triggered(q("Q2", "b"), "Q1", "Yes"),
	}

	_ = Visible(questions)

	if len(questions) != 2 || questions[1].Trigger == nil {
		t.Fatal("input slice was mutated")
	}
}

func TestIsReadyForGeneration(t *testing.T) {
	critical := func(question *models.Question) *models.Question {
		question.Critical = true
		return question
	}

	tests := []struct {
		name      string
		questions []*models.Question
		want      bool
	}{
		{
			name:      "empty set is never ready",
			questions: nil,
			want:      false,
		},
		{
			name: "unanswered critical blocks",
			questions: []*models.Question{
				critical(q("Q1", "a")),
				answered(q("Q2", "b"), "x"),
			},
			want: false,
		},
		{
			name: "unanswered non-critical does not block",
			questions: []*models.Question{
				answered(critical(q("Q1", "a")), "x"),
				q("Q2", "b"),
			},
			want: true,
		},
		{
			name: "hidden critical never blocks",
			questions: []*models.Question{
				answered(critical(q("Q1", "a")), "No"),
				critical(triggered(q("Q2", "b"), "Q1", "Yes")),
			},
			want: true,
		},
		{
			name: "n/a answer counts for gating",
			questions: []*models.Question{
				answered(critical(q("Q1", "a")), models.AnswerNotApplicable),
			},
			want: true,
		},
		{
			name: "all visible hidden leaves nothing to gate",
			questions: []*models.Question{
				triggered(q("Q1", "a"), "Q9", "Yes"),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReadyForGeneration(tt.questions); got != tt.want {
				t.Errorf("IsReadyForGeneration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func ids(questions []*models.Question) []string {
	out := make([]string, len(questions))
	for i, question := range questions {
		out[i] = question.ID
	}
	return out
}

func containsID(questions []*models.Question, id string) bool {
	for _, question := range questions {
		if question.ID == id {
			return true
		}
	}
	return false
}
