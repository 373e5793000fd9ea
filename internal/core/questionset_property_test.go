package core

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

// Feature: ba-ai, Property: Reapplied Answers Yield No New Visibility
// Submitting the same answer twice in a row returns an empty newly-visible
// diff and leaves readiness unchanged.
func TestProperty_ReapplySameAnswerIsIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		questions := genQuestions().Draw(rt, "questions")
		if len(questions) == 0 {
			return
		}
		qs, err := NewQuestionSet(questions)
		if err != nil {
			t.Fatalf("building set: %v", err)
		}

		target := rapid.IntRange(1, len(questions)).Draw(rt, "target")
		id := fmt.Sprintf("Q%d", target)
		answer := rapid.SampledFrom([]string{"Yes", "No", "some text", models.AnswerNotApplicable}).Draw(rt, "answer")

		if _, err := qs.ApplyAnswer(id, answer); err != nil {
			t.Fatalf("first apply: %v", err)
		}
		readyAfterFirst := qs.IsReady()

		newly, err := qs.ApplyAnswer(id, answer)
		if err != nil {
			t.Fatalf("second apply: %v", err)
		}
		if len(newly) != 0 {
			t.Fatalf("second identical apply returned newly visible %v", ids(newly))
		}
		if qs.IsReady() != readyAfterFirst {
			t.Fatal("readiness changed on identical reapply")
		}
	})
}

// Feature: ba-ai, Property: Append Never Duplicates IDs
// No sequence of appends produces two questions with the same id, and the
// set only ever grows by the questions actually reported as added.
func TestProperty_AppendKeepsIDsUnique(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		questions := genQuestions().Draw(rt, "questions")
		qs, err := NewQuestionSet(questions)
		if err != nil {
			t.Fatalf("building set: %v", err)
		}

		rounds := rapid.IntRange(1, 4).Draw(rt, "rounds")
		for r := 0; r < rounds; r++ {
			before := qs.Len()
			extra := genQuestions().Draw(rt, fmt.Sprintf("extra%d", r))
			added := qs.Append(extra)
			if qs.Len() != before+len(added) {
				t.Fatalf("set grew by %d but reported %d added", qs.Len()-before, len(added))
			}
		}

		seen := make(map[string]bool)
		for _, question := range qs.Questions() {
			if seen[question.ID] {
				t.Fatalf("duplicate id %s after appends", question.ID)
			}
			seen[question.ID] = true
		}
	})
}

// Feature: ba-ai, Property: Newly Visible Diff Is Exact
// The questions reported by ApplyAnswer are exactly the visible-set
// difference before and after the mutation.
func TestProperty_NewlyVisibleMatchesDiff(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		questions := genQuestions().Draw(rt, "questions")
		if len(questions) == 0 {
			return
		}
		qs, err := NewQuestionSet(questions)
		if err != nil {
			t.Fatalf("building set: %v", err)
		}

		before := make(map[string]bool)
		for _, question := range qs.Visible() {
			before[question.ID] = true
		}

		target := rapid.IntRange(1, len(questions)).Draw(rt, "target")
		answer := rapid.SampledFrom([]string{"Yes", "No", "other"}).Draw(rt, "answer")
		newly, err := qs.ApplyAnswer(fmt.Sprintf("Q%d", target), answer)
		if err != nil {
			t.Fatalf("applying answer: %v", err)
		}

		want := make(map[string]bool)
		for _, question := range qs.Visible() {
			if !before[question.ID] {
				want[question.ID] = true
			}
		}

		if len(newly) != len(want) {
			t.Fatalf("reported %d newly visible, diff has %d", len(newly), len(want))
		}
		for _, question := range newly {
			if !want[question.ID] {
				t.Fatalf("question %s reported newly visible but not in diff", question.ID)
			}
		}
	})
}
