package generation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/FedericoDamboreana/ba-ai/internal/core"
	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

func intPtr(i int) *int { return &i }

func TestResolveGeneratedQuestions(t *testing.T) {
	wire := []wireQuestion{
		{Text: "What payment methods?", Type: "MultipleChoice", Options: []string{"Card", "Invoice"}, Critical: true},
		{Text: "Which card networks?", Type: "Text", ParentQuestionIndex: intPtr(0), RequiredAnswer: stringList{"Card"}},
		{Text: "Anything else?", Type: "Text"},
	}

	questions, err := resolveGeneratedQuestions(wire)
	if err != nil {
		t.Fatalf("resolveGeneratedQuestions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	if questions[0].ID != "Q1" || questions[2].ID != "Q3" {
		t.Errorf("sequential ids expected, got %s %s", questions[0].ID, questions[2].ID)
	}
	if questions[0].Trigger != nil {
		t.Errorf("unconditional question must have no trigger")
	}

	trig := questions[1].Trigger
	if trig == nil {
		t.Fatalf("conditional question lost its trigger")
	}
	if trig.ParentQuestionID != "Q1" {
		t.Errorf("parent index 0 should resolve to Q1, got %s", trig.ParentQuestionID)
	}
	if !trig.Matches("Card") || trig.Matches("Invoice") {
		t.Errorf("trigger should match only the required answer")
	}
}

func TestResolveGeneratedQuestionsDropsBadTriggers(t *testing.T) {
	wire := []wireQuestion{
		{Text: "Self ref", Type: "Text", ParentQuestionIndex: intPtr(0), RequiredAnswer: stringList{"Yes"}},
		{Text: "Out of range", Type: "Text", ParentQuestionIndex: intPtr(9), RequiredAnswer: stringList{"Yes"}},
		{Text: "No required answer", Type: "Text", ParentQuestionIndex: intPtr(0)},
	}

	questions, err := resolveGeneratedQuestions(wire)
	if err != nil {
		t.Fatalf("resolveGeneratedQuestions: %v", err)
	}
	for i, q := range questions {
		if q.Trigger != nil {
			t.Errorf("question %d should have dropped its invalid trigger", i)
		}
	}
}

func TestResolveGeneratedQuestionsRejectsEmptyText(t *testing.T) {
	if _, err := resolveGeneratedQuestions([]wireQuestion{{Text: "   ", Type: "Text"}}); err == nil {
		t.Fatalf("expected error for empty question text")
	}
}

func TestResolveFollowUpQuestionsStableIDs(t *testing.T) {
	wire := []wireQuestion{
		{Text: "What is the rollout plan?", Type: "Text", Critical: true},
		{Text: "Which regions launch first?", Type: "Text", ParentQuestionID: "Q2", RequiredAnswer: stringList{"Phased"}},
	}

	first := resolveFollowUpQuestions(wire, 3)
	second := resolveFollowUpQuestions(wire, 4)

	if first[0].ID != second[0].ID || first[1].ID != second[1].ID {
		t.Errorf("follow-up ids must not depend on set size: %s/%s vs %s/%s",
			first[0].ID, first[1].ID, second[0].ID, second[1].ID)
	}
	if first[0].ID == first[1].ID {
		t.Error("distinct question texts must get distinct ids")
	}
	if first[0].DisplayOrder != 3 || first[1].DisplayOrder != 4 {
		t.Errorf("display order must continue the existing numbering, got %d %d",
			first[0].DisplayOrder, first[1].DisplayOrder)
	}
	if trig := second[1].Trigger; trig == nil || trig.ParentQuestionID != "Q2" {
		t.Errorf("parent reference lost: %+v", trig)
	}
}

func TestFollowUpIDNormalizesText(t *testing.T) {
	a := followUpID("What is the rollout plan?")
	b := followUpID("  what IS the   rollout plan? ")
	if a != b {
		t.Errorf("whitespace and case must not change the id: %s vs %s", a, b)
	}
	if a == followUpID("Anything else?") {
		t.Error("different texts collided")
	}
}

func TestRepeatedFollowUpsDedupeOnAppend(t *testing.T) {
	qs, err := core.NewQuestionSet([]*models.Question{{ID: "Q1", Text: "Who is the user?"}})
	if err != nil {
		t.Fatalf("building question set: %v", err)
	}
	wire := []wireQuestion{{Text: "What is the rollout plan?", Type: "Text"}}

	if added := qs.Append(resolveFollowUpQuestions(wire, qs.Len())); len(added) != 1 {
		t.Fatalf("expected first round to add the follow-up, got %d", len(added))
	}
	// The model re-sends the same follow-up on the next validation round.
	if added := qs.Append(resolveFollowUpQuestions(wire, qs.Len())); len(added) != 0 {
		t.Fatalf("repeated follow-up must not grow the set, got %d added", len(added))
	}
	if qs.Len() != 2 {
		t.Errorf("expected 2 questions, got %d", qs.Len())
	}
}

func TestWireQuestionUnknownTypeFallsBackToText(t *testing.T) {
	q := wireQuestion{Text: "Anything?", Type: "Dropdown"}.toQuestion()
	if q.Type != models.QuestionTypeText {
		t.Errorf("unknown type should fall back to Text, got %s", q.Type)
	}
}

func TestStringListAcceptsScalarAndArray(t *testing.T) {
	var payload struct {
		Required stringList `json:"required_answer"`
	}

	if err := json.Unmarshal([]byte(`{"required_answer": "Yes"}`), &payload); err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if len(payload.Required) != 1 || payload.Required[0] != "Yes" {
		t.Errorf("scalar form mis-parsed: %v", payload.Required)
	}

	if err := json.Unmarshal([]byte(`{"required_answer": ["A", "B"]}`), &payload); err != nil {
		t.Fatalf("array: %v", err)
	}
	if len(payload.Required) != 2 {
		t.Errorf("array form mis-parsed: %v", payload.Required)
	}

	if err := json.Unmarshal([]byte(`{"required_answer": null}`), &payload); err != nil {
		t.Fatalf("null: %v", err)
	}
	if payload.Required != nil {
		t.Errorf("null should clear the list: %v", payload.Required)
	}

	if err := json.Unmarshal([]byte(`{"required_answer": 7}`), &payload); err == nil {
		t.Errorf("numeric form should be rejected")
	}
}

func TestUnmarshalResponseStripsProse(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"is_complete\": true, \"new_questions\": []}\n```\nLet me know."
	var payload struct {
		IsComplete bool `json:"is_complete"`
	}
	if err := unmarshalResponse(raw, &payload); err != nil {
		t.Fatalf("unmarshalResponse: %v", err)
	}
	if !payload.IsComplete {
		t.Errorf("is_complete lost in extraction")
	}
}

func TestSummarizeContentTruncates(t *testing.T) {
	content := &models.GeneratedContent{
		Type: models.DocTypePRD,
		PRD:  &models.PRDContent{Title: "Invoices", Overview: strings.Repeat("long overview ", 100)},
	}

	summary := summarizeContent(content)
	if !strings.HasSuffix(summary, "...") {
		t.Errorf("oversized content should be truncated, got %d bytes", len(summary))
	}
	if !strings.Contains(summary, "Invoices") {
		t.Errorf("summary lost the leading content: %s", summary)
	}

	small := summarizeContent(&models.GeneratedContent{Type: models.DocTypePRD, PRD: &models.PRDContent{Title: "S"}})
	if strings.HasSuffix(small, "...") {
		t.Errorf("small content must not be truncated: %s", small)
	}
}

func TestUnmarshalResponseNoJSON(t *testing.T) {
	var v map[string]any
	if err := unmarshalResponse("sorry, I cannot do that", &v); err == nil {
		t.Fatalf("expected error when response has no JSON object")
	}
}
