package observability

import (
	"path/filepath"
	"testing"
	"time"
)

func TestMetricsCalculator_Calculate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	defer log.Close()

	base := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	events := []Event{
		{
			Time:    base,
			Level:   "INFO",
			Type:    "item.created",
			Message: "item created",
			Data:    map[string]any{"item_id": "ITEM-00001", "type": "PRD", "questions": 10},
		},
		{
			Time:    base.Add(time.Hour),
			Level:   "INFO",
			Type:    "item.created",
			Message: "item created",
			Data:    map[string]any{"item_id": "ITEM-00002", "type": "UserStory", "questions": 8},
		},
		{
			Time:    base.Add(2 * time.Hour),
			Level:   "INFO",
			Type:    "answer.submitted",
			Message: "answer submitted",
			Data:    map[string]any{"item_id": "ITEM-00001", "question_id": "Q1"},
		},
		{
			Time:    base.Add(3 * time.Hour),
			Level:   "INFO",
			Type:    "item.validated",
			Message: "validation incomplete",
			Data:    map[string]any{"item_id": "ITEM-00001", "complete": false, "new_questions": 2},
		},
		{
			Time:    base.Add(4 * time.Hour),
			Level:   "INFO",
			Type:    "item.validated",
			Message: "validation passed",
			Data:    map[string]any{"item_id": "ITEM-00001", "complete": true, "new_questions": 0},
		},
		{
			Time:    base.Add(5 * time.Hour),
			Level:   "INFO",
			Type:    "item.generated",
			Message: "content generated",
			Data:    map[string]any{"item_id": "ITEM-00001", "type": "PRD"},
		},
		{
			Time:    base.Add(6 * time.Hour),
			Level:   "INFO",
			Type:    "item.regenerated",
			Message: "content regenerated",
			Data:    map[string]any{"item_id": "ITEM-00001", "feedback": true},
		},
	}

	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	calc := NewMetricsCalculator(log)
	m, err := calc.Calculate(base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("calculating metrics: %v", err)
	}

	if m.ItemsCreated != 2 {
		t.Errorf("expected 2 items created, got %d", m.ItemsCreated)
	}
	if m.QuestionsGenerated != 18 {
		t.Errorf("expected 18 questions generated, got %d", m.QuestionsGenerated)
	}
	if m.AnswersSubmitted != 1 {
		t.Errorf("expected 1 answer submitted, got %d", m.AnswersSubmitted)
	}
	if m.Validations != 2 {
		t.Errorf("expected 2 validations, got %d", m.Validations)
	}
	if m.ValidationsPassed != 1 {
		t.Errorf("expected 1 validation passed, got %d", m.ValidationsPassed)
	}
	if m.FollowUpQuestions != 2 {
		t.Errorf("expected 2 follow-up questions, got %d", m.FollowUpQuestions)
	}
	if m.ItemsGenerated != 1 {
		t.Errorf("expected 1 item generated, got %d", m.ItemsGenerated)
	}
	if m.Regenerations != 1 {
		t.Errorf("expected 1 regeneration, got %d", m.Regenerations)
	}
	if m.EventCount != 7 {
		t.Errorf("expected 7 events, got %d", m.EventCount)
	}
	if m.ItemsByType["PRD"] != 1 {
		t.Errorf("expected 1 PRD item, got %d", m.ItemsByType["PRD"])
	}
	if m.ItemsByType["UserStory"] != 1 {
		t.Errorf("expected 1 UserStory item, got %d", m.ItemsByType["UserStory"])
	}
	if m.OldestEvent == nil || !m.OldestEvent.Equal(base) {
		t.Errorf("expected oldest event at %v, got %v", base, m.OldestEvent)
	}
	expectedNewest := base.Add(6 * time.Hour)
	if m.NewestEvent == nil || !m.NewestEvent.Equal(expectedNewest) {
		t.Errorf("expected newest event at %v, got %v", expectedNewest, m.NewestEvent)
	}
}

func TestMetricsCalculator_EmptyLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	defer log.Close()

	calc := NewMetricsCalculator(log)
	m, err := calc.Calculate(time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("calculating metrics: %v", err)
	}

	if m.ItemsCreated != 0 {
		t.Errorf("expected 0 items created, got %d", m.ItemsCreated)
	}
	if m.EventCount != 0 {
		t.Errorf("expected 0 events, got %d", m.EventCount)
	}
	if m.OldestEvent != nil {
		t.Errorf("expected nil oldest event, got %v", m.OldestEvent)
	}
}

func TestMetricsCalculator_FiltersBySince(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	defer log.Close()

	base := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	events := []Event{
		{Time: base, Level: "INFO", Type: "item.created", Message: "old item", Data: map[string]any{"item_id": "ITEM-00001", "type": "PRD"}},
		{Time: base.Add(48 * time.Hour), Level: "INFO", Type: "item.created", Message: "new item", Data: map[string]any{"item_id": "ITEM-00002", "type": "Epic"}},
	}

	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	calc := NewMetricsCalculator(log)
	m, err := calc.Calculate(base.Add(24 * time.Hour))
	if err != nil {
		t.Fatalf("calculating metrics: %v", err)
	}

	if m.ItemsCreated != 1 {
		t.Errorf("expected 1 item created after since filter, got %d", m.ItemsCreated)
	}
	if m.EventCount != 1 {
		t.Errorf("expected 1 event after since filter, got %d", m.EventCount)
	}
}
