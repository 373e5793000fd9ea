package observability

import (
	"fmt"
	"time"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	ItemsCreated       int            `json:"items_created"`
	ItemsByType        map[string]int `json:"items_by_type"`
	QuestionsGenerated int            `json:"questions_generated"`
	AnswersSubmitted   int            `json:"answers_submitted"`
	Validations        int            `json:"validations"`
	ValidationsPassed  int            `json:"validations_passed"`
	FollowUpQuestions  int            `json:"follow_up_questions"`
	ItemsGenerated     int            `json:"items_generated"`
	Regenerations      int            `json:"regenerations"`
	EventCount         int            `json:"event_count"`
	OldestEvent        *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent        *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		ItemsByType: make(map[string]int),
	}

	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case "item.created":
			m.ItemsCreated++
			if docType, ok := event.Data["type"].(string); ok {
				m.ItemsByType[docType]++
			}
			m.QuestionsGenerated += dataInt(event.Data, "questions")
		case "answer.submitted":
			m.AnswersSubmitted++
		case "item.validated":
			m.Validations++
			if complete, ok := event.Data["complete"].(bool); ok && complete {
				m.ValidationsPassed++
			}
			m.FollowUpQuestions += dataInt(event.Data, "new_questions")
		case "item.generated":
			m.ItemsGenerated++
		case "item.regenerated":
			m.Regenerations++
		}
	}

	return m, nil
}

// dataInt reads a numeric event field. JSON round-trips numbers as float64,
// so both forms are accepted.
func dataInt(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
