package observability

import (
	"fmt"
	"time"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// deadlineLayout is the calendar-date format deadlines are stored in.
const deadlineLayout = "2006-01-02"

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts should fire.
type AlertThresholds struct {
	DeadlineWarningDays int `yaml:"deadline_warning_days" json:"deadline_warning_days"`
	StaleDays           int `yaml:"stale_threshold_days" json:"stale_threshold_days"`
	MaxOpenItems        int `yaml:"max_open_items" json:"max_open_items"`
}

// DefaultAlertThresholds returns sensible defaults for alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		DeadlineWarningDays: 3,
		StaleDays:           5,
		MaxOpenItems:        15,
	}
}

// ItemLister is the subset of the item store the alert engine needs. An
// empty project id means all items.
type ItemLister interface {
	ListItems(projectID string) ([]*models.DocumentationItem, error)
}

// AlertEngine evaluates alert conditions against the item store and the
// event log.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

type alertEngine struct {
	items      ItemLister
	eventLog   EventLog
	thresholds AlertThresholds
}

// NewAlertEngine creates a new AlertEngine with the given item source,
// EventLog, and thresholds.
func NewAlertEngine(items ItemLister, eventLog EventLog, thresholds AlertThresholds) AlertEngine {
	return &alertEngine{
		items:      items,
		eventLog:   eventLog,
		thresholds: thresholds,
	}
}

// Evaluate checks all alert conditions, returning any triggered alerts.
// Items that already reached Generated never alert.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	now := time.Now().UTC()

	items, err := ae.items.ListItems("")
	if err != nil {
		return nil, fmt.Errorf("listing items for alerts: %w", err)
	}

	open := make([]*models.DocumentationItem, 0, len(items))
	for _, item := range items {
		if item.Status != models.StatusGenerated {
			open = append(open, item)
		}
	}

	alerts := ae.checkDeadlines(now, open)

	staleAlerts, err := ae.checkStaleItems(now, open)
	if err != nil {
		return nil, fmt.Errorf("checking stale items: %w", err)
	}
	alerts = append(alerts, staleAlerts...)

	if ae.thresholds.MaxOpenItems > 0 && len(open) > ae.thresholds.MaxOpenItems {
		alerts = append(alerts, Alert{
			ID:          "open-items",
			Condition:   "too_many_open_items",
			Severity:    SeverityLow,
			Message:     fmt.Sprintf("%d documentation items are still open, exceeding the maximum of %d", len(open), ae.thresholds.MaxOpenItems),
			TriggeredAt: now,
		})
	}

	return alerts, nil
}

// checkDeadlines flags open items whose deadline has passed or is close.
// Unparseable or missing deadlines are skipped.
func (ae *alertEngine) checkDeadlines(now time.Time, open []*models.DocumentationItem) []Alert {
	warning := time.Duration(ae.thresholds.DeadlineWarningDays) * 24 * time.Hour
	var alerts []Alert
	for _, item := range open {
		if item.Deadline == "" {
			continue
		}
		due, err := time.Parse(deadlineLayout, item.Deadline)
		if err != nil {
			continue
		}
		// The whole deadline day still counts as on time.
		due = due.Add(24 * time.Hour)

		switch {
		case now.After(due):
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("overdue-%s", item.ID),
				Condition:   "item_overdue",
				Severity:    SeverityHigh,
				Message:     fmt.Sprintf("item %s (%s) missed its %s deadline and is not generated", item.ID, item.Title, item.Deadline),
				TriggeredAt: now,
			})
		case due.Sub(now) <= warning:
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("due-%s", item.ID),
				Condition:   "deadline_approaching",
				Severity:    SeverityMedium,
				Message:     fmt.Sprintf("item %s (%s) is due %s and is not generated yet", item.ID, item.Title, item.Deadline),
				TriggeredAt: now,
			})
		}
	}
	return alerts
}

// checkStaleItems flags open items with no event activity past the threshold.
// Items absent from the log fall back to their Updated timestamp.
func (ae *alertEngine) checkStaleItems(now time.Time, open []*models.DocumentationItem) ([]Alert, error) {
	events, err := ae.eventLog.Read(EventFilter{})
	if err != nil {
		return nil, err
	}

	lastActivity := make(map[string]time.Time)
	for _, event := range events {
		itemID, _ := event.Data["item_id"].(string)
		if itemID == "" {
			continue
		}
		if event.Time.After(lastActivity[itemID]) {
			lastActivity[itemID] = event.Time
		}
	}

	threshold := time.Duration(ae.thresholds.StaleDays) * 24 * time.Hour
	var alerts []Alert
	for _, item := range open {
		last, ok := lastActivity[item.ID]
		if !ok {
			last = item.Updated
		}
		if now.Sub(last) > threshold {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("stale-%s", item.ID),
				Condition:   "item_stale",
				Severity:    SeverityMedium,
				Message:     fmt.Sprintf("item %s (%s) has had no activity for more than %d days", item.ID, item.Title, ae.thresholds.StaleDays),
				TriggeredAt: now,
			})
		}
	}

	return alerts, nil
}
