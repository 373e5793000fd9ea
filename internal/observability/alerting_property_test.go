package observability

import (
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

// =============================================================================
// Generators
// =============================================================================

// genItemID generates a random item ID in ITEM-XXXXX format.
func genItemID(t *rapid.T, label string) string {
	num := rapid.IntRange(1, 99999).Draw(t, label)
	return fmt.Sprintf("ITEM-%05d", num)
}

var genStatus = rapid.SampledFrom([]models.ItemStatus{
	models.StatusDraft,
	models.StatusInProgress,
	models.StatusQuestionsComplete,
	models.StatusGenerated,
})

// genItems generates documentation items with random statuses, deadlines,
// and activity timestamps.
func genItems(t *rapid.T) []*models.DocumentationItem {
	now := time.Now().UTC()
	numItems := rapid.IntRange(0, 12).Draw(t, "numItems")

	seen := make(map[string]bool)
	var items []*models.DocumentationItem
	for i := 0; i < numItems; i++ {
		id := genItemID(t, fmt.Sprintf("itemID_%d", i))
		if seen[id] {
			continue
		}
		seen[id] = true

		item := &models.DocumentationItem{
			ID:      id,
			Title:   fmt.Sprintf("item %d", i),
			Status:  genStatus.Draw(t, fmt.Sprintf("status_%d", i)),
			Updated: now.Add(-time.Duration(rapid.IntRange(0, 400).Draw(t, fmt.Sprintf("ageHours_%d", i))) * time.Hour),
		}
		if rapid.Bool().Draw(t, fmt.Sprintf("hasDeadline_%d", i)) {
			offsetDays := rapid.IntRange(-20, 20).Draw(t, fmt.Sprintf("deadlineOffset_%d", i))
			item.Deadline = now.Add(time.Duration(offsetDays) * 24 * time.Hour).Format("2006-01-02")
		}
		items = append(items, item)
	}
	return items
}

// =============================================================================
// Generated Items Never Alert
// =============================================================================

// Feature: observability. *For any* set of items, the AlertEngine SHALL never
// emit a per-item alert for an item whose status is Generated, regardless of
// its deadline or age.
func TestAlertsGeneratedItemsExcluded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		items := genItems(rt)
		generated := make(map[string]bool)
		for _, item := range items {
			if item.Status == models.StatusGenerated {
				generated[item.ID] = true
			}
		}

		log, err := NewJSONLEventLog(t.TempDir() + "/events.jsonl")
		if err != nil {
			t.Fatalf("creating event log: %v", err)
		}
		defer log.Close()

		engine := NewAlertEngine(&fakeItemLister{items: items}, log, DefaultAlertThresholds())
		alerts, err := engine.Evaluate()
		if err != nil {
			t.Fatalf("evaluating alerts: %v", err)
		}

		for _, alert := range alerts {
			for id := range generated {
				if alert.Condition != "too_many_open_items" && containsID(alert, id) {
					rt.Errorf("alert %s fired for generated item %s", alert.Condition, id)
				}
			}
		}
	})
}

func containsID(alert Alert, id string) bool {
	return alert.ID == "overdue-"+id || alert.ID == "due-"+id || alert.ID == "stale-"+id
}

// =============================================================================
// Alert Severity Is Fixed Per Condition
// =============================================================================

// Feature: observability. *For any* set of items, every emitted alert SHALL
// carry the severity defined for its condition: overdue is high, approaching
// and stale are medium, open-item pressure is low.
func TestAlertSeverityPerCondition(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		items := genItems(rt)

		log, err := NewJSONLEventLog(t.TempDir() + "/events.jsonl")
		if err != nil {
			t.Fatalf("creating event log: %v", err)
		}
		defer log.Close()

		thresholds := AlertThresholds{
			DeadlineWarningDays: rapid.IntRange(1, 7).Draw(rt, "warningDays"),
			StaleDays:           rapid.IntRange(1, 14).Draw(rt, "staleDays"),
			MaxOpenItems:        rapid.IntRange(1, 10).Draw(rt, "maxOpen"),
		}
		engine := NewAlertEngine(&fakeItemLister{items: items}, log, thresholds)
		alerts, err := engine.Evaluate()
		if err != nil {
			t.Fatalf("evaluating alerts: %v", err)
		}

		want := map[string]AlertSeverity{
			"item_overdue":         SeverityHigh,
			"deadline_approaching": SeverityMedium,
			"item_stale":           SeverityMedium,
			"too_many_open_items":  SeverityLow,
		}
		for _, alert := range alerts {
			expected, ok := want[alert.Condition]
			if !ok {
				rt.Errorf("unknown alert condition %q", alert.Condition)
				continue
			}
			if alert.Severity != expected {
				rt.Errorf("condition %s: severity %s, want %s", alert.Condition, alert.Severity, expected)
			}
		}
	})
}
