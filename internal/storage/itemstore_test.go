package storage

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/FedericoDamboreana/ba-ai/internal/core"
	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

func sampleItem(id, projectID string, created time.Time) *models.DocumentationItem {
	return &models.DocumentationItem{
		ID:          id,
		ProjectID:   projectID,
		Type:        models.DocTypeUserStory,
		Title:       "checkout-flow",
		Description: "streamline checkout",
		Status:      models.StatusDraft,
		Deadline:    "2025-03-01",
		Created:     created,
		Updated:     created,
	}
}

func TestItemSaveLoadRoundTrip(t *testing.T) {
	m := NewItemManager(t.TempDir())
	created := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	item := sampleItem("ITEM-00001", "PROJ-00001", created)
	item.Content = &models.GeneratedContent{
		Type: models.DocTypeUserStory,
		UserStory: &models.UserStoryContent{
			Title: "Checkout",
			Story: models.StoryStatement{AsA: "shopper", IWant: "fast checkout", SoThat: "I buy more"},
		},
	}

	if err := m.SaveItem(item); err != nil {
		t.Fatalf("saving item: %v", err)
	}

	loaded, err := m.LoadItem("ITEM-00001")
	if err != nil {
		t.Fatalf("loading item: %v", err)
	}
	if loaded.Title != item.Title || loaded.Status != item.Status || loaded.Deadline != item.Deadline {
		t.Errorf("unexpected item after reload: %+v", loaded)
	}
	if loaded.Content == nil || loaded.Content.UserStory == nil || loaded.Content.UserStory.Title != "Checkout" {
		t.Errorf("content lost in round trip: %+v", loaded.Content)
	}
	if !loaded.Created.Equal(created) {
		t.Errorf("created timestamp drifted: %v", loaded.Created)
	}
}

func TestItemLoadMissing(t *testing.T) {
	m := NewItemManager(t.TempDir())

	_, err := m.LoadItem("ITEM-99999")
	if !errors.Is(err, core.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestItemSaveEmptyID(t *testing.T) {
	m := NewItemManager(t.TempDir())
	if err := m.SaveItem(&models.DocumentationItem{}); err == nil {
		t.Fatal("expected error for empty item id")
	}
}

func TestListItemsFiltersByProject(t *testing.T) {
	m := NewItemManager(t.TempDir())
	base := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	for i, projectID := range []string{"PROJ-00001", "PROJ-00001", "PROJ-00002"} {
		item := sampleItem(itemID(i+1), projectID, base.Add(time.Duration(i)*time.Hour))
		if err := m.SaveItem(item); err != nil {
			t.Fatalf("saving item %d: %v", i, err)
		}
	}

	items, err := m.ListItems("PROJ-00001")
	if err != nil {
		t.Fatalf("listing items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items for project, got %d", len(items))
	}

	all, err := m.ListItems("")
	if err != nil {
		t.Fatalf("listing all items: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 items total, got %d", len(all))
	}
}

func TestListItemsNewestFirst(t *testing.T) {
	m := NewItemManager(t.TempDir())
	base := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		item := sampleItem(itemID(i+1), "PROJ-00001", base.Add(time.Duration(i)*time.Hour))
		if err := m.SaveItem(item); err != nil {
			t.Fatalf("saving item %d: %v", i, err)
		}
	}

	items, err := m.ListItems("")
	if err != nil {
		t.Fatalf("listing items: %v", err)
	}
	for i, want := range []string{"ITEM-00003", "ITEM-00002", "ITEM-00001"} {
		if items[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, items[i].ID)
		}
	}
}

func TestListItemsEmptyDir(t *testing.T) {
	m := NewItemManager(t.TempDir())
	items, err := m.ListItems("")
	if err != nil {
		t.Fatalf("listing from empty dir: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestDeleteItemRemovesQuestions(t *testing.T) {
	dir := t.TempDir()
	items := NewItemManager(dir)
	questions := NewQuestionManager(dir)

	item := sampleItem("ITEM-00001", "PROJ-00001", time.Now().UTC())
	if err := items.SaveItem(item); err != nil {
		t.Fatalf("saving item: %v", err)
	}
	if err := questions.SaveQuestions("ITEM-00001", []*models.Question{
		{ID: "Q1", Text: "a", Type: models.QuestionTypeText},
	}); err != nil {
		t.Fatalf("saving questions: %v", err)
	}

	if err := items.DeleteItem("ITEM-00001"); err != nil {
		t.Fatalf("deleting item: %v", err)
	}

	if _, err := items.LoadItem("ITEM-00001"); !errors.Is(err, core.ErrItemNotFound) {
		t.Errorf("expected item gone, got %v", err)
	}
	qs, err := questions.LoadQuestions("ITEM-00001")
	if err != nil {
		t.Fatalf("loading questions after delete: %v", err)
	}
	if len(qs) != 0 {
		t.Error("questions must not outlive their item")
	}
}

func TestDeleteItemMissing(t *testing.T) {
	m := NewItemManager(t.TempDir())
	if err := m.DeleteItem("ITEM-99999"); !errors.Is(err, core.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func itemID(n int) string {
	return fmt.Sprintf("ITEM-%05d", n)
}
