package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/FedericoDamboreana/ba-ai/internal/core"
	"github.com/FedericoDamboreana/ba-ai/pkg/models"
	"gopkg.in/yaml.v3"
)

// ItemManager persists documentation items, one directory per item under
// basePath/items/{itemID}/item.yaml. It satisfies core.ItemStore.
type ItemManager interface {
	core.ItemStore
	ListItems(projectID string) ([]*models.DocumentationItem, error)
	DeleteItem(itemID string) error
}

type fileItemManager struct {
	basePath string
}

// NewItemManager creates an ItemManager rooted at basePath.
func NewItemManager(basePath string) ItemManager {
	return &fileItemManager{basePath: basePath}
}

func (m *fileItemManager) itemDir(itemID string) string {
	return filepath.Join(m.basePath, "items", itemID)
}

func (m *fileItemManager) itemPath(itemID string) string {
	return filepath.Join(m.itemDir(itemID), "item.yaml")
}

// LoadItem reads an item from its item.yaml file. A missing file maps to
// core.ErrItemNotFound so the workflow can discard stale remote results.
func (m *fileItemManager) LoadItem(itemID string) (*models.DocumentationItem, error) {
	data, err := os.ReadFile(m.itemPath(itemID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("item %s: %w", itemID, core.ErrItemNotFound)
		}
		return nil, fmt.Errorf("reading item.yaml for %s: %w", itemID, err)
	}

	var item models.DocumentationItem
	if err := yaml.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("parsing item.yaml for %s: %w", itemID, err)
	}
	return &item, nil
}

// SaveItem writes the item back to its item.yaml file.
func (m *fileItemManager) SaveItem(item *models.DocumentationItem) error {
	if item.ID == "" {
		return fmt.Errorf("saving item: ID must not be empty")
	}
	if err := os.MkdirAll(m.itemDir(item.ID), 0o750); err != nil {
		return fmt.Errorf("saving item %s: creating directory: %w", item.ID, err)
	}
	data, err := yaml.Marshal(item)
	if err != nil {
		return fmt.Errorf("saving item %s: marshaling YAML: %w", item.ID, err)
	}
	if err := os.WriteFile(m.itemPath(item.ID), data, 0o600); err != nil {
		return fmt.Errorf("saving item %s: writing file: %w", item.ID, err)
	}
	return nil
}

// ListItems returns all items belonging to a project, ordered by creation
// time (newest first), matching the presentation layer's expectations.
// An empty projectID returns every item.
func (m *fileItemManager) ListItems(projectID string) ([]*models.DocumentationItem, error) {
	itemsDir := filepath.Join(m.basePath, "items")
	entries, err := os.ReadDir(itemsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing items: %w", err)
	}

	var items []*models.DocumentationItem
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		item, err := m.LoadItem(entry.Name())
		if err != nil {
			continue // skip unreadable entries
		}
		if projectID != "" && item.ProjectID != projectID {
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Created.After(items[j].Created)
	})
	return items, nil
}

// DeleteItem removes an item's directory, questions included. Questions
// never outlive their owning item.
func (m *fileItemManager) DeleteItem(itemID string) error {
	dir := m.itemDir(itemID)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("item %s: %w", itemID, core.ErrItemNotFound)
		}
		return fmt.Errorf("deleting item %s: %w", itemID, err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("deleting item %s: %w", itemID, err)
	}
	return nil
}
