package models

import "time"

// DocumentationType represents the kind of document an item produces.
type DocumentationType string

const (
	DocTypePRD       DocumentationType = "PRD"
	DocTypeEpic      DocumentationType = "Epic"
	DocTypeUserStory DocumentationType = "UserStory"
	DocTypeFRS       DocumentationType = "FRS"
)

// ItemStatus represents the current lifecycle state of a documentation item.
type ItemStatus string

const (
	StatusDraft             ItemStatus = "Draft"
	StatusInProgress        ItemStatus = "InProgress"
	StatusQuestionsComplete ItemStatus = "QuestionsComplete"
	StatusGenerated         ItemStatus = "Generated"
)

// DocumentationItem is a unit of documentation work inside a project. It owns
// an ordered set of questions and, once generated, the structured content.
type DocumentationItem struct {
	ID          string            `yaml:"id"`
	ProjectID   string            `yaml:"project_id"`
	Type        DocumentationType `yaml:"type"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Status      ItemStatus        `yaml:"status"`
	Deadline    string            `yaml:"deadline,omitempty"` // YYYY-MM-DD
	Content     *GeneratedContent `yaml:"content,omitempty"`
	Created     time.Time         `yaml:"created"`
	Updated     time.Time         `yaml:"updated"`
}
