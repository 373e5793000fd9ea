package models

import "time"

// ProjectStatus represents the current state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "Active"
	ProjectOnHold    ProjectStatus = "On Hold"
	ProjectCompleted ProjectStatus = "Completed"
	ProjectArchived  ProjectStatus = "Archived"
)

// Project groups documentation items for a single client engagement.
// KnowledgeBase is the cumulative free-text context distilled from every
// generated document; it grows over the life of the project and is fed back
// into generation prompts.
type Project struct {
	ID            string        `yaml:"id"`
	Name          string        `yaml:"name"`
	Description   string        `yaml:"description"`
	Client        string        `yaml:"client,omitempty"`
	Status        ProjectStatus `yaml:"status"`
	KnowledgeBase string        `yaml:"knowledge_base,omitempty"`
	Created       time.Time     `yaml:"created"`
	Updated       time.Time     `yaml:"updated"`
}
