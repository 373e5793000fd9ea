// Package storage provides YAML-file-backed persistence for projects,
// documentation items, and their question sets.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
	"gopkg.in/yaml.v3"
)

// ProjectsFile represents the top-level structure of projects.yaml.
type ProjectsFile struct {
	Version  string                    `yaml:"version"`
	Projects map[string]models.Project `yaml:"projects"`
}

// ProjectManager defines the interface for the central project registry.
type ProjectManager interface {
	AddProject(project models.Project) error
	UpdateProject(projectID string, updates models.Project) error
	RemoveProject(projectID string) error
	GetProject(projectID string) (*models.Project, error)
	GetAllProjects() ([]models.Project, error)
	Load() error
	Save() error
}

type fileProjectManager struct {
	basePath string
	data     ProjectsFile
}

// NewProjectManager creates a ProjectManager backed by a projects.yaml file
// in the given base directory.
func NewProjectManager(basePath string) ProjectManager {
	return &fileProjectManager{
		basePath: basePath,
		data: ProjectsFile{
			Version:  "1.0",
			Projects: make(map[string]models.Project),
		},
	}
}

func (m *fileProjectManager) filePath() string {
	return filepath.Join(m.basePath, "projects.yaml")
}

func (m *fileProjectManager) AddProject(project models.Project) error {
	if project.ID == "" {
		return fmt.Errorf("adding project: ID must not be empty")
	}
	if _, exists := m.data.Projects[project.ID]; exists {
		return fmt.Errorf("adding project: project %s already exists", project.ID)
	}
	m.data.Projects[project.ID] = project
	return nil
}

func (m *fileProjectManager) UpdateProject(projectID string, updates models.Project) error {
	existing, exists := m.data.Projects[projectID]
	if !exists {
		return fmt.Errorf("updating project: project %s not found", projectID)
	}

	if updates.Name != "" {
		existing.Name = updates.Name
	}
	if updates.Description != "" {
		existing.Description = updates.Description
	}
	if updates.Client != "" {
		existing.Client = updates.Client
	}
	if updates.Status != "" {
		existing.Status = updates.Status
	}
	if updates.KnowledgeBase != "" {
		existing.KnowledgeBase = updates.KnowledgeBase
	}
	if !updates.Updated.IsZero() {
		existing.Updated = updates.Updated
	}

	m.data.Projects[projectID] = existing
	return nil
}

func (m *fileProjectManager) RemoveProject(projectID string) error {
	if _, exists := m.data.Projects[projectID]; !exists {
		return fmt.Errorf("removing project: project %s not found", projectID)
	}
	delete(m.data.Projects, projectID)
	return nil
}

func (m *fileProjectManager) GetProject(projectID string) (*models.Project, error) {
	project, exists := m.data.Projects[projectID]
	if !exists {
		return nil, fmt.Errorf("project %s not found", projectID)
	}
	return &project, nil
}

func (m *fileProjectManager) GetAllProjects() ([]models.Project, error) {
	projects := make([]models.Project, 0, len(m.data.Projects))
	for _, p := range m.data.Projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ID < projects[j].ID
	})
	return projects, nil
}

func (m *fileProjectManager) Load() error {
	data, err := os.ReadFile(m.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			m.data = ProjectsFile{
				Version:  "1.0",
				Projects: make(map[string]models.Project),
			}
			return nil
		}
		return fmt.Errorf("loading projects: %w", err)
	}

	var pf ProjectsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("loading projects: parsing YAML: %w", err)
	}
	if pf.Projects == nil {
		pf.Projects = make(map[string]models.Project)
	}
	m.data = pf
	return nil
}

func (m *fileProjectManager) Save() error {
	if err := os.MkdirAll(m.basePath, 0o750); err != nil {
		return fmt.Errorf("saving projects: creating directory: %w", err)
	}
	data, err := yaml.Marshal(&m.data)
	if err != nil {
		return fmt.Errorf("saving projects: marshaling YAML: %w", err)
	}
	if err := os.WriteFile(m.filePath(), data, 0o600); err != nil {
		return fmt.Errorf("saving projects: writing file: %w", err)
	}
	return nil
}
