package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// InitConfig holds the parameters for initializing a data workspace.
type InitConfig struct {
	BasePath      string
	Model         string
	ItemPrefix    string
	ProjectPrefix string
}

// InitResult holds a summary of what was created vs. skipped.
type InitResult struct {
	Created []string
	Skipped []string
}

// WorkspaceInitializer defines the interface for scaffolding a ba-ai data
// directory with its configuration file, project registry, and item storage.
type WorkspaceInitializer interface {
	Init(config InitConfig) (*InitResult, error)
}

type workspaceInitializer struct{}

// NewWorkspaceInitializer creates a new WorkspaceInitializer.
func NewWorkspaceInitializer() WorkspaceInitializer {
	return &workspaceInitializer{}
}

const baconfigTemplate = `generation:
  model: {{printf "%q" .Model}}
  request_timeout_seconds: 120

ids:
  item_prefix: {{printf "%q" .ItemPrefix}}
  project_prefix: {{printf "%q" .ProjectPrefix}}

defaults:
  language: en

notifications:
  enabled: false
  slack:
    webhook_url: ""
  alerts:
    deadline_warning_days: 3
    stale_days: 14
    max_open_items: 25
`

const gitignoreContent = `# Event log grows without bound; keep it out of version control.
.ba_events.jsonl
`

// Init creates the workspace directory structure and seed files. It is safe
// to run on an existing workspace: files and directories that already exist
// are skipped and not overwritten.
func (wi *workspaceInitializer) Init(config InitConfig) (*InitResult, error) {
	result := &InitResult{}

	if config.Model == "" {
		config.Model = defaultConfig().Model
	}
	if config.ItemPrefix == "" {
		config.ItemPrefix = defaultConfig().ItemIDPrefix
	}
	if config.ProjectPrefix == "" {
		config.ProjectPrefix = defaultConfig().ProjectIDPrefix
	}
	if !validPrefixPattern.MatchString(config.ItemPrefix) {
		return nil, fmt.Errorf("initializing workspace: item prefix %q is invalid, must match [A-Z0-9]{1,10}", config.ItemPrefix)
	}
	if !validPrefixPattern.MatchString(config.ProjectPrefix) {
		return nil, fmt.Errorf("initializing workspace: project prefix %q is invalid, must match [A-Z0-9]{1,10}", config.ProjectPrefix)
	}

	dirs := []string{
		config.BasePath,
		filepath.Join(config.BasePath, "items"),
	}
	for _, dir := range dirs {
		created, err := ensureDir(dir)
		if err != nil {
			return nil, fmt.Errorf("initializing workspace: creating directory %s: %w", dir, err)
		}
		if created {
			result.Created = append(result.Created, dir)
		} else {
			result.Skipped = append(result.Skipped, dir)
		}
	}

	// Write .baconfig.yaml rendered with text/template.
	configPath := filepath.Join(config.BasePath, ".baconfig.yaml")
	if err := wi.writeFileIfNotExists(configPath, func() ([]byte, error) {
		return renderInitTemplate("baconfig", baconfigTemplate, config)
	}, result); err != nil {
		return nil, err
	}

	// Write the empty project registry.
	registryPath := filepath.Join(config.BasePath, "projects.yaml")
	if err := wi.writeFileIfNotExists(registryPath, func() ([]byte, error) {
		return []byte("version: \"1.0\"\nprojects: {}\n"), nil
	}, result); err != nil {
		return nil, err
	}

	// Seed the ID counter files.
	counters := []string{
		"." + strings.ToLower(config.ItemPrefix) + "_counter",
		"." + strings.ToLower(config.ProjectPrefix) + "_counter",
	}
	for _, name := range counters {
		if err := wi.writeFileIfNotExists(filepath.Join(config.BasePath, name), func() ([]byte, error) {
			return []byte("0"), nil
		}, result); err != nil {
			return nil, err
		}
	}

	// Write .gitignore.
	gitignorePath := filepath.Join(config.BasePath, ".gitignore")
	if err := wi.writeFileIfNotExists(gitignorePath, func() ([]byte, error) {
		return []byte(gitignoreContent), nil
	}, result); err != nil {
		return nil, err
	}

	return result, nil
}

// ensureDir creates a directory if it does not exist. Returns true if created.
func ensureDir(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return false, err
	}
	return true, nil
}

// writeFileIfNotExists writes content from contentFn if the file does not exist.
// It records created/skipped in the result.
func (wi *workspaceInitializer) writeFileIfNotExists(path string, contentFn func() ([]byte, error), result *InitResult) error {
	if _, err := os.Stat(path); err == nil {
		result.Skipped = append(result.Skipped, path)
		return nil
	}
	content, err := contentFn()
	if err != nil {
		return fmt.Errorf("initializing workspace: generating content for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("initializing workspace: writing %s: %w", path, err)
	}
	result.Created = append(result.Created, path)
	return nil
}

// renderInitTemplate renders a seed file template with the given data.
func renderInitTemplate(name, tmplContent string, data interface{}) ([]byte, error) {
	tmpl, err := template.New(name).Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
