// Package internal provides the App struct that wires all components of the
// ba-ai system together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"
	"time"

	"github.com/FedericoDamboreana/ba-ai/internal/cli"
	"github.com/FedericoDamboreana/ba-ai/internal/core"
	"github.com/FedericoDamboreana/ba-ai/internal/generation"
	"github.com/FedericoDamboreana/ba-ai/internal/observability"
	"github.com/FedericoDamboreana/ba-ai/internal/storage"
	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

// App holds all service dependencies for the ba-ai system.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Storage layer
	ProjectMgr  storage.ProjectManager
	ItemMgr     storage.ItemManager
	QuestionMgr storage.QuestionManager

	// Core services
	Workflow     core.ItemWorkflow
	ItemIDGen    core.IDGenerator
	ProjectIDGen core.IDGenerator

	// Generation backend. Nil when no API key is configured; the workflow
	// degrades to local operations only.
	GenClient *generation.Client

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components of the ba-ai system. basePath is
// the root directory where all data is stored (typically the directory
// containing .baconfig).
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	// --- Storage layer ---
	app.ProjectMgr = storage.NewProjectManager(basePath)
	_ = app.ProjectMgr.Load() // Non-fatal: empty registry on first use.
	app.ItemMgr = storage.NewItemManager(basePath)
	app.QuestionMgr = storage.NewQuestionManager(basePath)

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, observability.DefaultLogName)
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: disable observability if log can't be created.
		app.EventLog = nil
	}
	if app.EventLog != nil {
		thresholds := observability.DefaultAlertThresholds()
		if cfg.Notifications.Alerts.DeadlineWarningDays > 0 {
			thresholds.DeadlineWarningDays = cfg.Notifications.Alerts.DeadlineWarningDays
		}
		if cfg.Notifications.Alerts.StaleDays > 0 {
			thresholds.StaleDays = cfg.Notifications.Alerts.StaleDays
		}
		if cfg.Notifications.Alerts.MaxOpenItems > 0 {
			thresholds.MaxOpenItems = cfg.Notifications.Alerts.MaxOpenItems
		}
		app.AlertEngine = observability.NewAlertEngine(app.ItemMgr, app.EventLog, thresholds)
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	if cfg.Notifications.Enabled && cfg.Notifications.Slack.WebhookURL != "" {
		app.Notifier = observability.NewSlackNotifier(cfg.Notifications.Slack.WebhookURL)
	}

	// --- Generation backend ---
	// The API key comes from the ANTHROPIC_API_KEY environment variable.
	// Missing key is non-fatal: local commands keep working.
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if client, clientErr := generation.NewClient("", cfg.Model, timeout); clientErr == nil {
		app.GenClient = client
	}

	// --- Core services ---
	app.ItemIDGen = core.NewIDGenerator(basePath, cfg.ItemIDPrefix, 5)
	app.ProjectIDGen = core.NewIDGenerator(basePath, cfg.ProjectIDPrefix, 5)

	var evtAdapter core.EventLogger
	if app.EventLog != nil {
		evtAdapter = &eventLogAdapter{log: app.EventLog}
	}
	var svc core.GenerationService
	var qgen core.QuestionGenerator
	if app.GenClient != nil {
		svc = app.GenClient
		qgen = app.GenClient
	}
	app.Workflow = core.NewItemWorkflow(
		app.ItemMgr,
		app.QuestionMgr,
		&projectStoreAdapter{mgr: app.ProjectMgr},
		svc,
		qgen,
		app.ItemIDGen,
		evtAdapter,
	)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Workflow = app.Workflow
	cli.ProjectMgr = app.ProjectMgr
	cli.ItemMgr = app.ItemMgr
	cli.ProjectIDGen = app.ProjectIDGen
	cli.WorkspaceInit = core.NewWorkspaceInitializer()

	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the base path for the ba-ai data directory. It
// checks the BA_HOME env var, then walks up from the current directory
// looking for a .baconfig file.
func ResolveBasePath() string {
	if home := os.Getenv("BA_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".baconfig")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	// Fall back to cwd.
	cwd, _ := os.Getwd()
	return cwd
}

// --- Adapters ---

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	return a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   "INFO",
		Type:    eventType,
		Message: eventType,
		Data:    data,
	})
}

// projectStoreAdapter adapts storage.ProjectManager to core.ProjectStore.
type projectStoreAdapter struct {
	mgr storage.ProjectManager
}

func (a *projectStoreAdapter) LoadProject(projectID string) (*models.Project, error) {
	return a.mgr.GetProject(projectID)
}

func (a *projectStoreAdapter) SaveProject(project *models.Project) error {
	if err := a.mgr.UpdateProject(project.ID, *project); err != nil {
		return err
	}
	return a.mgr.Save()
}
