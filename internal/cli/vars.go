package cli

import (
	"github.com/FedericoDamboreana/ba-ai/internal/core"
	"github.com/FedericoDamboreana/ba-ai/internal/observability"
	"github.com/FedericoDamboreana/ba-ai/internal/storage"
)

// BasePath is the data directory all stores are rooted at, set during app
// initialization in app.go.
var BasePath string

// Service instances, set during app initialization in app.go.
var (
	Workflow     core.ItemWorkflow
	ProjectMgr   storage.ProjectManager
	ItemMgr      storage.ItemManager
	ProjectIDGen core.IDGenerator
)

// Observability service instances, set during app initialization in app.go.
var (
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
)
