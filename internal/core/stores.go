package core

import (
	"context"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

// QuestionStore persists the question set of an item. Implementations must
// preserve insertion order and question identity across loads.
// Defined here so core stays independent of the storage package.
type QuestionStore interface {
	LoadQuestions(itemID string) ([]*models.Question, error)
	SaveQuestions(itemID string, questions []*models.Question) error
}

// ItemStore persists documentation items (status and generated content).
type ItemStore interface {
	LoadItem(itemID string) (*models.DocumentationItem, error)
	SaveItem(item *models.DocumentationItem) error
}

// ValidationResult is the generation service's answer to a validate call.
// NewQuestions, when present, are follow-up questions the service wants
// answered before it considers the item complete.
type ValidationResult struct {
	IsComplete   bool
	NewQuestions []*models.Question
}

// GenerationService is the external AI backend. All calls are fallible remote
// round trips with no partial-result semantics; the core treats them as
// atomic black boxes and maps failures to ErrService. The project carries the
// engagement context and accumulated knowledge base into every prompt.
type GenerationService interface {
	Validate(ctx context.Context, project *models.Project, item *models.DocumentationItem, questions []*models.Question) (*ValidationResult, error)
	Generate(ctx context.Context, project *models.Project, item *models.DocumentationItem, questions []*models.Question) (*models.GeneratedContent, error)
	Regenerate(ctx context.Context, project *models.Project, item *models.DocumentationItem, questions []*models.Question, feedback string) (*models.GeneratedContent, error)
	UpdateKnowledgeBase(ctx context.Context, project *models.Project, item *models.DocumentationItem, questions []*models.Question, content *models.GeneratedContent) (string, error)
}

// QuestionGenerator produces the initial questionnaire for a freshly created
// item. Split from GenerationService so workflow tests can stub lifecycle
// calls without implementing question generation.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, project *models.Project, item *models.DocumentationItem) ([]*models.Question, error)
}
