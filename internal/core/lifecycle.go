package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

// ProjectStore is the subset of the project registry the workflow needs:
// loading the project that supplies prompt context, and saving it back after
// the knowledge base is refreshed.
type ProjectStore interface {
	LoadProject(projectID string) (*models.Project, error)
	SaveProject(project *models.Project) error
}

// AnswerResult reports the outcome of a single answer submission.
type AnswerResult struct {
	Question     *models.Question
	NewlyVisible []*models.Question
	Ready        bool
}

// ValidateOutcome reports the outcome of a validate call after the defensive
// invariant is applied: injected NewQuestions force IsComplete to false.
type ValidateOutcome struct {
	IsComplete   bool
	NewQuestions []*models.Question
	Status       models.ItemStatus
}

// ItemWorkflow orchestrates the documentation-item lifecycle: answer
// submissions, validation, generation, regeneration, and content edits.
type ItemWorkflow interface {
	CreateItem(ctx context.Context, projectID string, docType models.DocumentationType, title, description, deadline string) (*models.DocumentationItem, error)
	GetItem(itemID string) (*models.DocumentationItem, error)
	GetQuestions(itemID string) ([]*models.Question, error)
	GetVisibleQuestions(itemID string) ([]*models.Question, error)
	GetCompletion(itemID string) (CompletionStatus, error)
	IsReady(itemID string) (bool, error)
	SubmitAnswer(itemID, questionID, answer string) (*AnswerResult, error)
	ClearAnswer(itemID, questionID string) error
	Validate(ctx context.Context, itemID string) (*ValidateOutcome, error)
	Generate(ctx context.Context, itemID string) (*models.GeneratedContent, error)
	Regenerate(ctx context.Context, itemID string, feedback string) (*models.GeneratedContent, error)
	EditGeneratedField(itemID, path, value string) error
}

// itemWorkflow implements ItemWorkflow by coordinating the stores and the
// generation service. Remote lifecycle calls are single-flight per item;
// answer mutations stay permitted while a call is outstanding, which is why
// Generate re-derives readiness locally instead of trusting the stored status.
type itemWorkflow struct {
	items     ItemStore
	questions QuestionStore
	projects  ProjectStore
	svc       GenerationService
	qgen      QuestionGenerator
	idGen     IDGenerator
	events    EventLogger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewItemWorkflow creates an ItemWorkflow with all dependencies injected.
// events may be nil if observability is disabled; svc and qgen may be nil
// when no generation backend is configured, in which case remote calls fail
// with ErrService and new items start with an empty questionnaire.
func NewItemWorkflow(items ItemStore, questions QuestionStore, projects ProjectStore, svc GenerationService, qgen QuestionGenerator, idGen IDGenerator, events EventLogger) ItemWorkflow {
	return &itemWorkflow{
		items:     items,
		questions: questions,
		projects:  projects,
		svc:       svc,
		qgen:      qgen,
		idGen:     idGen,
		events:    events,
		inflight:  make(map[string]struct{}),
	}
}

// beginOp marks an item as having an in-flight remote operation. Overlapping
// calls on the same item are rejected with ErrBusy rather than queued.
func (w *itemWorkflow) beginOp(itemID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inflight[itemID]; busy {
		return fmt.Errorf("item %s: %w", itemID, ErrBusy)
	}
	w.inflight[itemID] = struct{}{}
	return nil
}

func (w *itemWorkflow) endOp(itemID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inflight, itemID)
}

// CreateItem creates a Draft item and asks the question generator for its
// initial questionnaire.
func (w *itemWorkflow) CreateItem(ctx context.Context, projectID string, docType models.DocumentationType, title, description, deadline string) (*models.DocumentationItem, error) {
	project, err := w.projects.LoadProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := w.idGen.NextID()
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	now := time.Now().UTC()
	item := &models.DocumentationItem{
		ID:          id,
		ProjectID:   projectID,
		Type:        docType,
		Title:       title,
		Description: description,
		Status:      models.StatusDraft,
		Deadline:    deadline,
		Created:     now,
		Updated:     now,
	}

	var questions []*models.Question
	if w.qgen != nil {
		questions, err = w.qgen.GenerateQuestions(ctx, project, item)
		if err != nil {
			return nil, fmt.Errorf("creating item %s: generating questions: %w", id, w.asServiceErr(err))
		}
	}

	if err := w.items.SaveItem(item); err != nil {
		return nil, fmt.Errorf("creating item %s: saving: %w", id, err)
	}
	if err := w.questions.SaveQuestions(id, questions); err != nil {
		return nil, fmt.Errorf("creating item %s: saving questions: %w", id, err)
	}

	w.logEvent("item.created", map[string]any{
		"item_id": id, "project_id": projectID, "type": string(docType), "questions": len(questions),
	})
	return item, nil
}

func (w *itemWorkflow) GetItem(itemID string) (*models.DocumentationItem, error) {
	item, err := w.items.LoadItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("getting item %s: %w", itemID, err)
	}
	return item, nil
}

func (w *itemWorkflow) GetQuestions(itemID string) ([]*models.Question, error) {
	questions, err := w.questions.LoadQuestions(itemID)
	if err != nil {
		return nil, fmt.Errorf("getting questions for item %s: %w", itemID, err)
	}
	return questions, nil
}

// GetVisibleQuestions returns the currently visible subset for presentation.
func (w *itemWorkflow) GetVisibleQuestions(itemID string) ([]*models.Question, error) {
	questions, err := w.GetQuestions(itemID)
	if err != nil {
		return nil, err
	}
	return Visible(questions), nil
}

func (w *itemWorkflow) GetCompletion(itemID string) (CompletionStatus, error) {
	qs, err := w.loadSet(itemID)
	if err != nil {
		return CompletionStatus{}, err
	}
	return qs.Completion(), nil
}

func (w *itemWorkflow) IsReady(itemID string) (bool, error) {
	questions, err := w.GetQuestions(itemID)
	if err != nil {
		return false, err
	}
	return IsReadyForGeneration(questions), nil
}

// SubmitAnswer applies an answer and persists the mutated set. The only
// status effect is the advisory Draft to InProgress transition on the first
// answer; readiness itself is always re-derived, never stored.
func (w *itemWorkflow) SubmitAnswer(itemID, questionID, answer string) (*AnswerResult, error) {
	item, err := w.items.LoadItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("submitting answer for item %s: %w", itemID, err)
	}

	qs, err := w.loadSet(itemID)
	if err != nil {
		return nil, err
	}

	newly, err := qs.ApplyAnswer(questionID, answer)
	if err != nil {
		return nil, fmt.Errorf("submitting answer for item %s: %w", itemID, err)
	}

	if err := w.questions.SaveQuestions(itemID, qs.Questions()); err != nil {
		return nil, fmt.Errorf("submitting answer for item %s: saving questions: %w", itemID, err)
	}

	if item.Status == models.StatusDraft {
		item.Status = models.StatusInProgress
		item.Updated = time.Now().UTC()
		if err := w.items.SaveItem(item); err != nil {
			return nil, fmt.Errorf("submitting answer for item %s: updating status: %w", itemID, err)
		}
	}

	question, _ := qs.Get(questionID)
	w.logEvent("answer.submitted", map[string]any{
		"item_id": itemID, "question_id": questionID, "newly_visible": len(newly),
	})
	return &AnswerResult{
		Question:     question,
		NewlyVisible: newly,
		Ready:        qs.IsReady(),
	}, nil
}

func (w *itemWorkflow) ClearAnswer(itemID, questionID string) error {
	qs, err := w.loadSet(itemID)
	if err != nil {
		return err
	}
	if err := qs.ClearAnswer(questionID); err != nil {
		return fmt.Errorf("clearing answer for item %s: %w", itemID, err)
	}
	if err := w.questions.SaveQuestions(itemID, qs.Questions()); err != nil {
		return fmt.Errorf("clearing answer for item %s: saving questions: %w", itemID, err)
	}
	return nil
}

// Validate sends the full question set to the generation service. Questions
// the service injects are appended (deduplicated by id) and force the outcome
// to incomplete regardless of what the service reports: new unanswered
// questions can never coexist with "ready". With no new answers since the
// last call the operation is idempotent.
func (w *itemWorkflow) Validate(ctx context.Context, itemID string) (*ValidateOutcome, error) {
	if w.svc == nil {
		return nil, fmt.Errorf("validating item %s: no API key configured: %w", itemID, ErrService)
	}
	if err := w.beginOp(itemID); err != nil {
		return nil, err
	}
	defer w.endOp(itemID)

	item, err := w.items.LoadItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("validating item %s: %w", itemID, err)
	}
	project, err := w.projects.LoadProject(item.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("validating item %s: %w", itemID, err)
	}
	qs, err := w.loadSet(itemID)
	if err != nil {
		return nil, err
	}

	result, err := w.svc.Validate(ctx, project, item, qs.Questions())
	if err != nil {
		return nil, fmt.Errorf("validating item %s: %w", itemID, w.asServiceErr(err))
	}

	// The item may have been deleted while the call was in flight; if so the
	// response is discarded instead of applied.
	item, err = w.items.LoadItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("validating item %s: discarding stale result: %w", itemID, err)
	}
	// Answer mutations stay permitted during the round trip, so the pre-call
	// snapshot may be stale. Injected questions are appended to a fresh load,
	// never to the snapshot, or in-flight answers would be wiped on save.
	qs, err = w.loadSet(itemID)
	if err != nil {
		return nil, err
	}

	isComplete := result.IsComplete
	added := qs.Append(result.NewQuestions)
	if len(added) > 0 {
		isComplete = false
		if err := w.questions.SaveQuestions(itemID, qs.Questions()); err != nil {
			return nil, fmt.Errorf("validating item %s: saving new questions: %w", itemID, err)
		}
	}

	newStatus := models.StatusInProgress
	if isComplete {
		newStatus = models.StatusQuestionsComplete
	}
	if item.Status != newStatus && item.Status != models.StatusGenerated {
		item.Status = newStatus
		item.Updated = time.Now().UTC()
		if err := w.items.SaveItem(item); err != nil {
			return nil, fmt.Errorf("validating item %s: saving status: %w", itemID, err)
		}
	}

	w.logEvent("item.validated", map[string]any{
		"item_id": itemID, "complete": isComplete, "new_questions": len(added),
	})
	return &ValidateOutcome{
		IsComplete:   isComplete,
		NewQuestions: added,
		Status:       item.Status,
	}, nil
}

// Generate produces structured content for a ready item. Readiness is
// re-derived from the current question set even when the stored status says
// QuestionsComplete, guarding against answer edits that raced the validate
// step.
func (w *itemWorkflow) Generate(ctx context.Context, itemID string) (*models.GeneratedContent, error) {
	if w.svc == nil {
		return nil, fmt.Errorf("generating item %s: no API key configured: %w", itemID, ErrService)
	}
	if err := w.beginOp(itemID); err != nil {
		return nil, err
	}
	defer w.endOp(itemID)

	item, err := w.items.LoadItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("generating item %s: %w", itemID, err)
	}
	project, err := w.projects.LoadProject(item.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("generating item %s: %w", itemID, err)
	}
	qs, err := w.loadSet(itemID)
	if err != nil {
		return nil, err
	}

	if !qs.IsReady() {
		return nil, fmt.Errorf("generating item %s: %w", itemID, ErrNotReady)
	}

	content, err := w.svc.Generate(ctx, project, item, qs.Questions())
	if err != nil {
		return nil, fmt.Errorf("generating item %s: %w", itemID, w.asServiceErr(err))
	}
	if err := w.checkContent(item, content); err != nil {
		return nil, fmt.Errorf("generating item %s: %w", itemID, err)
	}

	item, err = w.items.LoadItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("generating item %s: discarding stale result: %w", itemID, err)
	}

	item.Content = content
	item.Status = models.StatusGenerated
	item.Updated = time.Now().UTC()
	if err := w.items.SaveItem(item); err != nil {
		return nil, fmt.Errorf("generating item %s: saving content: %w", itemID, err)
	}

	w.logEvent("item.generated", map[string]any{"item_id": itemID, "type": string(item.Type)})
	w.refreshKnowledge(ctx, project, item, qs.Questions(), content)
	return content, nil
}

// Regenerate calls the service again with optional free-text feedback and
// overwrites the content unconditionally on success; last write wins. On any
// failure the previous content is left byte-for-byte untouched.
func (w *itemWorkflow) Regenerate(ctx context.Context, itemID string, feedback string) (*models.GeneratedContent, error) {
	if w.svc == nil {
		return nil, fmt.Errorf("regenerating item %s: no API key configured: %w", itemID, ErrService)
	}
	if err := w.beginOp(itemID); err != nil {
		return nil, err
	}
	defer w.endOp(itemID)

	item, err := w.items.LoadItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("regenerating item %s: %w", itemID, err)
	}
	if item.Status != models.StatusGenerated || item.Content == nil {
		return nil, fmt.Errorf("regenerating item %s: %w", itemID, ErrNoContent)
	}
	project, err := w.projects.LoadProject(item.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("regenerating item %s: %w", itemID, err)
	}
	questions, err := w.GetQuestions(itemID)
	if err != nil {
		return nil, err
	}

	content, err := w.svc.Regenerate(ctx, project, item, questions, feedback)
	if err != nil {
		return nil, fmt.Errorf("regenerating item %s: %w", itemID, w.asServiceErr(err))
	}
	if err := w.checkContent(item, content); err != nil {
		return nil, fmt.Errorf("regenerating item %s: %w", itemID, err)
	}

	item, err = w.items.LoadItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("regenerating item %s: discarding stale result: %w", itemID, err)
	}

	item.Content = content
	item.Updated = time.Now().UTC()
	if err := w.items.SaveItem(item); err != nil {
		return nil, fmt.Errorf("regenerating item %s: saving content: %w", itemID, err)
	}

	w.logEvent("item.regenerated", map[string]any{"item_id": itemID, "feedback": feedback != ""})
	w.refreshKnowledge(ctx, project, item, questions, content)
	return content, nil
}

// refreshKnowledge folds the freshly generated document into the project's
// cumulative knowledge base, which future questionnaires and documents are
// prompted with. Best effort: a failed update never fails the generation
// that triggered it.
func (w *itemWorkflow) refreshKnowledge(ctx context.Context, project *models.Project, item *models.DocumentationItem, questions []*models.Question, content *models.GeneratedContent) {
	kb, err := w.svc.UpdateKnowledgeBase(ctx, project, item, questions, content)
	if err != nil || strings.TrimSpace(kb) == "" {
		return
	}
	project.KnowledgeBase = kb
	project.Updated = time.Now().UTC()
	if err := w.projects.SaveProject(project); err != nil {
		return
	}
	w.logEvent("project.knowledge_updated", map[string]any{
		"project_id": project.ID, "item_id": item.ID,
	})
}

// EditGeneratedField applies a manual override to one field of the generated
// content. The edit is validated against the content type's shape; an unknown
// path is an error, not a merge.
func (w *itemWorkflow) EditGeneratedField(itemID, path, value string) error {
	item, err := w.items.LoadItem(itemID)
	if err != nil {
		return fmt.Errorf("editing item %s: %w", itemID, err)
	}
	if item.Status != models.StatusGenerated || item.Content == nil {
		return fmt.Errorf("editing item %s: %w", itemID, ErrNoContent)
	}

	if err := item.Content.EditField(path, value); err != nil {
		return fmt.Errorf("editing item %s: %w", itemID, err)
	}

	item.Updated = time.Now().UTC()
	if err := w.items.SaveItem(item); err != nil {
		return fmt.Errorf("editing item %s: saving: %w", itemID, err)
	}
	return nil
}

func (w *itemWorkflow) loadSet(itemID string) (*QuestionSet, error) {
	questions, err := w.questions.LoadQuestions(itemID)
	if err != nil {
		return nil, fmt.Errorf("loading questions for item %s: %w", itemID, err)
	}
	qs, err := NewQuestionSet(questions)
	if err != nil {
		return nil, fmt.Errorf("loading questions for item %s: %w", itemID, err)
	}
	return qs, nil
}

// checkContent rejects a service payload whose variant does not match the
// item's documentation type.
func (w *itemWorkflow) checkContent(item *models.DocumentationItem, content *models.GeneratedContent) error {
	if content == nil {
		return fmt.Errorf("%w: empty content payload", ErrService)
	}
	if content.Type != item.Type {
		return fmt.Errorf("%w: content type %s does not match item type %s", ErrService, content.Type, item.Type)
	}
	return content.Validate()
}

// asServiceErr maps a failed remote call to the ErrService sentinel while
// keeping the original cause (including context.DeadlineExceeded for
// timeouts) in the wrap chain.
func (w *itemWorkflow) asServiceErr(err error) error {
	if errors.Is(err, ErrService) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrService, err)
}

func (w *itemWorkflow) logEvent(eventType string, data map[string]any) {
	if w.events == nil {
		return
	}
	_ = w.events.LogEvent(eventType, data) // Best effort: observability must never fail the workflow.
}
