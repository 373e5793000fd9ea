// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the documentation workflow as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/FedericoDamboreana/ba-ai/internal/core"
	"github.com/FedericoDamboreana/ba-ai/internal/observability"
	"github.com/FedericoDamboreana/ba-ai/internal/storage"
	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

// Server wraps the workflow services and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	workflow    core.ItemWorkflow
	items       storage.ItemManager
	metricsCalc observability.MetricsCalculator
	alertEngine observability.AlertEngine
}

// NewServer creates a new MCP server with the given service dependencies.
// metricsCalc and alertEngine may be nil if observability is disabled.
func NewServer(workflow core.ItemWorkflow, items storage.ItemManager, metricsCalc observability.MetricsCalculator, alertEngine observability.AlertEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		workflow:    workflow,
		items:       items,
		metricsCalc: metricsCalc,
		alertEngine: alertEngine,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "ba-ai", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on the given transport, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getItemInput struct {
	ItemID string `json:"item_id" jsonschema:"required,the unique documentation item identifier (e.g. ITEM-00042)"`
}

type itemOutput struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Deadline    string `json:"deadline,omitempty"`
	HasContent  bool   `json:"has_content"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
}

type listItemsInput struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"filter items by project. Empty returns all items."`
	Status    string `json:"status,omitempty" jsonschema:"filter items by status (Draft, InProgress, QuestionsComplete, Generated)"`
}

type listItemsOutput struct {
	Items []itemOutput `json:"items"`
	Count int          `json:"count"`
}

type listQuestionsInput struct {
	ItemID string `json:"item_id" jsonschema:"required,the documentation item whose visible questions to list"`
}

type questionOutput struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Critical bool     `json:"critical"`
	Answer   string   `json:"answer,omitempty"`
	Answered bool     `json:"answered"`
}

type listQuestionsOutput struct {
	Questions []questionOutput `json:"questions"`
	Count     int              `json:"count"`
	Ready     bool             `json:"ready_for_generation"`
}

type submitAnswerInput struct {
	ItemID     string `json:"item_id" jsonschema:"required,the documentation item identifier"`
	QuestionID string `json:"question_id" jsonschema:"required,the question to answer"`
	Answer     string `json:"answer" jsonschema:"required,the answer text. Use N/A to dismiss a question without a real answer."`
}

type submitAnswerOutput struct {
	NewlyVisible []questionOutput `json:"newly_visible"`
	Ready        bool             `json:"ready_for_generation"`
}

type completionStatusInput struct {
	ItemID string `json:"item_id" jsonschema:"required,the documentation item identifier"`
}

type completionStatusOutput struct {
	Total               int  `json:"total_questions"`
	Answered            int  `json:"answered_questions"`
	Critical            int  `json:"critical_questions"`
	CriticalAnswered    int  `json:"critical_answered"`
	AllCriticalAnswered bool `json:"all_critical_answered"`
	AllAnswered         bool `json:"all_answered"`
}

type validateItemInput struct {
	ItemID string `json:"item_id" jsonschema:"required,the documentation item identifier"`
}

type validateItemOutput struct {
	IsComplete   bool             `json:"is_complete"`
	NewQuestions []questionOutput `json:"new_questions,omitempty"`
	Status       string           `json:"status"`
}

type generateItemInput struct {
	ItemID string `json:"item_id" jsonschema:"required,the documentation item identifier"`
}

type regenerateItemInput struct {
	ItemID   string `json:"item_id" jsonschema:"required,the documentation item identifier"`
	Feedback string `json:"feedback,omitempty" jsonschema:"feedback on the previous version to incorporate"`
}

type contentOutput struct {
	Type    string                   `json:"type"`
	Content *models.GeneratedContent `json:"content"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	ItemsCreated       int            `json:"items_created"`
	ItemsByType        map[string]int `json:"items_by_type"`
	QuestionsGenerated int            `json:"questions_generated"`
	AnswersSubmitted   int            `json:"answers_submitted"`
	Validations        int            `json:"validations"`
	ValidationsPassed  int            `json:"validations_passed"`
	ItemsGenerated     int            `json:"items_generated"`
	Regenerations      int            `json:"regenerations"`
	EventCount         int            `json:"event_count"`
	OldestEvent        string         `json:"oldest_event,omitempty"`
	NewestEvent        string         `json:"newest_event,omitempty"`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_item",
		Description: "Get documentation item details by ID, including status, deadline, and whether content has been generated.",
	}, s.handleGetItem)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_items",
		Description: "List documentation items with optional project and status filters.",
	}, s.handleListItems)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_questions",
		Description: "List the currently visible clarifying questions of an item. Conditional questions appear only when their parent has the required answer.",
	}, s.handleListQuestions)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "submit_answer",
		Description: "Submit an answer to a clarifying question. Returns questions that became visible and whether the item is ready for generation.",
	}, s.handleSubmitAnswer)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "completion_status",
		Description: "Get answer completion counters for an item's visible questions.",
	}, s.handleCompletionStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "validate_item",
		Description: "Ask the AI whether the answers are sufficient for generation. May append follow-up questions; any new questions force an incomplete outcome.",
	}, s.handleValidateItem)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "generate_item",
		Description: "Generate the structured document for a ready item. Fails if visible critical questions are unanswered.",
	}, s.handleGenerateItem)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "regenerate_item",
		Description: "Regenerate an item's document, optionally incorporating feedback. The previous content is kept unless generation succeeds.",
	}, s.handleRegenerateItem)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated workflow metrics from the event log: items created, answers submitted, validations, and generations.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts (overdue or approaching deadlines, stale items, open item count).",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleGetItem(_ context.Context, _ *gomcp.CallToolRequest, input getItemInput) (*gomcp.CallToolResult, itemOutput, error) {
	if input.ItemID == "" {
		return errorResult("item_id is required"), itemOutput{}, nil
	}

	item, err := s.workflow.GetItem(input.ItemID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting item %s: %s", input.ItemID, err)), itemOutput{}, nil
	}

	return nil, itemToOutput(item), nil
}

func (s *Server) handleListItems(_ context.Context, _ *gomcp.CallToolRequest, input listItemsInput) (*gomcp.CallToolResult, listItemsOutput, error) {
	items, err := s.items.ListItems(input.ProjectID)
	if err != nil {
		return errorResult(fmt.Sprintf("listing items: %s", err)), listItemsOutput{}, nil
	}

	out := listItemsOutput{Items: make([]itemOutput, 0, len(items))}
	for _, item := range items {
		if input.Status != "" && string(item.Status) != input.Status {
			continue
		}
		out.Items = append(out.Items, itemToOutput(item))
	}
	out.Count = len(out.Items)

	return nil, out, nil
}

func (s *Server) handleListQuestions(_ context.Context, _ *gomcp.CallToolRequest, input listQuestionsInput) (*gomcp.CallToolResult, listQuestionsOutput, error) {
	if input.ItemID == "" {
		return errorResult("item_id is required"), listQuestionsOutput{}, nil
	}

	questions, err := s.workflow.GetVisibleQuestions(input.ItemID)
	if err != nil {
		return errorResult(fmt.Sprintf("listing questions for %s: %s", input.ItemID, err)), listQuestionsOutput{}, nil
	}
	ready, err := s.workflow.IsReady(input.ItemID)
	if err != nil {
		return errorResult(fmt.Sprintf("checking readiness for %s: %s", input.ItemID, err)), listQuestionsOutput{}, nil
	}

	out := listQuestionsOutput{
		Questions: make([]questionOutput, len(questions)),
		Count:     len(questions),
		Ready:     ready,
	}
	for i, q := range questions {
		out.Questions[i] = questionToOutput(q)
	}

	return nil, out, nil
}

func (s *Server) handleSubmitAnswer(_ context.Context, _ *gomcp.CallToolRequest, input submitAnswerInput) (*gomcp.CallToolResult, submitAnswerOutput, error) {
	if input.ItemID == "" {
		return errorResult("item_id is required"), submitAnswerOutput{}, nil
	}
	if input.QuestionID == "" {
		return errorResult("question_id is required"), submitAnswerOutput{}, nil
	}

	result, err := s.workflow.SubmitAnswer(input.ItemID, input.QuestionID, input.Answer)
	if err != nil {
		return errorResult(fmt.Sprintf("submitting answer for %s: %s", input.ItemID, err)), submitAnswerOutput{}, nil
	}

	out := submitAnswerOutput{
		NewlyVisible: make([]questionOutput, len(result.NewlyVisible)),
		Ready:        result.Ready,
	}
	for i, q := range result.NewlyVisible {
		out.NewlyVisible[i] = questionToOutput(q)
	}

	return nil, out, nil
}

func (s *Server) handleCompletionStatus(_ context.Context, _ *gomcp.CallToolRequest, input completionStatusInput) (*gomcp.CallToolResult, completionStatusOutput, error) {
	if input.ItemID == "" {
		return errorResult("item_id is required"), completionStatusOutput{}, nil
	}

	completion, err := s.workflow.GetCompletion(input.ItemID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting completion for %s: %s", input.ItemID, err)), completionStatusOutput{}, nil
	}

	out := completionStatusOutput{
		Total:               completion.Total,
		Answered:            completion.Answered,
		Critical:            completion.Critical,
		CriticalAnswered:    completion.CriticalAnswered,
		AllCriticalAnswered: completion.AllCriticalAnswered,
		AllAnswered:         completion.AllAnswered,
	}
	return nil, out, nil
}

func (s *Server) handleValidateItem(ctx context.Context, _ *gomcp.CallToolRequest, input validateItemInput) (*gomcp.CallToolResult, validateItemOutput, error) {
	if input.ItemID == "" {
		return errorResult("item_id is required"), validateItemOutput{}, nil
	}

	outcome, err := s.workflow.Validate(ctx, input.ItemID)
	if err != nil {
		return errorResult(fmt.Sprintf("validating item %s: %s", input.ItemID, err)), validateItemOutput{}, nil
	}

	out := validateItemOutput{
		IsComplete: outcome.IsComplete,
		Status:     string(outcome.Status),
	}
	for _, q := range outcome.NewQuestions {
		out.NewQuestions = append(out.NewQuestions, questionToOutput(q))
	}
	return nil, out, nil
}

func (s *Server) handleGenerateItem(ctx context.Context, _ *gomcp.CallToolRequest, input generateItemInput) (*gomcp.CallToolResult, contentOutput, error) {
	if input.ItemID == "" {
		return errorResult("item_id is required"), contentOutput{}, nil
	}

	content, err := s.workflow.Generate(ctx, input.ItemID)
	if err != nil {
		return errorResult(fmt.Sprintf("generating item %s: %s", input.ItemID, err)), contentOutput{}, nil
	}

	return nil, contentOutput{Type: string(content.Type), Content: content}, nil
}

func (s *Server) handleRegenerateItem(ctx context.Context, _ *gomcp.CallToolRequest, input regenerateItemInput) (*gomcp.CallToolResult, contentOutput, error) {
	if input.ItemID == "" {
		return errorResult("item_id is required"), contentOutput{}, nil
	}

	content, err := s.workflow.Regenerate(ctx, input.ItemID, input.Feedback)
	if err != nil {
		return errorResult(fmt.Sprintf("regenerating item %s: %s", input.ItemID, err)), contentOutput{}, nil
	}

	return nil, contentOutput{Type: string(content.Type), Content: content}, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (observability may be disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := parseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		ItemsCreated:       metrics.ItemsCreated,
		ItemsByType:        metrics.ItemsByType,
		QuestionsGenerated: metrics.QuestionsGenerated,
		AnswersSubmitted:   metrics.AnswersSubmitted,
		Validations:        metrics.Validations,
		ValidationsPassed:  metrics.ValidationsPassed,
		ItemsGenerated:     metrics.ItemsGenerated,
		Regenerations:      metrics.Regenerations,
		EventCount:         metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available (observability may be disabled)"), getAlertsOutput{}, nil
	}

	alerts, err := s.alertEngine.Evaluate()
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{}, nil
	}

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}

	return nil, out, nil
}

// --- Helpers ---

func itemToOutput(item *models.DocumentationItem) itemOutput {
	return itemOutput{
		ID:          item.ID,
		ProjectID:   item.ProjectID,
		Type:        string(item.Type),
		Title:       item.Title,
		Description: item.Description,
		Status:      string(item.Status),
		Deadline:    item.Deadline,
		HasContent:  item.Content != nil,
		Created:     item.Created.Format(time.RFC3339),
		Updated:     item.Updated.Format(time.RFC3339),
	}
}

func questionToOutput(q *models.Question) questionOutput {
	return questionOutput{
		ID:       q.ID,
		Text:     q.Text,
		Type:     string(q.Type),
		Options:  q.Options,
		Critical: q.Critical,
		Answer:   q.Answer,
		Answered: q.IsAnswered(),
	}
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{
		ItemsByType: make(map[string]int),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince parses a human-friendly duration string like "7d", "30d", or "24h"
// into the corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
