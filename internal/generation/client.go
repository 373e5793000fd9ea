package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/FedericoDamboreana/ba-ai/internal/core"
	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

const (
	maxTokensQuestions = 2048
	maxTokensDocument  = 4096
	maxTokensKnowledge = 2048
)

// errAPIKeyRequired is returned when an API key is needed but not provided.
var errAPIKeyRequired = errors.New("API key required")

// Client wraps the Anthropic Messages API and implements both
// core.GenerationService and core.QuestionGenerator.
type Client struct {
	client  anthropic.Client
	model   anthropic.Model
	timeout time.Duration
}

var (
	_ core.GenerationService = (*Client)(nil)
	_ core.QuestionGenerator = (*Client)(nil)
)

// NewClient creates a generation client. Env var ANTHROPIC_API_KEY takes
// precedence over explicit apiKey. Timeout bounds each remote call.
func NewClient(apiKey, model string, timeout time.Duration) (*Client, error) {
	envKey := os.Getenv("ANTHROPIC_API_KEY")
	if envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY environment variable or provide via config", errAPIKeyRequired)
	}

	return &Client{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   anthropic.Model(model),
		timeout: timeout,
	}, nil
}

// GenerateQuestions produces the initial questionnaire for a new item.
func (c *Client) GenerateQuestions(ctx context.Context, project *models.Project, item *models.DocumentationItem) ([]*models.Question, error) {
	prompt, err := renderPrompt(questionUserTemplate, newPromptData(project, item, nil, ""))
	if err != nil {
		return nil, err
	}

	raw, err := c.complete(ctx, questionSystemPrompt, prompt, maxTokensQuestions)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Questions []wireQuestion `json:"questions"`
	}
	if err := unmarshalResponse(raw, &payload); err != nil {
		return nil, fmt.Errorf("parsing question response: %w", err)
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("question response contained no questions")
	}

	return resolveGeneratedQuestions(payload.Questions)
}

// Validate asks the service whether the answers are sufficient for generation.
func (c *Client) Validate(ctx context.Context, project *models.Project, item *models.DocumentationItem, questions []*models.Question) (*core.ValidationResult, error) {
	prompt, err := renderPrompt(validateUserTemplate, newPromptData(project, item, questions, ""))
	if err != nil {
		return nil, err
	}

	raw, err := c.complete(ctx, validateSystemPrompt, prompt, maxTokensQuestions)
	if err != nil {
		return nil, err
	}

	var payload struct {
		IsComplete   bool           `json:"is_complete"`
		NewQuestions []wireQuestion `json:"new_questions"`
	}
	if err := unmarshalResponse(raw, &payload); err != nil {
		return nil, fmt.Errorf("parsing validation response: %w", err)
	}

	return &core.ValidationResult{
		IsComplete:   payload.IsComplete,
		NewQuestions: resolveFollowUpQuestions(payload.NewQuestions, len(questions)),
	}, nil
}

// Generate produces structured documentation content from the answered
// questionnaire.
func (c *Client) Generate(ctx context.Context, project *models.Project, item *models.DocumentationItem, questions []*models.Question) (*models.GeneratedContent, error) {
	return c.generateContent(ctx, project, item, questions, "")
}

// Regenerate produces a fresh version of the content incorporating user
// feedback on the previous one.
func (c *Client) Regenerate(ctx context.Context, project *models.Project, item *models.DocumentationItem, questions []*models.Question, feedback string) (*models.GeneratedContent, error) {
	return c.generateContent(ctx, project, item, questions, feedback)
}

func (c *Client) generateContent(ctx context.Context, project *models.Project, item *models.DocumentationItem, questions []*models.Question, feedback string) (*models.GeneratedContent, error) {
	prompt, err := renderPrompt(docUserTemplate, newPromptData(project, item, questions, feedback))
	if err != nil {
		return nil, err
	}

	raw, err := c.complete(ctx, docSystemPrompt(item.Type), prompt, maxTokensDocument)
	if err != nil {
		return nil, err
	}

	content := &models.GeneratedContent{Type: item.Type}
	var target any
	switch item.Type {
	case models.DocTypeUserStory:
		content.UserStory = &models.UserStoryContent{}
		target = content.UserStory
	case models.DocTypePRD:
		content.PRD = &models.PRDContent{}
		target = content.PRD
	case models.DocTypeEpic:
		content.Epic = &models.EpicContent{}
		target = content.Epic
	case models.DocTypeFRS:
		content.FRS = &models.FRSContent{}
		target = content.FRS
	default:
		return nil, fmt.Errorf("unsupported documentation type %q", item.Type)
	}

	if err := unmarshalResponse(raw, target); err != nil {
		return nil, fmt.Errorf("parsing %s content: %w", item.Type, err)
	}
	if err := content.Validate(); err != nil {
		return nil, fmt.Errorf("generated content invalid: %w", err)
	}
	return content, nil
}

// UpdateKnowledgeBase asks the model to fold the freshly generated document
// into the project's cumulative knowledge base and returns the updated text.
func (c *Client) UpdateKnowledgeBase(ctx context.Context, project *models.Project, item *models.DocumentationItem, questions []*models.Question, content *models.GeneratedContent) (string, error) {
	data := newPromptData(project, item, questions, "")
	data.ContentSummary = summarizeContent(content)

	prompt, err := renderPrompt(knowledgeUserTemplate, data)
	if err != nil {
		return "", err
	}

	raw, err := c.complete(ctx, knowledgeSystemPrompt, prompt, maxTokensKnowledge)
	if err != nil {
		return "", err
	}

	var payload struct {
		KnowledgeBase string `json:"knowledge_base"`
	}
	if err := unmarshalResponse(raw, &payload); err != nil {
		return "", fmt.Errorf("parsing knowledge base response: %w", err)
	}
	return strings.TrimSpace(payload.KnowledgeBase), nil
}

// summarizeContent renders a short JSON excerpt of the generated document for
// the knowledge base prompt. The full document would blow the token budget on
// large FRS payloads.
func summarizeContent(content *models.GeneratedContent) string {
	raw, err := json.Marshal(content)
	if err != nil {
		return ""
	}
	const limit = 500
	if len(raw) > limit {
		return string(raw[:limit]) + "..."
	}
	return string(raw)
}

// complete performs one Messages API round trip and returns the text block.
func (c *Client) complete(ctx context.Context, system, prompt string, maxTokens int64) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("anthropic API error (status %d): %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("anthropic request: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("unexpected response format: no content blocks")
	}
	block := message.Content[0]
	if block.Type != "text" {
		return "", fmt.Errorf("unexpected response format: not a text block (type=%s)", block.Type)
	}
	return block.Text, nil
}

// wireQuestion is the JSON shape the model returns for a single question.
// parent_question_index is used for initial generation (0-based into the
// same response), parent_question_id for validation follow-ups.
type wireQuestion struct {
	Text                string     `json:"question_text"`
	Type                string     `json:"question_type"`
	Options             []string   `json:"options"`
	Critical            bool       `json:"is_critical"`
	ParentQuestionIndex *int       `json:"parent_question_index"`
	ParentQuestionID    string     `json:"parent_question_id"`
	RequiredAnswer      stringList `json:"required_answer"`
}

func (wq wireQuestion) toQuestion() *models.Question {
	qt := models.QuestionType(wq.Type)
	switch qt {
	case models.QuestionTypeText, models.QuestionTypeMultipleChoice, models.QuestionTypeCheckbox:
	default:
		qt = models.QuestionTypeText
	}
	return &models.Question{
		Text:     strings.TrimSpace(wq.Text),
		Type:     qt,
		Options:  wq.Options,
		Critical: wq.Critical,
	}
}

// resolveFollowUpQuestions converts validation follow-ups into questions.
// Display order continues the existing zero-based numbering.
func resolveFollowUpQuestions(wire []wireQuestion, existing int) []*models.Question {
	var questions []*models.Question
	for i, wq := range wire {
		q := wq.toQuestion()
		if wq.ParentQuestionID != "" {
			q.Trigger = &models.TriggerCondition{
				ParentQuestionID: wq.ParentQuestionID,
				RequiredAnswers:  wq.RequiredAnswer,
			}
		}
		q.ID = followUpID(q.Text)
		q.DisplayOrder = existing + i
		questions = append(questions, q)
	}
	return questions
}

// followUpID derives the id from the normalized question text, so a
// follow-up the model re-sends on a later validation round keeps its
// identity and dedupes on append instead of growing the set.
func followUpID(text string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.Join(strings.Fields(text), " "))))
	return fmt.Sprintf("QF-%08x", h.Sum32())
}

// resolveGeneratedQuestions assigns ids and converts parent indexes into
// trigger conditions. Out-of-range or self-referential indexes drop the
// trigger rather than the question.
func resolveGeneratedQuestions(wire []wireQuestion) ([]*models.Question, error) {
	questions := make([]*models.Question, 0, len(wire))
	for i, wq := range wire {
		if strings.TrimSpace(wq.Text) == "" {
			return nil, fmt.Errorf("question %d has empty text", i)
		}
		q := wq.toQuestion()
		q.ID = fmt.Sprintf("Q%d", i+1)
		q.DisplayOrder = i
		questions = append(questions, q)
	}
	for i, wq := range wire {
		if wq.ParentQuestionIndex == nil || len(wq.RequiredAnswer) == 0 {
			continue
		}
		idx := *wq.ParentQuestionIndex
		if idx < 0 || idx >= len(questions) || idx == i {
			continue
		}
		questions[i].Trigger = &models.TriggerCondition{
			ParentQuestionID: questions[idx].ID,
			RequiredAnswers:  append([]string(nil), wq.RequiredAnswer...),
		}
	}
	return questions, nil
}

// stringList accepts either a JSON string or an array of strings.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = stringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("required_answer must be a string or array of strings")
	}
	*s = stringList(many)
	return nil
}

// unmarshalResponse strips any surrounding prose or code fences and decodes
// the first JSON object in the model's reply.
func unmarshalResponse(raw string, target any) error {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return fmt.Errorf("no JSON object in response")
	}
	return json.Unmarshal([]byte(raw[start:end+1]), target)
}
