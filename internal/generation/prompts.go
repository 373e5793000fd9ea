// Package generation implements the AI generation service: questionnaire
// generation, completeness validation, and structured document generation
// via the Anthropic Messages API.
package generation

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

// questionSystemPrompt instructs the model when generating the initial
// questionnaire for a new documentation item.
const questionSystemPrompt = `You are a senior Business Analyst assistant helping to gather requirements.
Your role is to generate relevant, comprehensive questions that will help create complete and professional documentation.
Maintain a formal, professional tone suitable for business clients.

Guidelines:
- Generate 8-15 targeted questions that cover all aspects of the requirement
- Avoid false dichotomies in multiple choice questions
- Mark questions as critical only if they are essential for the documentation
- Use conditional questions (parent_question_index + required_answer) when a question depends on a previous answer
- Questions should be specific and actionable
- Focus on "what" and "why" rather than "how" for high-level docs

Respond with a single JSON object and nothing else:
{"questions": [{"question_text": string, "question_type": "Text"|"MultipleChoice"|"Checkbox", "options": [string]|null, "is_critical": bool, "parent_question_index": int|null, "required_answer": string|[string]|null}]}`

// validateSystemPrompt instructs the model when checking whether the answer
// set is sufficient for generation.
const validateSystemPrompt = `You are a senior Business Analyst reviewing a questionnaire before documentation is generated.
Decide whether the answers provided are sufficient to produce a complete, professional document.
If important information is still missing, propose follow-up questions. Reference existing question ids in parent_question_id when a follow-up depends on a given answer.

Respond with a single JSON object and nothing else:
{"is_complete": bool, "new_questions": [{"question_text": string, "question_type": "Text"|"MultipleChoice"|"Checkbox", "options": [string]|null, "is_critical": bool, "parent_question_id": string|null, "required_answer": string|[string]|null}]}`

// knowledgeSystemPrompt instructs the model when folding a generated document
// into the project's cumulative knowledge base.
const knowledgeSystemPrompt = `You are a knowledge management assistant for a Business Analyst documentation system.
Your role is to maintain a concise, cumulative project knowledge base.

The knowledge base should capture key information useful for generating future documentation:
- Stakeholders and their roles
- Business rules and constraints
- Technical decisions and rationale
- Domain terminology and definitions
- Dependencies and integrations
- Common patterns or requirements

Be concise but comprehensive. Avoid duplication. Integrate new information with existing context.

Respond with a single JSON object and nothing else:
{"knowledge_base": string}`

// docSystemPromptBase is shared by all documentation types.
const docSystemPromptBase = `You are a senior Business Analyst creating professional documentation.
Maintain a formal, professional tone suitable for business clients.
Use clear, precise language and follow industry-standard formats.
Respond with a single JSON object matching the requested schema and nothing else.`

// docTypeGuidance holds the type-specific system prompt additions.
var docTypeGuidance = map[models.DocumentationType]string{
	models.DocTypeUserStory: `
For User Stories:
- Use the standard format: "As a [user type], I want [goal], so that [benefit]"
- Write acceptance criteria in BDD/Gherkin format (Given/When/Then)
- Include multiple scenarios: happy path, edge cases, and error cases
- Be specific and testable in acceptance criteria

Schema: {"title": string, "user_story": {"as_a": string, "i_want": string, "so_that": string}, "acceptance_criteria": [{"scenario_name": string, "given": [string], "when": [string], "then": [string]}], "notes": string|null, "dependencies": [string]|null}`,

	models.DocTypePRD: `
For Product Requirements Documents:
- Structure with clear sections: overview, objectives, scope, stakeholders, requirements, constraints
- Define success criteria and use numbered requirements for easy reference
- Distinguish between must-have and nice-to-have features

Schema: {"title": string, "overview": string, "objectives": [string], "scope": {"in_scope": [string], "out_of_scope": [string]}, "stakeholders": [{"role": string, "responsibilities": string}], "requirements": [{"id": string, "description": string, "priority": "Must Have"|"Should Have"|"Could Have"}], "constraints": [string], "success_criteria": [string]}`,

	models.DocTypeEpic: `
For Epic Documentation:
- Define the business value and user problems being solved
- Outline scope boundaries and list high-level features
- Include success metrics and dependencies on other epics or systems

Schema: {"title": string, "business_value": string, "user_problems": [string], "scope": {"in_scope": [string], "out_of_scope": [string]}, "features": [{"name": string, "description": string}], "dependencies": [string], "success_metrics": [string]}`,

	models.DocTypeFRS: `
For Functional Requirements Specifications:
- Organize requirements by functional area with clear requirement IDs (FR-001, FR-002)
- Specify inputs, outputs, business rules, and validation criteria
- Prioritize requirements (Must/Should/Could)

Schema: {"title": string, "overview": string, "functional_areas": [{"area_name": string, "requirements": [{"id": string, "description": string, "priority": "Must"|"Should"|"Could", "inputs": string|null, "outputs": string|null, "business_rules": [string]}]}]}`,
}

// docSystemPrompt returns the full system prompt for a documentation type.
func docSystemPrompt(docType models.DocumentationType) string {
	return docSystemPromptBase + docTypeGuidance[docType]
}

var questionUserTemplate = template.Must(template.New("questions").Parse(`Generate questions to create a {{.Type}} document.

**Project Context:**
- Project Name: {{.ProjectName}}
- Client: {{if .Client}}{{.Client}}{{else}}Not specified{{end}}
- Project Description: {{.ProjectDescription}}

**Existing Project Knowledge:**
{{if .KnowledgeBase}}{{.KnowledgeBase}}{{else}}No prior documentation for this project.{{end}}

**Documentation Item:**
- Type: {{.Type}}
- Title: {{.Title}}
- Description: {{.Description}}

**Guidance for {{.Type}}:**
{{.Guidance}}

Generate questions that will help create comprehensive {{.Type}} documentation.
Return questions in order of importance.`))

var docUserTemplate = template.Must(template.New("doc").Parse(`Create {{.Type}} documentation based on the following information.

**Project Context:**
- Project: {{.ProjectName}}
- Client: {{if .Client}}{{.Client}}{{else}}Not specified{{end}}
- Description: {{.ProjectDescription}}

**Project Knowledge Base:**
{{if .KnowledgeBase}}{{.KnowledgeBase}}{{else}}No prior context.{{end}}

**Documentation Item:**
- Title: {{.Title}}
- Description: {{.Description}}

**Questions and Answers:**
{{range $i, $qa := .QA}}{{$qa}}

{{end}}{{if .Feedback}}
**Regeneration Feedback:**
The user provided the following feedback on the previous version:
{{.Feedback}}

Please incorporate this feedback into the new version.{{end}}`))

var validateUserTemplate = template.Must(template.New("validate").Parse(`Review the questionnaire for a {{.Type}} document titled "{{.Title}}".

**Item Description:**
{{.Description}}

**Questions and Answers:**
{{range $i, $qa := .QA}}{{$qa}}

{{end}}
Decide whether these answers are sufficient to produce complete {{.Type}} documentation.`))

var knowledgeUserTemplate = template.Must(template.New("knowledge").Parse(`Update the project knowledge base with insights from newly created documentation.

**Current Knowledge Base:**
{{if .KnowledgeBase}}{{.KnowledgeBase}}{{else}}Empty - this is the first documentation item.{{end}}

**New Documentation Created:**
- Type: {{.Type}}
- Title: {{.Title}}
- Description: {{.Description}}

**Key Questions and Answers:**
{{range $i, $qa := .QA}}{{$qa}}

{{end}}
**Generated Content Summary:**
{{.ContentSummary}}

Integrate the new information into the existing knowledge base.
Focus on facts that will help generate future documentation:
- New stakeholders mentioned
- Business rules or constraints identified
- Technical decisions or requirements
- Domain-specific terminology
- Dependencies or integrations
- Patterns that might apply to other features

Keep the knowledge base concise (max 1000 words). Remove outdated information if needed.`))

// questionGuidance holds the per-type focus hints for question generation.
var questionGuidance = map[models.DocumentationType]string{
	models.DocTypePRD:       "Focus on project scope, objectives, stakeholders, constraints, success criteria, and high-level requirements.",
	models.DocTypeEpic:      "Focus on business value, user problems being solved, scope boundaries, high-level features, and dependencies.",
	models.DocTypeUserStory: "Focus on the user persona, their goal, the benefit, acceptance criteria scenarios, edge cases, and constraints.",
	models.DocTypeFRS:       "Focus on detailed functional requirements, system behavior, inputs/outputs, business rules, validations, and error handling.",
}

type promptData struct {
	Type               models.DocumentationType
	ProjectName        string
	Client             string
	ProjectDescription string
	KnowledgeBase      string
	Title              string
	Description        string
	Guidance           string
	QA                 []string
	Feedback           string
	ContentSummary     string
}

func newPromptData(project *models.Project, item *models.DocumentationItem, questions []*models.Question, feedback string) promptData {
	data := promptData{
		Type:        item.Type,
		Title:       item.Title,
		Description: item.Description,
		Guidance:    questionGuidance[item.Type],
		Feedback:    feedback,
	}
	if project != nil {
		data.ProjectName = project.Name
		data.Client = project.Client
		data.ProjectDescription = project.Description
		data.KnowledgeBase = project.KnowledgeBase
	}
	for i, q := range questions {
		answer := "Not answered"
		if q.IsAnswered() {
			answer = q.Answer
		}
		data.QA = append(data.QA, fmt.Sprintf("%d. Q: %s\n   A: %s", i+1, q.Text, answer))
	}
	return data
}

func renderPrompt(tmpl *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
