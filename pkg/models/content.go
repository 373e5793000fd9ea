package models

import "fmt"

// GeneratedContent is a tagged union of the per-type structured documents the
// generation service produces. Exactly one variant is set, matching Type.
// Edits go through EditField so that caller-supplied updates are validated
// against the variant's shape instead of merged blindly.
type GeneratedContent struct {
	Type      DocumentationType `yaml:"type" json:"type"`
	UserStory *UserStoryContent `yaml:"user_story,omitempty" json:"user_story,omitempty"`
	PRD       *PRDContent       `yaml:"prd,omitempty" json:"prd,omitempty"`
	Epic      *EpicContent      `yaml:"epic,omitempty" json:"epic,omitempty"`
	FRS       *FRSContent       `yaml:"frs,omitempty" json:"frs,omitempty"`
}

// UserStoryContent is the structured payload for a UserStory item.
type UserStoryContent struct {
	Title              string         `yaml:"title" json:"title"`
	Story              StoryStatement `yaml:"user_story" json:"user_story"`
	AcceptanceCriteria []BDDScenario  `yaml:"acceptance_criteria" json:"acceptance_criteria"`
	Notes              string         `yaml:"notes,omitempty" json:"notes,omitempty"`
	Dependencies       []string       `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// StoryStatement is the standard "As a / I want / So that" statement.
type StoryStatement struct {
	AsA    string `yaml:"as_a" json:"as_a"`
	IWant  string `yaml:"i_want" json:"i_want"`
	SoThat string `yaml:"so_that" json:"so_that"`
}

// BDDScenario is a single Gherkin-style acceptance criterion.
type BDDScenario struct {
	Name  string   `yaml:"scenario_name" json:"scenario_name"`
	Given []string `yaml:"given" json:"given"`
	When  []string `yaml:"when" json:"when"`
	Then  []string `yaml:"then" json:"then"`
}

// PRDContent is the structured payload for a PRD item.
type PRDContent struct {
	Title           string           `yaml:"title" json:"title"`
	Overview        string           `yaml:"overview" json:"overview"`
	Objectives      []string         `yaml:"objectives" json:"objectives"`
	Scope           ScopeBoundary    `yaml:"scope" json:"scope"`
	Stakeholders    []Stakeholder    `yaml:"stakeholders,omitempty" json:"stakeholders,omitempty"`
	Requirements    []PRDRequirement `yaml:"requirements" json:"requirements"`
	Constraints     []string         `yaml:"constraints,omitempty" json:"constraints,omitempty"`
	SuccessCriteria []string         `yaml:"success_criteria,omitempty" json:"success_criteria,omitempty"`
}

// ScopeBoundary lists what is in and out of scope.
type ScopeBoundary struct {
	InScope    []string `yaml:"in_scope" json:"in_scope"`
	OutOfScope []string `yaml:"out_of_scope" json:"out_of_scope"`
}

// Stakeholder names a role involved in the project and its responsibilities.
type Stakeholder struct {
	Role             string `yaml:"role" json:"role"`
	Responsibilities string `yaml:"responsibilities" json:"responsibilities"`
}

// PRDRequirement is a numbered product requirement.
type PRDRequirement struct {
	ID          string `yaml:"id" json:"id"`
	Description string `yaml:"description" json:"description"`
	Priority    string `yaml:"priority" json:"priority"` // Must Have, Should Have, Could Have
}

// EpicContent is the structured payload for an Epic item.
type EpicContent struct {
	Title          string        `yaml:"title" json:"title"`
	BusinessValue  string        `yaml:"business_value" json:"business_value"`
	UserProblems   []string      `yaml:"user_problems" json:"user_problems"`
	Scope          ScopeBoundary `yaml:"scope" json:"scope"`
	Features       []EpicFeature `yaml:"features" json:"features"`
	Dependencies   []string      `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	SuccessMetrics []string      `yaml:"success_metrics,omitempty" json:"success_metrics,omitempty"`
}

// EpicFeature is a high-level capability inside an epic.
type EpicFeature struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// FRSContent is the structured payload for an FRS item.
type FRSContent struct {
	Title           string           `yaml:"title" json:"title"`
	Overview        string           `yaml:"overview" json:"overview"`
	FunctionalAreas []FunctionalArea `yaml:"functional_areas" json:"functional_areas"`
}

// FunctionalArea groups functional requirements by area.
type FunctionalArea struct {
	Name         string           `yaml:"area_name" json:"area_name"`
	Requirements []FRSRequirement `yaml:"requirements" json:"requirements"`
}

// FRSRequirement is a single functional requirement with IO and rules.
type FRSRequirement struct {
	ID            string   `yaml:"id" json:"id"`
	Description   string   `yaml:"description" json:"description"`
	Priority      string   `yaml:"priority" json:"priority"` // Must, Should, Could
	Inputs        string   `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Outputs       string   `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	BusinessRules []string `yaml:"business_rules,omitempty" json:"business_rules,omitempty"`
}

// Validate checks that exactly the variant matching Type is populated.
func (gc *GeneratedContent) Validate() error {
	var want, got int
	count := func(set bool) {
		if set {
			got++
		}
	}
	count(gc.UserStory != nil)
	count(gc.PRD != nil)
	count(gc.Epic != nil)
	count(gc.FRS != nil)
	want = 1

	var matches bool
	switch gc.Type {
	case DocTypeUserStory:
		matches = gc.UserStory != nil
	case DocTypePRD:
		matches = gc.PRD != nil
	case DocTypeEpic:
		matches = gc.Epic != nil
	case DocTypeFRS:
		matches = gc.FRS != nil
	default:
		return fmt.Errorf("unknown content type %q", gc.Type)
	}

	if got != want || !matches {
		return fmt.Errorf("content payload does not match type %s", gc.Type)
	}
	return nil
}

// Clone returns a deep-enough copy for overwrite-on-success semantics: the
// variant structs are copied by value, slice fields included, so a failed
// regeneration cannot mutate the previous content through shared pointers.
func (gc *GeneratedContent) Clone() *GeneratedContent {
	if gc == nil {
		return nil
	}
	cp := *gc
	if gc.UserStory != nil {
		us := *gc.UserStory
		us.AcceptanceCriteria = append([]BDDScenario(nil), gc.UserStory.AcceptanceCriteria...)
		us.Dependencies = append([]string(nil), gc.UserStory.Dependencies...)
		cp.UserStory = &us
	}
	if gc.PRD != nil {
		prd := *gc.PRD
		prd.Objectives = append([]string(nil), gc.PRD.Objectives...)
		prd.Stakeholders = append([]Stakeholder(nil), gc.PRD.Stakeholders...)
		prd.Requirements = append([]PRDRequirement(nil), gc.PRD.Requirements...)
		prd.Constraints = append([]string(nil), gc.PRD.Constraints...)
		prd.SuccessCriteria = append([]string(nil), gc.PRD.SuccessCriteria...)
		cp.PRD = &prd
	}
	if gc.Epic != nil {
		ep := *gc.Epic
		ep.UserProblems = append([]string(nil), gc.Epic.UserProblems...)
		ep.Features = append([]EpicFeature(nil), gc.Epic.Features...)
		ep.Dependencies = append([]string(nil), gc.Epic.Dependencies...)
		ep.SuccessMetrics = append([]string(nil), gc.Epic.SuccessMetrics...)
		cp.Epic = &ep
	}
	if gc.FRS != nil {
		frs := *gc.FRS
		frs.FunctionalAreas = append([]FunctionalArea(nil), gc.FRS.FunctionalAreas...)
		cp.FRS = &frs
	}
	return &cp
}
