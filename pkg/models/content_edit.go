package models

import (
	"fmt"
	"strings"
)

// EditField replaces a single field of the content with a caller-supplied
// value. Paths are dot-separated and validated against the variant's shape;
// an unknown path is rejected rather than merged in. List-valued fields take
// newline-separated input.
func (gc *GeneratedContent) EditField(path string, value string) error {
	switch gc.Type {
	case DocTypeUserStory:
		return editUserStoryField(gc.UserStory, path, value)
	case DocTypePRD:
		return editPRDField(gc.PRD, path, value)
	case DocTypeEpic:
		return editEpicField(gc.Epic, path, value)
	case DocTypeFRS:
		return editFRSField(gc.FRS, path, value)
	default:
		return fmt.Errorf("editing content: unknown content type %q", gc.Type)
	}
}

func editUserStoryField(c *UserStoryContent, path, value string) error {
	if c == nil {
		return fmt.Errorf("editing content: user story payload missing")
	}
	switch path {
	case "title":
		c.Title = value
	case "user_story.as_a":
		c.Story.AsA = value
	case "user_story.i_want":
		c.Story.IWant = value
	case "user_story.so_that":
		c.Story.SoThat = value
	case "notes":
		c.Notes = value
	case "dependencies":
		c.Dependencies = splitLines(value)
	default:
		return unknownPath(DocTypeUserStory, path)
	}
	return nil
}

func editPRDField(c *PRDContent, path, value string) error {
	if c == nil {
		return fmt.Errorf("editing content: prd payload missing")
	}
	switch path {
	case "title":
		c.Title = value
	case "overview":
		c.Overview = value
	case "objectives":
		c.Objectives = splitLines(value)
	case "scope.in_scope":
		c.Scope.InScope = splitLines(value)
	case "scope.out_of_scope":
		c.Scope.OutOfScope = splitLines(value)
	case "constraints":
		c.Constraints = splitLines(value)
	case "success_criteria":
		c.SuccessCriteria = splitLines(value)
	default:
		return unknownPath(DocTypePRD, path)
	}
	return nil
}

func editEpicField(c *EpicContent, path, value string) error {
	if c == nil {
		return fmt.Errorf("editing content: epic payload missing")
	}
	switch path {
	case "title":
		c.Title = value
	case "business_value":
		c.BusinessValue = value
	case "user_problems":
		c.UserProblems = splitLines(value)
	case "scope.included":
		c.Scope.InScope = splitLines(value)
	case "scope.excluded":
		c.Scope.OutOfScope = splitLines(value)
	case "dependencies":
		c.Dependencies = splitLines(value)
	case "success_metrics":
		c.SuccessMetrics = splitLines(value)
	default:
		return unknownPath(DocTypeEpic, path)
	}
	return nil
}

func editFRSField(c *FRSContent, path, value string) error {
	if c == nil {
		return fmt.Errorf("editing content: frs payload missing")
	}
	switch path {
	case "title":
		c.Title = value
	case "overview":
		c.Overview = value
	default:
		return unknownPath(DocTypeFRS, path)
	}
	return nil
}

func unknownPath(docType DocumentationType, path string) error {
	return fmt.Errorf("editing content: field %q does not exist on %s content", path, docType)
}

func splitLines(value string) []string {
	var out []string
	for _, line := range strings.Split(value, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
