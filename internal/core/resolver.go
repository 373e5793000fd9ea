// Package core contains the business logic for ba-ai: the questionnaire
// dependency resolver, the readiness gate, answer mutation handling, and the
// documentation-item lifecycle workflow.
package core

import "github.com/FedericoDamboreana/ba-ai/pkg/models"

// Visible returns the subset of questions currently visible given the answers
// already present in the set. It is a pure, stable filter: input order is
// preserved and the input is never mutated.
//
// A question is visible when it has no trigger condition, when the condition
// names no parent, or when the referenced parent is answered with a value the
// condition accepts. The check is deliberately single-hop: a dependent
// question's visibility looks only at its parent's answered state and value,
// never at whether the parent is itself visible. A condition referencing a
// parent missing from the set fails closed (the question stays hidden).
func Visible(questions []*models.Question) []*models.Question {
	byID := make(map[string]*models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	visible := make([]*models.Question, 0, len(questions))
	for _, q := range questions {
		if isVisible(q, byID) {
			visible = append(visible, q)
		}
	}
	return visible
}

func isVisible(q *models.Question, byID map[string]*models.Question) bool {
	if q.Trigger == nil || q.Trigger.ParentQuestionID == "" {
		return true
	}
	parent, ok := byID[q.Trigger.ParentQuestionID]
	if !ok {
		// Inconsistent trigger data must not crash the workflow.
		return false
	}
	if !parent.IsAnswered() {
		return false
	}
	return q.Trigger.Matches(parent.Answer)
}

// IsReadyForGeneration reports whether every visible critical question is
// answered. Readiness is computed strictly over the visible subset, so a
// critical question hidden by its trigger never blocks. An empty visible set
// is never ready.
func IsReadyForGeneration(questions []*models.Question) bool {
	visible := Visible(questions)
	if len(visible) == 0 {
		return false
	}
	for _, q := range visible {
		if q.Critical && !q.IsAnswered() {
			return false
		}
	}
	return true
}
