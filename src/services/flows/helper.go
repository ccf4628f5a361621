package flows

import (
	"fmt"

	"Backend-FlowForge/src/apperror"
	"Backend-FlowForge/src/models"
)

// ValidateFlowStructure runs struct-tag validation plus the structural rules
// a flow must satisfy: unique section orders, unique question ids, options on
// choice/ranking questions, and conditional logic that only references
// earlier questions.
func ValidateFlowStructure(flow *models.Flow) error {
	if err := validate.Struct(flow); err != nil {
		return apperror.NewValidationError("flow failed schema validation", err)
	}

	orders := make(map[int]string, len(flow.Sections))
	seen := make(map[string]bool)

	for _, section := range flow.SortedSections() {
		if prev, dup := orders[section.Order]; dup {
			return apperror.NewValidationError(
				fmt.Sprintf("sections %q and %q share order %d", prev, section.ID, section.Order), nil)
		}
		orders[section.Order] = section.ID

		for i := range section.Questions {
			q := &section.Questions[i]
			if err := validateQuestion(q, seen); err != nil {
				return err
			}
			seen[q.ID] = true
		}
	}
	return nil
}

// validateQuestion checks one question against the catalog rules. seen holds
// the ids of all questions earlier in navigation order.
func validateQuestion(q *models.Question, seen map[string]bool) error {
	if !q.Type.IsValid() {
		return apperror.NewValidationError(
			fmt.Sprintf("question %q has unknown type %q", q.ID, q.Type), nil)
	}
	if seen[q.ID] {
		return apperror.NewValidationError(
			fmt.Sprintf("duplicate question id %q", q.ID), nil)
	}
	if q.Type.NeedsOptions() && len(q.Options) == 0 {
		return apperror.NewValidationError(
			fmt.Sprintf("question %q of type %s requires options", q.ID, q.Type), nil)
	}

	if logic := q.ConditionalLogic; logic != nil {
		if !validOperator(logic.Operator) {
			return apperror.NewValidationError(
				fmt.Sprintf("question %q has unknown operator %q", q.ID, logic.Operator), nil)
		}
		if !seen[logic.QuestionID] {
			return apperror.NewValidationError(
				fmt.Sprintf("question %q references %q, which does not occur earlier in the flow",
					q.ID, logic.QuestionID), nil)
		}
	}
	return nil
}

func validOperator(op models.Operator) bool {
	switch op {
	case models.OpEquals, models.OpNotEquals, models.OpGreaterThan, models.OpLessThan, models.OpContains:
		return true
	}
	return false
}
