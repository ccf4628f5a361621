package sessions

import (
	"math"

	"Backend-FlowForge/src/models"
)

// IsSectionComplete reports whether a section is satisfied by the current
// answers. Skipped sections are satisfied without inspection. A section with
// no questions is never complete. Only currently-visible questions are
// checked; a required question needs a non-empty answer.
func IsSectionComplete(section *models.Section, answers models.AnswerSet, skippedSectionIDs []string) bool {
	if containsID(skippedSectionIDs, section.ID) {
		return true
	}
	if len(section.Questions) == 0 {
		return false
	}

	for _, q := range VisibleQuestions(section.Questions, answers) {
		if !q.Validation.Required {
			continue
		}
		ans, ok := answers[q.ID]
		if !ok || models.IsEmptyValue(ans.Value) {
			return false
		}
	}
	return true
}

// CalculateProgress totals answered vs visible questions across all sections
// not in skippedSectionIDs. Percentage is rounded to two decimals, 0 when
// there is nothing to count.
func CalculateProgress(sections []models.Section, answers models.AnswerSet, skippedSectionIDs []string) models.ProgressSummary {
	completed, total := 0, 0

	for i := range sections {
		if containsID(skippedSectionIDs, sections[i].ID) {
			continue
		}
		for _, q := range VisibleQuestions(sections[i].Questions, answers) {
			total++
			if ans, ok := answers[q.ID]; ok && !models.IsEmptyValue(ans.Value) {
				completed++
			}
		}
	}

	summary := models.ProgressSummary{
		CompletedQuestions: completed,
		TotalQuestions:     total,
	}
	if total > 0 {
		summary.Percentage = math.Round(float64(completed)/float64(total)*10000) / 100
	}
	return summary
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
