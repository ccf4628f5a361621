package sessions

import (
	"testing"

	"Backend-FlowForge/src/models"

	"github.com/stretchr/testify/assert"
)

func requiredText(id string) models.Question {
	return models.Question{
		ID:         id,
		Type:       models.ShortText,
		Text:       "Question " + id,
		Validation: models.ValidationRules{Required: true},
	}
}

func optionalText(id string) models.Question {
	return models.Question{ID: id, Type: models.ShortText, Text: "Question " + id}
}

func TestEmptySectionIsNeverComplete(t *testing.T) {
	section := &models.Section{ID: "s1", Title: "Empty", Order: 1}
	assert.False(t, IsSectionComplete(section, models.AnswerSet{}, nil))
}

func TestSkippedSectionIsComplete(t *testing.T) {
	section := &models.Section{
		ID: "s1", Title: "Optional", Order: 1, IsOptional: true,
		Questions: []models.Question{requiredText("q1")},
	}

	assert.False(t, IsSectionComplete(section, models.AnswerSet{}, nil))
	assert.True(t, IsSectionComplete(section, models.AnswerSet{}, []string{"s1"}))
}

func TestRequiredQuestionsNeedNonEmptyAnswers(t *testing.T) {
	section := &models.Section{
		ID: "s1", Title: "Profile", Order: 1,
		Questions: []models.Question{requiredText("q1"), optionalText("q2")},
	}

	assert.False(t, IsSectionComplete(section, models.AnswerSet{}, nil))
	assert.False(t, IsSectionComplete(section, answerSet(map[string]interface{}{"q1": ""}), nil))
	assert.False(t, IsSectionComplete(section, answerSet(map[string]interface{}{"q1": []string{}}), nil))
	assert.True(t, IsSectionComplete(section, answerSet(map[string]interface{}{"q1": "done"}), nil))
}

func TestHiddenRequiredQuestionsDoNotBlockCompletion(t *testing.T) {
	section := &models.Section{
		ID: "s1", Title: "Role", Order: 1,
		Questions: []models.Question{
			requiredText("q1"),
			{
				ID: "q2", Type: models.ShortText, Text: "Details",
				Validation: models.ValidationRules{Required: true},
				ConditionalLogic: &models.ConditionalLogic{
					QuestionID: "q1", Operator: models.OpEquals, Value: "other",
				},
			},
		},
	}

	// q2 is hidden until q1 == "other", so it cannot block.
	assert.True(t, IsSectionComplete(section, answerSet(map[string]interface{}{"q1": "developer"}), nil))
	assert.False(t, IsSectionComplete(section, answerSet(map[string]interface{}{"q1": "other"}), nil))
}

func TestCalculateProgressSingleSection(t *testing.T) {
	sections := []models.Section{{
		ID: "s1", Title: "One", Order: 1,
		Questions: []models.Question{requiredText("q1"), requiredText("q2"), requiredText("q3")},
	}}

	summary := CalculateProgress(sections, answerSet(map[string]interface{}{"q1": "a"}), nil)
	assert.Equal(t, 1, summary.CompletedQuestions)
	assert.Equal(t, 3, summary.TotalQuestions)
	assert.Equal(t, 33.33, summary.Percentage)
}

func TestCalculateProgressExcludesSkippedSections(t *testing.T) {
	sections := []models.Section{
		{
			ID: "s1", Title: "Required", Order: 1,
			Questions: []models.Question{requiredText("q1"), requiredText("q2")},
		},
		{
			ID: "s2", Title: "Optional", Order: 2, IsOptional: true,
			Questions: []models.Question{optionalText("q3")},
		},
	}
	answers := answerSet(map[string]interface{}{"q1": "a", "q2": "b"})

	summary := CalculateProgress(sections, answers, []string{"s2"})
	assert.Equal(t, 2, summary.CompletedQuestions)
	assert.Equal(t, 2, summary.TotalQuestions)
	assert.Equal(t, 100.0, summary.Percentage)
}

func TestCalculateProgressEmptyFlow(t *testing.T) {
	summary := CalculateProgress(nil, models.AnswerSet{}, nil)
	assert.Equal(t, 0, summary.TotalQuestions)
	assert.Equal(t, 0.0, summary.Percentage)
}

func TestCalculateProgressNeverDecreasesWithMoreAnswers(t *testing.T) {
	sections := []models.Section{{
		ID: "s1", Title: "One", Order: 1,
		Questions: []models.Question{
			requiredText("q1"), requiredText("q2"), requiredText("q3"), requiredText("q4"),
		},
	}}

	answers := make(models.AnswerSet)
	previous := 0.0
	for _, id := range []string{"q1", "q2", "q3", "q4"} {
		answers[id] = models.Answer{QuestionID: id, Value: "answered"}
		summary := CalculateProgress(sections, answers, nil)
		assert.GreaterOrEqual(t, summary.Percentage, previous)
		previous = summary.Percentage
	}
	assert.Equal(t, 100.0, previous)
}
