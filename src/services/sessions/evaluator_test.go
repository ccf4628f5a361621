package sessions

import (
	"testing"
	"time"

	"Backend-FlowForge/src/models"

	"github.com/stretchr/testify/assert"
)

func answerSet(pairs map[string]interface{}) models.AnswerSet {
	set := make(models.AnswerSet, len(pairs))
	for id, value := range pairs {
		set[id] = models.Answer{QuestionID: id, Value: value, Timestamp: time.Now()}
	}
	return set
}

func conditional(questionID string, op models.Operator, value interface{}) *models.Question {
	return &models.Question{
		ID:   "dependent",
		Type: models.ShortText,
		Text: "Dependent question",
		ConditionalLogic: &models.ConditionalLogic{
			QuestionID: questionID,
			Operator:   op,
			Value:      value,
		},
	}
}

func TestShouldShowWithoutLogic(t *testing.T) {
	q := &models.Question{ID: "q1", Type: models.ShortText, Text: "Name?"}
	assert.True(t, ShouldShow(q, models.AnswerSet{}))
}

func TestShouldShowMissingAnswerHidesForEveryOperator(t *testing.T) {
	operators := []models.Operator{
		models.OpEquals, models.OpNotEquals, models.OpGreaterThan,
		models.OpLessThan, models.OpContains,
	}
	for _, op := range operators {
		t.Run(string(op), func(t *testing.T) {
			q := conditional("q1", op, "yes")
			assert.False(t, ShouldShow(q, models.AnswerSet{}))
		})
	}
}

func TestShouldShowEquals(t *testing.T) {
	q := conditional("q1", models.OpEquals, "yes")

	assert.False(t, ShouldShow(q, models.AnswerSet{}))
	assert.False(t, ShouldShow(q, answerSet(map[string]interface{}{"q1": "no"})))
	assert.True(t, ShouldShow(q, answerSet(map[string]interface{}{"q1": "yes"})))
}

func TestShouldShowEqualsCoercesNumbers(t *testing.T) {
	q := conditional("q1", models.OpEquals, 5)

	// JSON decoding yields float64; string answers from selects coerce too.
	assert.True(t, ShouldShow(q, answerSet(map[string]interface{}{"q1": float64(5)})))
	assert.True(t, ShouldShow(q, answerSet(map[string]interface{}{"q1": "5"})))
	assert.False(t, ShouldShow(q, answerSet(map[string]interface{}{"q1": "6"})))
}

func TestShouldShowNotEquals(t *testing.T) {
	q := conditional("q1", models.OpNotEquals, "yes")

	// Absence never satisfies, even for not_equals.
	assert.False(t, ShouldShow(q, models.AnswerSet{}))
	assert.True(t, ShouldShow(q, answerSet(map[string]interface{}{"q1": "no"})))
	assert.False(t, ShouldShow(q, answerSet(map[string]interface{}{"q1": "yes"})))
}

func TestShouldShowNumericComparison(t *testing.T) {
	gt := conditional("q1", models.OpGreaterThan, 3)
	lt := conditional("q1", models.OpLessThan, 3)

	assert.True(t, ShouldShow(gt, answerSet(map[string]interface{}{"q1": float64(4)})))
	assert.False(t, ShouldShow(gt, answerSet(map[string]interface{}{"q1": float64(3)})))
	assert.True(t, ShouldShow(lt, answerSet(map[string]interface{}{"q1": float64(2)})))
	assert.False(t, ShouldShow(lt, answerSet(map[string]interface{}{"q1": "not a number"})))
}

func TestShouldShowContains(t *testing.T) {
	q := conditional("q1", models.OpContains, "Git")

	assert.True(t, ShouldShow(q, answerSet(map[string]interface{}{"q1": "github"})))
	assert.True(t, ShouldShow(q, answerSet(map[string]interface{}{"q1": []string{"slack", "github"}})))
	assert.False(t, ShouldShow(q, answerSet(map[string]interface{}{"q1": "jira"})))
}

func TestShouldShowUnknownOperatorFailsClosed(t *testing.T) {
	q := conditional("q1", models.Operator("matches"), "yes")
	assert.False(t, ShouldShow(q, answerSet(map[string]interface{}{"q1": "yes"})))
}

func TestShouldShowIsPure(t *testing.T) {
	q := conditional("q1", models.OpEquals, "yes")
	answers := answerSet(map[string]interface{}{"q1": "yes"})

	first := ShouldShow(q, answers)
	second := ShouldShow(q, answers)
	assert.Equal(t, first, second)
	assert.True(t, first)
}

func TestVisibleQuestions(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.Radio, Text: "Pick one", Options: []models.Option{{ID: "a", Text: "A", Value: "a"}}},
		{
			ID: "q2", Type: models.ShortText, Text: "Why?",
			ConditionalLogic: &models.ConditionalLogic{QuestionID: "q1", Operator: models.OpEquals, Value: "a"},
		},
	}

	visible := VisibleQuestions(questions, models.AnswerSet{})
	assert.Len(t, visible, 1)
	assert.Equal(t, "q1", visible[0].ID)

	visible = VisibleQuestions(questions, answerSet(map[string]interface{}{"q1": "a"}))
	assert.Len(t, visible, 2)
}
