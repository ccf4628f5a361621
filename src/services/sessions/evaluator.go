package sessions

import (
	"fmt"
	"strconv"
	"strings"

	"Backend-FlowForge/src/models"
)

// ShouldShow decides whether a question is currently visible given the answer
// set. Questions without conditional logic are always visible. When the
// referenced answer is missing the question stays hidden regardless of the
// operator, so dependent questions never appear before their trigger is
// answered. Unknown operators hide the question.
func ShouldShow(q *models.Question, answers models.AnswerSet) bool {
	logic := q.ConditionalLogic
	if logic == nil {
		return true
	}

	ans, ok := answers[logic.QuestionID]
	if !ok || ans.Value == nil {
		return false
	}

	switch logic.Operator {
	case models.OpEquals:
		return looseEquals(ans.Value, logic.Value)
	case models.OpNotEquals:
		return !looseEquals(ans.Value, logic.Value)
	case models.OpGreaterThan:
		a, okA := toNumber(ans.Value)
		b, okB := toNumber(logic.Value)
		return okA && okB && a > b
	case models.OpLessThan:
		a, okA := toNumber(ans.Value)
		b, okB := toNumber(logic.Value)
		return okA && okB && a < b
	case models.OpContains:
		return strings.Contains(
			strings.ToLower(toString(ans.Value)),
			strings.ToLower(toString(logic.Value)),
		)
	}

	return false
}

// VisibleQuestions filters a question list down to the ones currently shown.
func VisibleQuestions(questions []models.Question, answers models.AnswerSet) []models.Question {
	visible := make([]models.Question, 0, len(questions))
	for i := range questions {
		if ShouldShow(&questions[i], answers) {
			visible = append(visible, questions[i])
		}
	}
	return visible
}

// looseEquals compares an answer against a trigger value, coercing to the
// trigger's type: numeric triggers compare numerically, everything else
// compares as strings.
func looseEquals(answer, trigger interface{}) bool {
	if b, ok := toNumber(trigger); ok {
		if a, ok := toNumber(answer); ok {
			return a == b
		}
		return false
	}
	return toString(answer) == toString(trigger)
}

func toNumber(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	}
	return 0, false
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ",")
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, toString(item))
		}
		return strings.Join(parts, ",")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", v)
}
