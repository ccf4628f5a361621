package sessions

import (
	"fmt"
	"strings"

	"Backend-FlowForge/src/models"
)

// ValidateAnswerValue checks an answer value against its question's type and
// validation rules before it is recorded.
func ValidateAnswerValue(q *models.Question, value interface{}) error {
	switch q.Type {
	case models.ShortText, models.LongText, models.Email:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("string value required for %s questions", q.Type)
		}
		if q.Type == models.Email && str != "" && !strings.Contains(str, "@") {
			return fmt.Errorf("invalid email address")
		}
		if q.Validation.MinLength != nil && len(str) < *q.Validation.MinLength {
			return fmt.Errorf("answer must be at least %d characters", *q.Validation.MinLength)
		}
		if q.Validation.MaxLength != nil && len(str) > *q.Validation.MaxLength {
			return fmt.Errorf("answer must be at most %d characters", *q.Validation.MaxLength)
		}

	case models.Slider:
		num, ok := toNumber(value)
		if !ok {
			return fmt.Errorf("numeric value required for slider questions")
		}
		if q.Validation.Min != nil && num < *q.Validation.Min {
			return fmt.Errorf("value must be at least %v", *q.Validation.Min)
		}
		if q.Validation.Max != nil && num > *q.Validation.Max {
			return fmt.Errorf("value must be at most %v", *q.Validation.Max)
		}

	case models.MultipleChoice, models.Select, models.Radio:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("string value required for single choice questions")
		}
		if str != "" && !hasOption(q.Options, str) {
			return fmt.Errorf("invalid choice selected")
		}

	case models.Checkbox, models.Ranking:
		selected, err := toStringSlice(value)
		if err != nil {
			return fmt.Errorf("array value required for %s questions", q.Type)
		}
		for _, s := range selected {
			if !hasOption(q.Options, s) {
				return fmt.Errorf("invalid choice selected: %s", s)
			}
		}
		if q.Type == models.Checkbox && q.Validation.MinSelected != nil && len(selected) > 0 && len(selected) < *q.Validation.MinSelected {
			return fmt.Errorf("select at least %d options", *q.Validation.MinSelected)
		}
		if q.Type == models.Ranking && hasDuplicates(selected) {
			return fmt.Errorf("ranking answers cannot repeat options")
		}

	default:
		return fmt.Errorf("unknown question type: %s", q.Type)
	}

	return nil
}

func hasOption(options []models.Option, value string) bool {
	for _, opt := range options {
		if opt.Value == value || opt.ID == value {
			return true
		}
	}
	return false
}

func toStringSlice(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("string values required")
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("array value required")
}

func hasDuplicates(values []string) bool {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return true
		}
		seen[v] = true
	}
	return false
}
