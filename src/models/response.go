package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Answer is one recorded answer. Value is a string, []string, or number
// depending on the question type.
type Answer struct {
	QuestionID string      `bson:"questionId" json:"questionId"`
	Value      interface{} `bson:"value" json:"value"`
	Timestamp  time.Time   `bson:"timestamp" json:"timestamp"`
}

// AnswerSet maps questionId to the latest answer for that question.
type AnswerSet map[string]Answer

// Response is one user's pass through one flow.
type Response struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	FlowID      primitive.ObjectID     `bson:"flowId" json:"flowId"`
	UserID      string                 `bson:"userId" json:"userId"`
	Answers     AnswerSet              `bson:"answers,omitempty" json:"answers,omitempty"`
	Progress    *Progress              `bson:"progress,omitempty" json:"progress,omitempty"`
	StartedAt   time.Time              `bson:"startedAt" json:"startedAt"`
	CompletedAt *time.Time             `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	LastUpdated time.Time              `bson:"lastUpdated" json:"lastUpdated"`
	Metadata    map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// IsEmptyValue reports whether v counts as "no answer" for required-field
// purposes. Required questions must have a non-empty value: empty strings and
// empty arrays do not satisfy them. Numbers always count, including zero.
func IsEmptyValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []string:
		return len(val) == 0
	case []interface{}:
		return len(val) == 0
	}
	return false
}
