package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionType is the closed catalog of question types a flow can use.
type QuestionType string

const (
	ShortText      QuestionType = "short_text"
	LongText       QuestionType = "long_text"
	MultipleChoice QuestionType = "multiple_choice"
	Slider         QuestionType = "slider"
	Ranking        QuestionType = "ranking"
	Email          QuestionType = "email"
	Select         QuestionType = "select"
	Radio          QuestionType = "radio"
	Checkbox       QuestionType = "checkbox"
)

// IsValid reports whether t is one of the catalog types.
func (t QuestionType) IsValid() bool {
	switch t {
	case ShortText, LongText, MultipleChoice, Slider, Ranking, Email, Select, Radio, Checkbox:
		return true
	}
	return false
}

// NeedsOptions reports whether questions of this type must carry options.
func (t QuestionType) NeedsOptions() bool {
	switch t {
	case MultipleChoice, Ranking, Select, Radio, Checkbox:
		return true
	}
	return false
}

// IsMultiValue reports whether answers to this type are arrays of strings.
func (t QuestionType) IsMultiValue() bool {
	return t == Checkbox || t == Ranking
}

// Operator is a conditional-logic comparison operator.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpContains    Operator = "contains"
)

// --- Option ---
type Option struct {
	ID    string `bson:"id" json:"id" validate:"required"`
	Text  string `bson:"text" json:"text" validate:"required"`
	Value string `bson:"value" json:"value"`
}

// ValidationRules holds the client-side validation settings of a question.
type ValidationRules struct {
	Required    bool     `bson:"required" json:"required"`
	MinLength   *int     `bson:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength   *int     `bson:"maxLength,omitempty" json:"maxLength,omitempty"`
	Min         *float64 `bson:"min,omitempty" json:"min,omitempty"`
	Max         *float64 `bson:"max,omitempty" json:"max,omitempty"`
	Step        *float64 `bson:"step,omitempty" json:"step,omitempty"`
	MinSelected *int     `bson:"minSelected,omitempty" json:"minSelected,omitempty"`
}

// ConditionalLogic hides or shows a question based on an earlier answer.
type ConditionalLogic struct {
	QuestionID string      `bson:"questionId" json:"questionId" validate:"required"`
	Operator   Operator    `bson:"operator" json:"operator" validate:"required"`
	Value      interface{} `bson:"value" json:"value"`
}

// --- Question ---
type Question struct {
	ID               string            `bson:"id" json:"id" validate:"required"`
	Type             QuestionType      `bson:"type" json:"type" validate:"required"`
	Text             string            `bson:"text" json:"text" validate:"required"`
	Description      string            `bson:"description,omitempty" json:"description,omitempty"`
	Placeholder      string            `bson:"placeholder,omitempty" json:"placeholder,omitempty"`
	Validation       ValidationRules   `bson:"validation" json:"validation"`
	Options          []Option          `bson:"options,omitempty" json:"options,omitempty" validate:"omitempty,dive"`
	ConditionalLogic *ConditionalLogic `bson:"conditionalLogic,omitempty" json:"conditionalLogic,omitempty"`
}

// --- Section ---
type Section struct {
	ID          string     `bson:"id" json:"id" validate:"required"`
	Title       string     `bson:"title" json:"title" validate:"required"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Order       int        `bson:"order" json:"order"`
	IsOptional  bool       `bson:"isOptional" json:"isOptional"`
	Questions   []Question `bson:"questions" json:"questions" validate:"dive"`
}

// FlowType distinguishes onboarding flows from standalone questionnaires.
type FlowType string

const (
	FlowOnboarding    FlowType = "onboarding"
	FlowQuestionnaire FlowType = "questionnaire"
)

// FlowStatus is the publication state of a flow.
type FlowStatus string

const (
	StatusDraft     FlowStatus = "draft"
	StatusPublished FlowStatus = "published"
	StatusArchived  FlowStatus = "archived"
)

// FlowSettings are per-flow behaviour toggles for the runner.
type FlowSettings struct {
	AllowSkipSections  bool   `bson:"allowSkipSections" json:"allowSkipSections"`
	RequireAllSections bool   `bson:"requireAllSections" json:"requireAllSections"`
	ShowProgressBar    bool   `bson:"showProgressBar" json:"showProgressBar"`
	ShuffleSections    bool   `bson:"shuffleSections" json:"shuffleSections"`
	AllowSaveProgress  bool   `bson:"allowSaveProgress" json:"allowSaveProgress"`
	CompletionMessage  string `bson:"completionMessage,omitempty" json:"completionMessage,omitempty"`
}

// --- Flow ---
type Flow struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Version     int                `bson:"version" json:"version"`
	Type        FlowType           `bson:"type" json:"type" validate:"required,oneof=onboarding questionnaire"`
	Status      FlowStatus         `bson:"status" json:"status"`
	IsDefault   bool               `bson:"isDefault" json:"isDefault"`
	Sections    []Section          `bson:"sections" json:"sections" validate:"dive"`
	Settings    FlowSettings       `bson:"settings" json:"settings"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// SortedSections returns the sections in navigation order (by Order field).
// Storage order is not guaranteed to match display order.
func (f *Flow) SortedSections() []Section {
	out := make([]Section, len(f.Sections))
	copy(out, f.Sections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// QuestionByID looks a question up across all sections.
func (f *Flow) QuestionByID(id string) (*Question, bool) {
	for si := range f.Sections {
		for qi := range f.Sections[si].Questions {
			if f.Sections[si].Questions[qi].ID == id {
				return &f.Sections[si].Questions[qi], true
			}
		}
	}
	return nil, false
}
