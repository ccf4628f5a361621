package sessions

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"Backend-FlowForge/src/models"
)

// RequiredMessage is the inline error reported for unanswered required
// questions when a forward transition is rejected.
const RequiredMessage = "This question is required"

// TransitionStatus tells the caller what a session operation did.
type TransitionStatus string

const (
	TransitionAccepted  TransitionStatus = "accepted"
	TransitionRejected  TransitionStatus = "rejected"
	TransitionCompleted TransitionStatus = "completed"
)

// TransitionResult is returned by every session operation. Illegal
// transitions are rejections with a reason and optional per-question errors,
// never panics or mutations.
type TransitionResult struct {
	Status      TransitionStatus  `json:"status"`
	Reason      string            `json:"reason,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

func accepted() TransitionResult {
	return TransitionResult{Status: TransitionAccepted}
}

func rejected(reason string) TransitionResult {
	return TransitionResult{Status: TransitionRejected, Reason: reason}
}

// SessionState is the tuple the presentation layer binds to.
type SessionState struct {
	SectionIndex int                    `json:"sectionIndex"`
	SectionCount int                    `json:"sectionCount"`
	Section      *models.Section        `json:"section,omitempty"`
	Progress     models.Progress        `json:"progress"`
	Summary      models.ProgressSummary `json:"summary"`
	Answers      models.AnswerSet       `json:"answers"`
	SaveStatus   models.SaveStatus      `json:"saveStatus"`
	Completed    bool                   `json:"completed"`
}

// Session owns the live answers and progress for one user's pass through one
// flow. All operations are gated by the completion calculator and the
// visibility evaluator; the session is the only writer of its state.
type Session struct {
	mu         sync.Mutex
	flow       *models.Flow
	sections   []models.Section // navigation order
	responseID string

	index     int
	answers   models.AnswerSet
	completed []string
	skipped   []string
	done      bool
	updatedAt time.Time

	saver *Autosaver
}

// NewSession starts a fresh pass at the first section. Sections follow their
// Order field, shuffled when the flow asks for it.
func NewSession(flow *models.Flow, responseID string, saver *Autosaver) *Session {
	sections := flow.SortedSections()
	if flow.Settings.ShuffleSections {
		rand.Shuffle(len(sections), func(i, j int) {
			sections[i], sections[j] = sections[j], sections[i]
		})
	}

	s := &Session{
		flow:       flow,
		sections:   sections,
		responseID: responseID,
		answers:    make(models.AnswerSet),
		updatedAt:  time.Now(),
		saver:      saver,
	}
	if saver != nil {
		saver.SetSource(s.Snapshot)
	}
	return s
}

// Restore replays a persisted snapshot into the session, used to resume a
// saved pass. The current section index is recovered from the snapshot's
// current section id.
func (s *Session) Restore(snap *ProgressSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Answers != nil {
		s.answers = snap.Answers
	}
	s.completed = append([]string(nil), snap.Progress.CompletedSections...)
	s.skipped = append([]string(nil), snap.Progress.SkippedSections...)
	s.done = snap.Completed
	for i := range s.sections {
		if s.sections[i].ID == snap.Progress.CurrentSectionID {
			s.index = i
			break
		}
	}
}

// Answer records a value for a question. The latest call wins for its
// question; the section index does not move. The value is type-checked
// against the question before being stored.
func (s *Session) Answer(questionID string, value interface{}) TransitionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return rejected("session already completed")
	}

	q, ok := s.flow.QuestionByID(questionID)
	if !ok {
		return rejected("unknown question: " + questionID)
	}
	if err := ValidateAnswerValue(q, value); err != nil {
		return TransitionResult{
			Status:      TransitionRejected,
			Reason:      "invalid answer value",
			FieldErrors: map[string]string{questionID: err.Error()},
		}
	}

	s.answers[questionID] = models.Answer{
		QuestionID: questionID,
		Value:      value,
		Timestamp:  time.Now(),
	}
	s.touch()
	return accepted()
}

// Next advances to the following section, or completes the flow from the
// last one. It is allowed only when the current section is complete or
// skipped; otherwise it reports which required questions are missing.
func (s *Session) Next(ctx context.Context) TransitionResult {
	s.mu.Lock()
	result, snap := s.nextLocked()
	s.mu.Unlock()

	s.flushFinal(ctx, snap)
	return result
}

func (s *Session) nextLocked() (TransitionResult, *ProgressSnapshot) {
	if s.done {
		return rejected("session already completed"), nil
	}

	current := &s.sections[s.index]
	if !IsSectionComplete(current, s.answers, s.skipped) {
		return TransitionResult{
			Status:      TransitionRejected,
			Reason:      "current section is incomplete",
			FieldErrors: s.missingRequired(current),
		}, nil
	}

	s.markCompleted(current.ID)
	return s.advanceLocked()
}

// Back moves to the previous section. Completed and skipped sets are left
// untouched.
func (s *Session) Back() TransitionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return rejected("session already completed")
	}
	if s.index == 0 {
		return rejected("already at the first section")
	}
	s.index--
	s.touch()
	return accepted()
}

// SkipSection marks an optional section as skipped. Skipping a required
// section leaves the state untouched; callers should consult CanSkip before
// offering the control. Skipping the current section advances without the
// completion gate.
func (s *Session) SkipSection(ctx context.Context, sectionID string) TransitionResult {
	s.mu.Lock()
	result, snap := s.skipLocked(sectionID)
	s.mu.Unlock()

	s.flushFinal(ctx, snap)
	return result
}

func (s *Session) skipLocked(sectionID string) (TransitionResult, *ProgressSnapshot) {
	if s.done {
		return rejected("session already completed"), nil
	}

	var target *models.Section
	for i := range s.sections {
		if s.sections[i].ID == sectionID {
			target = &s.sections[i]
			break
		}
	}
	if target == nil {
		return rejected("unknown section: " + sectionID), nil
	}
	if !target.IsOptional {
		return rejected("section is not optional"), nil
	}

	if !containsID(s.skipped, sectionID) {
		s.skipped = append(s.skipped, sectionID)
	}
	s.touch()

	if s.sections[s.index].ID == sectionID {
		return s.advanceLocked()
	}
	return accepted(), nil
}

// Complete finalizes the session, writes the terminal snapshot immediately
// and leaves the session in its terminal state. When the flow requires all
// sections, every non-skipped section must be complete first.
func (s *Session) Complete(ctx context.Context) TransitionResult {
	s.mu.Lock()
	result, snap := s.completeLocked()
	s.mu.Unlock()

	s.flushFinal(ctx, snap)
	return result
}

func (s *Session) completeLocked() (TransitionResult, *ProgressSnapshot) {
	if s.done {
		return rejected("session already completed"), nil
	}

	if s.flow.Settings.RequireAllSections {
		fieldErrors := map[string]string{}
		for i := range s.sections {
			if !IsSectionComplete(&s.sections[i], s.answers, s.skipped) {
				for k, v := range s.missingRequired(&s.sections[i]) {
					fieldErrors[k] = v
				}
			}
		}
		if len(fieldErrors) > 0 {
			return TransitionResult{
				Status:      TransitionRejected,
				Reason:      "flow requires all sections to be completed",
				FieldErrors: fieldErrors,
			}, nil
		}
	}

	return s.finishLocked()
}

// Reset wipes answers and progress and returns to the first section.
// Used by "start over".
func (s *Session) Reset() TransitionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.index = 0
	s.answers = make(models.AnswerSet)
	s.completed = nil
	s.skipped = nil
	s.done = false
	s.touch()
	return accepted()
}

// CanSkip reports whether the UI may offer a skip control for a section.
func (s *Session) CanSkip(sectionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sections {
		if s.sections[i].ID == sectionID {
			return s.sections[i].IsOptional
		}
	}
	return false
}

// State returns the current tuple for the presentation layer.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SessionState{
		SectionIndex: s.index,
		SectionCount: len(s.sections),
		Progress:     s.progressLocked(),
		Summary:      CalculateProgress(s.sections, s.answers, s.skipped),
		Answers:      s.answersCopyLocked(),
		Completed:    s.done,
	}
	if !s.done && s.index < len(s.sections) {
		section := s.sections[s.index]
		state.Section = &section
	}
	if s.saver != nil {
		state.SaveStatus = s.saver.Status()
	}
	return state
}

// Snapshot captures the persistence view of the session. The autosaver calls
// this from its timer goroutine; the copy keeps it from observing later
// mutations.
func (s *Session) Snapshot() *ProgressSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &ProgressSnapshot{
		ResponseID: s.responseID,
		Answers:    s.answersCopyLocked(),
		Progress:   s.progressLocked(),
		Completed:  s.done,
	}
}

// --- internals (lock held) ---

func (s *Session) advanceLocked() (TransitionResult, *ProgressSnapshot) {
	if s.index == len(s.sections)-1 {
		return s.finishLocked()
	}
	s.index++
	s.touch()
	return accepted(), nil
}

// finishLocked moves the session to its terminal state and hands the terminal
// snapshot back for the caller to flush once the lock is released. The flush
// must not happen under s.mu: SaveNow waits on the save mutex, and an
// in-flight tick holding it takes s.mu inside the snapshot source.
func (s *Session) finishLocked() (TransitionResult, *ProgressSnapshot) {
	s.done = true
	s.touch()
	return TransitionResult{Status: TransitionCompleted}, &ProgressSnapshot{
		ResponseID: s.responseID,
		Answers:    s.answersCopyLocked(),
		Progress:   s.progressLocked(),
		Completed:  true,
	}
}

// flushFinal writes a terminal snapshot, outside the session lock. Best
// effort: completion stands, the status indicator reports a failed write.
func (s *Session) flushFinal(ctx context.Context, snap *ProgressSnapshot) {
	if snap == nil || s.saver == nil {
		return
	}
	if err := s.saver.SaveNow(ctx, snap); err != nil {
		log.Printf("final flush failed for response %s: %v", s.responseID, err)
	}
}

func (s *Session) markCompleted(sectionID string) {
	if !containsID(s.completed, sectionID) {
		s.completed = append(s.completed, sectionID)
	}
}

func (s *Session) missingRequired(section *models.Section) map[string]string {
	fieldErrors := make(map[string]string)
	for _, q := range VisibleQuestions(section.Questions, s.answers) {
		if !q.Validation.Required {
			continue
		}
		if ans, ok := s.answers[q.ID]; !ok || models.IsEmptyValue(ans.Value) {
			fieldErrors[q.ID] = RequiredMessage
		}
	}
	return fieldErrors
}

func (s *Session) progressLocked() models.Progress {
	p := models.Progress{
		CompletedSections: append([]string(nil), s.completed...),
		SkippedSections:   append([]string(nil), s.skipped...),
		LastUpdated:       s.updatedAt,
	}
	if s.index < len(s.sections) {
		p.CurrentSectionID = s.sections[s.index].ID
	}
	if s.done {
		done := s.updatedAt
		p.CompletedAt = &done
	}
	return p
}

func (s *Session) answersCopyLocked() models.AnswerSet {
	out := make(models.AnswerSet, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
	if s.saver != nil {
		s.saver.MarkDirty()
	}
}
