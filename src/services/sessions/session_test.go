package sessions

import (
	"context"
	"testing"
	"time"

	"Backend-FlowForge/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlow() *models.Flow {
	return &models.Flow{
		Title: "Onboarding",
		Type:  models.FlowOnboarding,
		Sections: []models.Section{
			{
				ID: "s1", Title: "Profile", Order: 1,
				Questions: []models.Question{
					{
						ID: "q1", Type: models.ShortText, Text: "Name?",
						Validation: models.ValidationRules{Required: true},
					},
					{
						ID: "q2", Type: models.Radio, Text: "Role?",
						Options: []models.Option{
							{ID: "dev", Text: "Developer", Value: "dev"},
							{ID: "other", Text: "Other", Value: "other"},
						},
						Validation: models.ValidationRules{Required: true},
					},
				},
			},
			{
				ID: "s2", Title: "Extras", Order: 2, IsOptional: true,
				Questions: []models.Question{
					{ID: "q3", Type: models.LongText, Text: "Anything else?"},
				},
			},
		},
	}
}

func TestAnswerOverwritesInCallOrder(t *testing.T) {
	s := NewSession(testFlow(), "r1", nil)

	assert.Equal(t, TransitionAccepted, s.Answer("q1", "a").Status)
	assert.Equal(t, TransitionAccepted, s.Answer("q1", "b").Status)

	state := s.State()
	assert.Equal(t, "b", state.Answers["q1"].Value)
	assert.Equal(t, 0, state.SectionIndex)
}

func TestAnswerRejectsUnknownQuestion(t *testing.T) {
	s := NewSession(testFlow(), "r1", nil)
	result := s.Answer("nope", "x")
	assert.Equal(t, TransitionRejected, result.Status)
}

func TestAnswerRejectsWrongValueType(t *testing.T) {
	s := NewSession(testFlow(), "r1", nil)

	result := s.Answer("q1", 42)
	assert.Equal(t, TransitionRejected, result.Status)
	assert.Contains(t, result.FieldErrors, "q1")

	result = s.Answer("q2", "not-an-option")
	assert.Equal(t, TransitionRejected, result.Status)
}

func TestNextRejectsIncompleteSectionWithFieldErrors(t *testing.T) {
	s := NewSession(testFlow(), "r1", nil)
	s.Answer("q1", "Ada")

	result := s.Next(context.Background())
	require.Equal(t, TransitionRejected, result.Status)
	assert.Equal(t, RequiredMessage, result.FieldErrors["q2"])
	assert.NotContains(t, result.FieldErrors, "q1")
	assert.Equal(t, 0, s.State().SectionIndex)
}

func TestNextAdvancesAndRecordsCompletion(t *testing.T) {
	s := NewSession(testFlow(), "r1", nil)
	s.Answer("q1", "Ada")
	s.Answer("q2", "dev")

	result := s.Next(context.Background())
	require.Equal(t, TransitionAccepted, result.Status)

	state := s.State()
	assert.Equal(t, 1, state.SectionIndex)
	assert.Equal(t, []string{"s1"}, state.Progress.CompletedSections)
}

func TestCompletedSectionsHaveNoDuplicates(t *testing.T) {
	s := NewSession(testFlow(), "r1", nil)
	s.Answer("q1", "Ada")
	s.Answer("q2", "dev")

	require.Equal(t, TransitionAccepted, s.Next(context.Background()).Status)
	require.Equal(t, TransitionAccepted, s.Back().Status)
	require.Equal(t, TransitionAccepted, s.Next(context.Background()).Status)

	assert.Equal(t, []string{"s1"}, s.State().Progress.CompletedSections)
}

func TestBackAtFirstSectionIsRejected(t *testing.T) {
	s := NewSession(testFlow(), "r1", nil)
	assert.Equal(t, TransitionRejected, s.Back().Status)
}

func TestSkipRequiredSectionLeavesStateUntouched(t *testing.T) {
	s := NewSession(testFlow(), "r1", nil)

	result := s.SkipSection(context.Background(), "s1")
	assert.Equal(t, TransitionRejected, result.Status)

	state := s.State()
	assert.Empty(t, state.Progress.SkippedSections)
	assert.Equal(t, 0, state.SectionIndex)
	assert.False(t, s.CanSkip("s1"))
	assert.True(t, s.CanSkip("s2"))
}

func TestSkipCurrentOptionalSectionAdvancesWithoutGate(t *testing.T) {
	s := NewSession(testFlow(), "r1", nil)
	s.Answer("q1", "Ada")
	s.Answer("q2", "dev")
	require.Equal(t, TransitionAccepted, s.Next(context.Background()).Status)

	// s2 is the last section; skipping it finishes the pass.
	result := s.SkipSection(context.Background(), "s2")
	assert.Equal(t, TransitionCompleted, result.Status)

	state := s.State()
	assert.True(t, state.Completed)
	assert.Equal(t, []string{"s2"}, state.Progress.SkippedSections)
	assert.Equal(t, 100.0, state.Summary.Percentage)
	assert.Equal(t, 2, state.Summary.TotalQuestions)
}

func TestSkipIsIdempotent(t *testing.T) {
	s := NewSession(testFlow(), "r1", nil)

	require.Equal(t, TransitionAccepted, s.SkipSection(context.Background(), "s2").Status)
	require.Equal(t, TransitionAccepted, s.SkipSection(context.Background(), "s2").Status)
	assert.Equal(t, []string{"s2"}, s.State().Progress.SkippedSections)
}

func TestNextOnLastSectionCompletes(t *testing.T) {
	s := NewSession(testFlow(), "r1", nil)
	s.Answer("q1", "Ada")
	s.Answer("q2", "dev")
	require.Equal(t, TransitionAccepted, s.Next(context.Background()).Status)
	s.Answer("q3", "nothing")

	result := s.Next(context.Background())
	assert.Equal(t, TransitionCompleted, result.Status)

	state := s.State()
	assert.True(t, state.Completed)
	assert.NotNil(t, state.Progress.CompletedAt)
}

func TestTerminalSessionRejectsFurtherTransitions(t *testing.T) {
	s := NewSession(testFlow(), "r1", nil)
	s.Answer("q1", "Ada")
	s.Answer("q2", "dev")
	s.Next(context.Background())
	s.SkipSection(context.Background(), "s2")
	require.True(t, s.State().Completed)

	assert.Equal(t, TransitionRejected, s.Answer("q1", "Grace").Status)
	assert.Equal(t, TransitionRejected, s.Next(context.Background()).Status)
	assert.Equal(t, TransitionRejected, s.Back().Status)
	assert.Equal(t, TransitionRejected, s.SkipSection(context.Background(), "s2").Status)
}

func TestResetReturnsToStartWithEmptyState(t *testing.T) {
	s := NewSession(testFlow(), "r1", nil)
	s.Answer("q1", "Ada")
	s.Answer("q2", "dev")
	s.Next(context.Background())
	s.SkipSection(context.Background(), "s2")
	require.True(t, s.State().Completed)

	assert.Equal(t, TransitionAccepted, s.Reset().Status)

	state := s.State()
	assert.False(t, state.Completed)
	assert.Equal(t, 0, state.SectionIndex)
	assert.Empty(t, state.Answers)
	assert.Empty(t, state.Progress.CompletedSections)
	assert.Empty(t, state.Progress.SkippedSections)
}

func TestCompleteRequiresAllSectionsWhenConfigured(t *testing.T) {
	flow := testFlow()
	flow.Settings.RequireAllSections = true
	flow.Sections[1].IsOptional = false
	flow.Sections[1].Questions[0].Validation.Required = true

	s := NewSession(flow, "r1", nil)
	s.Answer("q1", "Ada")
	s.Answer("q2", "dev")

	result := s.Complete(context.Background())
	require.Equal(t, TransitionRejected, result.Status)
	assert.Equal(t, RequiredMessage, result.FieldErrors["q3"])

	s.Answer("q3", "all good")
	assert.Equal(t, TransitionCompleted, s.Complete(context.Background()).Status)
}

func TestRestoreReplaysSnapshot(t *testing.T) {
	s := NewSession(testFlow(), "r1", nil)
	s.Restore(&ProgressSnapshot{
		ResponseID: "r1",
		Answers:    answerSet(map[string]interface{}{"q1": "Ada", "q2": "dev"}),
		Progress: models.Progress{
			CompletedSections: []string{"s1"},
			CurrentSectionID:  "s2",
		},
	})

	state := s.State()
	assert.Equal(t, 1, state.SectionIndex)
	assert.Equal(t, "Ada", state.Answers["q1"].Value)
	assert.Equal(t, []string{"s1"}, state.Progress.CompletedSections)
}

func TestCompleteStaysResponsiveWhileATickIsWriting(t *testing.T) {
	store := &blockingStore{started: make(chan struct{}, 1), release: make(chan struct{})}
	saver := NewAutosaver(store, "r1", time.Millisecond, time.Minute)

	s := NewSession(testFlow(), "r1", saver)
	saver.Start(context.Background())
	defer saver.Stop()

	s.Answer("q1", "Ada")
	s.Answer("q2", "dev")
	<-store.started // an autosave tick is now mid-write

	completed := make(chan TransitionResult, 1)
	go func() { completed <- s.Complete(context.Background()) }()
	time.Sleep(10 * time.Millisecond)

	// The terminal flush waits for the in-flight write outside the session
	// lock, so reads of the session are not held up behind it.
	stateRead := make(chan struct{})
	go func() {
		s.State()
		close(stateRead)
	}()
	select {
	case <-stateRead:
	case <-time.After(time.Second):
		t.Fatal("State blocked while the terminal flush waited on an in-flight save")
	}

	close(store.release)
	select {
	case result := <-completed:
		assert.Equal(t, TransitionCompleted, result.Status)
	case <-time.After(time.Second):
		t.Fatal("Complete never returned after the in-flight save finished")
	}
}
