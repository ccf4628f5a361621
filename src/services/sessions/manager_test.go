package sessions

import (
	"context"
	"testing"
	"time"

	"Backend-FlowForge/src/apperror"
	"Backend-FlowForge/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStartGetEnd(t *testing.T) {
	store := &fakeStore{}
	m := NewManagerWithIntervals(store, time.Hour, time.Minute)

	id, s, err := m.Start(context.Background(), testFlow(), "r1", false)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get(id)
	require.True(t, ok)
	assert.Same(t, s, got)

	assert.True(t, m.End(context.Background(), id))
	assert.Equal(t, 0, m.Count())
	_, ok = m.Get(id)
	assert.False(t, ok)

	// End flushes once so the final state is persisted.
	assert.Equal(t, 1, store.saveCount())
	// Ending an unknown id is a no-op.
	assert.False(t, m.End(context.Background(), id))
}

func TestManagerResumeReplaysStoredProgress(t *testing.T) {
	store := &fakeStore{loadSnap: &ProgressSnapshot{
		ResponseID: "r1",
		Answers: models.AnswerSet{
			"q1": {QuestionID: "q1", Value: "Ada"},
		},
		Progress: models.Progress{CurrentSectionID: "s1"},
	}}

	flow := testFlow()
	flow.Settings.AllowSaveProgress = true

	m := NewManagerWithIntervals(store, time.Hour, time.Minute)
	_, s, err := m.Start(context.Background(), flow, "r1", true)
	require.NoError(t, err)

	state := s.State()
	assert.Equal(t, "Ada", state.Answers["q1"].Value)
}

func TestManagerResumeToleratesMissingSnapshot(t *testing.T) {
	store := &fakeStore{loadErr: apperror.NewNotFoundError("response not found", nil)}

	flow := testFlow()
	flow.Settings.AllowSaveProgress = true

	m := NewManagerWithIntervals(store, time.Hour, time.Minute)
	_, s, err := m.Start(context.Background(), flow, "r1", true)
	require.NoError(t, err)
	assert.Empty(t, s.State().Answers)
}

func TestManagerResumeIgnoredWhenFlowForbidsSavedProgress(t *testing.T) {
	store := &fakeStore{loadSnap: &ProgressSnapshot{ResponseID: "r1"}}

	m := NewManagerWithIntervals(store, time.Hour, time.Minute)
	_, _, err := m.Start(context.Background(), testFlow(), "r1", true)
	require.NoError(t, err)
	assert.Equal(t, 0, store.loads)
}
