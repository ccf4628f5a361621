package sessions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"Backend-FlowForge/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu    sync.Mutex
	saves []*ProgressSnapshot
	err   error

	loadSnap *ProgressSnapshot
	loadErr  error
	loads    int
}

func (f *fakeStore) SaveProgress(ctx context.Context, snap *ProgressSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saves = append(f.saves, snap)
	return nil
}

func (f *fakeStore) LoadProgress(ctx context.Context, responseID string) (*ProgressSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.loadSnap, nil
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

// blockingStore holds every SaveProgress call until release is closed,
// signalling on started when the first write enters.
type blockingStore struct {
	fakeStore
	entered int
	started chan struct{}
	release chan struct{}
}

func (b *blockingStore) SaveProgress(ctx context.Context, snap *ProgressSnapshot) error {
	b.mu.Lock()
	b.entered++
	b.mu.Unlock()

	select {
	case b.started <- struct{}{}:
	default:
	}
	<-b.release
	return b.fakeStore.SaveProgress(ctx, snap)
}

func (b *blockingStore) enteredCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.entered
}

func staticSnapshot(responseID string) func() *ProgressSnapshot {
	return func() *ProgressSnapshot {
		return &ProgressSnapshot{ResponseID: responseID, Answers: models.AnswerSet{}}
	}
}

func TestAutosaverSavesOnlyWhenDirty(t *testing.T) {
	store := &fakeStore{}
	saver := NewAutosaver(store, "r1", 10*time.Millisecond, time.Minute)
	saver.SetSource(staticSnapshot("r1"))
	saver.Start(context.Background())
	defer saver.Stop()

	// Clean saver: ticks pass without writes.
	time.Sleep(35 * time.Millisecond)
	assert.Equal(t, 0, store.saveCount())

	saver.MarkDirty()
	assert.Eventually(t, func() bool { return store.saveCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, models.SaveSaved, saver.Status())

	// The dirty flag was cleared by the save; no further writes.
	time.Sleep(35 * time.Millisecond)
	assert.Equal(t, 1, store.saveCount())
}

func TestTicksDuringAnInFlightSaveAreDropped(t *testing.T) {
	store := &blockingStore{started: make(chan struct{}, 1), release: make(chan struct{})}
	saver := NewAutosaver(store, "r1", 5*time.Millisecond, time.Minute)
	saver.SetSource(staticSnapshot("r1"))
	saver.Start(context.Background())
	defer saver.Stop()

	saver.MarkDirty()
	<-store.started

	// Ticks keep firing while the first write is still in flight; none of
	// them may start a second write, even with fresh changes pending.
	saver.MarkDirty()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, store.enteredCount())
	assert.Equal(t, models.SaveSaving, saver.Status())

	close(store.release)
	assert.Eventually(t, func() bool { return store.saveCount() == 1 }, time.Second, 5*time.Millisecond)

	// The completed save cleared the dirty flag, so later ticks stay quiet.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, store.enteredCount())
}

func TestAutosaverReportsErrorStatus(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	saver := NewAutosaver(store, "r1", 10*time.Millisecond, time.Minute)
	saver.SetSource(staticSnapshot("r1"))
	saver.Start(context.Background())
	defer saver.Stop()

	saver.MarkDirty()
	assert.Eventually(t, func() bool { return saver.Status() == models.SaveError }, time.Second, 5*time.Millisecond)
}

func TestFlushSavesImmediately(t *testing.T) {
	store := &fakeStore{}
	saver := NewAutosaver(store, "r1", time.Hour, time.Minute)
	saver.SetSource(staticSnapshot("r1"))

	require.NoError(t, saver.Flush(context.Background()))
	assert.Equal(t, 1, store.saveCount())
	assert.Equal(t, models.SaveSaved, saver.Status())
}

func TestSaveNowWritesTheGivenSnapshot(t *testing.T) {
	store := &fakeStore{}
	saver := NewAutosaver(store, "r1", time.Hour, time.Minute)

	snap := &ProgressSnapshot{ResponseID: "r1", Completed: true}
	require.NoError(t, saver.SaveNow(context.Background(), snap))

	require.Equal(t, 1, store.saveCount())
	store.mu.Lock()
	saved := store.saves[0]
	store.mu.Unlock()
	assert.True(t, saved.Completed)
	assert.Equal(t, models.SaveSaved, saver.Status())
}

func TestLoadReadsThroughCache(t *testing.T) {
	store := &fakeStore{loadSnap: &ProgressSnapshot{ResponseID: "r1"}}
	saver := NewAutosaver(store, "r1", time.Hour, time.Minute)

	snap, err := saver.Load(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", snap.ResponseID)
	assert.Equal(t, 1, store.loads)

	// Second read within the TTL is served from cache.
	_, err = saver.Load(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.loads)
}

func TestLoadExpiresAfterTTL(t *testing.T) {
	store := &fakeStore{loadSnap: &ProgressSnapshot{ResponseID: "r1"}}
	saver := NewAutosaver(store, "r1", time.Hour, 10*time.Millisecond)

	_, err := saver.Load(context.Background(), "r1")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	_, err = saver.Load(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, 2, store.loads)
}

func TestSuccessfulWriteInvalidatesCache(t *testing.T) {
	store := &fakeStore{loadSnap: &ProgressSnapshot{ResponseID: "r1"}}
	saver := NewAutosaver(store, "r1", time.Hour, time.Minute)
	saver.SetSource(staticSnapshot("r1"))

	_, err := saver.Load(context.Background(), "r1")
	require.NoError(t, err)
	require.Equal(t, 1, store.loads)

	require.NoError(t, saver.Flush(context.Background()))

	// The write dropped the cached entry; the next read hits the store.
	_, err = saver.Load(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, 2, store.loads)
}

func TestSaveFailureDoesNotReachAnswerCaller(t *testing.T) {
	store := &fakeStore{err: errors.New("write timeout")}
	saver := NewAutosaver(store, "r1", 10*time.Millisecond, time.Minute)

	flow := testFlow()
	s := NewSession(flow, "r1", saver)
	saver.Start(context.Background())
	defer saver.Stop()

	// Recording answers keeps succeeding while saves fail in the background.
	assert.Equal(t, TransitionAccepted, s.Answer("q1", "Ada").Status)
	assert.Eventually(t, func() bool { return saver.Status() == models.SaveError }, time.Second, 5*time.Millisecond)
	assert.Equal(t, TransitionAccepted, s.Answer("q2", "dev").Status)
}

func TestStopIsIdempotentAndHaltsTheTimer(t *testing.T) {
	store := &fakeStore{}
	saver := NewAutosaver(store, "r1", 10*time.Millisecond, time.Minute)
	saver.SetSource(staticSnapshot("r1"))
	saver.Start(context.Background())

	saver.Stop()
	saver.Stop()

	saver.MarkDirty()
	time.Sleep(35 * time.Millisecond)
	assert.Equal(t, 0, store.saveCount())
}
