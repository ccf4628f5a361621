package sessions

import (
	"context"
	"log"
	"sync"
	"time"

	"Backend-FlowForge/src/models"
)

const (
	// DefaultSaveInterval is how often pending progress is flushed.
	DefaultSaveInterval = 5 * time.Second
	// DefaultCacheTTL is how long a loaded snapshot is served from memory.
	DefaultCacheTTL = 5 * time.Minute
)

// ProgressSnapshot is the unit of persistence: everything needed to restore
// one user's pass through one flow.
type ProgressSnapshot struct {
	ResponseID string           `json:"responseId"`
	Answers    models.AnswerSet `json:"answers"`
	Progress   models.Progress  `json:"progress"`
	Completed  bool             `json:"completed"`
}

// SnapshotStore is the persistence collaborator the autosaver writes through.
type SnapshotStore interface {
	SaveProgress(ctx context.Context, snap *ProgressSnapshot) error
	LoadProgress(ctx context.Context, responseID string) (*ProgressSnapshot, error)
}

type cacheEntry struct {
	snap     *ProgressSnapshot
	storedAt time.Time
}

// Autosaver periodically flushes dirty session progress to a SnapshotStore
// and serves reads through a short-lived instance-scoped cache. Saves are
// best effort: a failure only flips Status to error, it never reaches the
// caller of Answer. At most one save is in flight at a time; ticks that fire
// during a save are dropped.
type Autosaver struct {
	store    SnapshotStore
	key      string
	interval time.Duration
	ttl      time.Duration
	source   func() *ProgressSnapshot

	mu     sync.Mutex
	cache  map[string]cacheEntry
	dirty  bool
	status models.SaveStatus

	saveMu  sync.Mutex // held for the duration of any store write
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewAutosaver creates an idle autosaver for one response. Call SetSource and
// Start before it will do anything.
func NewAutosaver(store SnapshotStore, responseID string, interval, ttl time.Duration) *Autosaver {
	if interval <= 0 {
		interval = DefaultSaveInterval
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Autosaver{
		store:    store,
		key:      responseID,
		interval: interval,
		ttl:      ttl,
		cache:    make(map[string]cacheEntry),
		status:   models.SaveIdle,
	}
}

// SetSource registers the snapshot provider, normally Session.Snapshot.
func (a *Autosaver) SetSource(source func() *ProgressSnapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.source = source
}

// Start launches the periodic save loop. It does nothing if already running.
func (a *Autosaver) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return
	}
	ctx, a.cancel = context.WithCancel(ctx)
	a.done = make(chan struct{})
	a.started = true

	go a.loop(ctx)
}

// Stop cancels the save loop and waits for it to exit. An in-flight save is
// allowed to finish; its result is discarded. Stop is idempotent.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	if !a.started {
		a.mu.Unlock()
		return
	}
	a.started = false
	cancel, done := a.cancel, a.done
	a.mu.Unlock()

	cancel()
	<-done
}

func (a *Autosaver) loop(ctx context.Context) {
	defer close(a.done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.tick(ctx)
		}
	}
}

func (a *Autosaver) tick(ctx context.Context) {
	// A tick that fires while a save is outstanding is dropped, not queued.
	if !a.saveMu.TryLock() {
		return
	}
	defer a.saveMu.Unlock()

	a.mu.Lock()
	source := a.source
	if !a.dirty || source == nil {
		a.mu.Unlock()
		return
	}
	a.status = models.SaveSaving
	a.mu.Unlock()

	// source is invoked outside a.mu: it takes the session lock, and the
	// session may be waiting on a.mu to read the save status.
	a.finishSave(a.store.SaveProgress(ctx, source()))
}

// SaveNow writes an already-captured snapshot immediately, bypassing the
// debounce window. It exists for callers that hold the session lock and so
// cannot go through the snapshot source. It waits for any in-flight save
// first.
func (a *Autosaver) SaveNow(ctx context.Context, snap *ProgressSnapshot) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	a.status = models.SaveSaving
	a.mu.Unlock()

	err := a.store.SaveProgress(ctx, snap)
	a.finishSave(err)
	return err
}

// Flush captures a snapshot from the source and saves it immediately. It
// waits for any in-flight save first.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	source := a.source
	if source == nil {
		a.mu.Unlock()
		return nil
	}
	a.status = models.SaveSaving
	a.mu.Unlock()

	err := a.store.SaveProgress(ctx, source())
	a.finishSave(err)
	return err
}

// finishSave settles state after a save attempt. The dirty flag is cleared
// whether the attempt succeeded or failed; delivery is best effort.
func (a *Autosaver) finishSave(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.dirty = false
	if err != nil {
		a.status = models.SaveError
		log.Printf("autosave failed for response %s: %v", a.key, err)
		return
	}
	a.status = models.SaveSaved
	// A fresh write makes the cached copy stale.
	delete(a.cache, a.key)
}

// MarkDirty flags that there are unsaved changes for the next tick.
func (a *Autosaver) MarkDirty() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dirty = true
}

// Status returns the saving|saved|error indicator for the UI.
func (a *Autosaver) Status() models.SaveStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Load returns the snapshot for responseID, serving from cache while the
// entry is younger than the TTL and reading through to the store otherwise.
func (a *Autosaver) Load(ctx context.Context, responseID string) (*ProgressSnapshot, error) {
	a.mu.Lock()
	if entry, ok := a.cache[responseID]; ok && time.Since(entry.storedAt) < a.ttl {
		a.mu.Unlock()
		return entry.snap, nil
	}
	a.mu.Unlock()

	snap, err := a.store.LoadProgress(ctx, responseID)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.cache[responseID] = cacheEntry{snap: snap, storedAt: time.Now()}
	a.mu.Unlock()
	return snap, nil
}
