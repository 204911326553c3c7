package sync

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// A Refresher fetches remote data and merges it into local storage inside a
// single transaction. It must not update the ledger itself; the Orchestrator
// does that after the Refresher returns.
type Refresher func(ctx context.Context) error

// Orchestrator wraps "maybe refresh, then read" for revalidatable resources.
//
// It guarantees at most one in-flight refresh per Key: a second concurrent
// caller for the same key waits for the first, finds the ledger fresh, and
// skips its own refresh. Keys are independent; refreshing one never blocks
// another.
//
// The per-key lock map grows on first use and is never pruned. The key space
// is bounded by the number of resources the user has, so this is a known,
// bounded memory cost.
type Orchestrator struct {
	ledger Ledger
	events Publisher
	ttl    time.Duration

	mu    sync.Mutex
	locks map[Key]*sync.Mutex

	getNowUtc func() time.Time
}

// NewOrchestrator returns an Orchestrator that decides freshness against the
// given ledger with the given ttl and emits task events to events.
func NewOrchestrator(ledger Ledger, events Publisher, ttl time.Duration) *Orchestrator {
	return &Orchestrator{
		ledger: ledger,
		events: events,
		ttl:    ttl,
		locks:  make(map[Key]*sync.Mutex),
		getNowUtc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Refresh brings key up to date if it is stale, holding the per-key lock for
// the duration. On success the ledger is updated and a success event goes
// out; on failure the ledger's success entry is left untouched (the next
// call retries) and a failure event goes out. The refresh error, if any, is
// returned.
//
// A ledger I/O failure is fatal and returned as-is: freshness cannot be
// decided safely without it.
func (o *Orchestrator) Refresh(ctx context.Context, key Key, name string, refresh Refresher) error {
	lock := o.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	now := o.getNowUtc()
	fresh, err := o.ledger.IsFresh(ctx, key, now, o.ttl)
	if err != nil {
		return LedgerErr{Op: "is_fresh", Cause: err}
	}
	if fresh {
		return nil
	}

	o.publish(key, name, now, TaskPending, nil)

	if refreshErr := refresh(ctx); refreshErr != nil {
		log.Error().
			Err(refreshErr).
			Str("key", string(key)).
			Msg("Sync task failed")
		if err := o.ledger.RecordFailure(ctx, key, now); err != nil {
			log.Warn().
				Err(err).
				Str("key", string(key)).
				Msg("Could not record sync failure in ledger")
		}
		o.publish(key, name, now, TaskFailed, refreshErr)
		return refreshErr
	}

	// Only after the merge transaction has committed; recording earlier
	// would mark data fresh that never landed.
	if err := o.ledger.RecordSuccess(ctx, key, now); err != nil {
		return LedgerErr{Op: "record_success", Cause: err}
	}
	o.publish(key, name, now, TaskSuccess, nil)
	return nil
}

// Revalidate is the primary caller-facing entry point: refresh key if stale,
// then read the authoritative local view regardless of whether the refresh
// ran or how it fared.
//
// The read result is returned best effort alongside any refresh error, so a
// caller holding cached data can decide for itself whether to trust it. A
// read failure takes precedence over a refresh failure.
func Revalidate[T any](ctx context.Context, o *Orchestrator, key Key, name string, refresh Refresher, read func(ctx context.Context) (T, error)) (T, error) {
	refreshErr := o.Refresh(ctx, key, name, refresh)

	// Outside the per-key lock: reads never contend with other keys'
	// refreshes, and the merge transaction has already committed or rolled
	// back by now.
	out, readErr := read(ctx)
	if readErr != nil {
		return out, readErr
	}
	return out, refreshErr
}

func (o *Orchestrator) lockFor(key Key) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[key] = lock
	}
	return lock
}

func (o *Orchestrator) publish(key Key, name string, now time.Time, status TaskStatus, cause error) {
	event := TaskEvent{
		ID:       string(key),
		Name:     name,
		LastSync: now.Unix(),
		Status:   status,
	}
	if cause != nil {
		msg := cause.Error()
		event.Error = &msg
	}
	o.events.Publish(event)
}
