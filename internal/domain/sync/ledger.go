package sync

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// A Ledger tracks, per Key, when the last successful sync happened. It is
// the coherency decision point: the Orchestrator consults it before touching
// the network and records into it only after a merge has committed.
//
// Entries are overwritten, never appended. A missing entry means "never
// synchronized" and is always stale.
type Ledger interface {
	// IsFresh reports whether key was synced successfully within ttl of now.
	IsFresh(ctx context.Context, key Key, now time.Time, ttl time.Duration) (bool, error)

	// RecordSuccess upserts key's last-success timestamp to now. Callers
	// must only invoke this after the merge transaction has committed.
	RecordSuccess(ctx context.Context, key Key, now time.Time) error

	// RecordFailure notes a failed refresh. With no failure backoff
	// configured this is a no-op and the key is eligible again immediately;
	// with a backoff it pushes the key's retry eligibility forward so a
	// failing remote isn't hammered.
	RecordFailure(ctx context.Context, key Key, now time.Time) error
}

// LedgerErr wraps a ledger I/O failure. Fatal to the enclosing sync call,
// since freshness cannot be decided safely.
type LedgerErr struct {
	Op    string
	Cause error
}

func (e LedgerErr) Error() string {
	return fmt.Sprintf("Ledger failure during [%s]: %v", e.Op, e.Cause)
}

func (e LedgerErr) Unwrap() error {
	return e.Cause
}

// MemoryLedger is an in-process Ledger. Freshness tracked here does not
// survive restarts, which only costs one extra refresh per key on startup.
type MemoryLedger struct {
	mu             sync.RWMutex
	entries        map[Key]time.Time
	ttl            time.Duration
	failureBackoff time.Duration
}

// NewMemoryLedger returns an empty in-process ledger. ttl must match the ttl
// passed to IsFresh; it is only used to compute failure-backoff timestamps.
// failureBackoff of zero disables the failure backoff policy.
func NewMemoryLedger(ttl time.Duration, failureBackoff time.Duration) *MemoryLedger {
	return &MemoryLedger{
		entries:        make(map[Key]time.Time),
		ttl:            ttl,
		failureBackoff: failureBackoff,
	}
}

func (l *MemoryLedger) IsFresh(ctx context.Context, key Key, now time.Time, ttl time.Duration) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	last, ok := l.entries[key]
	if !ok {
		return false, nil
	}
	return now.Sub(last) < ttl, nil
}

func (l *MemoryLedger) RecordSuccess(ctx context.Context, key Key, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[key] = now
	return nil
}

func (l *MemoryLedger) RecordFailure(ctx context.Context, key Key, now time.Time) error {
	if l.failureBackoff <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	// A synthetic timestamp that keeps the key "fresh" until now+backoff
	// under the usual ttl check. Never moves an existing entry backwards,
	// so a failure cannot shorten a genuine freshness window.
	synthetic := now.Add(l.failureBackoff - l.ttl)
	if last, ok := l.entries[key]; ok && last.After(synthetic) {
		return nil
	}
	l.entries[key] = synthetic
	return nil
}
