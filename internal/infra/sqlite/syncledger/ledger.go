package syncledger

import (
	"context"
	"database/sql"
	"time"

	domainSync "github.com/roach88/journey/internal/domain/sync"
)

// Ledger persists per-key last-success timestamps in the sync_ledger table,
// so freshness survives restarts. One row per key, overwritten on success.
type Ledger struct {
	db             *sql.DB
	ttl            time.Duration
	failureBackoff time.Duration
}

// New returns a persisted ledger. ttl must match the ttl the orchestrator
// passes to IsFresh; it is only used to compute failure-backoff timestamps.
// failureBackoff of zero disables the failure backoff policy, leaving failed
// keys eligible for retry on the very next call.
func New(db *sql.DB, ttl time.Duration, failureBackoff time.Duration) *Ledger {
	return &Ledger{db: db, ttl: ttl, failureBackoff: failureBackoff}
}

func (l *Ledger) IsFresh(ctx context.Context, key domainSync.Key, now time.Time, ttl time.Duration) (bool, error) {
	var lastSuccess int64
	err := l.db.QueryRowContext(ctx, `
		SELECT last_success FROM sync_ledger WHERE key = ?
	`, string(key)).Scan(&lastSuccess)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, domainSync.LedgerErr{Op: "is_fresh", Cause: err}
	}
	return now.Unix()-lastSuccess < int64(ttl.Seconds()), nil
}

func (l *Ledger) RecordSuccess(ctx context.Context, key domainSync.Key, now time.Time) error {
	if err := l.record(ctx, key, now.Unix()); err != nil {
		return domainSync.LedgerErr{Op: "record_success", Cause: err}
	}
	return nil
}

func (l *Ledger) RecordFailure(ctx context.Context, key domainSync.Key, now time.Time) error {
	if l.failureBackoff <= 0 {
		return nil
	}
	// Synthetic timestamp that keeps the key "fresh" until now+backoff under
	// the usual ttl check. MAX() ensures a failure never shortens a genuine
	// freshness window.
	synthetic := now.Add(l.failureBackoff - l.ttl).Unix()
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO sync_ledger (key, last_success)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			last_success = MAX(last_success, excluded.last_success)
	`, string(key), synthetic)
	if err != nil {
		return domainSync.LedgerErr{Op: "record_failure", Cause: err}
	}
	return nil
}

func (l *Ledger) record(ctx context.Context, key domainSync.Key, epochSeconds int64) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO sync_ledger (key, last_success)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			last_success = excluded.last_success
	`, string(key), epochSeconds)
	return err
}
