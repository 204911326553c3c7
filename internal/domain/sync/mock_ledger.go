package sync

import (
	"context"
	"time"
)

type MockLedger struct {
	IsFreshCalled         uint
	IsFreshOverride       func() (bool, error)
	RecordSuccessCalled   uint
	RecordSuccessOverride func() error
	RecordFailureCalled   uint
	RecordFailureOverride func() error
}

func (m *MockLedger) IsFresh(ctx context.Context, key Key, now time.Time, ttl time.Duration) (bool, error) {
	m.IsFreshCalled++
	if m.IsFreshOverride != nil {
		return m.IsFreshOverride()
	}
	return false, nil
}

func (m *MockLedger) RecordSuccess(ctx context.Context, key Key, now time.Time) error {
	m.RecordSuccessCalled++
	if m.RecordSuccessOverride != nil {
		return m.RecordSuccessOverride()
	}
	return nil
}

func (m *MockLedger) RecordFailure(ctx context.Context, key Key, now time.Time) error {
	m.RecordFailureCalled++
	if m.RecordFailureOverride != nil {
		return m.RecordFailureOverride()
	}
	return nil
}
