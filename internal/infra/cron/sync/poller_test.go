package sync

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/journey/internal/domain/tracing"
)

func TestPoller_disabled(t *testing.T) {
	var runs int64
	p := NewPoller(tracing.NoopTracer{}, 0, func(ctx context.Context) error {
		atomic.AddInt64(&runs, 1)
		return nil
	})
	assert.NotPanics(t, func() {
		p.Start()
		p.Stop()
	})
	assert.EqualValues(t, 0, atomic.LoadInt64(&runs))
}

func TestPoller_ticks(t *testing.T) {
	ran := make(chan struct{}, 8)
	p := NewPoller(tracing.NoopTracer{}, 10*time.Millisecond, func(ctx context.Context) error {
		ran <- struct{}{}
		return nil
	})
	p.Start()
	defer p.Stop()
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("poller never ticked")
	}
}
