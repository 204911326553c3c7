package sync

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/roach88/journey/internal/domain/tracing"
)

// A Poller periodically re-syncs the course list in the background so the
// mirror stays warm while the app is open, instead of only refreshing when a
// view asks for data. Each tick goes through the same revalidation path as a
// user-initiated read, so a fresh ledger entry makes the tick a no-op.
type Poller struct {
	cron   *cron.Cron
	tracer tracing.Tracer
	run    func(ctx context.Context) error

	mu      sync.Mutex
	entryId *cron.EntryID
}

// NewPoller returns a Poller that invokes run every interval once started.
// An interval of zero disables polling entirely; Start becomes a no-op.
func NewPoller(tracer tracing.Tracer, interval time.Duration, run func(ctx context.Context) error) *Poller {
	p := &Poller{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		tracer: tracer,
		run:    run,
	}
	if interval > 0 {
		job := cron.NewChain(cron.Recover(zeroLogCronLogger{})).Then(cron.FuncJob(p.tick))
		entryId := p.cron.Schedule(cron.Every(interval), job)
		p.entryId = &entryId
	}
	return p
}

func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.entryId == nil {
		log.Info().Msg("Background sync polling is disabled")
		return
	}
	log.Info().Msg("Starting background sync poller")
	p.cron.Start()
}

// Stop halts scheduling and waits for a running tick to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	<-p.cron.Stop().Done()
}

func (p *Poller) tick() {
	tx := p.tracer.BackgroundTx("course-list-poll")
	defer tx.End()
	if err := p.run(tx.Context()); err != nil {
		log.Warn().Err(err).Msg("Background course list sync failed")
	}
}

type zeroLogCronLogger struct {
}

func (z zeroLogCronLogger) Info(msg string, keysAndValues ...interface{}) {
	if log.Info().Enabled() {
		log.Info().Fields(asFields(keysAndValues)).Msg(msg)
	}
}

func (z zeroLogCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	if log.Error().Enabled() {
		log.Error().Err(err).Fields(asFields(keysAndValues)).Msg(msg)
	}
}

func asFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}
