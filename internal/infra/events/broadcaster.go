package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	domainSync "github.com/roach88/journey/internal/domain/sync"
)

const subscriberBuffer = 16

var _ domainSync.Publisher = (*Broadcaster)(nil)

// Broadcaster fans sync task events out to any number of subscribers (in
// practice: the UI's event stream connections). Publishing never blocks; a
// subscriber whose buffer is full loses the event, which is acceptable for
// spinner/toast signalling.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]chan domainSync.TaskEvent
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[uuid.UUID]chan domainSync.TaskEvent),
	}
}

// Publish implements sync.Publisher.
func (b *Broadcaster) Publish(event domainSync.TaskEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			log.Warn().
				Str("subscriber", id.String()).
				Str("task", event.ID).
				Msg("Dropping sync event for slow subscriber")
		}
	}
}

// Subscribe registers a new observer and returns its id plus the channel to
// receive on. The caller must Unsubscribe when done.
func (b *Broadcaster) Subscribe() (uuid.UUID, <-chan domainSync.TaskEvent) {
	id := uuid.New()
	ch := make(chan domainSync.TaskEvent, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[id] = ch
	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}
