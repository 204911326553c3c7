package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainSync "github.com/roach88/journey/internal/domain/sync"
)

func TestBroadcaster_delivers_to_all_subscribers(t *testing.T) {
	b := NewBroadcaster()
	id1, ch1 := b.Subscribe()
	id2, ch2 := b.Subscribe()
	defer b.Unsubscribe(id1)
	defer b.Unsubscribe(id2)

	event := domainSync.TaskEvent{ID: "get_user_courses", Status: domainSync.TaskPending}
	b.Publish(event)

	assert.Equal(t, event, <-ch1)
	assert.Equal(t, event, <-ch2)
}

func TestBroadcaster_unsubscribe_closes_channel(t *testing.T) {
	b := NewBroadcaster()
	id, ch := b.Subscribe()
	b.Unsubscribe(id)

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic.
	b.Publish(domainSync.TaskEvent{ID: "get_user_courses", Status: domainSync.TaskSuccess})
}

func TestBroadcaster_slow_subscriber_does_not_block(t *testing.T) {
	b := NewBroadcaster()
	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	// Overfill the buffer; Publish must return regardless.
	for i := 0; i < subscriberBuffer+5; i++ {
		b.Publish(domainSync.TaskEvent{ID: "get_user_courses", Status: domainSync.TaskPending})
	}

	delivered := 0
	for {
		select {
		case <-ch:
			delivered++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, delivered)
}
