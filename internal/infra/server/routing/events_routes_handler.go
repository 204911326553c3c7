package routing

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/roach88/journey/internal/infra/events"
)

// EventsRoutesHandler serves the sync task event stream over server-sent
// events, one "sync_task" event per task state transition.
type EventsRoutesHandler struct {
	Broadcaster *events.Broadcaster
}

func (h *EventsRoutesHandler) RegisterRoutes(ginEngine *gin.Engine) {
	ginEngine.GET(apiRootPath+"/events", h.stream)
}

func (h *EventsRoutesHandler) stream(c *gin.Context) {
	id, ch := h.Broadcaster.Subscribe()
	defer h.Broadcaster.Unsubscribe(id)

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("sync_task", event)
			return true
		}
	})
}
