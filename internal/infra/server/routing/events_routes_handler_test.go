package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	domainSync "github.com/roach88/journey/internal/domain/sync"
	"github.com/roach88/journey/internal/infra/events"
)

// closeNotifyRecorder implements http.CloseNotifier, which gin's
// Context.Stream requires of the response writer; the plain
// httptest.ResponseRecorder panics without it.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool { return r.closed }

func TestEventsStream(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.Default()
	broadcaster := events.NewBroadcaster()
	handler := EventsRoutesHandler{Broadcaster: broadcaster}
	handler.RegisterRoutes(engine)

	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "/api/events", nil)
	w := &closeNotifyRecorder{httptest.NewRecorder(), make(chan bool)}

	done := make(chan struct{})
	go func() {
		defer close(done)
		engine.ServeHTTP(w, req)
	}()

	// Keep publishing until the stream has had a chance to subscribe, then
	// hang up as a client would.
	go func() {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; i < 40; i++ {
			<-ticker.C
			broadcaster.Publish(domainSync.TaskEvent{
				ID:       "get_user_courses",
				Name:     "Get user courses",
				LastSync: 1700000000,
				Status:   domainSync.TaskSuccess,
			})
		}
		cancel()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not terminate after client hangup")
	}

	body := w.Body.String()
	assert.Contains(t, body, "event:sync_task")
	assert.Contains(t, body, "get_user_courses")
	assert.True(t, strings.Contains(body, "success"))
}
