package sync

import "fmt"

// Key identifies one revalidatable resource. Stable across restarts:
// constructed deterministically from the resource kind and its identifying
// parameters, never randomly.
type Key string

// CourseListKey is the key for the signed-in user's course list.
func CourseListKey() Key {
	return "get_user_courses"
}

// CourseKey is the key for one course's sections and modules.
func CourseKey(courseID int64) Key {
	return Key(fmt.Sprintf("get_course_%d", courseID))
}

// ModuleKey is the key for one module's contents.
func ModuleKey(courseID, moduleID int64) Key {
	return Key(fmt.Sprintf("get_module_%d_%d", courseID, moduleID))
}

// TaskStatus is the transient state of a sync task, carried on events only
// and never persisted.
type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskSuccess TaskStatus = "success"
	TaskFailed  TaskStatus = "failed"
)

// TaskEvent is emitted to observers (the UI) around each refresh so it can
// render spinners and error toasts.
type TaskEvent struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	LastSync int64      `json:"last_sync"`
	Status   TaskStatus `json:"sync_status"`
	Error    *string    `json:"error,omitempty"`
}

// A Publisher delivers TaskEvents to whoever is observing. Delivery is best
// effort; a slow observer must not stall a sync.
type Publisher interface {
	Publish(event TaskEvent)
}

// NopPublisher drops all events.
type NopPublisher struct{}

func (NopPublisher) Publish(event TaskEvent) {}

// MockPublisher records published events for assertions.
type MockPublisher struct {
	Events []TaskEvent
}

func (m *MockPublisher) Publish(event TaskEvent) {
	m.Events = append(m.Events, event)
}
