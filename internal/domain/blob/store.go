package blob

import (
	"context"
	"fmt"
)

// A Store persists binary attachment bytes and hands back the local path the
// content_blob row should record.
type Store interface {
	// Save writes bytes under a key derived from the owning module and file
	// name, overwriting any previous version, and returns the absolute path.
	Save(ctx context.Context, moduleID int64, name string, data []byte) (string, error)

	// Remove deletes a previously saved blob. Removing a blob that does not
	// exist is not an error.
	Remove(ctx context.Context, moduleID int64, name string) error
}

// IoErr wraps a filesystem failure while saving or removing a blob.
type IoErr struct {
	Name  string
	Cause error
}

func (e IoErr) Error() string {
	return fmt.Sprintf("Blob store failure for [%s]: %v", e.Name, e.Cause)
}

func (e IoErr) Unwrap() error {
	return e.Cause
}

// MockStore records saves for assertions.
type MockStore struct {
	SaveCalled     uint
	SaveOverride   func() (string, error)
	RemoveCalled   uint
	RemoveOverride func() error
}

func (m *MockStore) Save(ctx context.Context, moduleID int64, name string, data []byte) (string, error) {
	m.SaveCalled++
	if m.SaveOverride != nil {
		return m.SaveOverride()
	}
	return fmt.Sprintf("/tmp/blobs/%d/%s", moduleID, name), nil
}

func (m *MockStore) Remove(ctx context.Context, moduleID int64, name string) error {
	m.RemoveCalled++
	if m.RemoveOverride != nil {
		return m.RemoveOverride()
	}
	return nil
}
