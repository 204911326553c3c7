package course

import (
	"context"
	"fmt"
)

// A Store that takes care of the persistence of mirrored course data.
//
// All Upsert methods are transactional: either every row of the call lands or
// none do. Upserts are idempotent; re-merging identical remote data leaves
// the stored rows unchanged. On a primary-key conflict, mutable descriptive
// columns are overwritten but columns the new data does not mention (e.g. a
// course's colour when the payload has none) are preserved.
type Store interface {
	// UpsertCourses merges the given courses in a single transaction.
	UpsertCourses(ctx context.Context, courses []Course) error

	// UpsertCourseState merges the sections and modules of one course in a
	// single transaction, parents before children so foreign keys are
	// satisfiable mid-transaction.
	UpsertCourseState(ctx context.Context, courseID int64, sections []CourseSection, modules []SectionModule) error

	// UpsertModuleContent merges one module's row, inline contents and blob
	// records in a single transaction. The owning section travels along so
	// the whole parent chain is satisfiable even when the module is synced
	// before its course state.
	UpsertModuleContent(ctx context.Context, courseID int64, section CourseSection, module SectionModule, contents []ModuleContent, blobs []ContentBlob) error

	// Courses returns all locally mirrored courses.
	Courses(ctx context.Context) ([]Course, error)

	// CourseWithSections returns one course joined with its sections and the
	// modules whose type is in the allow-list. A course with zero qualifying
	// sections or modules yields empty collections, not an error. An absent
	// course yields NotFound.
	CourseWithSections(ctx context.Context, courseID int64, allowed []ModuleType) (*CourseWithSections, error)

	// ModuleWithContents returns one module of a course joined with its
	// contents. An absent module yields NotFound.
	ModuleWithContents(ctx context.Context, courseID int64, moduleID int64) (*ModuleWithContents, error)

	// ContentBlobs returns the blob records of one module of a course,
	// oldest first. An absent module yields NotFound.
	ContentBlobs(ctx context.Context, courseID int64, moduleID int64) ([]ContentBlob, error)
}

// <-- Domain Errors

// NotFound is returned when a read targets an entity that is not mirrored
// locally (yet).
type NotFound struct {
	Kind string
	ID   int64
}

func (e NotFound) Error() string {
	return fmt.Sprintf("No %s with id [%d] in the local mirror", e.Kind, e.ID)
}

// StorageErr wraps a storage engine failure. Merge transactions roll back
// before this is returned.
type StorageErr struct {
	Op    string
	Cause error
}

func (e StorageErr) Error() string {
	return fmt.Sprintf("Storage failure during [%s]: %v", e.Op, e.Cause)
}

func (e StorageErr) Unwrap() error {
	return e.Cause
}

//     Errors -->
