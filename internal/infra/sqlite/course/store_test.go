package course

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainCourse "github.com/roach88/journey/internal/domain/course"
	"github.com/roach88/journey/internal/infra/sqlite"
)

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := sqlite.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func strPtr(s string) *string {
	return &s
}

func TestStore_UpsertCourses_idempotent(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	maths := []domainCourse.Course{{ID: 1, Name: "Maths"}}
	require.NoError(t, store.UpsertCourses(ctx, maths))
	require.NoError(t, store.UpsertCourses(ctx, maths))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM course WHERE id = 1`).Scan(&count))
	assert.Equal(t, 1, count)

	courses, err := store.Courses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Maths", courses[0].Name)
}

func TestStore_UpsertCourses_partial_rename_preserves_colour(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertCourses(ctx, []domainCourse.Course{
		{ID: 1, Name: "Maths", Colour: strPtr("blue")},
	}))
	// A later payload that only renames must not wipe the colour.
	require.NoError(t, store.UpsertCourses(ctx, []domainCourse.Course{
		{ID: 1, Name: "Maths II"},
	}))

	courses, err := store.Courses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Maths II", courses[0].Name)
	if assert.NotNil(t, courses[0].Colour) {
		assert.Equal(t, "blue", *courses[0].Colour)
	}

	// An explicit colour does overwrite.
	require.NoError(t, store.UpsertCourses(ctx, []domainCourse.Course{
		{ID: 1, Name: "Maths II", Colour: strPtr("red")},
	}))
	courses, err = store.Courses(ctx)
	require.NoError(t, err)
	if assert.NotNil(t, courses[0].Colour) {
		assert.Equal(t, "red", *courses[0].Colour)
	}
}

func TestStore_UpsertCourseState_atomicity(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	sections := []domainCourse.CourseSection{
		{ID: 10, CourseID: 1, Name: "Week 1"},
		{ID: 11, CourseID: 1, Name: "Week 2"},
		{ID: 12, CourseID: 1, Name: "Week 3"},
	}
	// The second module references a section that does not exist, tripping
	// the foreign key mid-transaction.
	modules := []domainCourse.SectionModule{
		{ID: 100, SectionID: 10, Name: "Intro", ModuleType: domainCourse.ModulePage},
		{ID: 101, SectionID: 9999, Name: "Broken", ModuleType: domainCourse.ModulePage},
	}

	err := store.UpsertCourseState(ctx, 1, sections, modules)
	var storageErr domainCourse.StorageErr
	assert.ErrorAs(t, err, &storageErr)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM course_section`).Scan(&count))
	assert.Equal(t, 0, count, "no section row may land when the merge fails")
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM section_module`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestStore_UpsertCourseState_stubs_missing_course(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sections := []domainCourse.CourseSection{{ID: 10, CourseID: 7, Name: "Week 1"}}
	modules := []domainCourse.SectionModule{
		{ID: 100, SectionID: 10, Name: "Intro", ModuleType: domainCourse.ModulePage},
	}
	require.NoError(t, store.UpsertCourseState(ctx, 7, sections, modules))

	view, err := store.CourseWithSections(ctx, 7, []domainCourse.ModuleType{domainCourse.ModulePage})
	require.NoError(t, err)
	require.Len(t, view.Sections, 1)
	assert.Len(t, view.Sections[0].Modules, 1)

	// A later course sync fills in the stub's name.
	require.NoError(t, store.UpsertCourses(ctx, []domainCourse.Course{{ID: 7, Name: "Algorithms"}}))
	view, err = store.CourseWithSections(ctx, 7, []domainCourse.ModuleType{domainCourse.ModulePage})
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", view.Course.Name)
}

func TestStore_CourseWithSections_filters_by_allow_list(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertCourses(ctx, []domainCourse.Course{{ID: 1, Name: "Maths"}}))
	require.NoError(t, store.UpsertCourseState(ctx, 1,
		[]domainCourse.CourseSection{{ID: 10, CourseID: 1, Name: "Week 1", Rank: 0}},
		[]domainCourse.SectionModule{
			{ID: 100, SectionID: 10, Name: "Notes", ModuleType: domainCourse.ModulePage},
			{ID: 101, SectionID: 10, Name: "Mystery", ModuleType: domainCourse.ModuleUnknown},
		},
	))

	view, err := store.CourseWithSections(ctx, 1, []domainCourse.ModuleType{domainCourse.ModulePage})
	require.NoError(t, err)
	require.Len(t, view.Sections, 1)
	require.Len(t, view.Sections[0].Modules, 1)
	assert.Equal(t, "Notes", view.Sections[0].Modules[0].Name)
}

func TestStore_CourseWithSections_zero_children_is_not_an_error(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertCourses(ctx, []domainCourse.Course{{ID: 1, Name: "Maths"}}))

	view, err := store.CourseWithSections(ctx, 1, []domainCourse.ModuleType{domainCourse.ModulePage})
	require.NoError(t, err)
	assert.Empty(t, view.Sections)
}

func TestStore_CourseWithSections_absent_course(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.CourseWithSections(context.Background(), 404, nil)
	var notFound domainCourse.NotFound
	if assert.ErrorAs(t, err, &notFound) {
		assert.Equal(t, "course", notFound.Kind)
		assert.EqualValues(t, 404, notFound.ID)
	}
}

func TestStore_UpsertModuleContent_roundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	section := domainCourse.CourseSection{ID: 10, CourseID: 1, Name: "Week 1"}
	module := domainCourse.SectionModule{ID: 100, SectionID: 10, Name: "Notes", ModuleType: domainCourse.ModulePage, UpdatedAt: 1700000000}
	contents := []domainCourse.ModuleContent{
		{ID: 1, ModuleID: 100, Rank: 0, UpdatedAt: 1700000000, Content: "<h1>hello</h1>"},
	}
	blobs := []domainCourse.ContentBlob{
		{ModuleID: 100, Name: "slides.pdf", MimeType: "application/pdf", Path: "/data/blobs/100/slides.pdf", UpdatedAt: 1700000000},
	}
	require.NoError(t, store.UpsertModuleContent(ctx, 1, section, module, contents, blobs))

	got, err := store.ModuleWithContents(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, module, got.Module)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "<h1>hello</h1>", got.Contents[0].Content)

	gotBlobs, err := store.ContentBlobs(ctx, 1, 100)
	require.NoError(t, err)
	require.Len(t, gotBlobs, 1)
	assert.Equal(t, "/data/blobs/100/slides.pdf", gotBlobs[0].Path)

	// Re-merging identical data changes nothing and raises no conflict.
	require.NoError(t, store.UpsertModuleContent(ctx, 1, section, module, contents, blobs))
	got, err = store.ModuleWithContents(ctx, 1, 100)
	require.NoError(t, err)
	assert.Len(t, got.Contents, 1)
}

func TestStore_ModuleWithContents_wrong_course(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	section := domainCourse.CourseSection{ID: 10, CourseID: 1, Name: "Week 1"}
	module := domainCourse.SectionModule{ID: 100, SectionID: 10, Name: "Notes", ModuleType: domainCourse.ModulePage}
	require.NoError(t, store.UpsertModuleContent(ctx, 1, section, module, nil, nil))

	// The module exists, but not under course 2.
	_, err := store.ModuleWithContents(ctx, 2, 100)
	var notFound domainCourse.NotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestStore_UpsertCourseState_preserves_module_timestamp(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	section := domainCourse.CourseSection{ID: 10, CourseID: 1, Name: "Week 1"}
	module := domainCourse.SectionModule{ID: 100, SectionID: 10, Name: "Notes", ModuleType: domainCourse.ModulePage, UpdatedAt: 1700000000}
	require.NoError(t, store.UpsertModuleContent(ctx, 1, section, module, nil, nil))

	// The section fetch carries no timestamps; a state re-sync must not wipe
	// what the content sync recorded.
	stateModule := module
	stateModule.UpdatedAt = 0
	require.NoError(t, store.UpsertCourseState(ctx, 1,
		[]domainCourse.CourseSection{section},
		[]domainCourse.SectionModule{stateModule},
	))

	got, err := store.ModuleWithContents(ctx, 1, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 1700000000, got.Module.UpdatedAt)
}
