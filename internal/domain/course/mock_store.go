package course

import "context"

var MockCourse = Course{
	ID:   1,
	Name: "mock",
}

var MockCourseWithSections = CourseWithSections{
	Course:   MockCourse,
	Sections: []SectionWithModules{},
}

var MockModuleWithContents = ModuleWithContents{
	Module:   SectionModule{ID: 1, SectionID: 1, Name: "mock", ModuleType: ModulePage},
	Contents: []ModuleContent{},
}

type MockStore struct {
	UpsertCoursesCalled         uint
	UpsertCoursesOverride       func() error
	UpsertCourseStateCalled     uint
	UpsertCourseStateOverride   func() error
	UpsertModuleContentCalled   uint
	UpsertModuleContentOverride func() error
	CoursesCalled               uint
	CoursesOverride             func() ([]Course, error)
	CourseWithSectionsCalled    uint
	CourseWithSectionsOverride  func() (*CourseWithSections, error)
	ModuleWithContentsCalled    uint
	ModuleWithContentsOverride  func() (*ModuleWithContents, error)
	ContentBlobsCalled          uint
	ContentBlobsOverride        func() ([]ContentBlob, error)
}

func (m *MockStore) UpsertCourses(ctx context.Context, courses []Course) error {
	m.UpsertCoursesCalled++
	if m.UpsertCoursesOverride != nil {
		return m.UpsertCoursesOverride()
	}
	return nil
}

func (m *MockStore) UpsertCourseState(ctx context.Context, courseID int64, sections []CourseSection, modules []SectionModule) error {
	m.UpsertCourseStateCalled++
	if m.UpsertCourseStateOverride != nil {
		return m.UpsertCourseStateOverride()
	}
	return nil
}

func (m *MockStore) UpsertModuleContent(ctx context.Context, courseID int64, section CourseSection, module SectionModule, contents []ModuleContent, blobs []ContentBlob) error {
	m.UpsertModuleContentCalled++
	if m.UpsertModuleContentOverride != nil {
		return m.UpsertModuleContentOverride()
	}
	return nil
}

func (m *MockStore) Courses(ctx context.Context) ([]Course, error) {
	m.CoursesCalled++
	if m.CoursesOverride != nil {
		return m.CoursesOverride()
	}
	return []Course{MockCourse}, nil
}

func (m *MockStore) CourseWithSections(ctx context.Context, courseID int64, allowed []ModuleType) (*CourseWithSections, error) {
	m.CourseWithSectionsCalled++
	if m.CourseWithSectionsOverride != nil {
		return m.CourseWithSectionsOverride()
	}
	return &MockCourseWithSections, nil
}

func (m *MockStore) ModuleWithContents(ctx context.Context, courseID int64, moduleID int64) (*ModuleWithContents, error) {
	m.ModuleWithContentsCalled++
	if m.ModuleWithContentsOverride != nil {
		return m.ModuleWithContentsOverride()
	}
	return &MockModuleWithContents, nil
}

func (m *MockStore) ContentBlobs(ctx context.Context, courseID int64, moduleID int64) ([]ContentBlob, error) {
	m.ContentBlobsCalled++
	if m.ContentBlobsOverride != nil {
		return m.ContentBlobsOverride()
	}
	return []ContentBlob{}, nil
}
