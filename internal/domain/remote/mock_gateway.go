package remote

import "context"

var MockCredentials = Credentials{
	Host:    "https://lms.example.edu",
	WsToken: "mock-token",
	UserID:  1,
}

var MockRawCourse = RawCourse{
	ID:       1,
	FullName: "mock",
}

type MockGateway struct {
	FetchUserCoursesCalled      uint
	FetchUserCoursesOverride    func() ([]RawCourse, error)
	FetchCourseSectionsCalled   uint
	FetchCourseSectionsOverride func() ([]RawSection, error)
	FetchModuleContentCalled    uint
	FetchModuleContentOverride  func() ([]RawSection, error)
	FetchSiteInfoCalled         uint
	FetchSiteInfoOverride       func() (*SiteInfo, error)
	DownloadFileCalled          uint
	DownloadFileOverride        func() ([]byte, error)
}

func (m *MockGateway) FetchUserCourses(ctx context.Context, creds Credentials) ([]RawCourse, error) {
	m.FetchUserCoursesCalled++
	if m.FetchUserCoursesOverride != nil {
		return m.FetchUserCoursesOverride()
	}
	return []RawCourse{MockRawCourse}, nil
}

func (m *MockGateway) FetchCourseSections(ctx context.Context, creds Credentials, courseID int64) ([]RawSection, error) {
	m.FetchCourseSectionsCalled++
	if m.FetchCourseSectionsOverride != nil {
		return m.FetchCourseSectionsOverride()
	}
	return []RawSection{}, nil
}

func (m *MockGateway) FetchModuleContent(ctx context.Context, creds Credentials, courseID int64, moduleID int64) ([]RawSection, error) {
	m.FetchModuleContentCalled++
	if m.FetchModuleContentOverride != nil {
		return m.FetchModuleContentOverride()
	}
	return []RawSection{}, nil
}

func (m *MockGateway) FetchSiteInfo(ctx context.Context, creds Credentials) (*SiteInfo, error) {
	m.FetchSiteInfoCalled++
	if m.FetchSiteInfoOverride != nil {
		return m.FetchSiteInfoOverride()
	}
	return &SiteInfo{UserID: 1, FullName: "mock", SiteName: "mock"}, nil
}

func (m *MockGateway) DownloadFile(ctx context.Context, creds Credentials, fileURL string) ([]byte, error) {
	m.DownloadFileCalled++
	if m.DownloadFileOverride != nil {
		return m.DownloadFileOverride()
	}
	return []byte{}, nil
}

// MockCredentialProvider returns MockCredentials unless overridden.
type MockCredentialProvider struct {
	CurrentCalled   uint
	CurrentOverride func() (*Credentials, error)
}

func (m *MockCredentialProvider) Current(ctx context.Context) (*Credentials, error) {
	m.CurrentCalled++
	if m.CurrentOverride != nil {
		return m.CurrentOverride()
	}
	creds := MockCredentials
	return &creds, nil
}
