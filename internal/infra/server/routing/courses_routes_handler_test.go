package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/journey/internal/api/models/common"
	apiCourse "github.com/roach88/journey/internal/api/models/course"
)

type mockCoursesController struct {
	listCoursesCalled    uint
	getCourseCalled      uint
	getModuleCalled      uint
	getModuleBlobsCalled uint
	getSessionCalled     uint

	apiErr *common.ApiError
}

func (m *mockCoursesController) ListCourses(ctx context.Context) ([]apiCourse.Course, *common.ApiError) {
	m.listCoursesCalled++
	if m.apiErr != nil {
		return nil, m.apiErr
	}
	return []apiCourse.Course{{ID: 7, Name: "Algorithms"}}, nil
}

func (m *mockCoursesController) GetCourse(ctx context.Context, courseID int64) (*apiCourse.CourseWithSections, *common.ApiError) {
	m.getCourseCalled++
	if m.apiErr != nil {
		return nil, m.apiErr
	}
	return &apiCourse.CourseWithSections{
		Course:   apiCourse.Course{ID: courseID, Name: "Algorithms"},
		Sections: []apiCourse.SectionWithModules{},
	}, nil
}

func (m *mockCoursesController) GetModule(ctx context.Context, courseID int64, moduleID int64) (*apiCourse.ModuleWithContents, *common.ApiError) {
	m.getModuleCalled++
	if m.apiErr != nil {
		return nil, m.apiErr
	}
	return &apiCourse.ModuleWithContents{
		Module:   apiCourse.SectionModule{ID: moduleID, SectionID: 1, Name: "Intro", ModuleType: "page"},
		Contents: []apiCourse.ModuleContent{},
	}, nil
}

func (m *mockCoursesController) GetModuleBlobs(ctx context.Context, courseID int64, moduleID int64) ([]apiCourse.ContentBlob, *common.ApiError) {
	m.getModuleBlobsCalled++
	if m.apiErr != nil {
		return nil, m.apiErr
	}
	return []apiCourse.ContentBlob{}, nil
}

func (m *mockCoursesController) GetSession(ctx context.Context) (*apiCourse.SessionStatus, *common.ApiError) {
	m.getSessionCalled++
	if m.apiErr != nil {
		return nil, m.apiErr
	}
	return &apiCourse.SessionStatus{Status: apiCourse.SessionValid}, nil
}

func setupRouter() (*gin.Engine, *mockCoursesController) {
	gin.SetMode(gin.TestMode)
	engine := gin.Default()
	mockController := mockCoursesController{}
	handler := CoursesRoutesHandler{Controller: &mockController}
	handler.RegisterRoutes(engine)
	engine.NoRoute(NoRoute)
	engine.NoMethod(NoMethod)
	return engine, &mockController
}

func performRequest(r http.Handler, method, url string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListCourses_Ok(t *testing.T) {
	router, mockController := setupRouter()
	resp := performRequest(router, http.MethodGet, "/api/courses")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.EqualValues(t, 1, mockController.listCoursesCalled)
	var courses []apiCourse.Course
	if err := json.Unmarshal(resp.Body.Bytes(), &courses); err != nil {
		t.Error(err)
	} else {
		assert.Len(t, courses, 1)
		assert.EqualValues(t, "Algorithms", courses[0].Name)
	}
}

func TestGetCourse_Ok(t *testing.T) {
	router, mockController := setupRouter()
	resp := performRequest(router, http.MethodGet, "/api/courses/7")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.EqualValues(t, 1, mockController.getCourseCalled)
	var course apiCourse.CourseWithSections
	if err := json.Unmarshal(resp.Body.Bytes(), &course); err != nil {
		t.Error(err)
	} else {
		assert.EqualValues(t, 7, course.Course.ID)
	}
}

func TestGetCourse_BadId(t *testing.T) {
	router, mockController := setupRouter()
	resp := performRequest(router, http.MethodGet, "/api/courses/seven")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.EqualValues(t, 0, mockController.getCourseCalled)
}

func TestGetCourse_NotFound(t *testing.T) {
	router, mockController := setupRouter()
	mockController.apiErr = &common.ApiError{
		StatusCode: http.StatusNotFound,
		Body:       common.Body{Message: "nope"},
	}
	resp := performRequest(router, http.MethodGet, "/api/courses/7")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	var body common.Body
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Error(err)
	} else {
		assert.EqualValues(t, "nope", body.Message)
	}
}

func TestGetModule_Ok(t *testing.T) {
	router, mockController := setupRouter()
	resp := performRequest(router, http.MethodGet, "/api/courses/7/modules/21")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.EqualValues(t, 1, mockController.getModuleCalled)
}

func TestGetModule_BadModuleId(t *testing.T) {
	router, mockController := setupRouter()
	resp := performRequest(router, http.MethodGet, "/api/courses/7/modules/nan")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.EqualValues(t, 0, mockController.getModuleCalled)
}

func TestGetModuleBlobs_Ok(t *testing.T) {
	router, mockController := setupRouter()
	resp := performRequest(router, http.MethodGet, "/api/courses/7/modules/21/blobs")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.EqualValues(t, 1, mockController.getModuleBlobsCalled)
}

func TestGetSession_Ok(t *testing.T) {
	router, mockController := setupRouter()
	resp := performRequest(router, http.MethodGet, "/api/session")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.EqualValues(t, 1, mockController.getSessionCalled)
	var session apiCourse.SessionStatus
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Error(err)
	} else {
		assert.EqualValues(t, apiCourse.SessionValid, session.Status)
	}
}

func TestNoRoute(t *testing.T) {
	router, _ := setupRouter()
	resp := performRequest(router, http.MethodGet, "/api/nope")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
