package routing

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	courseController "github.com/roach88/journey/internal/api/controllers/course"
)

var apiRootPath = "/api"
var courseIdPathKey = "course_id"
var moduleIdPathKey = "module_id"

type CoursesRoutesHandler struct {
	Controller courseController.Controller
}

func (h *CoursesRoutesHandler) RegisterRoutes(ginEngine *gin.Engine) {
	routerGroup := ginEngine.Group(apiRootPath)

	routerGroup.GET("/courses", h.listCourses)
	routerGroup.GET("/courses/:"+courseIdPathKey, h.getCourse)
	routerGroup.GET("/courses/:"+courseIdPathKey+"/modules/:"+moduleIdPathKey, h.getModule)
	routerGroup.GET("/courses/:"+courseIdPathKey+"/modules/:"+moduleIdPathKey+"/blobs", h.getModuleBlobs)
	routerGroup.GET("/session", h.getSession)
}

func (h *CoursesRoutesHandler) listCourses(c *gin.Context) {
	if courses, err := h.Controller.ListCourses(c.Request.Context()); err == nil {
		c.JSON(http.StatusOK, courses)
	} else {
		handleApiErr(c, err)
	}
}

func (h *CoursesRoutesHandler) getCourse(c *gin.Context) {
	courseId, ok := pathId(c, courseIdPathKey)
	if !ok {
		return
	}
	if course, err := h.Controller.GetCourse(c.Request.Context(), courseId); err == nil {
		c.JSON(http.StatusOK, course)
	} else {
		handleApiErr(c, err)
	}
}

func (h *CoursesRoutesHandler) getModule(c *gin.Context) {
	courseId, ok := pathId(c, courseIdPathKey)
	if !ok {
		return
	}
	moduleId, ok := pathId(c, moduleIdPathKey)
	if !ok {
		return
	}
	if module, err := h.Controller.GetModule(c.Request.Context(), courseId, moduleId); err == nil {
		c.JSON(http.StatusOK, module)
	} else {
		handleApiErr(c, err)
	}
}

func (h *CoursesRoutesHandler) getModuleBlobs(c *gin.Context) {
	courseId, ok := pathId(c, courseIdPathKey)
	if !ok {
		return
	}
	moduleId, ok := pathId(c, moduleIdPathKey)
	if !ok {
		return
	}
	if blobs, err := h.Controller.GetModuleBlobs(c.Request.Context(), courseId, moduleId); err == nil {
		c.JSON(http.StatusOK, blobs)
	} else {
		handleApiErr(c, err)
	}
}

func (h *CoursesRoutesHandler) getSession(c *gin.Context) {
	if session, err := h.Controller.GetSession(c.Request.Context()); err == nil {
		c.JSON(http.StatusOK, session)
	} else {
		handleApiErr(c, err)
	}
}

func pathId(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil {
		handleBadPathParam(c, key)
		return 0, false
	}
	return id, true
}
