package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/httpresp"
	ucCourse "github.com/BruksfildServices01/spa-scheduler/internal/usecase/course"
)

type CourseHandler struct {
	get  *ucCourse.GetCourse
	book *ucCourse.BookSession
}

func NewCourseHandler(get *ucCourse.GetCourse, book *ucCourse.BookSession) *CourseHandler {
	return &CourseHandler{get: get, book: book}
}

func courseActor(c *gin.Context) ucCourse.Actor {
	id, role := currentUser(c)
	return ucCourse.Actor{UserID: id, Role: role}
}

func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid course id.")
		return
	}

	course, err := h.get.Execute(c.Request.Context(), courseActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, course)
}

func (h *CourseHandler) BookSession(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid course id.")
		return
	}

	seq, err := strconv.Atoi(c.Param("seq"))
	if err != nil || seq <= 0 {
		httperr.BadRequest(c, "invalid_sequence", "Invalid session number.")
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), courseActor(c), id, seq)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, ap)
}
