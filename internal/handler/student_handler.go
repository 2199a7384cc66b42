package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadops/campus-admin-api/internal/dto"
	"github.com/acadops/campus-admin-api/internal/service"
	appErrors "github.com/acadops/campus-admin-api/pkg/errors"
	"github.com/acadops/campus-admin-api/pkg/response"
)

// StudentHandler manages roster endpoints.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler constructs handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// List godoc
// @Summary List a course's roster
// @Tags Students
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.service.List(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Replace godoc
// @Summary Replace a course's roster
// @Tags Students
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body dto.ReplaceRosterRequest true "Desired roster"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/students [put]
func (h *StudentHandler) Replace(c *gin.Context) {
	var req dto.ReplaceRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Replace(c.Request.Context(), c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
