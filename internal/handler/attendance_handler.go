package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadops/campus-admin-api/internal/dto"
	"github.com/acadops/campus-admin-api/internal/service"
	appErrors "github.com/acadops/campus-admin-api/pkg/errors"
	"github.com/acadops/campus-admin-api/pkg/response"
)

// AttendanceHandler manages attendance endpoints.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// GetDay godoc
// @Summary Get a course's attendance for one date
// @Tags Attendance
// @Produce json
// @Param courseId path string true "Course ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/attendance/{date} [get]
func (h *AttendanceHandler) GetDay(c *gin.Context) {
	records, err := h.service.GetDay(c.Request.Context(), c.Param("courseId"), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// ListDates godoc
// @Summary List the dates a course has attendance for
// @Tags Attendance
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/attendance [get]
func (h *AttendanceHandler) ListDates(c *gin.Context) {
	dates, err := h.service.ListDates(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dates, nil)
}

// SaveDay godoc
// @Summary Save a course's attendance for one date
// @Tags Attendance
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body dto.SaveAttendanceRequest true "Day attendance"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/attendance [put]
func (h *AttendanceHandler) SaveDay(c *gin.Context) {
	var req dto.SaveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.SaveDay(c.Request.Context(), c.Param("courseId"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"saved": len(req.Marks)}, nil)
}

// DeleteDay godoc
// @Summary Delete a course's attendance for one date
// @Tags Attendance
// @Produce json
// @Param courseId path string true "Course ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 204
// @Router /courses/{courseId}/attendance/{date} [delete]
func (h *AttendanceHandler) DeleteDay(c *gin.Context) {
	if err := h.service.DeleteDay(c.Request.Context(), c.Param("courseId"), c.Param("date")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
