package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadops/campus-admin-api/internal/dto"
	"github.com/acadops/campus-admin-api/internal/models"
	"github.com/acadops/campus-admin-api/internal/service"
	appErrors "github.com/acadops/campus-admin-api/pkg/errors"
	"github.com/acadops/campus-admin-api/pkg/response"
)

// ModuleHandler manages curriculum module endpoints.
type ModuleHandler struct {
	modules   *service.ModuleService
	scheduler *service.ModuleScheduleService
}

// NewModuleHandler constructs handler.
func NewModuleHandler(modules *service.ModuleService, scheduler *service.ModuleScheduleService) *ModuleHandler {
	return &ModuleHandler{modules: modules, scheduler: scheduler}
}

// ListCourses godoc
// @Summary List courses
// @Tags Modules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *ModuleHandler) ListCourses(c *gin.Context) {
	courses, err := h.modules.ListCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// List godoc
// @Summary List a course's modules
// @Tags Modules
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/modules [get]
func (h *ModuleHandler) List(c *gin.Context) {
	modules, err := h.modules.List(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modules, nil)
}

// Create godoc
// @Summary Create module
// @Tags Modules
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body dto.CreateModuleRequest true "Module payload"
// @Success 201 {object} response.Envelope
// @Router /courses/{courseId}/modules [post]
func (h *ModuleHandler) Create(c *gin.Context) {
	var req dto.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	created, err := h.modules.Create(c.Request.Context(), c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update godoc
// @Summary Update module
// @Tags Modules
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param payload body dto.UpdateModuleRequest true "Module payload"
// @Success 200 {object} response.Envelope
// @Router /modules/{id} [put]
func (h *ModuleHandler) Update(c *gin.Context) {
	var req dto.UpdateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	updated, err := h.modules.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Delete godoc
// @Summary Delete module
// @Tags Modules
// @Produce json
// @Param id path string true "Module ID"
// @Success 204
// @Router /modules/{id} [delete]
func (h *ModuleHandler) Delete(c *gin.Context) {
	if err := h.modules.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Sync godoc
// @Summary Replace a course's module list
// @Tags Modules
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body dto.SyncModulesRequest true "Desired module list"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/modules/sync [put]
func (h *ModuleHandler) Sync(c *gin.Context) {
	var req dto.SyncModulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.modules.Sync(c.Request.Context(), c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Recalculate godoc
// @Summary Recalculate a course's module dates
// @Tags Modules
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body dto.RecalculateScheduleRequest false "Recalculation options"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/modules/recalculate [post]
func (h *ModuleHandler) Recalculate(c *gin.Context) {
	var req dto.RecalculateScheduleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}

	result, err := h.scheduler.Recalculate(c.Request.Context(), c.Param("courseId"), models.ScheduleDirection(req.Direction))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toScheduleResponse(result), nil)
}

// PreviewSchedule godoc
// @Summary Preview a course's recalculated module dates
// @Tags Modules
// @Produce json
// @Param courseId path string true "Course ID"
// @Param direction query string false "forward or backward"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/modules/schedule [get]
func (h *ModuleHandler) PreviewSchedule(c *gin.Context) {
	result, err := h.scheduler.Preview(c.Request.Context(), c.Param("courseId"), models.ScheduleDirection(c.Query("direction")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toScheduleResponse(result), nil)
}

func toScheduleResponse(result *models.ScheduleResult) dto.RecalculateScheduleResponse {
	resp := dto.RecalculateScheduleResponse{
		Status:      string(result.Status),
		Applied:     result.Applied,
		Failed:      result.Failed,
		Warnings:    result.Warnings,
		PivotModule: result.PivotModule,
		Synthetic:   result.SyntheticRun,
	}
	resp.Entries = make([]dto.ScheduleEntryResponse, len(result.Entries))
	for i, entry := range result.Entries {
		resp.Entries[i] = dto.ScheduleEntryResponse{
			ModuleID:  entry.ModuleID,
			OrderNum:  entry.OrderNum,
			StartDate: dto.FormatDate(entry.StartDate),
			EndDate:   dto.FormatDate(entry.EndDate),
		}
	}
	resp.Changes = make([]dto.ScheduleChangeResponse, len(result.Changes))
	for i, change := range result.Changes {
		resp.Changes[i] = dto.ScheduleChangeResponse{
			ModuleID:     change.ModuleID,
			OrderNum:     change.OrderNum,
			OldStartDate: dto.FormatDatePtr(change.OldStartDate),
			OldEndDate:   dto.FormatDatePtr(change.OldEndDate),
			NewStartDate: dto.FormatDate(change.NewStartDate),
			NewEndDate:   dto.FormatDate(change.NewEndDate),
		}
	}
	return resp
}
