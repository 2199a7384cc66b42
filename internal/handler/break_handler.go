package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadops/campus-admin-api/internal/dto"
	"github.com/acadops/campus-admin-api/internal/service"
	appErrors "github.com/acadops/campus-admin-api/pkg/errors"
	"github.com/acadops/campus-admin-api/pkg/response"
)

// BreakHandler manages break endpoints.
type BreakHandler struct {
	service *service.BreakService
}

// NewBreakHandler constructs handler.
func NewBreakHandler(svc *service.BreakService) *BreakHandler {
	return &BreakHandler{service: svc}
}

// List godoc
// @Summary List breaks
// @Tags Breaks
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /breaks [get]
func (h *BreakHandler) List(c *gin.Context) {
	breaks, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, breaks, nil)
}

// Create godoc
// @Summary Create break
// @Tags Breaks
// @Accept json
// @Produce json
// @Param payload body dto.CreateBreakRequest true "Break payload"
// @Success 201 {object} response.Envelope
// @Router /breaks [post]
func (h *BreakHandler) Create(c *gin.Context) {
	var req dto.CreateBreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Delete godoc
// @Summary Delete break
// @Tags Breaks
// @Produce json
// @Param id path string true "Break ID"
// @Success 204
// @Router /breaks/{id} [delete]
func (h *BreakHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
