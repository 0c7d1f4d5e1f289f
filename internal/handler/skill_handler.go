package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"freelancehub/internal/service"
)

// SkillHandler serves the skill catalog.
type SkillHandler struct {
	skillService service.SkillService
}

// NewSkillHandler creates a new skill handler.
func NewSkillHandler(skillService service.SkillService) *SkillHandler {
	return &SkillHandler{skillService: skillService}
}

// List godoc
// @Summary List skills
// @Tags skills
// @Produce json
// @Security BearerAuth
// @Success 200 {array} SkillResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /skills [get]
func (h *SkillHandler) List(c echo.Context) error {
	skills, err := h.skillService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, skillResponses(skills))
}
