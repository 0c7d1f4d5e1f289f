package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"freelancehub/internal/auth"
	"freelancehub/internal/service"
)

// UserHandler serves the caller's own identity.
type UserHandler struct {
	accountService service.AccountService
	media          *MediaResolver
}

// NewUserHandler creates a new user handler.
func NewUserHandler(accountService service.AccountService, media *MediaResolver) *UserHandler {
	return &UserHandler{accountService: accountService, media: media}
}

// Me godoc
// @Summary Current user
// @Description Identity, display name and balance of the authenticated account.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user [get]
func (h *UserHandler) Me(c echo.Context) error {
	caller, err := auth.CurrentCaller(c)
	if err != nil {
		return err
	}

	account, err := h.accountService.Get(c.Request().Context(), caller.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.media.user(c, account))
}
