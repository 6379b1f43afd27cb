package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"harvesthub/internal/errors"
)

// UserHandler serves the authenticated user's own record.
type UserHandler struct{}

// NewUserHandler creates a handler layer.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile godoc
// @Summary Current user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return httpError(errors.ErrTokenMissing)
	}
	return c.JSON(http.StatusOK, user)
}
