package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"harvesthub/internal/errors"
	"harvesthub/internal/model"
	"harvesthub/internal/service"
)

// MatchHandler handles claim endpoints.
type MatchHandler struct {
	matches service.MatchService
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(matches service.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// ClaimRequest represents a claim on a listing.
type ClaimRequest struct {
	FoodID uint `json:"food_id" validate:"required"`
}

// ClaimResponse confirms a claim.
type ClaimResponse struct {
	Message string       `json:"message"`
	Match   *model.Match `json:"match"`
}

// ClaimFood godoc
// @Summary Claim an available food listing
// @Tags match
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ClaimRequest true "Listing to claim"
// @Success 200 {object} ClaimResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /match [post]
func (h *MatchHandler) ClaimFood(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return httpError(errors.ErrTokenMissing)
	}

	var req ClaimRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	match, err := h.matches.ClaimListing(c.Request().Context(), user.ID, req.FoodID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, ClaimResponse{
		Message: "Food claimed!",
		Match:   match,
	})
}
