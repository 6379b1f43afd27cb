package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"harvesthub/internal/errors"
	"harvesthub/internal/model"
	"harvesthub/internal/service"
)

// FoodHandler handles food listing endpoints.
type FoodHandler struct {
	listings service.ListingService
}

// NewFoodHandler creates a new food handler.
func NewFoodHandler(listings service.ListingService) *FoodHandler {
	return &FoodHandler{listings: listings}
}

// CreateFoodRequest represents the multipart fields of a new listing.
type CreateFoodRequest struct {
	Description string `form:"description" validate:"required"`
	Location    string `form:"location" validate:"required"`
	Quantity    string `form:"quantity"`
	ShelfLife   string `form:"shelf_life"`
}

// CreateFoodResponse confirms a new listing.
type CreateFoodResponse struct {
	Message string             `json:"message"`
	Food    *model.FoodListing `json:"food"`
}

// ListFoodResponse wraps the listing feed.
type ListFoodResponse struct {
	Food []service.ListingView `json:"food"`
}

// CreateFood godoc
// @Summary Post a food listing
// @Tags food
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param description formData string true "What is offered"
// @Param location formData string true "Pickup location"
// @Param quantity formData string false "Free-form quantity"
// @Param shelf_life formData string false "Free-form shelf life"
// @Param photo formData file false "Photo of the food"
// @Success 201 {object} CreateFoodResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /food [post]
func (h *FoodHandler) CreateFood(c echo.Context) error {
	user := CurrentUser(c)
	if user == nil {
		return httpError(errors.ErrTokenMissing)
	}

	var req CreateFoodRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.CreateListingInput{
		Description: req.Description,
		Location:    req.Location,
		Quantity:    &req.Quantity,
		ShelfLife:   &req.ShelfLife,
	}

	fh, err := c.FormFile("photo")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			return httpError(fmt.Errorf("open photo: %w", err))
		}
		defer f.Close()
		in.Photo = &service.Photo{Filename: fh.Filename, Content: f}
	case stderrors.Is(err, http.ErrMissingFile), stderrors.Is(err, http.ErrNotMultipart):
		// photo is optional
	default:
		return httpError(fmt.Errorf("%w: unreadable photo", errors.ErrInvalidRequest))
	}

	listing, err := h.listings.CreateListing(c.Request().Context(), user.ID, in)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, CreateFoodResponse{
		Message: "Food listing added!",
		Food:    listing,
	})
}

// ListFood godoc
// @Summary List food listings, newest first
// @Tags food
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ListFoodResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /food [get]
func (h *FoodHandler) ListFood(c echo.Context) error {
	views, err := h.listings.ListAll(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ListFoodResponse{Food: views})
}
