package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "harvesthub/internal/errors"
	"harvesthub/internal/metrics"
	"harvesthub/internal/model"
	"harvesthub/internal/repository"
	"harvesthub/internal/storage"
)

// UploadsPath is the URL prefix under which stored photos are served.
const UploadsPath = "/uploads/"

// unknownPoster names the poster of a listing whose owner row is missing.
const unknownPoster = "Unknown"

// Photo is an uploaded image attached to a new listing.
type Photo struct {
	Filename string
	Content  io.Reader
}

// CreateListingInput carries the fields of a new listing.
type CreateListingInput struct {
	Description string
	Location    string
	Quantity    *string
	ShelfLife   *string
	Photo       *Photo
}

// ListingView is a listing annotated with its poster's display name.
type ListingView struct {
	ID          uint                `json:"id"`
	PhotoURL    *string             `json:"photo_url"`
	Description string              `json:"description"`
	Location    string              `json:"location"`
	Quantity    *string             `json:"quantity"`
	ShelfLife   *string             `json:"shelf_life"`
	Status      model.ListingStatus `json:"status"`
	PosterName  string              `json:"poster_name"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ListingService handles food listing operations.
type ListingService interface {
	CreateListing(ctx context.Context, ownerID uint, in CreateListingInput) (*model.FoodListing, error)
	ListAll(ctx context.Context) ([]ListingView, error)
}

type listingService struct {
	listings repository.ListingRepository
	storage  storage.Storage
	metrics  *metrics.Metrics
}

// NewListingService creates a new listing service.
func NewListingService(listings repository.ListingRepository, store storage.Storage, m *metrics.Metrics) ListingService {
	return &listingService{
		listings: listings,
		storage:  store,
		metrics:  m,
	}
}

// CreateListing stores the optional photo, then records an available listing.
func (s *listingService) CreateListing(ctx context.Context, ownerID uint, in CreateListingInput) (*model.FoodListing, error) {
	description := strings.TrimSpace(in.Description)
	location := strings.TrimSpace(in.Location)
	if description == "" || location == "" {
		return nil, apperrors.ErrInvalidRequest
	}

	listing := &model.FoodListing{
		UserID:      ownerID,
		Description: description,
		Location:    location,
		Quantity:    blankToNil(in.Quantity),
		ShelfLife:   blankToNil(in.ShelfLife),
		Status:      model.ListingStatusAvailable,
	}

	if in.Photo != nil {
		name := storage.SanitizeFilename(in.Photo.Filename)
		if name == "" {
			return nil, fmt.Errorf("%w: invalid photo filename", apperrors.ErrInvalidRequest)
		}
		if err := s.storage.Save(ctx, name, in.Photo.Content); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("filename", name).Msg("photo upload failed")
			return nil, fmt.Errorf("store photo: %w", err)
		}
		photoURL := UploadsPath + name
		listing.PhotoURL = &photoURL
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	s.metrics.IncListingsCreated()
	zerolog.Ctx(ctx).Info().Uint("food_id", listing.ID).Uint("user_id", ownerID).Msg("listing created")
	return listing, nil
}

// ListAll returns every listing newest first.
func (s *listingService) ListAll(ctx context.Context) ([]ListingView, error) {
	listings, err := s.listings.ListNewestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}

	views := make([]ListingView, 0, len(listings))
	for _, l := range listings {
		poster := unknownPoster
		if l.User != nil {
			poster = l.User.Name
		}
		views = append(views, ListingView{
			ID:          l.ID,
			PhotoURL:    l.PhotoURL,
			Description: l.Description,
			Location:    l.Location,
			Quantity:    l.Quantity,
			ShelfLife:   l.ShelfLife,
			Status:      l.Status,
			PosterName:  poster,
			CreatedAt:   l.CreatedAt,
		})
	}
	return views, nil
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
