package repository

import (
	"context"

	"gorm.io/gorm"

	"harvesthub/internal/model"
)

// ListingRepository defines food listing persistence operations.
type ListingRepository interface {
	Create(ctx context.Context, listing *model.FoodListing) error
	FindByID(ctx context.Context, id uint) (*model.FoodListing, error)
	ListNewestFirst(ctx context.Context) ([]model.FoodListing, error)
	// TransitionStatus moves a listing from one status to another in a single
	// conditional update. It reports false when the listing does not exist or
	// is not currently in status from.
	TransitionStatus(ctx context.Context, id uint, from, to model.ListingStatus) (bool, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, listings ListingRepository, matches MatchRepository) error) error
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository.
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// Create creates a new listing.
func (r *listingRepository) Create(ctx context.Context, listing *model.FoodListing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// FindByID finds a listing by ID.
func (r *listingRepository) FindByID(ctx context.Context, id uint) (*model.FoodListing, error) {
	var listing model.FoodListing
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListNewestFirst returns every listing with its poster preloaded, newest first.
// Listings whose owner row is gone come back with a nil User.
func (r *listingRepository) ListNewestFirst(ctx context.Context) ([]model.FoodListing, error) {
	var listings []model.FoodListing
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// TransitionStatus updates the status only if it still equals from.
func (r *listingRepository) TransitionStatus(ctx context.Context, id uint, from, to model.ListingStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.FoodListing{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// WithTransaction executes fn with listing and match repositories bound to one
// database transaction. Returning an error from fn rolls everything back.
func (r *listingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, listings ListingRepository, matches MatchRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &listingRepository{db: tx}, &matchRepository{db: tx})
	})
}
