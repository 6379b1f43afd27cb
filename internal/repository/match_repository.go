package repository

import (
	"context"

	"gorm.io/gorm"

	"harvesthub/internal/model"
)

// MatchRepository defines match persistence operations.
type MatchRepository interface {
	Create(ctx context.Context, match *model.Match) error
	ListByFood(ctx context.Context, foodID uint) ([]model.Match, error)
}

type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new match repository.
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

// Create creates a new match record.
func (r *matchRepository) Create(ctx context.Context, match *model.Match) error {
	return r.db.WithContext(ctx).Create(match).Error
}

// ListByFood returns the matches recorded against a listing, oldest first.
func (r *matchRepository) ListByFood(ctx context.Context, foodID uint) ([]model.Match, error) {
	var matches []model.Match
	if err := r.db.WithContext(ctx).Where("food_id = ?", foodID).Order("id ASC").Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}
