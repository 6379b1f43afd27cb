package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	apperrors "harvesthub/internal/errors"
	"harvesthub/internal/metrics"
	"harvesthub/internal/model"
	"harvesthub/internal/repository"
)

// MatchService runs the claim workflow.
type MatchService interface {
	ClaimListing(ctx context.Context, claimantID, foodID uint) (*model.Match, error)
}

type matchService struct {
	listings repository.ListingRepository
	metrics  *metrics.Metrics
}

// NewMatchService creates a new match service.
func NewMatchService(listings repository.ListingRepository, m *metrics.Metrics) MatchService {
	return &matchService{
		listings: listings,
		metrics:  m,
	}
}

// ClaimListing flips an available listing to matched and records a pending
// match for the claimant, both in one transaction. Missing and already
// claimed listings both yield ErrFoodNotAvailable.
func (s *matchService) ClaimListing(ctx context.Context, claimantID, foodID uint) (*model.Match, error) {
	if foodID == 0 {
		return nil, fmt.Errorf("%w: food_id", apperrors.ErrInvalidRequest)
	}

	match := &model.Match{
		FoodID:    foodID,
		PartnerID: claimantID,
		Status:    model.MatchStatusPending,
	}

	err := s.listings.WithTransaction(ctx, func(ctx context.Context, listings repository.ListingRepository, matches repository.MatchRepository) error {
		ok, err := listings.TransitionStatus(ctx, foodID, model.ListingStatusAvailable, model.ListingStatusMatched)
		if err != nil {
			return fmt.Errorf("transition listing: %w", err)
		}
		if !ok {
			return apperrors.ErrFoodNotAvailable
		}
		if err := matches.Create(ctx, match); err != nil {
			return fmt.Errorf("create match: %w", err)
		}
		return nil
	})

	log := zerolog.Ctx(ctx).With().Uint("food_id", foodID).Uint("partner_id", claimantID).Logger()
	switch {
	case err == nil:
		s.metrics.ObserveClaim(metrics.ClaimMatched)
		log.Info().Uint("match_id", match.ID).Msg("listing claimed")
		return match, nil
	case errors.Is(err, apperrors.ErrFoodNotAvailable):
		s.metrics.ObserveClaim(metrics.ClaimUnavailable)
		log.Info().Msg("claim rejected: food not available")
		return nil, err
	default:
		s.metrics.ObserveClaim(metrics.ClaimError)
		log.Error().Err(err).Msg("claim failed")
		return nil, err
	}
}
