package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"harvesthub/internal/auth"
	"harvesthub/internal/config"
	"harvesthub/internal/db"
	apperrors "harvesthub/internal/errors"
	"harvesthub/internal/logger"
	"harvesthub/internal/model"
	"harvesthub/internal/repository"
	"harvesthub/internal/service"
	"harvesthub/internal/storage"
)

//go:embed fixture.json
var defaultFixture []byte

// Fixture is the seed data layout.
type Fixture struct {
	Users []SeedUser `json:"users"`
}

// SeedUser is a user to register along with the listings they post.
type SeedUser struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Role     string        `json:"role"`
	Listings []SeedListing `json:"listings"`
}

// SeedListing is a listing posted by its enclosing SeedUser.
type SeedListing struct {
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Quantity    *string `json:"quantity"`
	ShelfLife   *string `json:"shelf_life"`
}

// Result counts what a seed run did.
type Result struct {
	UsersCreated    int
	UsersSkipped    int
	ListingsCreated int
}

func main() {
	fixturePath := flag.String("fixture", "", "path to a JSON fixture (defaults to the embedded one)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Options{
		ServiceName: "harvesthub-seed",
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	ctx := log.WithContext(context.Background())

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		log.Fatal().Err(err).Msg("load fixture")
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close(gormDB)

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init storage")
	}

	listingRepo := repository.NewListingRepository(gormDB)
	identity := service.NewIdentityService(
		repository.NewUserRepository(gormDB),
		auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL),
		nil,
	)
	listings := service.NewListingService(listingRepo, store, nil)

	res, err := seed(ctx, identity, listings, fixture)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().
		Int("users_created", res.UsersCreated).
		Int("users_skipped", res.UsersSkipped).
		Int("listings_created", res.ListingsCreated).
		Msg("seed completed")
}

func loadFixture(path string) (*Fixture, error) {
	data := defaultFixture
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
	}

	var fixture Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &fixture, nil
}

// seed registers each fixture user and posts their listings. Users whose
// email is already registered are skipped together with their listings.
func seed(ctx context.Context, identity service.IdentityService, listings service.ListingService, fixture *Fixture) (Result, error) {
	var res Result
	log := zerolog.Ctx(ctx)

	for _, u := range fixture.Users {
		user, _, err := identity.Register(ctx, u.Name, u.Email, u.Password, model.Role(u.Role))
		if errors.Is(err, apperrors.ErrEmailTaken) {
			log.Info().Str("email", u.Email).Msg("user exists, skipping")
			res.UsersSkipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("register %s: %w", u.Email, err)
		}
		res.UsersCreated++

		for _, l := range u.Listings {
			_, err := listings.CreateListing(ctx, user.ID, service.CreateListingInput{
				Description: l.Description,
				Location:    l.Location,
				Quantity:    l.Quantity,
				ShelfLife:   l.ShelfLife,
			})
			if err != nil {
				return res, fmt.Errorf("create listing for %s: %w", u.Email, err)
			}
			res.ListingsCreated++
		}
	}
	return res, nil
}
