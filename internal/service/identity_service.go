package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"harvesthub/internal/auth"
	"harvesthub/internal/cache"
	apperrors "harvesthub/internal/errors"
	"harvesthub/internal/model"
	"harvesthub/internal/repository"
)

const (
	bcryptCost   = 10
	userCacheTTL = 5 * time.Minute
)

// IdentityService registers users, checks credentials and resolves session tokens.
type IdentityService interface {
	Register(ctx context.Context, name, email, password string, role model.Role) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	Resolve(ctx context.Context, token string) (*model.User, error)
}

type identityService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	cache      *cache.Client
}

// NewIdentityService creates a new identity service. cache may be nil.
func NewIdentityService(users repository.UserRepository, jwtService *auth.JWTService, cache *cache.Client) IdentityService {
	return &identityService{
		users:      users,
		jwtService: jwtService,
		cache:      cache,
	}
}

func (s *identityService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Register creates a user with a hashed password and issues a session token.
func (s *identityService) Register(ctx context.Context, name, email, password string, role model.Role) (*model.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" || role == "" {
		return nil, "", apperrors.ErrInvalidRequest
	}
	if !role.Valid() {
		return nil, "", fmt.Errorf("%w: unknown role %q", apperrors.ErrInvalidRequest, role)
	}

	// Check if user already exists
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent registration can win the unique index after our lookup
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	zerolog.Ctx(ctx).Info().Uint("user_id", user.ID).Str("role", string(role)).Msg("user registered")
	return user, token, nil
}

// Authenticate verifies credentials and issues a session token. Unknown
// emails and wrong passwords are reported identically.
func (s *identityService) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", apperrors.ErrInvalidRequest
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// Resolve returns the user a session token was issued to.
func (s *identityService) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, apperrors.ErrTokenMissing
	}
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	user, err := s.getUser(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}

// getUser reads through the cache. Cached users carry no password hash.
func (s *identityService) getUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}
