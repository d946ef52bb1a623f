package account

import (
	"context"
	"errors"
	"strconv"
	"time"

	"denimatch/domain"
	"denimatch/pkg/logger"
	"denimatch/pkg/utils"

	"github.com/go-playground/validator/v10"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"

	sessionTTL = 24 * time.Hour
)

// ProfileRepository contract interface
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	FindByID(ctx context.Context, id uint) (domain.Profile, error)
	FindByEmail(ctx context.Context, email string) (domain.Profile, error)
}

// TokenRepository contract interface
type TokenRepository interface {
	StoreToken(ctx context.Context, userID, token string, ttl time.Duration) error
	ValidateToken(ctx context.Context, token string) (string, error)
	DeleteToken(ctx context.Context, token string) error
}

// TasteDefaults seeds the taste columns of a new profile.
type TasteDefaults struct {
	BaseDecay float64
	ClampMin  float64
	ClampMax  float64
}

type Service struct {
	profileRepo ProfileRepository
	tokenRepo   TokenRepository
	validate    *validator.Validate
	defaults    TasteDefaults
}

func NewService(profileRepo ProfileRepository, tokenRepo TokenRepository, validate *validator.Validate, defaults TasteDefaults) *Service {
	return &Service{
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		validate:    validate,
		defaults:    defaults,
	}
}

func (s *Service) Register(ctx context.Context, fullName, email, password string) (domain.Profile, error) {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return domain.Profile{}, errors.New("invalid email format")
	}
	if err := s.validate.Var(password, "required,min=6"); err != nil {
		return domain.Profile{}, errors.New("password must be at least 6 characters")
	}

	existing, err := s.profileRepo.FindByEmail(ctx, email)
	if err == nil && existing.ID > 0 {
		return domain.Profile{}, errors.New("email already exists")
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.Profile{}, errors.New("failed to hash password")
	}

	profile := domain.Profile{
		FullName:      fullName,
		Email:         email,
		PasswordHash:  passwordHash,
		Role:          RoleMember,
		TasteDecay:    s.defaults.BaseDecay,
		TasteClampMin: s.defaults.ClampMin,
		TasteClampMax: s.defaults.ClampMax,
	}

	if err := s.profileRepo.Create(ctx, &profile); err != nil {
		logger.Error("Failed to create profile", err)
		return domain.Profile{}, errors.New("failed to create profile")
	}

	return profile, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, domain.Profile, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", domain.Profile{}, errors.New("invalid email or password")
	}

	if !utils.CheckPassword(profile.PasswordHash, password) {
		return "", domain.Profile{}, errors.New("invalid email or password")
	}

	token, err := utils.GenerateJWT(itoa(profile.ID), profile.Role, sessionTTL)
	if err != nil {
		logger.Error("Failed to generate JWT", err)
		return "", domain.Profile{}, errors.New("failed to generate token")
	}

	if s.tokenRepo != nil {
		if err := s.tokenRepo.StoreToken(ctx, itoa(profile.ID), token, sessionTTL); err != nil {
			logger.Error("Failed to store session token", err)
			return "", domain.Profile{}, errors.New("failed to store session token")
		}
	}

	return token, profile, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if s.tokenRepo == nil {
		return nil
	}
	return s.tokenRepo.DeleteToken(ctx, token)
}

// ValidateTokenFromRedis lets the auth middleware reject revoked sessions.
func (s *Service) ValidateTokenFromRedis(ctx context.Context, token string) (string, error) {
	if s.tokenRepo == nil {
		return "", errors.New("token store unavailable")
	}
	return s.tokenRepo.ValidateToken(ctx, token)
}

func (s *Service) GetProfile(ctx context.Context, id uint) (domain.Profile, error) {
	return s.profileRepo.FindByID(ctx, id)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
