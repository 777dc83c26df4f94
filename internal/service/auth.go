package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pairlink/pairlink-go/internal/crypto"
	"github.com/pairlink/pairlink-go/internal/model"
	"github.com/pairlink/pairlink-go/internal/repository"
)

// TokenExpiry is the fixed lifetime of an issued token. There is no refresh.
const TokenExpiry = 7 * 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	users     UserStore
	profiles  ProfileStore
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, profiles ProfileStore, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		profiles:  profiles,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates a user with its profile and returns an auth token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if err := validateStruct(req); err != nil {
		return model.AuthResponse{}, err
	}
	if len(req.Password) > crypto.MaxPasswordBytes {
		return model.AuthResponse{}, invalid("password must be at most %d bytes", crypto.MaxPasswordBytes)
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return model.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.AuthResponse{}, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	ts := now()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	profile := &model.Profile{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Name:       req.Name,
		Age:        req.Age,
		Gender:     req.Gender,
		Location:   req.Location,
		LookingFor: model.LookingForBoth,
		IsActive:   true,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}

	if err := s.users.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, ErrEmailTaken
		}
		return model.AuthResponse{}, err
	}

	return s.issue(user, profile)
}

// Login authenticates a user and returns an auth token. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return model.AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	profile, err := s.profileOf(ctx, user.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return s.issue(user, profile)
}

// VerifyToken resolves a bearer token to the public record of a user that
// still exists.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (model.UserResponse, error) {
	claims, err := crypto.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return model.UserResponse{}, ErrInvalidToken
	}

	user, err := s.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrInvalidToken
		}
		return model.UserResponse{}, err
	}

	return user, nil
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID string) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}

	profile, err := s.profileOf(ctx, user.ID)
	if err != nil {
		return model.UserResponse{}, err
	}

	return model.UserResponse{ID: user.ID, Email: user.Email, Profile: profile}, nil
}

func (s *AuthService) issue(user *model.User, profile *model.Profile) (model.AuthResponse, error) {
	token, err := crypto.GenerateToken(user.ID, user.Email, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("sign token: %w", err)
	}

	return model.AuthResponse{
		User:  model.UserResponse{ID: user.ID, Email: user.Email, Profile: profile},
		Token: token,
	}, nil
}

// profileOf loads a user's profile; a missing profile is reported as nil.
func (s *AuthService) profileOf(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, nil
	}
	return p, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
