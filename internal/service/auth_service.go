package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"simpleblog/internal/auth"
	apperrors "simpleblog/internal/errors"
	"simpleblog/internal/logger"
	"simpleblog/internal/model"
	"simpleblog/internal/repository"
)

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.User, string, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
}

type authService struct {
	userRepo  repository.UserRepository
	hasher    auth.PasswordHasher
	tokens    *auth.TokenService
	validator *Validator
	ttl       time.Duration
}

// NewAuthService creates a new authentication service issuing tokens valid for ttl.
func NewAuthService(userRepo repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenService, validator *Validator, ttl time.Duration) AuthService {
	return &authService{
		userRepo:  userRepo,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
		ttl:       ttl,
	}
}

// Register validates input, stores the user and returns a session token for it.
// Input problems come back as *errors.ValidationError.
func (s *authService) Register(ctx context.Context, username, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)

	msgs := s.validator.Username(username)
	if username != "" {
		_, err := s.userRepo.FindByUsername(ctx, username)
		switch {
		case err == nil:
			msgs = append(msgs, msgUsernameTaken)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, "", fmt.Errorf("check username: %w", err)
		}
	}
	msgs = append(msgs, s.validator.Password(password)...)
	if err := apperrors.NewValidationError(msgs); err != nil {
		return nil, "", err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{Username: username, PasswordHash: digest}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration of the same name
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.NewValidationError([]string{msgUsernameTaken})
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(auth.Authenticated{UserID: user.ID, Username: user.Username}, s.ttl)
	if err != nil {
		return nil, "", err
	}

	logger.FromContext(ctx).Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, token, nil
}

// Login checks credentials and returns a session token. Every credential
// problem is reported as the same validation message.
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	invalid := apperrors.NewValidationError([]string{msgInvalidCredentials})

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", invalid
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", invalid
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", invalid
	}

	token, err := s.tokens.Issue(auth.Authenticated{UserID: user.ID, Username: user.Username}, s.ttl)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
