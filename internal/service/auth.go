// Package service contains the business logic of the marketplace.
//
// The layering follows the usual shape:
//
//	Handler (HTTP)  → Service (rules, orchestration) → Repository (rows)
//
// Services accept primitives and model types, never HTTP types, and return
// apperror-typed failures that the handler layer maps to status codes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alvaro-reta/solari-market/internal/apperror"
	"github.com/alvaro-reta/solari-market/internal/auth"
	"github.com/alvaro-reta/solari-market/internal/model"
	"github.com/alvaro-reta/solari-market/internal/repository"
)

const (
	MaxUsernameLength = 40
	MinPasswordLength = 6
)

// AuthService handles registration, login, and profile lookup.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user and their freshly issued credential so the
// handler can respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account.
//
// UNIQUENESS:
// Email and username must be unique across all users. The store cannot
// enforce that, so we scan the full table before appending. Two truly
// simultaneous registrations with the same email could both pass the scan;
// accepted at this scale, and the first row wins all subsequent lookups
// because findByField takes the first match.
func (s *AuthService) Register(ctx context.Context, username, email, password, server, region string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	switch {
	case username == "":
		return nil, apperror.ValidationFailed("username", "username is required")
	case len(username) > MaxUsernameLength:
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	case email == "" || !strings.Contains(email, "@"):
		return nil, apperror.ValidationFailed("email", "a valid email is required")
	case len(password) < MinPasswordLength:
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	case server == "":
		return nil, apperror.ValidationFailed("server", "server is required")
	case region == "":
		return nil, apperror.ValidationFailed("region", "region is required")
	}

	existing, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking uniqueness: %w", err)
	}
	for _, u := range existing {
		if strings.EqualFold(u.Email, email) {
			return nil, apperror.Duplicate("user", "email")
		}
		if u.Username == username {
			return nil, apperror.Duplicate("user", "username")
		}
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		AvatarURL:    model.DefaultAvatarURL,
		Role:         model.RoleSeller,
		Balance:      0,
		Server:       server,
		Region:       region,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for %s: %w", user.ID, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a token.
//
// The same Unauthorized error covers both "no such email" and "wrong
// password" so the response doesn't reveal which emails have accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	user, _, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Debug("failed login attempt", slog.String("email", email))
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the user for the given ID, for the /me endpoint.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	user, _, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}
