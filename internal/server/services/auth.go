// Package services contains server-side business logic. This file implements
// AuthService: registration, login, refresh-token rotation, logout, and
// resolving the authenticated user behind a bearer access token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vmakarenko/contactvault/internal/common"
	"github.com/vmakarenko/contactvault/internal/logging"
	"github.com/vmakarenko/contactvault/internal/server/auth"
	"github.com/vmakarenko/contactvault/internal/server/models"
	"github.com/vmakarenko/contactvault/internal/server/repositories/repomanager"
)

// AuthService orchestrates the credential and token flows. It owns no state
// beyond its immutable collaborators; the single stored refresh token per
// user lives in the users repository.
type AuthService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	tokens *auth.TokenManager
	logger logging.Logger
}

func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, tokens *auth.TokenManager, logger logging.Logger) *AuthService {
	return &AuthService{
		db:     db,
		repos:  repos,
		tokens: tokens,
		logger: logger.With("module", "auth_service"),
	}
}

// Register creates a user with a hashed password. No token is issued at
// registration; the user logs in afterwards.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repos.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrEmailAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "email", email)
	return user, nil
}

// Login verifies the credentials and, on success, issues a fresh token pair
// and persists the refresh token, overwriting any prior value. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	repo := s.repos.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.Email)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := repo.UpdateRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	s.logger.Info(ctx, "login", "email", email)
	return pair, nil
}

// Refresh rotates the refresh token: the presented token must decode, carry
// the refresh kind, be unexpired, and exactly equal the stored value. On a
// mismatch the stored token is cleared, forcing re-login. Two concurrent
// refreshes of the same valid token can both rotate; the last write wins.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*auth.TokenPair, error) {
	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	if claims.ExpiredAt(time.Now()) {
		return nil, common.ErrInvalidToken
	}
	if claims.Kind != auth.TokenKindRefresh {
		return nil, common.ErrWrongTokenScope
	}

	repo := s.repos.Users(s.db)

	user, err := repo.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != rawToken {
		// Stale or compromised token: revoke the stored one defensively.
		s.logger.Warn(ctx, "refresh token mismatch, clearing stored token", "email", user.Email)
		if err := repo.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
			return nil, fmt.Errorf("error clearing refresh token: %w", err)
		}
		return nil, common.ErrTokenMismatch
	}

	pair, err := s.tokens.IssuePair(user.Email)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := repo.UpdateRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return pair, nil
}

// Logout clears the stored refresh token. Idempotent.
func (s *AuthService) Logout(ctx context.Context, user *models.User) error {
	repo := s.repos.Users(s.db)

	if err := repo.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
		return fmt.Errorf("error clearing refresh token: %w", err)
	}

	s.logger.Info(ctx, "logout", "email", user.Email)
	return nil
}

// ResolveIdentity authenticates a bearer access token and returns its user.
// Every failure mode yields the same common.ErrorUnauthorized, so callers
// cannot probe which check rejected the token. Exactly one decode and at
// most one lookup per call; no caching across requests.
func (s *AuthService) ResolveIdentity(ctx context.Context, rawToken string) (*models.User, error) {
	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	if claims.ExpiredAt(time.Now()) {
		return nil, common.ErrorUnauthorized
	}
	if claims.Kind != auth.TokenKindAccess {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repos.Users(s.db).GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	return user, nil
}
