// Package users provides the account repository. The refresh_token column is
// the session store: at most one outstanding refresh token per user, replaced
// by overwrite and cleared on logout.
package users

import (
	"context"

	"github.com/vmakarenko/contactvault/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. A taken email yields
	// common.ErrEmailAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the exact (case-sensitive) email,
	// or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateRefreshToken overwrites the stored refresh token; nil clears it.
	UpdateRefreshToken(ctx context.Context, userID string, token *string) error

	// UpdateAvatar stores the object-storage key of the user's avatar.
	UpdateAvatar(ctx context.Context, userID string, key string) error
}
