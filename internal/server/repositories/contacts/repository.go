// Package contacts provides the contact-book repository: CRUD, substring
// search, and the upcoming-birthday window lookup.
package contacts

import (
	"context"
	"time"

	"github.com/vmakarenko/contactvault/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, limit, offset int) ([]*models.Contact, error)

	// Get returns the contact by id or common.ErrorNotFound.
	Get(ctx context.Context, id int64) (*models.Contact, error)

	// Create inserts a contact. A taken contact email yields
	// common.ErrEmailAlreadyExists.
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)

	// EmailTaken reports whether another contact (excludeID < 0 to check all)
	// already uses the email.
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)

	// Update applies the non-nil patch fields and returns the updated row.
	Update(ctx context.Context, id int64, patch *models.ContactPatch) (*models.Contact, error)

	Delete(ctx context.Context, id int64) error

	// Search matches the provided fields as case-insensitive substrings,
	// AND-combined. Empty arguments are skipped.
	Search(ctx context.Context, firstName, lastName, email string) ([]*models.Contact, error)

	// UpcomingBirthdays returns contacts whose birthday (month and day) falls
	// within the seven days starting at today, including the year-end
	// wraparound.
	UpcomingBirthdays(ctx context.Context, today time.Time) ([]*models.Contact, error)
}
