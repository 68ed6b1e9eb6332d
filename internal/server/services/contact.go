package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/vmakarenko/contactvault/internal/common"
	"github.com/vmakarenko/contactvault/internal/dbx"
	"github.com/vmakarenko/contactvault/internal/logging"
	"github.com/vmakarenko/contactvault/internal/server/models"
	"github.com/vmakarenko/contactvault/internal/server/repositories/repomanager"
)

// ContactService wraps the contact repository. Create and update run their
// duplicate-email check and write inside one transaction.
type ContactService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewContactService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *ContactService {
	return &ContactService{
		db:     db,
		repos:  repos,
		logger: logger.With("module", "contact_service"),
	}
}

func (s *ContactService) List(ctx context.Context, limit, offset int) ([]*models.Contact, error) {
	return s.repos.Contacts(s.db).List(ctx, limit, offset)
}

func (s *ContactService) Get(ctx context.Context, id int64) (*models.Contact, error) {
	return s.repos.Contacts(s.db).Get(ctx, id)
}

func (s *ContactService) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	var created *models.Contact
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Contacts(tx)

		taken, err := repo.EmailTaken(ctx, contact.Email, -1)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrEmailAlreadyExists
		}

		created, err = repo.Create(ctx, contact)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ContactService) Update(ctx context.Context, id int64, patch *models.ContactPatch) (*models.Contact, error) {
	var updated *models.Contact
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Contacts(tx)

		if patch.Email != nil {
			taken, err := repo.EmailTaken(ctx, *patch.Email, id)
			if err != nil {
				return err
			}
			if taken {
				return common.ErrEmailAlreadyExists
			}
		}

		var err error
		updated, err = repo.Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ContactService) Delete(ctx context.Context, id int64) error {
	return s.repos.Contacts(s.db).Delete(ctx, id)
}

func (s *ContactService) Search(ctx context.Context, firstName, lastName, email string) ([]*models.Contact, error) {
	return s.repos.Contacts(s.db).Search(ctx, firstName, lastName, email)
}

func (s *ContactService) UpcomingBirthdays(ctx context.Context, today time.Time) ([]*models.Contact, error) {
	return s.repos.Contacts(s.db).UpcomingBirthdays(ctx, today)
}
