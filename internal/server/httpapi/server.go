// Package httpapi exposes the application over a JSON REST API: public
// signup/login/refresh endpoints and a bearer-token protected group for
// contacts and profile operations.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/vmakarenko/contactvault/internal/logging"
	"github.com/vmakarenko/contactvault/internal/server/auth"
	"github.com/vmakarenko/contactvault/internal/server/models"
)

// AuthService is the authentication surface the handlers need.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*auth.TokenPair, error)
	Refresh(ctx context.Context, rawToken string) (*auth.TokenPair, error)
	Logout(ctx context.Context, user *models.User) error
	ResolveIdentity(ctx context.Context, rawToken string) (*models.User, error)
}

// ContactService is the contact-book surface the handlers need.
type ContactService interface {
	List(ctx context.Context, limit, offset int) ([]*models.Contact, error)
	Get(ctx context.Context, id int64) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	Update(ctx context.Context, id int64, patch *models.ContactPatch) (*models.Contact, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, firstName, lastName, email string) ([]*models.Contact, error)
	UpcomingBirthdays(ctx context.Context, today time.Time) ([]*models.Contact, error)
}

// ProfileService is the avatar surface the handlers need.
type ProfileService interface {
	AvatarUploadURL(ctx context.Context, user *models.User) (string, string, error)
	AvatarURL(ctx context.Context, user *models.User) (string, error)
}

type Server struct {
	address  string
	db       *sql.DB
	auth     AuthService
	contacts ContactService
	profile  ProfileService
	logger   logging.Logger
}

func NewServer(address string, db *sql.DB, as AuthService, cs ContactService, ps ProfileService, l logging.Logger) *Server {
	return &Server{
		address:  address,
		db:       db,
		auth:     as,
		contacts: cs,
		profile:  ps,
		logger:   l.With("module", "http_server"),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
