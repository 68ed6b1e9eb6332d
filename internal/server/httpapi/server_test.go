package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/vmakarenko/contactvault/internal/common"
	"github.com/vmakarenko/contactvault/internal/logging"
	"github.com/vmakarenko/contactvault/internal/server/auth"
	"github.com/vmakarenko/contactvault/internal/server/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// fakeAuth resolves the fixed access token to its user and replays canned
// results for everything else.
type fakeAuth struct {
	user *models.User
	pair *auth.TokenPair

	registerErr error
	loginErr    error
	refreshErr  error
	resolveErr  error

	refreshedWith string
	loggedOut     bool
}

func (f *fakeAuth) Register(ctx context.Context, email, password string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: "u-new", Email: email, CreatedAt: time.Now()}, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.pair, nil
}

func (f *fakeAuth) Refresh(ctx context.Context, rawToken string) (*auth.TokenPair, error) {
	f.refreshedWith = rawToken
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.pair, nil
}

func (f *fakeAuth) Logout(ctx context.Context, user *models.User) error {
	f.loggedOut = true
	return nil
}

func (f *fakeAuth) ResolveIdentity(ctx context.Context, rawToken string) (*models.User, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	if rawToken != "valid-access" {
		return nil, common.ErrorUnauthorized
	}
	return f.user, nil
}

type fakeContacts struct {
	contact  *models.Contact
	contacts []*models.Contact
	err      error

	created   *models.Contact
	patched   *models.ContactPatch
	deletedID int64

	gotLimit, gotOffset int
}

func (f *fakeContacts) List(ctx context.Context, limit, offset int) ([]*models.Contact, error) {
	f.gotLimit, f.gotOffset = limit, offset
	return f.contacts, f.err
}

func (f *fakeContacts) Get(ctx context.Context, id int64) (*models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.contact, nil
}

func (f *fakeContacts) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	contact.ID = 42
	f.created = contact
	return contact, nil
}

func (f *fakeContacts) Update(ctx context.Context, id int64, patch *models.ContactPatch) (*models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.patched = patch
	return f.contact, nil
}

func (f *fakeContacts) Delete(ctx context.Context, id int64) error {
	f.deletedID = id
	return f.err
}

func (f *fakeContacts) Search(ctx context.Context, firstName, lastName, email string) ([]*models.Contact, error) {
	return f.contacts, f.err
}

func (f *fakeContacts) UpcomingBirthdays(ctx context.Context, today time.Time) ([]*models.Contact, error) {
	return f.contacts, f.err
}

type fakeProfile struct {
	key, uploadURL, readURL string
	err                     error
}

func (f *fakeProfile) AvatarUploadURL(ctx context.Context, user *models.User) (string, string, error) {
	return f.key, f.uploadURL, f.err
}

func (f *fakeProfile) AvatarURL(ctx context.Context, user *models.User) (string, error) {
	return f.readURL, f.err
}

type testEnv struct {
	auth     *fakeAuth
	contacts *fakeContacts
	profile  *fakeProfile
	router   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	env := &testEnv{
		auth: &fakeAuth{
			user: &models.User{ID: "u-1", Email: "u@x.com", CreatedAt: time.Now()},
			pair: &auth.TokenPair{AccessToken: "a-tok", RefreshToken: "r-tok"},
		},
		contacts: &fakeContacts{},
		profile:  &fakeProfile{},
	}
	s := NewServer(":0", db, env.auth, env.contacts, env.profile, nopLogger{})
	env.router = s.router()
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body error: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}
