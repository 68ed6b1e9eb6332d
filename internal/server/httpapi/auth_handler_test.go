package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vmakarenko/contactvault/internal/common"
)

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/signup", "",
		map[string]string{"email": "new@x.com", "password": "secret123"})
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody[userResponse](t, w)
	if resp.Email != "new@x.com" || resp.ID == "" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.auth.registerErr = common.ErrEmailAlreadyExists

	w := env.do(t, http.MethodPost, "/api/auth/signup", "",
		map[string]string{"email": "u@x.com", "password": "secret123"})
	if w.Code != http.StatusConflict {
		t.Fatalf("want 409, got %d", w.Code)
	}
	resp := decodeBody[errorResponse](t, w)
	if resp.Detail == "" {
		t.Fatalf("expected error detail")
	}
}

func TestSignup_InvalidBody(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing password", map[string]string{"email": "u@x.com"}},
		{"bad email", map[string]string{"email": "not-an-email", "password": "secret123"}},
		{"short password", map[string]string{"email": "u@x.com", "password": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/signup", "", tt.body)
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("want 422, got %d", w.Code)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "u@x.com", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeBody[tokenResponse](t, w)
	if resp.AccessToken != "a-tok" || resp.RefreshToken != "r-tok" || resp.TokenType != "bearer" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.auth.loginErr = common.ErrInvalidCredentials

	w := env.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "u@x.com", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/refresh_token", "some-refresh", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
	if env.auth.refreshedWith != "some-refresh" {
		t.Fatalf("token not forwarded: %q", env.auth.refreshedWith)
	}
	resp := decodeBody[tokenResponse](t, w)
	if resp.TokenType != "bearer" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestRefreshToken_RejectionsShareShape(t *testing.T) {
	for _, cause := range []error{
		common.ErrInvalidToken,
		common.ErrWrongTokenScope,
		common.ErrTokenMismatch,
	} {
		t.Run(cause.Error(), func(t *testing.T) {
			env := newTestEnv(t)
			env.auth.refreshErr = cause

			w := env.do(t, http.MethodGet, "/api/auth/refresh_token", "bad-token", nil)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("want 401, got %d", w.Code)
			}
			resp := decodeBody[errorResponse](t, w)
			if resp.Detail != "Invalid refresh token" {
				t.Fatalf("rejection bodies must not leak the cause: %+v", resp)
			}
		})
	}
}

func TestRefreshToken_NoHeader(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/refresh_token", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/logout", "valid-access", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if !env.auth.loggedOut {
		t.Fatalf("logout not forwarded to the service")
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		resolveErr error
		wantCode   int
	}{
		{"no header", "", nil, http.StatusUnauthorized},
		{"unknown token", "garbage", nil, http.StatusUnauthorized},
		{"valid", "valid-access", nil, http.StatusOK},
		{"infra failure", "valid-access", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.auth.resolveErr = tt.resolveErr

			w := env.do(t, http.MethodGet, "/api/users/me", tt.token, nil)
			if w.Code != tt.wantCode {
				t.Fatalf("want %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_RejectsNonBearerScheme(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Basic valid-access")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401 for Basic scheme, got %d", w.Code)
	}
}
