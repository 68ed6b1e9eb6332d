// Package auth implements the credential and token primitives of the server:
// bcrypt password digests and HMAC-signed JWTs carrying a scope tag ("kind")
// that separates access tokens from refresh tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vmakarenko/contactvault/internal/common"
)

// Token kinds. An access token cannot be used where a refresh token is
// required and vice versa.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// Claims is the claim set carried by every issued token: the registered
// sub/iat/exp claims plus the scope tag. Unknown extra claims in a presented
// token are ignored on decode.
type Claims struct {
	jwt.RegisteredClaims
	Kind string `json:"kind"`
}

// ExpiredAt reports whether the claim set's expiry has passed at the given
// moment. Parse deliberately does not check expiry; callers do, through this.
func (c *Claims) ExpiredAt(now time.Time) bool {
	return c.ExpiresAt == nil || c.ExpiresAt.Time.Before(now)
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenManager signs and verifies tokens with a single symmetric secret and
// a fixed algorithm. It is configured once at startup and never mutated.
type TokenManager struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager resolves the algorithm identifier (e.g. "HS256") and
// returns a manager. Only HMAC methods are accepted: the secret is shared,
// not an asymmetric key.
func NewTokenManager(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not symmetric", algorithm)
	}
	return &TokenManager{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

func (m *TokenManager) ttl(kind string) time.Duration {
	if kind == TokenKindRefresh {
		return m.refreshTTL
	}
	return m.accessTTL
}

// Generate signs a token for the subject with the given kind, using now as
// the issued-at baseline. Each token gets a fresh jti, so two tokens minted
// within the same second are still distinct strings.
func (m *TokenManager) Generate(subject, kind string, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl(kind))),
		},
		Kind: kind,
	}
	return jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
}

// IssuePair builds an access/refresh pair for the subject. Both claim sets
// share a single capture of "now" so their expiry baselines cannot drift.
// Pure construction: persistence of the refresh token is the caller's job.
func (m *TokenManager) IssuePair(subject string) (*TokenPair, error) {
	now := time.Now()

	access, err := m.Generate(subject, TokenKindAccess, now)
	if err != nil {
		return nil, err
	}
	refresh, err := m.Generate(subject, TokenKindRefresh, now)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Parse verifies the token's signature and structure and returns its claims.
// It does not check expiry: business-level freshness is the caller's
// responsibility. A token missing sub, iat, exp, or kind is malformed.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, common.ErrMalformedToken
		default:
			return nil, common.ErrInvalidToken
		}
	}

	if claims.Subject == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil || claims.Kind == "" {
		return nil, common.ErrMalformedToken
	}

	return claims, nil
}
