package models

import "time"

// User is an account record. RefreshToken holds the single refresh token
// currently valid for this user; nil means logged out or never issued.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	RefreshToken *string
	AvatarKey    *string
	CreatedAt    time.Time
}
