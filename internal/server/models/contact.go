package models

import "time"

type Contact struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Birthday    time.Time
	Description string
	CreatedAt   time.Time
}

// ContactPatch carries a partial update; nil fields are left unchanged.
type ContactPatch struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	Birthday    *time.Time
	Description *string
}
