package httpapi

import (
	"time"

	"github.com/vmakarenko/contactvault/internal/server/models"
)

const dateLayout = "2006-01-02"

type errorResponse struct {
	Detail string `json:"detail"`
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type contactRequest struct {
	FirstName   string `json:"first_name" binding:"required,max=50"`
	LastName    string `json:"last_name" binding:"required,max=50"`
	Email       string `json:"email" binding:"required,email,max=150"`
	Phone       string `json:"phone" binding:"required,max=15"`
	Birthday    string `json:"birthday" binding:"required"`
	Description string `json:"description" binding:"max=250"`
}

type contactPatchRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,max=50"`
	LastName    *string `json:"last_name" binding:"omitempty,max=50"`
	Email       *string `json:"email" binding:"omitempty,email,max=150"`
	Phone       *string `json:"phone" binding:"omitempty,max=15"`
	Birthday    *string `json:"birthday"`
	Description *string `json:"description" binding:"omitempty,max=250"`
}

type contactResponse struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Birthday    string `json:"birthday"`
	Description string `json:"description,omitempty"`
}

type avatarUploadResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

type avatarResponse struct {
	URL string `json:"url"`
}

func newUserResponse(u *models.User, avatarURL string) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Avatar:    avatarURL,
		CreatedAt: u.CreatedAt,
	}
}

func newTokenResponse(access, refresh string) tokenResponse {
	return tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}
}

func newContactResponse(c *models.Contact) contactResponse {
	return contactResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		Birthday:    c.Birthday.Format(dateLayout),
		Description: c.Description,
	}
}

func newContactListResponse(cs []*models.Contact) []contactResponse {
	out := make([]contactResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, newContactResponse(c))
	}
	return out
}

func (r *contactRequest) toModel() (*models.Contact, error) {
	birthday, err := time.Parse(dateLayout, r.Birthday)
	if err != nil {
		return nil, err
	}
	return &models.Contact{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		Birthday:    birthday,
		Description: r.Description,
	}, nil
}

func (r *contactPatchRequest) toModel() (*models.ContactPatch, error) {
	patch := &models.ContactPatch{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		Description: r.Description,
	}
	if r.Birthday != nil {
		birthday, err := time.Parse(dateLayout, *r.Birthday)
		if err != nil {
			return nil, err
		}
		patch.Birthday = &birthday
	}
	return patch, nil
}
