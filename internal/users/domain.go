package users

import "time"

// User is the admin-facing view of an identity plus its profile.
type User struct {
	ProfileID  int64     `json:"profile_id"`
	IdentityID int64     `json:"identity_id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	GuideID    *int64    `json:"guide_id,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewIdentity carries the credentials for identity creation.
type NewIdentity struct {
	Email        string
	PasswordHash string
}

// NewProfile carries the role-tagged profile attributes.
type NewProfile struct {
	IdentityID int64
	FullName   string
	Role       string
	GuideID    *int64
}
