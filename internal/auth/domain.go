package auth

import "time"

// Identity represents an authenticatable account (email + password hash).
type Identity struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the role-tagged application profile linked to an identity.
type Profile struct {
	ID         int64
	IdentityID int64
	FullName   string
	Role       string
	GuideID    *int64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Account bundles an identity with its profile for the session layer.
type Account struct {
	Identity Identity
	Profile  Profile
}
