package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	RolePassenger UserRole = "passenger"
	RoleDriver    UserRole = "driver"
	RoleAdmin     UserRole = "admin"
)

// IsValid reports whether r is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RolePassenger, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// User is the profile document. Its ID is the identity provider's uid.
type User struct {
	ID           string     `json:"id" bson:"_id"`
	Email        string     `json:"email" bson:"email"`
	Role         UserRole   `json:"role" bson:"role"`
	FullName     string     `json:"full_name" bson:"full_name"`
	Phone        string     `json:"phone" bson:"phone"`
	Address      string     `json:"address" bson:"address"`
	Verified     bool       `json:"verified" bson:"verified"`
	Blocked      bool       `json:"blocked" bson:"blocked"`
	FCMTokens    []string   `json:"fcm_tokens,omitempty" bson:"fcm_tokens,omitempty"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty" bson:"last_active_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}

// IsProfileComplete reports whether the contact fields required before
// using role dashboards are all filled in.
func (u *User) IsProfileComplete() bool {
	return strings.TrimSpace(u.FullName) != "" &&
		strings.TrimSpace(u.Phone) != "" &&
		strings.TrimSpace(u.Address) != ""
}

// DisplayName falls back to the email when no name is set.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return u.Email
}

// PublicProfile is the subset of a user shown to other participants.
type PublicProfile struct {
	ID       string   `json:"id"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role}
}

type UserFilter struct {
	Search string
	Role   UserRole
}

// Sanitized returns a copy safe to send to clients.
func (u *User) Sanitized() *User {
	clone := *u
	clone.FCMTokens = nil
	return &clone
}
