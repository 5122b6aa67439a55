package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type AuthProvider string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	AuthProviderManual AuthProvider = "manual"
	AuthProviderReplit AuthProvider = "replit"
	AuthProviderGoogle AuthProvider = "google"
)

// User is the single authoritative identity record. A person keeps one row
// no matter which provider they authenticate through; provider callbacks
// attach external ids to the existing row instead of creating duplicates.
type User struct {
	Id              uuid.UUID
	Email           string
	PasswordHash    *string
	FirstName       string
	LastName        string
	ProfileImageURL *string
	Role            UserRole
	IsActive        bool
	AuthProvider    AuthProvider
	OidcSub         *string
	GoogleId        *string
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type PasswordResetToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
