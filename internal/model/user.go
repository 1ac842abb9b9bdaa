package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is a closed set of account roles.
type Role string

const (
	// RoleAdmin can list accounts and act on behalf of other users.
	RoleAdmin Role = "admin"
	// RoleCustomer is the default role; it has to prove email ownership.
	RoleCustomer Role = "customer"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCustomer:
		return true
	default:
		return false
	}
}

// ParseRole lower-cases s and reports whether it names a known role.
// An empty string resolves to RoleCustomer.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoleCustomer, true
	}
	role := Role(s)
	return role, role.IsValid()
}

// HasRole is the single role predicate used by every operation that needs one.
func HasRole(user User, required Role) bool {
	return user.ID != uuid.Nil && user.Role == required
}

// NormalizeEmail is applied before every write and lookup by email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserStore defines persistence operations for accounts.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	// SetOTP replaces the pending code and its expiry in one write.
	SetOTP(ctx context.Context, id uuid.UUID, code OneTimeCode) error
	// ConsumeOTP marks the account verified and clears the code, but only if
	// the stored code still equals code and has not expired at now. Returns
	// ErrOTPStale otherwise.
	ConsumeOTP(ctx context.Context, id uuid.UUID, code string, now time.Time) error
	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	// UpdateProfile writes the non-nil fields in one statement.
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (User, error)
}

// User represents a stored account with its credential material.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string `json:"-"`
	Role         Role
	IsVerified   bool
	OTP          *OneTimeCode `json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary strips credential material from u.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// UserSummary is the only outward shape of an account.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"type"`
}

// OneTimeCode is a pending email verification code.
type OneTimeCode struct {
	Code      string
	ExpiresAt time.Time
}

// ProfileUpdate carries optional name and password hash changes.
type ProfileUpdate struct {
	Name         *string
	PasswordHash *string
}

// IsEmpty reports whether the update changes nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.PasswordHash == nil
}
