package entity

import (
	"time"

	"github.com/google/uuid"
)

// User identifies an actor consulted by lifecycle RBAC (spec §3, "User").
// Password hashing and token issuance live in internal/identity and are
// scoped to scanner service accounts only — full user login/registration is
// explicitly out of scope (spec §1).
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     UserRole  `json:"role"`

	Active bool `json:"active"`

	FailedLoginAttempts int        `json:"-"`
	LockedUntil          *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Locked reports whether the account is currently in lockout.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
