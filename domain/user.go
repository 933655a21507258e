package domain

import (
	"fmt"
	"time"
)

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusDeleted   UserStatus = "DELETED"
)

// User represents an account. Rows are never removed except by hard delete;
// soft delete keeps the row as a tombstone for referential integrity.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FirstName string     `json:"first_name,omitempty"`
	LastName  string     `json:"last_name,omitempty"`
	Status    UserStatus `json:"status"`
	IsOnline  bool       `json:"is_online"`
	LastSeen  time.Time  `json:"last_seen"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == UserStatusActive
}

func (u *User) IsDeleted() bool {
	return u != nil && u.Status == UserStatusDeleted
}

// Tombstone rewrites an identifier so the original value is freed for reuse
// while the rewritten one stays unique.
func Tombstone(userID, original string) string {
	return fmt.Sprintf("deleted_%s_%s", userID, original)
}
