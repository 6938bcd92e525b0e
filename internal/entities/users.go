package entities

import (
	"time"

	"gorm.io/gorm"
)

// UserRole controls what a user may do. Librarians (and admins) can
// renew loans and see every active loan; members only see their own.
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleLibrarian UserRole = "librarian"
	UserRoleMember    UserRole = "member"
)

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Username     string   `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string   `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string   `gorm:"size:100" json:"-"`
	Role         UserRole `gorm:"size:20;default:'member'" json:"role"`

	// Login bookkeeping
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	FailedLoginCount int        `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// CanRenewLoans reports whether the user holds the librarian capability
// to set a new due date on a loaned copy.
func (u *User) CanRenewLoans() bool {
	return u.Role == UserRoleLibrarian || u.Role == UserRoleAdmin
}

// CanViewAllLoans reports whether the user may list every active loan,
// not just their own.
func (u *User) CanViewAllLoans() bool {
	return u.Role == UserRoleLibrarian || u.Role == UserRoleAdmin
}

func (User) TableName() string {
	return "users"
}
