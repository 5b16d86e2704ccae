package models

import "time"

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleSuperAdmin UserRole = "superadmin"
)

func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleSuperAdmin
}

// Profile: one per authenticated actor. TokenVersion is bumped on logout so
// previously issued tokens stop working.
type Profile struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"size:100" json:"name"`
	Role         UserRole  `gorm:"size:20;not null;default:user" json:"role"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	TokenVersion int       `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}
