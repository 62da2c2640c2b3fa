package model

import (
	"time"
)

// Role identifies which console a user is allowed into.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// User is the account plus profile record: credentials, display name and
// role live in one row.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name         string    `json:"name" gorm:"type:varchar(100)"`
	Email        string    `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)"`
	Role         Role      `json:"role" gorm:"type:varchar(20);index"`
	CreatedAt    time.Time `json:"created_at"`
	LastLogin    time.Time `json:"last_login"`
}
