package model

import (
	"time"
)

// MemberStatus is the membership lifecycle state.
type MemberStatus string

const (
	MemberActive    MemberStatus = "active"
	MemberInactive  MemberStatus = "inactive"
	MemberSuspended MemberStatus = "suspended"
)

// Valid reports whether s is a known membership status.
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberActive, MemberInactive, MemberSuspended:
		return true
	}
	return false
}

// Member is a gym membership record. It is independent of User; the portal
// links the two by matching email at read time. PackageID is a weak
// reference — a dangling value is tolerated and rendered as "-".
type Member struct {
	ID        string       `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name      string       `json:"name" gorm:"type:varchar(100);index"`
	Email     string       `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Phone     string       `json:"phone" gorm:"type:varchar(30)"`
	JoinDate  string       `json:"join_date" gorm:"type:varchar(10)"`
	PackageID string       `json:"package_id" gorm:"type:varchar(64)"`
	Status    MemberStatus `json:"status" gorm:"type:varchar(20);default:active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
