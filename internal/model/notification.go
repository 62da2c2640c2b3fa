package model

import (
	"time"
)

// NotificationTarget selects the audience of an announcement.
type NotificationTarget string

const (
	TargetAll     NotificationTarget = "all"
	TargetMembers NotificationTarget = "members"
)

// Valid reports whether t is a known notification target.
func (t NotificationTarget) Valid() bool {
	return t == TargetAll || t == TargetMembers
}

// Notification is an announcement pushed to the portal.
type Notification struct {
	ID        string             `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Target    NotificationTarget `json:"target" gorm:"type:varchar(20);index"`
	Message   string             `json:"message" gorm:"type:text"`
	CreatedAt time.Time          `json:"created_at" gorm:"index"`
}
