package model

import (
	"time"
)

// Package is a membership plan offered by the gym.
type Package struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name           string    `json:"name" gorm:"type:varchar(100);index"`
	Price          float64   `json:"price"`
	DurationMonths int       `json:"duration_months" gorm:"default:1"`
	Description    string    `json:"description" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
}
