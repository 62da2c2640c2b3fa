package model

import (
	"time"
)

// StoreItem is a product sold at the gym front desk. Stock is a plain
// count; nothing prevents it from being set negative.
type StoreItem struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name        string    `json:"name" gorm:"type:varchar(100);index"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock" gorm:"default:0"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}
