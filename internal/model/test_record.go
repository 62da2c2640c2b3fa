package model

import (
	"time"
)

// TestRecord is scratch data used only by the debug console's
// connectivity probe. Rows are written, read back and deleted in one pass.
type TestRecord struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Message   string    `json:"message" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
}
