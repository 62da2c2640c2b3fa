package model

import (
	"time"
)

// DietPlan is the single plan assigned to a member. Keyed by the member id
// with overwrite semantics: saving again replaces the previous plan.
type DietPlan struct {
	MemberID  string    `json:"member_id" gorm:"primaryKey;type:varchar(64)"`
	Plan      string    `json:"plan" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}
