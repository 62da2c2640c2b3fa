package model

import (
	"time"
)

// BillStatus is the payment state of a bill.
type BillStatus string

const (
	BillPaid    BillStatus = "paid"
	BillDue     BillStatus = "due"
	BillOverdue BillStatus = "overdue"
)

// Valid reports whether s is a known bill status.
func (s BillStatus) Valid() bool {
	switch s {
	case BillPaid, BillDue, BillOverdue:
		return true
	}
	return false
}

// Bill is a payment record. MemberID is a weak reference to Member;
// ReceiptNo is expected unique when present but may be empty.
type Bill struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(64)"`
	MemberID  string     `json:"member_id" gorm:"type:varchar(64);index"`
	Amount    float64    `json:"amount"`
	Status    BillStatus `json:"status" gorm:"type:varchar(20);index"`
	ReceiptNo string     `json:"receipt_no" gorm:"type:varchar(64)"`
	Date      time.Time  `json:"date" gorm:"index"`
	CreatedAt time.Time  `json:"created_at"`
}
