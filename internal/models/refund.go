package models

import "time"

type RefundStatus string

const (
	RefundStatusPending  RefundStatus = "pending"
	RefundStatusApproved RefundStatus = "approved"
	RefundStatusRejected RefundStatus = "rejected"
)

// Refund: at most one per booking. The unique index on BookingID is the
// authoritative guard; the application-level existence check only produces a
// nicer error message.
type Refund struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	BookingID      uint         `gorm:"not null;uniqueIndex" json:"booking_id"`
	UserID         uint         `gorm:"not null;index" json:"user_id"`
	Amount         int64        `gorm:"not null" json:"amount"`
	OriginalAmount int64        `gorm:"not null" json:"original_amount"`
	Reason         string       `gorm:"size:255" json:"reason,omitempty"`
	Status         RefundStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	RefundMethod   string       `gorm:"size:30" json:"refund_method,omitempty"`
	RefundProof    string       `gorm:"size:255" json:"refund_proof,omitempty"`
	ProcessedBy    *uint        `json:"processed_by,omitempty"`
	ProcessedAt    *time.Time   `json:"processed_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	Booking   *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	User      *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Processor *User    `gorm:"foreignKey:ProcessedBy" json:"processor,omitempty"`
}
