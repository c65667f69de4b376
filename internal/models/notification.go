package models

import "time"

type NotificationType string

const (
	NotificationTypeBooking NotificationType = "booking"
	NotificationTypePayment NotificationType = "payment"
	NotificationTypeRefund  NotificationType = "refund"
	NotificationTypePromo   NotificationType = "promo"
)

type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	Message   string           `gorm:"size:255;not null" json:"message"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	IsRead    bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
