package models

import "time"

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodEWallet      PaymentMethod = "e_wallet"
)

// Payment is one gateway transaction attempt for a booking. A booking may
// carry several rows (retries); PaymentDate stays nil until the gateway
// callback confirms the transaction.
type Payment struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	BookingID   uint          `gorm:"not null;index" json:"booking_id"`
	OrderID     string        `gorm:"size:100;uniqueIndex;not null" json:"order_id"`
	InvoiceRef  string        `gorm:"size:64" json:"invoice_ref,omitempty"`
	Method      PaymentMethod `gorm:"type:varchar(30);not null" json:"method"`
	Amount      int64         `gorm:"not null" json:"amount"`
	ProofURL    string        `gorm:"size:255" json:"proof_url,omitempty"`
	PaymentDate *time.Time    `json:"payment_date,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}
