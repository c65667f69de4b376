package dto

import "time"

type HotelBookingItem struct {
	HotelID      uint      `json:"hotel_id" validate:"required"`
	CheckInDate  time.Time `json:"check_in_date" validate:"required"`
	CheckOutDate time.Time `json:"check_out_date" validate:"required"`
	Nights       int       `json:"nights" validate:"required,min=1"`
}

type FlightBookingItem struct {
	FlightID      uint   `json:"flight_id" validate:"required"`
	PassengerName string `json:"passenger_name" validate:"required,max=100"`
	SeatClass     string `json:"seat_class" validate:"omitempty,oneof=economy business first"`
}

type CreateBookingRequest struct {
	Type       string              `json:"type" validate:"required,oneof=package hotel flight custom"`
	TravelDate time.Time           `json:"travel_date"`
	PackageID  uint                `json:"package_id" validate:"required_if=Type package"`
	Hotels     []HotelBookingItem  `json:"hotels" validate:"dive"`
	Flights    []FlightBookingItem `json:"flights" validate:"dive"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed rejected cancelled refunded"`
}

type RescheduleRequest struct {
	BookingID     uint      `json:"booking_id" validate:"required"`
	RequestedDate time.Time `json:"requested_date" validate:"required"`
}

type HandleRescheduleRequest struct {
	Approve *bool `json:"approve" validate:"required"`
}

type RefundRequest struct {
	BookingID uint   `json:"booking_id" validate:"required"`
	Reason    string `json:"reason" validate:"omitempty,max=255"`
}

type CancelBookingRequest struct {
	Reason        string `json:"reason" validate:"omitempty,max=255"`
	RequestRefund bool   `json:"request_refund"`
}

type ProcessRefundRequest struct {
	Approve      *bool  `json:"approve" validate:"required"`
	RefundMethod string `json:"refund_method" validate:"omitempty,max=30"`
	RefundProof  string `json:"refund_proof" validate:"omitempty,url"`
}

type PaymentRequest struct {
	BookingID uint   `json:"booking_id" validate:"required"`
	Method    string `json:"method" validate:"required,oneof=bank_transfer credit_card e_wallet"`
	Amount    int64  `json:"amount" validate:"required,min=1"`
}

// MidtransCallbackRequest mirrors the gateway's HTTP notification payload.
// Amounts arrive as decimal strings and stay strings: they only feed the
// signature digest.
type MidtransCallbackRequest struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
	TransactionTime   string `json:"transaction_time"`
}
