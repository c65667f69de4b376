package models

import "time"

type BookingType string

const (
	BookingTypePackage BookingType = "package"
	BookingTypeHotel   BookingType = "hotel"
	BookingTypeFlight  BookingType = "flight"
	BookingTypeCustom  BookingType = "custom"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
	StatusRefunded  BookingStatus = "refunded"
)

// IsTerminal reports whether no further status transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusRefunded
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type Booking struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	UserID             uint          `gorm:"not null;index" json:"user_id"`
	PackageID          *uint         `gorm:"index" json:"package_id,omitempty"`
	Type               BookingType   `gorm:"type:varchar(20);not null" json:"type"`
	TravelDate         time.Time     `gorm:"not null" json:"travel_date"`
	TotalPrice         int64         `gorm:"not null" json:"total_price"`
	Status             BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus      PaymentStatus `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	BookingDate        time.Time     `gorm:"autoCreateTime" json:"booking_date"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	CancellationReason string        `gorm:"size:255" json:"cancellation_reason,omitempty"`
	UpdatedAt          time.Time     `json:"updated_at"`

	User           *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TravelPackage  *TravelPackage  `gorm:"foreignKey:PackageID" json:"travel_package,omitempty"`
	BookingHotels  []BookingHotel  `gorm:"foreignKey:BookingID" json:"booking_hotels,omitempty"`
	BookingFlights []BookingFlight `gorm:"foreignKey:BookingID" json:"booking_flights,omitempty"`
	Payments       []Payment       `gorm:"foreignKey:BookingID" json:"payments,omitempty"`
	Reschedules    []Reschedule    `gorm:"foreignKey:BookingID" json:"reschedules,omitempty"`
	Refund         *Refund         `gorm:"foreignKey:BookingID" json:"refund,omitempty"`
}

type BookingHotel struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BookingID    uint      `gorm:"not null;index" json:"booking_id"`
	HotelID      uint      `gorm:"not null" json:"hotel_id"`
	CheckInDate  time.Time `gorm:"not null" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"not null" json:"check_out_date"`
	Nights       int       `gorm:"not null" json:"nights"`
	TotalPrice   int64     `gorm:"not null" json:"total_price"`

	Hotel *Hotel `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
}

type BookingFlight struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	BookingID     uint   `gorm:"not null;index" json:"booking_id"`
	FlightID      uint   `gorm:"not null" json:"flight_id"`
	PassengerName string `gorm:"size:100;not null" json:"passenger_name"`
	SeatClass     string `gorm:"size:20;not null" json:"seat_class"`
	TotalPrice    int64  `gorm:"not null" json:"total_price"`

	Flight *Flight `gorm:"foreignKey:FlightID" json:"flight,omitempty"`
}

type RescheduleStatus string

const (
	RescheduleStatusPending  RescheduleStatus = "pending"
	RescheduleStatusApproved RescheduleStatus = "approved"
	RescheduleStatusRejected RescheduleStatus = "rejected"
)

// Reschedule records a customer date-change request. PreviousStatus keeps the
// booking status held at request time so a rejection can restore it instead of
// unconditionally promoting the booking to confirmed.
type Reschedule struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	BookingID      uint             `gorm:"not null;index" json:"booking_id"`
	RequestedDate  time.Time        `gorm:"not null" json:"requested_date"`
	Status         RescheduleStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PreviousStatus BookingStatus    `gorm:"type:varchar(20);not null" json:"previous_status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}
