package models

import "time"

// All prices are stored in rupiah (minor units), never floats.

type TravelPackage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AgentID     uint      `gorm:"not null;index" json:"agent_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Location    string    `gorm:"size:100" json:"location,omitempty"`
	Price       int64     `gorm:"not null" json:"price"`
	Quota       int       `gorm:"not null" json:"quota"`
	Duration    int       `json:"duration,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Agent *User `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
}

type Hotel struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AgentID       uint      `gorm:"not null;index" json:"agent_id"`
	Name          string    `gorm:"size:200;not null" json:"name"`
	Location      string    `gorm:"size:100" json:"location,omitempty"`
	PricePerNight int64     `gorm:"not null" json:"price_per_night"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Agent *User `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
}

type Flight struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AgentID       uint      `gorm:"not null;index" json:"agent_id"`
	AirlineName   string    `gorm:"size:100;not null" json:"airline_name"`
	Origin        string    `gorm:"size:100;not null" json:"origin"`
	Destination   string    `gorm:"size:100;not null" json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Price         int64     `gorm:"not null" json:"price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Agent *User `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
}
