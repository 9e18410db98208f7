package models

import "time"

// CabBooking - заказ такси на встречу.
// UserID - кто заказал, PassengerID - кто едет. Свою поездку
// заказавший оплачивает целиком; поездку партнера - до лимита
// покрытия (CabMaxCoverage в конфиге), остаток платит пассажир.
type CabBooking struct {
	BaseModel
	MeetingID   string `gorm:"not null;index"`
	UserID      string `gorm:"not null;index"`
	PassengerID string `gorm:"not null;index"`

	PickupAddress  string  `gorm:"not null"`
	PickupLat      float64
	PickupLng      float64
	DropoffAddress string  `gorm:"not null"`
	DropoffLat     float64
	DropoffLng     float64

	EstimatedFare   float64 `gorm:"not null"`
	UserAmount      float64 `gorm:"not null"` // платит заказавший
	PassengerAmount float64 `gorm:"not null"` // платит пассажир

	DistanceKm  float64
	DurationMin float64
	Currency    string `gorm:"type:varchar(3);default:'INR'"`

	Status      BookingStatus `gorm:"type:varchar(20);default:'pending'"`
	PickupTime  *time.Time
	CancelledAt *time.Time

	// Relations
	Meeting   *Meeting `gorm:"foreignKey:MeetingID"`
	User      *User    `gorm:"foreignKey:UserID"`
	Passenger *User    `gorm:"foreignKey:PassengerID"`
}
