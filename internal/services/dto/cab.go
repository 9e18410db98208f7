package dto

import (
	"time"

	"corpmatch_backend/internal/models"
)

// EstimateRideRequest - запрос расчета поездки
type EstimateRideRequest struct {
	PickupLat  float64 `json:"pickup_lat" binding:"required,latitude"`
	PickupLng  float64 `json:"pickup_lng" binding:"required,longitude"`
	DropoffLat float64 `json:"dropoff_lat" binding:"required,latitude"`
	DropoffLng float64 `json:"dropoff_lng" binding:"required,longitude"`
}

// CreateBookingRequest - заказ такси на встречу.
// PassengerID - кто едет; пустой означает что заказавший едет сам.
// ConsentToSplit - пассажир согласен доплатить часть сверх лимита покрытия.
type CreateBookingRequest struct {
	MeetingID      string     `json:"meeting_id" binding:"required,uuid"`
	PassengerID    string     `json:"passenger_id" binding:"omitempty,uuid"`
	PickupAddress  string     `json:"pickup_address" binding:"required"`
	PickupLat      float64    `json:"pickup_lat" binding:"required,latitude"`
	PickupLng      float64    `json:"pickup_lng" binding:"required,longitude"`
	DropoffAddress string     `json:"dropoff_address" binding:"required"`
	DropoffLat     float64    `json:"dropoff_lat" binding:"required,latitude"`
	DropoffLng     float64    `json:"dropoff_lng" binding:"required,longitude"`
	PickupTime     *time.Time `json:"pickup_time"`
	ConsentToSplit bool       `json:"consent_to_split"`
}

// BookingResponse - представление заказа
type BookingResponse struct {
	ID              string               `json:"id"`
	MeetingID       string               `json:"meeting_id"`
	UserID          string               `json:"user_id"`
	PassengerID     string               `json:"passenger_id"`
	EstimatedFare   float64              `json:"estimated_fare"`
	UserAmount      float64              `json:"user_amount"`
	PassengerAmount float64              `json:"passenger_amount"`
	DistanceKm      float64              `json:"distance_km"`
	DurationMin     float64              `json:"duration_min"`
	Currency        string               `json:"currency"`
	Status          models.BookingStatus `json:"status"`
	PickupTime      *time.Time           `json:"pickup_time,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

func ToBookingResponse(b *models.CabBooking) *BookingResponse {
	return &BookingResponse{
		ID:              b.ID,
		MeetingID:       b.MeetingID,
		UserID:          b.UserID,
		PassengerID:     b.PassengerID,
		EstimatedFare:   b.EstimatedFare,
		UserAmount:      b.UserAmount,
		PassengerAmount: b.PassengerAmount,
		DistanceKm:      b.DistanceKm,
		DurationMin:     b.DurationMin,
		Currency:        b.Currency,
		Status:          b.Status,
		PickupTime:      b.PickupTime,
		CreatedAt:       b.CreatedAt,
	}
}
