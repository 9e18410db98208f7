package dto

import (
	"time"

	"corpmatch_backend/internal/models"
)

// CreateMeetingRequest - создание встречи.
// Tier - сумма инициатора: 1000, 650 или 500.
type CreateMeetingRequest struct {
	PartnerID       string    `json:"partner_id" binding:"required,uuid"`
	RestaurantID    string    `json:"restaurant_id" binding:"required,uuid"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	Tier            float64   `json:"tier" binding:"required"`
	SpecialRequests string    `json:"special_requests" binding:"omitempty,max=500"`
}

// MeetingResponse - представление встречи
type MeetingResponse struct {
	ID           string               `json:"id"`
	InitiatorID  string               `json:"initiator_id"`
	PartnerID    string               `json:"partner_id"`
	RestaurantID string               `json:"restaurant_id"`
	Restaurant   *RestaurantResponse  `json:"restaurant,omitempty"`
	ScheduledAt     time.Time            `json:"scheduled_at"`
	Status          models.MeetingStatus `json:"status"`
	SpecialRequests string               `json:"special_requests,omitempty"`

	InitiatorAmount        float64              `json:"initiator_amount"`
	PartnerAmount          float64              `json:"partner_amount"`
	TotalAmount            float64              `json:"total_amount"`
	InitiatorPaymentStatus models.PaymentStatus `json:"initiator_payment_status"`
	PartnerPaymentStatus   models.PaymentStatus `json:"partner_payment_status"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UpdateMeetingStatusRequest - смена статуса встречи
type UpdateMeetingStatusRequest struct {
	Status string `json:"status" binding:"required,is-meeting-status"`
}

// CreateOrderResponse - заказ в платежном шлюзе для клиента
type CreateOrderResponse struct {
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
}

// VerifyPaymentRequest - подтверждение оплаты с клиента
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// RestaurantResponse - представление ресторана
type RestaurantResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	City       string  `json:"city"`
	Cuisine    string  `json:"cuisine"`
	PriceRange string  `json:"price_range"`
	Rating     float64 `json:"rating"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

func ToRestaurantResponse(r *models.Restaurant) *RestaurantResponse {
	return &RestaurantResponse{
		ID:         r.ID,
		Name:       r.Name,
		Address:    r.Address,
		City:       r.City,
		Cuisine:    r.Cuisine,
		PriceRange: r.PriceRange,
		Rating:     r.Rating,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
	}
}

func ToMeetingResponse(m *models.Meeting) *MeetingResponse {
	resp := &MeetingResponse{
		ID:                     m.ID,
		InitiatorID:            m.InitiatorID,
		PartnerID:              m.PartnerID,
		RestaurantID:           m.RestaurantID,
		ScheduledAt:            m.ScheduledAt,
		Status:                 m.Status,
		SpecialRequests:        m.SpecialRequests,
		InitiatorAmount:        m.InitiatorAmount,
		PartnerAmount:          m.PartnerAmount,
		TotalAmount:            m.TotalAmount,
		InitiatorPaymentStatus: m.InitiatorPaymentStatus,
		PartnerPaymentStatus:   m.PartnerPaymentStatus,
		ConfirmedAt:            m.ConfirmedAt,
		CreatedAt:              m.CreatedAt,
	}
	if m.Restaurant != nil {
		resp.Restaurant = ToRestaurantResponse(m.Restaurant)
	}
	return resp
}
