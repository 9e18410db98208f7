package dto

import (
	"time"

	"corpmatch_backend/internal/models"
)

// CreatePremiumOrderRequest - покупка доступа к контакту
type CreatePremiumOrderRequest struct {
	TargetUserID string `json:"target_user_id" binding:"required,uuid"`
	AccessType   string `json:"access_type" binding:"required,is-access-type"`
}

// PremiumPurchaseResponse - представление покупки
type PremiumPurchaseResponse struct {
	ID           string                `json:"id"`
	TargetUserID string                `json:"target_user_id"`
	AccessType   models.AccessType     `json:"access_type"`
	Amount       float64               `json:"amount"`
	Currency     string                `json:"currency"`
	Status       models.PurchaseStatus `json:"status"`
	CompletedAt  *time.Time            `json:"completed_at,omitempty"`
}

// CheckAccessResponse - статус доступа к контакту
type CheckAccessResponse struct {
	HasAccess bool   `json:"has_access"`
	Value     string `json:"value,omitempty"` // контакт, если доступ есть
}

func ToPremiumPurchaseResponse(p *models.PremiumPurchase) *PremiumPurchaseResponse {
	return &PremiumPurchaseResponse{
		ID:           p.ID,
		TargetUserID: p.TargetUserID,
		AccessType:   p.AccessType,
		Amount:       p.Amount,
		Currency:     p.Currency,
		Status:       p.Status,
		CompletedAt:  p.CompletedAt,
	}
}
