package models

import "time"

// PremiumPurchase - покупка доступа к контактам другого пользователя.
// Один тип доступа (phone/linkedin) на пару покупатель-цель.
type PremiumPurchase struct {
	BaseModel
	BuyerID      string     `gorm:"not null;index;uniqueIndex:idx_premium_unique"`
	TargetUserID string     `gorm:"not null;index;uniqueIndex:idx_premium_unique"`
	AccessType   AccessType `gorm:"type:varchar(20);not null;uniqueIndex:idx_premium_unique"`

	Amount   float64 `gorm:"not null"`
	Currency string  `gorm:"type:varchar(3);default:'INR'"`

	OrderID   string         `gorm:"uniqueIndex"`
	PaymentID string
	Status    PurchaseStatus `gorm:"type:varchar(20);default:'pending'"`

	// Детали отказа из payment.failed
	ErrorCode        string
	ErrorDescription string

	CompletedAt *time.Time

	// Relations
	Buyer      *User `gorm:"foreignKey:BuyerID"`
	TargetUser *User `gorm:"foreignKey:TargetUserID"`
}
