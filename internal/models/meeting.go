package models

import "time"

// Meeting - ужин-встреча между двумя участниками пары.
// Тариф определяет сколько платит инициатор и сколько партнер:
//
//	1000 -> партнер не платит
//	650  -> партнер доплачивает 350
//	500  -> партнер доплачивает 500
type Meeting struct {
	BaseModel
	InitiatorID  string `gorm:"not null;index"`
	PartnerID    string `gorm:"not null;index"`
	RestaurantID string `gorm:"not null"`

	ScheduledAt     time.Time     `gorm:"not null"`
	Status          MeetingStatus `gorm:"type:varchar(20);default:'pending'"`
	SpecialRequests string        `gorm:"type:text"`

	// Суммы по тарифу
	InitiatorAmount float64 `gorm:"not null"`
	PartnerAmount   float64 `gorm:"not null;default:0"`
	TotalAmount     float64 `gorm:"not null"`

	// Платеж инициатора
	InitiatorOrderID       string        `gorm:"index"`
	InitiatorPaymentID     string
	InitiatorPaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'pending'"`

	// Платеж партнера (для тарифов 650/500)
	PartnerOrderID       string        `gorm:"index"`
	PartnerPaymentID     string
	PartnerPaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'pending'"`

	ConfirmedAt *time.Time
	CancelledAt *time.Time

	// Relations
	Initiator  *User       `gorm:"foreignKey:InitiatorID"`
	Partner    *User       `gorm:"foreignKey:PartnerID"`
	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID"`
}

// PaidForUser возвращает true если указанный участник уже оплатил свою часть
func (m *Meeting) PaidForUser(userID string) bool {
	if userID == m.InitiatorID {
		return m.InitiatorPaymentStatus == PaymentStatusCompleted
	}
	if userID == m.PartnerID {
		return m.PartnerAmount == 0 || m.PartnerPaymentStatus == PaymentStatusCompleted
	}
	return false
}

// FullyPaid - обе стороны закрыли свои суммы
func (m *Meeting) FullyPaid() bool {
	return m.PaidForUser(m.InitiatorID) && m.PaidForUser(m.PartnerID)
}
