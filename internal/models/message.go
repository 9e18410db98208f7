package models

import "time"

// Message - сообщение внутри взаимной пары.
// Переписка разрешена только между пользователями со статусом match accepted.
type Message struct {
	BaseModel
	SenderID   string `gorm:"not null;index"`
	ReceiverID string `gorm:"not null;index"`
	Content    string `gorm:"type:text;not null"`
	IsRead     bool   `gorm:"default:false"`
	ReadAt     *time.Time

	// Relations
	Sender   *User `gorm:"foreignKey:SenderID"`
	Receiver *User `gorm:"foreignKey:ReceiverID"`
}
