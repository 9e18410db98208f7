package models

import (
	"gorm.io/datatypes"
	"time"
)

type Notification struct {
	BaseModel
	UserID  string `gorm:"not null;index"`
	Type    string `gorm:"not null"` // "new_match", "new_message", "meeting_confirmed", "payment_completed"
	Title   string `gorm:"not null"`
	Message string
	Data    datatypes.JSON `gorm:"type:jsonb"` // {"match_id": "...", "meeting_id": "..."}
	IsRead  bool           `gorm:"default:false"`
	ReadAt  *time.Time
}
