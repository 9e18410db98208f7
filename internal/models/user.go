package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Профиль
	Name        string
	Age         *int
	Gender      string `gorm:"type:varchar(10)"`
	LookingFor  string `gorm:"type:varchar(10)"` // "male", "female", "everyone"
	Company     string
	Designation string
	Bio         string         `gorm:"type:text"`
	Photos      datatypes.JSON `gorm:"type:jsonb"` // массив URL фотографий

	// Контакты — видны только после premium покупки
	Phone       string `gorm:"index"`
	LinkedinURL string

	IsProfileComplete bool `gorm:"default:false"`
	// Без column-default: gorm не пишет false при создании,
	// и default:true молча перекрывал бы деактивацию
	IsActive      bool `gorm:"not null"`
	PhoneVerified bool `gorm:"default:false"`
	PhoneVerifiedAt   *time.Time

	// Relations
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
