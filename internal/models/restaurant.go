package models

import "gorm.io/datatypes"

type Restaurant struct {
	BaseModel
	Name        string `gorm:"not null"`
	Address     string
	City        string         `gorm:"index"`
	Cuisine     string
	PriceRange  string         // "$", "$$", "$$$"
	Rating      float64        `gorm:"default:0"`
	Latitude    float64
	Longitude   float64
	Photos      datatypes.JSON `gorm:"type:jsonb"`
	IsActive    bool           `gorm:"default:true"`
	Description string         `gorm:"type:text"`
}
