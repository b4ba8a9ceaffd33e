package models

import (
	"time"

	"gorm.io/gorm"
)

// CourierLocation represents a courier's most recently reported position
type CourierLocation struct {
	gorm.Model
	CourierID uint      `json:"courierId" gorm:"not null;uniqueIndex"`
	Latitude  float64   `json:"latitude" gorm:"not null"`
	Longitude float64   `json:"longitude" gorm:"not null"`
	Accuracy  float64   `json:"accuracy" gorm:"not null;default:0"`
	Speed     float64   `json:"speed" gorm:"not null;default:0"`
	Heading   float64   `json:"heading" gorm:"not null;default:0"`
	LastSeen  time.Time `json:"lastSeen" gorm:"not null"`
}

// TableName specifies the table name
func (CourierLocation) TableName() string {
	return "courier_locations"
}
