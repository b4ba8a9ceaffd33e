package models

import "gorm.io/gorm"

// Rating represents a star rating submitted after a completed delivery
type Rating struct {
	gorm.Model
	RaterID    uint   `json:"rater_id" gorm:"not null"`
	RatedID    uint   `json:"rated_id" gorm:"not null"`
	OrderID    uint   `json:"order_id" gorm:"not null"`
	Rating     int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string `json:"comment,omitempty"`
	RatingType string `json:"rating_type" gorm:"not null;default:'customer_service'"`
}

// TableName specifies the table name
func (Rating) TableName() string {
	return "ratings"
}

// RatingType constants
const (
	RatingTypeCustomerService = "customer_service"
	RatingTypeCourierService  = "courier_service"
)
