package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/wendydelivery/wendy-courier/internal/models"
	"gorm.io/gorm"
)

// SubmitRating records a star rating for a completed delivery
func SubmitRating(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			RaterID    uint   `json:"rater_id" binding:"required"`
			RatedID    uint   `json:"rated_id" binding:"required"`
			OrderID    uint   `json:"order_id" binding:"required"`
			Rating     int    `json:"rating" binding:"required"`
			Comment    string `json:"comment,omitempty"`
			RatingType string `json:"rating_type,omitempty"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		// Validate rating
		if input.Rating < 1 || input.Rating > 5 {
			c.JSON(400, gin.H{"error": "Rating must be between 1 and 5"})
			return
		}

		if input.RatingType == "" {
			input.RatingType = models.RatingTypeCustomerService
		}

		rating := models.Rating{
			RaterID:    input.RaterID,
			RatedID:    input.RatedID,
			OrderID:    input.OrderID,
			Rating:     input.Rating,
			Comment:    input.Comment,
			RatingType: input.RatingType,
		}

		if err := db.Create(&rating).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save rating"})
			return
		}

		c.JSON(201, gin.H{
			"message": "Rating submitted successfully",
			"rating": gin.H{
				"id":       rating.ID,
				"order_id": rating.OrderID,
				"rating":   rating.Rating,
			},
		})
	}
}
