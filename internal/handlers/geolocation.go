package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wendydelivery/wendy-courier/internal/models"
	"github.com/wendydelivery/wendy-courier/internal/services"
	"github.com/wendydelivery/wendy-courier/pkg/utils"
	"gorm.io/gorm"
)

// UpdateLocation handles courier location reports
func UpdateLocation(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Latitude  *float64 `json:"latitude" binding:"required"`
			Longitude *float64 `json:"longitude" binding:"required"`
			Accuracy  float64  `json:"accuracy"`
			Speed     float64  `json:"speed"`
			Heading   float64  `json:"heading"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		lat, lng := *input.Latitude, *input.Longitude

		// Validate coordinates
		if !utils.IsValidCoordinate(lat, lng) {
			c.JSON(400, gin.H{"error": "Invalid coordinates"})
			return
		}

		courierID := senderID(c)
		ctx := context.Background()

		// Log distance moved since the previous cached fix
		if prevLat, prevLng, err := services.GetCourierLocation(ctx, courierID); err == nil {
			moved := utils.HaversineDistance(prevLat, prevLng, lat, lng)
			log.Printf("Courier %d moved %.3f km since last report", courierID, moved)
		}

		// Update location in Redis
		if err := services.SetCourierLocation(ctx, courierID, lat, lng, input.Accuracy, input.Speed, input.Heading); err != nil {
			c.JSON(500, gin.H{"error": "Failed to update location"})
			return
		}

		// Update or create location record in database
		var location models.CourierLocation
		result := db.Where("courier_id = ?", courierID).First(&location)

		if result.Error == gorm.ErrRecordNotFound {
			location = models.CourierLocation{
				CourierID: courierID,
				Latitude:  lat,
				Longitude: lng,
				Accuracy:  input.Accuracy,
				Speed:     input.Speed,
				Heading:   input.Heading,
				LastSeen:  time.Now(),
			}
			if err := db.Create(&location).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to create location record"})
				return
			}
		} else if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch location record"})
			return
		} else {
			location.Latitude = lat
			location.Longitude = lng
			location.Accuracy = input.Accuracy
			location.Speed = input.Speed
			location.Heading = input.Heading
			location.LastSeen = time.Now()
			if err := db.Save(&location).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update location record"})
				return
			}
		}

		// Publish location update to pub/sub and WebSocket observers
		if err := services.PublishCourierLocation(ctx, courierID, lat, lng, input.Speed, input.Heading); err != nil {
			log.Printf("Failed to publish location update: %v", err)
		}

		update := services.CourierLocationUpdate{
			CourierID: courierID,
		}
		update.Location.Latitude = lat
		update.Location.Longitude = lng
		update.Location.Speed = input.Speed
		update.Location.Heading = input.Heading

		hub.SendCourierLocationUpdate(update)

		c.JSON(200, gin.H{
			"message": "Location updated successfully",
			"location": gin.H{
				"latitude":  lat,
				"longitude": lng,
				"accuracy":  input.Accuracy,
				"speed":     input.Speed,
				"heading":   input.Heading,
			},
		})
	}
}
