package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wendydelivery/wendy-courier/internal/models"
	"gorm.io/gorm"
)

// DefaultCourierID attributes requests that carry no identity token.
// The courier app ships with a single simulated courier account.
const DefaultCourierID = 2

func senderID(c *gin.Context) uint {
	if id := c.GetUint("userId"); id != 0 {
		return id
	}
	return DefaultCourierID
}

// CreateConversation finds or creates the conversation between the caller
// and a counterpart, optionally tied to an order
func CreateConversation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Participant2ID uint  `json:"participant2_id" binding:"required"`
			OrderID        *uint `json:"order_id"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		participant1 := senderID(c)

		var conversation models.Conversation
		query := db.Where("participant1_id = ? AND participant2_id = ?", participant1, input.Participant2ID)
		if input.OrderID != nil {
			query = query.Where("order_id = ?", *input.OrderID)
		}

		result := query.First(&conversation)
		if result.Error == gorm.ErrRecordNotFound {
			conversation = models.Conversation{
				Participant1ID: participant1,
				Participant2ID: input.Participant2ID,
				OrderID:        input.OrderID,
			}
			if err := db.Create(&conversation).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to create conversation"})
				return
			}
		} else if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch conversation"})
			return
		}

		c.JSON(200, gin.H{
			"conversation": gin.H{
				"id":              conversation.ID,
				"participant1_id": conversation.Participant1ID,
				"participant2_id": conversation.Participant2ID,
				"order_id":        conversation.OrderID,
				"created_at":      conversation.CreatedAt,
			},
		})
	}
}

// GetMessages returns the full message list of a conversation, oldest first
func GetMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid conversation ID"})
			return
		}

		var conversation models.Conversation
		if err := db.First(&conversation, conversationID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Conversation not found"})
			return
		}

		var messages []models.ChatMessage
		if err := db.Where("conversation_id = ?", conversationID).
			Order("timestamp ASC").
			Find(&messages).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch messages"})
			return
		}

		// Clients consume the list as a bare array
		out := make([]gin.H, 0, len(messages))
		for _, msg := range messages {
			out = append(out, gin.H{
				"id":        msg.ID,
				"sender_id": msg.SenderID,
				"content":   msg.Content,
				"timestamp": msg.Timestamp,
			})
		}

		c.JSON(200, out)
	}
}

// SendMessage appends a message to a conversation
func SendMessage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid conversation ID"})
			return
		}

		var input struct {
			Content string `json:"content" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var conversation models.Conversation
		if err := db.First(&conversation, conversationID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Conversation not found"})
			return
		}

		message := models.ChatMessage{
			ConversationID: uint(conversationID),
			SenderID:       senderID(c),
			Content:        input.Content,
			Timestamp:      time.Now().UTC(),
		}

		if err := db.Create(&message).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to send message"})
			return
		}

		c.JSON(200, gin.H{
			"message_data": gin.H{
				"id":        message.ID,
				"sender_id": message.SenderID,
				"content":   message.Content,
				"timestamp": message.Timestamp,
			},
		})
	}
}
