package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is a chat channel between a courier and a customer,
// optionally tied to an order.
type Conversation struct {
	gorm.Model
	Participant1ID uint  `json:"participant1_id" gorm:"not null;index:idx_conversation_key"`
	Participant2ID uint  `json:"participant2_id" gorm:"not null;index:idx_conversation_key"`
	OrderID        *uint `json:"order_id,omitempty" gorm:"index:idx_conversation_key"`
}

// TableName specifies the table name
func (Conversation) TableName() string {
	return "conversations"
}

// ChatMessage is a single message inside a conversation. Ordering is
// server-assigned via the timestamp column.
type ChatMessage struct {
	gorm.Model
	ConversationID uint      `json:"conversation_id" gorm:"not null;index"`
	SenderID       uint      `json:"sender_id" gorm:"not null"`
	Content        string    `json:"content" gorm:"not null"`
	Timestamp      time.Time `json:"timestamp" gorm:"not null;index"`
}

// TableName specifies the table name
func (ChatMessage) TableName() string {
	return "chat_messages"
}
