package database

import (
	"time"
)

const (
	RoleUser      string = "user"
	RoleAssistant string = "assistant"
)

type Conversation struct {
	ID        int64  `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

type Message struct {
	ID             int64  `gorm:"primaryKey"`
	ConversationID int64  `gorm:"index;not null"`
	Role           string `gorm:"size:20;not null"` // 'user' or 'assistant'
	Content        string `gorm:"not null"`
	CreatedAt      time.Time
}
