package models

import "time"

type Message struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID    uint       `gorm:"index;not null" json:"senderId"`
	Sender      *User      `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	RecipientID uint       `gorm:"index;not null" json:"recipientId"`
	Subject     string     `gorm:"size:190" json:"subject"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	ReadAt      *time.Time `json:"readAt"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}
