package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Type           string         `gorm:"size:50;not null;index:idx_notifications_type_action" json:"type"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Message        string         `gorm:"type:text;not null" json:"message"`
	RecipientID    uint           `gorm:"not null;index:idx_notifications_recipient_read" json:"recipient_id"`
	SenderID       *uint          `gorm:"index" json:"sender_id,omitempty"`
	RelatedCarID   *uint          `gorm:"index" json:"related_car_id,omitempty"` // advisory reference; car may be gone
	IsRead         bool           `gorm:"default:false;index:idx_notifications_recipient_read" json:"is_read"`
	ActionRequired bool           `gorm:"default:false;index:idx_notifications_type_action" json:"action_required"`
	Metadata       string         `gorm:"type:text" json:"metadata,omitempty"` // JSON snapshot taken at creation time
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Recipient *User `gorm:"foreignKey:RecipientID" json:"-"`
	Sender    *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationMetadata is the denormalized snapshot carried by every
// moderation notification so it stays meaningful after the car is deleted.
type NotificationMetadata struct {
	CarTitle   string `json:"car_title,omitempty"`
	CarID      string `json:"car_id,omitempty"`
	OwnerName  string `json:"owner_name,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty"`
	DecidedBy  string `json:"decided_by,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func (m NotificationMetadata) Encode() string {
	b, _ := json.Marshal(m)
	return string(b)
}

func (n *Notification) DecodeMetadata() NotificationMetadata {
	var m NotificationMetadata
	if n.Metadata != "" {
		_ = json.Unmarshal([]byte(n.Metadata), &m)
	}
	return m
}
