package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationTypeBudgetExceeded = "budget_exceeded"
)

// Notification is a persisted in-app alert. Budget overshoot evaluations record
// one alongside the best-effort email so the dashboard can show history even
// when mail delivery fails.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"type:varchar(30);not null" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Metadata  JSONMap   `gorm:"type:text" json:"metadata,omitempty"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return nil
}

func (n *Notification) MarkRead() {
	n.IsRead = true
}

func (n *Notification) SetMetadata(key string, value interface{}) {
	if n.Metadata == nil {
		n.Metadata = make(JSONMap)
	}
	n.Metadata[key] = value
}

func (n *Notification) TableName() string {
	return "notifications"
}
