package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is the generic "create notification" contract fired after
// a successful booking. Delivery (email, push) is best-effort; the row
// itself is the durable record the dashboard reads.
type Notification struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userID" gorm:"not null;index"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	Type    string `json:"type" gorm:"size:32;index"` // reservation_created, reservation_cancelled, ...
	Title   string `json:"title" gorm:"size:100"`
	Message string `json:"message" gorm:"size:500"`

	RefType string         `json:"refType" gorm:"size:32"` // reservation, property
	RefID   uint           `json:"refID"`
	Payload datatypes.JSON `json:"payload"`

	IsRead    bool       `json:"isRead" gorm:"default:false"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt"`
}
