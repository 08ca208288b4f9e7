package models

import "time"

// DefaultNotificationType is used when no type is given
const DefaultNotificationType = "info"

// Notification is a message addressed to one user
type Notification struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"userId"`
	ReportID  *uint64   `gorm:"index" json:"reportId"`
	Message   string    `gorm:"size:1024;not null" json:"message"`
	Type      string    `gorm:"size:32;not null;default:info" json:"type"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

// TableName overrides the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Report{},
		&ReportEvent{},
		&Sighting{},
		&CCTVFootage{},
		&Notification{},
	}
}
