package models

import (
	"time"

	"gorm.io/datatypes"
)

// Report statuses
const (
	ReportActive = "active"
	ReportFound  = "found"
	ReportClosed = "closed"
)

// ReportStatuses lists the accepted report statuses
var ReportStatuses = []string{ReportActive, ReportFound, ReportClosed}

// Report is a missing-person case record
type Report struct {
	ID                  uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ReportedBy          *uint64   `gorm:"index" json:"reportedBy"`
	FullName            string    `gorm:"size:255;not null" json:"fullName"`
	Age                 *int64    `json:"age"`
	Gender              *string   `gorm:"size:64" json:"gender"`
	Height              *string   `gorm:"size:64" json:"height"`
	Weight              *string   `gorm:"size:64" json:"weight"`
	HairColor           *string   `gorm:"size:64" json:"hairColor"`
	EyeColor            *string   `gorm:"size:64" json:"eyeColor"`
	Complexion          *string   `gorm:"size:64" json:"complexion"`
	DistinguishingMarks *string   `gorm:"size:2048" json:"distinguishingMarks"`
	LastSeenLocation    string    `gorm:"size:512;not null" json:"lastSeenLocation"`
	LastSeenDate        string    `gorm:"size:64;not null" json:"lastSeenDate"`
	Description         *string   `gorm:"size:4096" json:"description"`
	ImageURL            *string   `gorm:"size:1024" json:"imageUrl"`
	Status              string    `gorm:"size:16;not null;default:active;index" json:"status"`
	ContactInfo         *string   `gorm:"size:512" json:"contactInfo"`
	CreatedAt           time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt           time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName overrides the table name for Report
func (Report) TableName() string {
	return "missing_persons"
}

// Report history actions
const (
	EventCreated       = "created"
	EventUpdated       = "updated"
	EventStatusChanged = "status_changed"
)

// ReportEvent is one entry of a report's change history
type ReportEvent struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ReportID    uint64         `gorm:"not null;index" json:"reportId"`
	ActorUserID *uint64        `json:"actorUserId"`
	Action      string         `gorm:"size:32;not null" json:"action"`
	Changes     datatypes.JSON `json:"changes"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"createdAt"`
}

// TableName overrides the table name for ReportEvent
func (ReportEvent) TableName() string {
	return "report_events"
}
