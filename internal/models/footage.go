package models

import "time"

// Footage review statuses
const (
	FootagePending  = "pending"
	FootageReviewed = "reviewed"
	FootageMatched  = "matched"
)

// FootageStatuses lists the accepted footage statuses
var FootageStatuses = []string{FootagePending, FootageReviewed, FootageMatched}

// CCTVFootage is a pointer to surveillance footage possibly relevant to a report
type CCTVFootage struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ReportID          *uint64   `gorm:"index" json:"reportId"`
	SubmittedByUserID *uint64   `gorm:"index" json:"submittedByUserId"`
	Location          string    `gorm:"size:512;not null" json:"location"`
	FootageDate       string    `gorm:"size:64;not null" json:"footageDate"`
	FootageTime       *string   `gorm:"size:64" json:"footageTime"`
	Description       *string   `gorm:"size:4096" json:"description"`
	VideoURL          *string   `gorm:"size:1024" json:"videoUrl"`
	ContactInfo       *string   `gorm:"size:512" json:"contactInfo"`
	Status            string    `gorm:"size:16;not null;default:pending;index" json:"status"`
	CreatedAt         time.Time `gorm:"not null;index" json:"createdAt"`
}

// TableName overrides the table name for CCTVFootage
func (CCTVFootage) TableName() string {
	return "cctv_footage"
}
