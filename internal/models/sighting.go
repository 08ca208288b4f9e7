package models

import "time"

// Sighting is a community-submitted claim of having seen the subject of a report
type Sighting struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ReportID         uint64    `gorm:"not null;index" json:"reportId"`
	ReportedByUserID *uint64   `gorm:"index" json:"reportedByUserId"`
	SightingLocation string    `gorm:"size:512;not null" json:"sightingLocation"`
	SightingDate     string    `gorm:"size:64;not null" json:"sightingDate"`
	Description      *string   `gorm:"size:4096" json:"description"`
	ContactInfo      *string   `gorm:"size:512" json:"contactInfo"`
	ImageURL         *string   `gorm:"size:1024" json:"imageUrl"`
	Verified         bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt        time.Time `gorm:"not null;index" json:"createdAt"`
}

// TableName overrides the table name for Sighting
func (Sighting) TableName() string {
	return "sightings"
}
