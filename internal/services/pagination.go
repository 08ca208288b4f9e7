package services

import "gorm.io/gorm"

// MaxLimit caps every list request
const MaxLimit = 100

// Default page sizes per list endpoint
const (
	DefaultReportLimit       = 50
	DefaultSightingLimit     = 20
	DefaultFootageLimit      = 20
	DefaultNotificationLimit = 20
	DefaultUserLimit         = 50
	DefaultEventLimit        = 50
)

// Page is a limit/offset window
type Page struct {
	Limit  int
	Offset int
}

// Normalize applies the endpoint default and the server cap
func (p Page) Normalize(defaultLimit int) Page {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// newestFirst orders by creation time, newest first, with id breaking ties
func newestFirst(db *gorm.DB, p Page) *gorm.DB {
	return db.Order("created_at desc").Order("id desc").Limit(p.Limit).Offset(p.Offset)
}
