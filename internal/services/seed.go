package services

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"time"

	"github.com/localnerve/lookout/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedUser struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"`
	DaysAgo  int     `json:"daysAgo"`
}

type seedReport struct {
	models.Report
	Reporter string `json:"reporter"`
	DaysAgo  int    `json:"daysAgo"`
}

type seedNotification struct {
	Recipient string `json:"recipient"`
	Report    int    `json:"report"` // 1-based position in reports.json
	Message   string `json:"message"`
	Type      string `json:"type"`
	Read      bool   `json:"read"`
	DaysAgo   int    `json:"daysAgo"`
}

// SeedResult counts the rows inserted by Seed
type SeedResult struct {
	Users         int  `json:"users"`
	Reports       int  `json:"reports"`
	Notifications int  `json:"notifications"`
	Skipped       bool `json:"skipped"`
}

// Seed loads users.json, reports.json and notifications.json from fsys
// in one transaction. Nothing is inserted when any user exists.
func Seed(db *gorm.DB, fsys fs.FS, now time.Time) (SeedResult, error) {
	var result SeedResult

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return result, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		result.Skipped = true
		return result, nil
	}

	var users []seedUser
	var reports []seedReport
	var notes []seedNotification
	for name, dest := range map[string]interface{}{
		"seed/users.json":         &users,
		"seed/reports.json":       &reports,
		"seed/notifications.json": &notes,
	} {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return result, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := json.Unmarshal(raw, dest); err != nil {
			return result, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}

	daysAgo := func(n int) time.Time {
		return now.Add(-time.Duration(n) * 24 * time.Hour)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// bcrypt is slow, hash each distinct password once
		hashes := map[string]string{}
		userIDs := map[string]uint64{}
		for _, su := range users {
			hash, ok := hashes[su.Password]
			if !ok {
				h, err := HashPassword(su.Password)
				if err != nil {
					return err
				}
				hash, hashes[su.Password] = h, h
			}
			user := models.User{
				Email:        NormalizeEmail(su.Email),
				Phone:        su.Phone,
				PasswordHash: hash,
				FullName:     su.FullName,
				Role:         su.Role,
				CreatedAt:    daysAgo(su.DaysAgo),
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to seed user %s: %w", su.Email, err)
			}
			userIDs[user.Email] = user.ID
		}

		reportIDs := make([]uint64, len(reports))
		for i, sr := range reports {
			report := sr.Report
			if id, ok := userIDs[NormalizeEmail(sr.Reporter)]; ok {
				report.ReportedBy = &id
			}
			if report.Status == "" {
				report.Status = models.ReportActive
			}
			report.CreatedAt = daysAgo(sr.DaysAgo)
			report.UpdatedAt = report.CreatedAt
			if err := tx.Create(&report).Error; err != nil {
				return fmt.Errorf("failed to seed report %s: %w", report.FullName, err)
			}
			reportIDs[i] = report.ID
		}

		for _, sn := range notes {
			userID, ok := userIDs[NormalizeEmail(sn.Recipient)]
			if !ok {
				return fmt.Errorf("seed notification for unknown user %s", sn.Recipient)
			}
			note := models.Notification{
				UserID:    userID,
				Message:   sn.Message,
				Type:      sn.Type,
				Read:      sn.Read,
				CreatedAt: daysAgo(sn.DaysAgo),
			}
			if sn.Report > 0 && sn.Report <= len(reportIDs) {
				note.ReportID = &reportIDs[sn.Report-1]
			}
			if err := tx.Create(&note).Error; err != nil {
				return fmt.Errorf("failed to seed notification: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	result.Users, result.Reports, result.Notifications = len(users), len(reports), len(notes)
	zap.S().Infow("Seed data loaded", "users", result.Users, "reports", result.Reports, "notifications", result.Notifications)
	return result, nil
}
