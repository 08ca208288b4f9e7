// reports.go
//
// Community missing-persons reporting service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of lookout.
// lookout is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// lookout is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with lookout.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/localnerve/lookout/internal/database"
	"github.com/localnerve/lookout/internal/models"
	"github.com/localnerve/lookout/internal/types"
	"github.com/localnerve/lookout/internal/validate"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// ReportFilter narrows a report listing
type ReportFilter struct {
	Status     string
	ReportedBy *uint64
	Search     string
	Page       Page
}

var errReportNotFound = types.NotFound("NOT_FOUND", "Report not found")

// ListReports returns reports newest first
func ListReports(db *gorm.DB, f ReportFilter) ([]models.Report, error) {
	query := db.Clauses(hints.Comment("select", "reports.list")).Model(&models.Report{})

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.ReportedBy != nil {
		query = query.Where("reported_by = ?", *f.ReportedBy)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(full_name) LIKE ? OR LOWER(last_seen_location) LIKE ? OR LOWER(description) LIKE ?)",
			pattern, pattern, pattern)
	}

	reports := []models.Report{}
	if err := newestFirst(query, f.Page.Normalize(DefaultReportLimit)).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// GetReport loads a report by id
func GetReport(db *gorm.DB, id uint64) (*models.Report, error) {
	var report models.Report
	if err := db.First(&report, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, errReportNotFound
		}
		return nil, fmt.Errorf("failed to find report: %w", err)
	}
	return &report, nil
}

// CreateReport validates obj and inserts a report attributed to the caller
func CreateReport(db *gorm.DB, actor Actor, obj validate.Object) (*models.Report, error) {
	values, err := validate.Reports.Create(obj)
	if err != nil {
		return nil, err
	}
	owner, err := validate.ReportOwner.Create(obj)
	if err != nil {
		return nil, err
	}
	reportedBy := owner.ID("reportedBy")
	if !actor.CanActFor(reportedBy) {
		return nil, types.Forbidden("Reports can only be filed on your own behalf")
	}

	report := models.Report{
		ReportedBy:          actor.attribute(reportedBy),
		FullName:            values.StringOr("fullName", ""),
		Age:                 values.Int("age"),
		Gender:              values.String("gender"),
		Height:              values.String("height"),
		Weight:              values.String("weight"),
		HairColor:           values.String("hairColor"),
		EyeColor:            values.String("eyeColor"),
		Complexion:          values.String("complexion"),
		DistinguishingMarks: values.String("distinguishingMarks"),
		LastSeenLocation:    values.StringOr("lastSeenLocation", ""),
		LastSeenDate:        values.StringOr("lastSeenDate", ""),
		Description:         values.String("description"),
		ImageURL:            values.String("imageUrl"),
		Status:              values.StringOr("status", models.ReportActive),
		ContactInfo:         values.String("contactInfo"),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		return recordEvent(tx, report.ID, actor, models.EventCreated, values)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// UpdateReport applies a partial update. A status change notifies the reporter;
// the returned notifications are committed and ready for delivery.
func UpdateReport(db *gorm.DB, actor Actor, id uint64, obj validate.Object) (*models.Report, []models.Notification, error) {
	values, err := validate.Reports.Update(obj)
	if err != nil {
		return nil, nil, err
	}

	report, err := GetReport(db, id)
	if err != nil {
		return nil, nil, err
	}
	if !actor.IsAdmin() && !actor.Is(report.ReportedBy) {
		return nil, nil, types.Forbidden("Only the reporter or an administrator can modify this report")
	}

	previousStatus := report.Status
	cols := validate.Reports.Columns(values)
	cols["updated_at"] = time.Now()

	var notes []models.Notification
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Report{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return fmt.Errorf("failed to update report: %w", err)
		}
		var updated models.Report
		if err := tx.First(&updated, id).Error; err != nil {
			return fmt.Errorf("failed to reload report: %w", err)
		}
		*report = updated

		action := models.EventUpdated
		if report.Status != previousStatus {
			action = models.EventStatusChanged
		}
		if err := recordEvent(tx, id, actor, action, values); err != nil {
			return err
		}

		if action == models.EventStatusChanged && report.ReportedBy != nil && !actor.Is(report.ReportedBy) {
			n, err := createNotification(tx, *report.ReportedBy, &report.ID,
				fmt.Sprintf("Case status for %s changed to '%s'", report.FullName, report.Status),
				statusNotificationType(report.Status))
			if err != nil {
				return err
			}
			notes = append(notes, *n)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return report, notes, nil
}

func statusNotificationType(status string) string {
	if status == models.ReportFound {
		return "success"
	}
	return models.DefaultNotificationType
}

// DeleteReport removes a report with its sightings, notifications and history.
// Footage is kept and unlinked.
func DeleteReport(db *gorm.DB, actor Actor, id uint64) (*models.Report, error) {
	report, err := GetReport(db, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Is(report.ReportedBy) {
		return nil, types.Forbidden("Only the reporter or an administrator can delete this report")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", id).Delete(&models.Sighting{}).Error; err != nil {
			return fmt.Errorf("failed to delete sightings: %w", err)
		}
		if err := tx.Where("report_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return fmt.Errorf("failed to delete notifications: %w", err)
		}
		if err := tx.Where("report_id = ?", id).Delete(&models.ReportEvent{}).Error; err != nil {
			return fmt.Errorf("failed to delete report history: %w", err)
		}
		if err := tx.Model(&models.CCTVFootage{}).Where("report_id = ?", id).Update("report_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unlink footage: %w", err)
		}
		result := tx.Delete(&models.Report{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete report: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errReportNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ListReportEvents returns the history of a report, newest first
func ListReportEvents(db *gorm.DB, id uint64, page Page) ([]models.ReportEvent, error) {
	if _, err := GetReport(db, id); err != nil {
		return nil, err
	}
	events := []models.ReportEvent{}
	query := db.Clauses(hints.Comment("select", "reports.events")).Where("report_id = ?", id)
	if err := newestFirst(query, page.Normalize(DefaultEventLimit)).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list report history: %w", err)
	}
	return events, nil
}

func recordEvent(tx *gorm.DB, reportID uint64, actor Actor, action string, changes validate.Values) error {
	raw, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("failed to encode report changes: %w", err)
	}
	actorID := actor.UserID
	event := models.ReportEvent{
		ReportID:    reportID,
		ActorUserID: &actorID,
		Action:      action,
		Changes:     datatypes.JSON(raw),
	}
	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to record report event: %w", err)
	}
	return nil
}
