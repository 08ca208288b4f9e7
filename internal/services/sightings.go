package services

import (
	"errors"
	"fmt"

	"github.com/localnerve/lookout/internal/database"
	"github.com/localnerve/lookout/internal/models"
	"github.com/localnerve/lookout/internal/types"
	"github.com/localnerve/lookout/internal/validate"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// ListSightings returns the sightings of a report newest first
func ListSightings(db *gorm.DB, reportID uint64, page Page) ([]models.Sighting, error) {
	query := db.Clauses(hints.Comment("select", "sightings.list")).Where("report_id = ?", reportID)

	sightings := []models.Sighting{}
	if err := newestFirst(query, page.Normalize(DefaultSightingLimit)).Find(&sightings).Error; err != nil {
		return nil, fmt.Errorf("failed to list sightings: %w", err)
	}
	return sightings, nil
}

// GetSighting loads a sighting by id
func GetSighting(db *gorm.DB, id uint64) (*models.Sighting, error) {
	var sighting models.Sighting
	if err := db.First(&sighting, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, types.NotFound("SIGHTING_NOT_FOUND", "Sighting not found")
		}
		return nil, fmt.Errorf("failed to find sighting: %w", err)
	}
	return &sighting, nil
}

// CreateSighting records an unverified sighting against an existing report
// and notifies the report's owner.
func CreateSighting(db *gorm.DB, actor Actor, obj validate.Object) (*models.Sighting, []models.Notification, error) {
	values, err := validate.Sightings.Create(obj)
	if err != nil {
		return nil, nil, err
	}
	reportedBy := values.ID("reportedByUserId")
	if !actor.CanActFor(reportedBy) {
		return nil, nil, types.Forbidden("Sightings can only be reported on your own behalf")
	}

	report, err := GetReport(db, *values.ID("reportId"))
	if err != nil {
		return nil, nil, reportNotFound(err)
	}

	sighting := models.Sighting{
		ReportID:         report.ID,
		ReportedByUserID: actor.attribute(reportedBy),
		SightingLocation: values.StringOr("sightingLocation", ""),
		SightingDate:     values.StringOr("sightingDate", ""),
		Description:      values.String("description"),
		ContactInfo:      values.String("contactInfo"),
		ImageURL:         values.String("imageUrl"),
		Verified:         false,
	}

	var notes []models.Notification
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sighting).Error; err != nil {
			return fmt.Errorf("failed to create sighting: %w", err)
		}
		if report.ReportedBy == nil || actor.Is(report.ReportedBy) {
			return nil
		}
		n, err := createNotification(tx, *report.ReportedBy, &report.ID,
			fmt.Sprintf("New sighting reported for %s at %s", report.FullName, sighting.SightingLocation), "alert")
		if err != nil {
			return err
		}
		notes = append(notes, *n)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &sighting, notes, nil
}

// UpdateSighting applies a partial update by an administrator or the owner of the parent report
func UpdateSighting(db *gorm.DB, actor Actor, id uint64, obj validate.Object) (*models.Sighting, error) {
	values, err := validate.Sightings.Update(obj)
	if err != nil {
		return nil, err
	}

	sighting, err := GetSighting(db, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		report, err := GetReport(db, sighting.ReportID)
		if err != nil && !errors.Is(err, errReportNotFound) {
			return nil, err
		}
		if report == nil || !actor.Is(report.ReportedBy) {
			return nil, types.Forbidden("Only the report owner or an administrator can update sightings")
		}
	}

	if err := db.Model(&models.Sighting{}).Where("id = ?", id).Updates(validate.Sightings.Columns(values)).Error; err != nil {
		return nil, fmt.Errorf("failed to update sighting: %w", err)
	}
	return GetSighting(db, id)
}
