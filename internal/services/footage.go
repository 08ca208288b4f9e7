package services

import (
	"fmt"

	"github.com/localnerve/lookout/internal/database"
	"github.com/localnerve/lookout/internal/models"
	"github.com/localnerve/lookout/internal/types"
	"github.com/localnerve/lookout/internal/validate"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// FootageFilter narrows a footage listing
type FootageFilter struct {
	ReportID *uint64
	Status   string
	Page     Page
}

// ListFootage returns footage newest first
func ListFootage(db *gorm.DB, f FootageFilter) ([]models.CCTVFootage, error) {
	query := db.Clauses(hints.Comment("select", "footage.list")).Model(&models.CCTVFootage{})
	if f.ReportID != nil {
		query = query.Where("report_id = ?", *f.ReportID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	footage := []models.CCTVFootage{}
	if err := newestFirst(query, f.Page.Normalize(DefaultFootageLimit)).Find(&footage).Error; err != nil {
		return nil, fmt.Errorf("failed to list footage: %w", err)
	}
	return footage, nil
}

// GetFootage loads footage by id
func GetFootage(db *gorm.DB, id uint64) (*models.CCTVFootage, error) {
	var footage models.CCTVFootage
	if err := db.First(&footage, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, types.NotFound("FOOTAGE_NOT_FOUND", "CCTV footage not found")
		}
		return nil, fmt.Errorf("failed to find footage: %w", err)
	}
	return &footage, nil
}

// CreateFootage records a footage lead, optionally linked to an existing report
func CreateFootage(db *gorm.DB, actor Actor, obj validate.Object) (*models.CCTVFootage, []models.Notification, error) {
	values, err := validate.Footage.Create(obj)
	if err != nil {
		return nil, nil, err
	}
	submittedBy := values.ID("submittedByUserId")
	if !actor.CanActFor(submittedBy) {
		return nil, nil, types.Forbidden("Footage can only be submitted on your own behalf")
	}

	var report *models.Report
	if reportID := values.ID("reportId"); reportID != nil {
		if report, err = GetReport(db, *reportID); err != nil {
			return nil, nil, reportNotFound(err)
		}
	}

	footage := models.CCTVFootage{
		SubmittedByUserID: actor.attribute(submittedBy),
		Location:          values.StringOr("location", ""),
		FootageDate:       values.StringOr("footageDate", ""),
		FootageTime:       values.String("footageTime"),
		Description:       values.String("description"),
		VideoURL:          values.String("videoUrl"),
		ContactInfo:       values.String("contactInfo"),
		Status:            values.StringOr("status", models.FootagePending),
	}
	if report != nil {
		footage.ReportID = &report.ID
	}

	var notes []models.Notification
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&footage).Error; err != nil {
			return fmt.Errorf("failed to create footage: %w", err)
		}
		n, err := notifyFootageLinked(tx, actor, report, &footage)
		if n != nil {
			notes = append(notes, *n)
		}
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &footage, notes, nil
}

// UpdateFootage applies a partial update to the mutable footage fields
func UpdateFootage(db *gorm.DB, actor Actor, id uint64, obj validate.Object) (*models.CCTVFootage, []models.Notification, error) {
	values, err := validate.Footage.Update(obj)
	if err != nil {
		return nil, nil, err
	}

	footage, err := GetFootage(db, id)
	if err != nil {
		return nil, nil, err
	}

	var report *models.Report
	if reportID := values.ID("reportId"); reportID != nil {
		if report, err = GetReport(db, *reportID); err != nil {
			return nil, nil, reportNotFound(err)
		}
		if footage.ReportID != nil && *footage.ReportID == *reportID {
			// already linked
			report = nil
		}
	}

	var notes []models.Notification
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CCTVFootage{}).Where("id = ?", id).Updates(validate.Footage.Columns(values)).Error; err != nil {
			return fmt.Errorf("failed to update footage: %w", err)
		}
		var updated models.CCTVFootage
		if err := tx.First(&updated, id).Error; err != nil {
			return fmt.Errorf("failed to reload footage: %w", err)
		}
		*footage = updated

		n, err := notifyFootageLinked(tx, actor, report, footage)
		if n != nil {
			notes = append(notes, *n)
		}
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return footage, notes, nil
}

func notifyFootageLinked(tx *gorm.DB, actor Actor, report *models.Report, footage *models.CCTVFootage) (*models.Notification, error) {
	if report == nil || report.ReportedBy == nil || actor.Is(report.ReportedBy) {
		return nil, nil
	}
	return createNotification(tx, *report.ReportedBy, &report.ID,
		fmt.Sprintf("CCTV footage from %s was linked to the report for %s", footage.Location, report.FullName), "info")
}
