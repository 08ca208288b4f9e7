// notifications.go
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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/lookout/internal/mailer"
	"github.com/localnerve/lookout/internal/database"
	"github.com/localnerve/lookout/internal/models"
	"github.com/localnerve/lookout/internal/types"
	"github.com/localnerve/lookout/internal/validate"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// NotificationFilter narrows a notification listing
type NotificationFilter struct {
	UserID     uint64
	UnreadOnly bool
	Page       Page
}

// ListNotifications returns a user's notifications newest first
func ListNotifications(db *gorm.DB, f NotificationFilter) ([]models.Notification, error) {
	where := map[string]interface{}{"user_id": f.UserID}
	if f.UnreadOnly {
		where["read"] = false
	}
	query := db.Clauses(hints.Comment("select", "notifications.list")).Where(where)

	notes := []models.Notification{}
	if err := newestFirst(query, f.Page.Normalize(DefaultNotificationLimit)).Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notes, nil
}

// MarkNotification sets the read flag. Repeating the call is harmless.
func MarkNotification(db *gorm.DB, actor Actor, id uint64, read bool) (*models.Notification, error) {
	var note models.Notification
	if err := db.First(&note, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, types.NotFound("NOTIFICATION_NOT_FOUND", "Notification not found")
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}
	if !actor.IsAdmin() && note.UserID != actor.UserID {
		return nil, types.Forbidden("Notifications can only be updated by their recipient")
	}

	if err := db.Model(&models.Notification{}).Where("id = ?", id).
		Updates(map[string]interface{}{"read": read}).Error; err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}
	note.Read = read
	return &note, nil
}

// MarkAllRead marks the caller's unread notifications read, optionally only those in ids
func MarkAllRead(db *gorm.DB, actor Actor, ids []uint64) (int64, error) {
	query := db.Model(&models.Notification{}).
		Where(map[string]interface{}{"user_id": actor.UserID, "read": false})
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	result := query.Updates(map[string]interface{}{"read": true})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CreateNotification validates obj and addresses a notification to a user
func CreateNotification(db *gorm.DB, obj validate.Object) (*models.Notification, error) {
	values, err := validate.Notifications.Create(obj)
	if err != nil {
		return nil, err
	}
	userID := *values.ID("userId")
	if _, err := GetUser(db, userID); err != nil {
		return nil, err
	}
	reportID := values.ID("reportId")
	if reportID != nil {
		if _, err := GetReport(db, *reportID); err != nil {
			return nil, reportNotFound(err)
		}
	}
	return createNotification(db, userID, reportID, values.StringOr("message", ""),
		values.StringOr("type", models.DefaultNotificationType))
}

func createNotification(tx *gorm.DB, userID uint64, reportID *uint64, message, kind string) (*models.Notification, error) {
	note := models.Notification{
		UserID:   userID,
		ReportID: reportID,
		Message:  message,
		Type:     kind,
	}
	if err := tx.Create(&note).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return &note, nil
}

// reportNotFound turns the report lookup's NOT_FOUND into REPORT_NOT_FOUND for referencing rows
func reportNotFound(err error) error {
	if errors.Is(err, errReportNotFound) {
		return types.NotFound("REPORT_NOT_FOUND", "Missing person report not found")
	}
	return err
}

// Deliver e-mails committed notifications to their recipients.
// Delivery is best effort; failures are logged and never returned.
func Deliver(ctx context.Context, db *gorm.DB, m mailer.Mailer, notes ...models.Notification) {
	if m == nil {
		return
	}
	if _, ok := m.(mailer.Nop); ok {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, note := range notes {
		user, err := GetUser(db, note.UserID)
		if err != nil {
			zap.S().Warnw("Notification recipient lookup failed", "notification_id", note.ID, "error", err)
			continue
		}
		err = m.Send(ctx, mailer.Message{
			ToName:    user.FullName,
			ToAddress: user.Email,
			Subject:   "Lookout: " + note.Type,
			Text:      note.Message,
		})
		if err != nil {
			zap.S().Warnw("Notification e-mail failed", "notification_id", note.ID, "user_id", note.UserID, "error", err)
		}
	}
}
