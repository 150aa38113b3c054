package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceDAO struct {
	db *gorm.DB
}

func NewAttendanceDAO(db *gorm.DB) *AttendanceDAO {
	return &AttendanceDAO{
		db: db,
	}
}

// RecordScan creates the attendance on the first scan and bumps scan_count on the following ones,
// up to maxScans. The row is locked so concurrent scans of one invitation are counted once each.
func (d *AttendanceDAO) RecordScan(ctx context.Context, eventID, guestID uint, scannedBy string, metadata datatypes.JSON, at time.Time, maxScans int) (Attendance, bool, error) {
	attendance, first, err := d.recordScan(ctx, eventID, guestID, scannedBy, metadata, at, maxScans)
	if err != nil && isUniqueViolation(err, "idx_attendances_event_guest") {
		// Lost the race for the first scan; the row exists now.
		return d.recordScan(ctx, eventID, guestID, scannedBy, metadata, at, maxScans)
	}

	return attendance, first, err
}

func (d *AttendanceDAO) recordScan(ctx context.Context, eventID, guestID uint, scannedBy string, metadata datatypes.JSON, at time.Time, maxScans int) (Attendance, bool, error) {
	var (
		attendance Attendance
		first      bool
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_id = ? AND guest_id = ?", eventID, guestID).
			First(&attendance).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			first = true
			attendance = Attendance{
				EventID:       eventID,
				GuestID:       guestID,
				ScannedAt:     at,
				ScannedBy:     scannedBy,
				ScanCount:     1,
				LastScannedAt: at,
				ScanMetadata:  metadata,
			}
			return tx.Create(&attendance).Error
		case err != nil:
			return err
		}

		if attendance.ScanCount >= maxScans {
			return ErrScanLimitExceeded
		}

		attendance.ScanCount++
		attendance.LastScannedAt = at
		return tx.Model(&attendance).Updates(map[string]interface{}{
			"scan_count":      attendance.ScanCount,
			"last_scanned_at": at,
		}).Error
	})
	if err != nil {
		return Attendance{}, false, err
	}

	return attendance, first, nil
}

func (d *AttendanceDAO) FindByID(ctx context.Context, id uint) (Attendance, error) {
	var attendance Attendance

	if err := d.db.WithContext(ctx).Preload("Guest").First(&attendance, id).Error; err != nil {
		return Attendance{}, notFound(err, ErrAttendanceNotFound)
	}

	return attendance, nil
}

func (d *AttendanceDAO) FindByEvent(ctx context.Context, eventID uint) ([]Attendance, error) {
	var attendances []Attendance

	err := d.db.WithContext(ctx).Preload("Guest").
		Where("event_id = ?", eventID).
		Order("scanned_at DESC").
		Find(&attendances).Error
	if err != nil {
		return nil, err
	}

	return attendances, nil
}

func (d *AttendanceDAO) FindByGuest(ctx context.Context, eventID, guestID uint) (Attendance, error) {
	var attendance Attendance

	err := d.db.WithContext(ctx).
		Where("event_id = ? AND guest_id = ?", eventID, guestID).
		First(&attendance).Error
	if err != nil {
		return Attendance{}, notFound(err, ErrAttendanceNotFound)
	}

	return attendance, nil
}

func (d *AttendanceDAO) Exists(ctx context.Context, eventID, guestID uint) (bool, error) {
	var count int64

	err := d.db.WithContext(ctx).Model(&Attendance{}).
		Where("event_id = ? AND guest_id = ?", eventID, guestID).
		Count(&count).Error

	return count > 0, err
}

// GuestIDs returns the set of guests of the event with a recorded attendance.
func (d *AttendanceDAO) GuestIDs(ctx context.Context, eventID uint) (map[uint]struct{}, error) {
	var ids []uint

	if err := d.db.WithContext(ctx).Model(&Attendance{}).Where("event_id = ?", eventID).Pluck("guest_id", &ids).Error; err != nil {
		return nil, err
	}

	return toSet(ids), nil
}

func (d *AttendanceDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Attendance{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttendanceNotFound
	}

	return nil
}
