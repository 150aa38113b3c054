package dao

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type StatisticsDAO struct {
	db *gorm.DB
}

func NewStatisticsDAO(db *gorm.DB) *StatisticsDAO {
	return &StatisticsDAO{
		db: db,
	}
}

func (d *StatisticsDAO) CountGuests(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Guest{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

func (d *StatisticsDAO) CountAttendances(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Attendance{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

// CountDistinctWinners counts guests with a won entry, ignoring prizes named excludePrizeName.
func (d *StatisticsDAO) CountDistinctWinners(ctx context.Context, eventID uint, excludePrizeName string) (int64, error) {
	var count int64

	err := d.db.WithContext(ctx).Model(&RaffleEntry{}).
		Joins("JOIN prizes ON prizes.id = raffle_entries.prize_id").
		Where("raffle_entries.event_id = ? AND raffle_entries.status = ?", eventID, EntryStatusWon).
		Where("prizes.name <> ?", excludePrizeName).
		Distinct("raffle_entries.guest_id").
		Count(&count).Error

	return count, err
}

func (d *StatisticsDAO) CountDistinctParticipants(ctx context.Context, eventID uint) (int64, error) {
	var count int64

	err := d.db.WithContext(ctx).Model(&RaffleEntry{}).
		Where("event_id = ?", eventID).
		Distinct("guest_id").
		Count(&count).Error

	return count, err
}

type statusCount struct {
	Status string
	Total  int64
}

func (d *StatisticsDAO) CountEntriesByStatus(ctx context.Context, eventID uint) (map[string]int64, error) {
	var rows []statusCount

	err := d.db.WithContext(ctx).Model(&RaffleEntry{}).
		Select("status, COUNT(*) AS total").
		Where("event_id = ?", eventID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Total
	}

	return out, nil
}

// ScanTimes returns the first-scan instant of every attendance. Bucketing by local hour is left to the
// caller so the result does not depend on the database session time zone.
func (d *StatisticsDAO) ScanTimes(ctx context.Context, eventID uint) ([]time.Time, error) {
	var times []time.Time

	if err := d.db.WithContext(ctx).Model(&Attendance{}).Where("event_id = ?", eventID).Order("scanned_at").Pluck("scanned_at", &times).Error; err != nil {
		return nil, err
	}

	return times, nil
}

var groupableGuestColumns = map[string]struct{}{
	"job_level": {},
	"work_area": {},
}

type labelCount struct {
	Label string
	Total int64
}

// AttendanceByGuestColumn counts attendances grouped by a guest column. NULL and empty values share the "" label.
func (d *StatisticsDAO) AttendanceByGuestColumn(ctx context.Context, eventID uint, column string) (map[string]int64, error) {
	if _, ok := groupableGuestColumns[column]; !ok {
		return nil, fmt.Errorf("column %q cannot be grouped", column)
	}

	label := "COALESCE(guests." + column + ", '')"

	var rows []labelCount
	err := d.db.WithContext(ctx).Model(&Attendance{}).
		Select(label+" AS label, COUNT(*) AS total").
		Joins("JOIN guests ON guests.id = attendances.guest_id").
		Where("attendances.event_id = ?", eventID).
		Group(label).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Label] = r.Total
	}

	return out, nil
}
