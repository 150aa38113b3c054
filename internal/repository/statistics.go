package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type StatisticsDAO interface {
	CountGuests(ctx context.Context, eventID uint) (int64, error)
	CountAttendances(ctx context.Context, eventID uint) (int64, error)
	CountDistinctWinners(ctx context.Context, eventID uint, excludePrizeName string) (int64, error)
	CountDistinctParticipants(ctx context.Context, eventID uint) (int64, error)
	CountEntriesByStatus(ctx context.Context, eventID uint) (map[string]int64, error)
	ScanTimes(ctx context.Context, eventID uint) ([]time.Time, error)
	AttendanceByGuestColumn(ctx context.Context, eventID uint, column string) (map[string]int64, error)
}

// EventCounts holds the raw aggregates behind the event dashboard.
type EventCounts struct {
	Guests         int64
	Attendances    int64
	Winners        int64
	Participants   int64
	EntriesByState map[domain.EntryStatus]int64
	ScanTimes      []time.Time
	ByJobLevel     map[string]int64
	ByWorkArea     map[string]int64
}

type StatisticsRepository struct {
	dao StatisticsDAO
}

func NewStatisticsRepository(dao StatisticsDAO) *StatisticsRepository {
	return &StatisticsRepository{
		dao: dao,
	}
}

func (r *StatisticsRepository) AttendanceCounts(ctx context.Context, eventID uint) (guests, attendances int64, err error) {
	if guests, err = r.dao.CountGuests(ctx, eventID); err != nil {
		return 0, 0, fmt.Errorf("r.dao.CountGuests -> %w", err)
	}
	if attendances, err = r.dao.CountAttendances(ctx, eventID); err != nil {
		return 0, 0, fmt.Errorf("r.dao.CountAttendances -> %w", err)
	}

	return guests, attendances, nil
}

func (r *StatisticsRepository) EventCounts(ctx context.Context, eventID uint) (EventCounts, error) {
	var (
		c   EventCounts
		err error
	)

	if c.Guests, c.Attendances, err = r.AttendanceCounts(ctx, eventID); err != nil {
		return EventCounts{}, err
	}
	if c.Winners, err = r.dao.CountDistinctWinners(ctx, eventID, domain.GeneralRafflePrizeName); err != nil {
		return EventCounts{}, fmt.Errorf("r.dao.CountDistinctWinners -> %w", err)
	}
	if c.Participants, err = r.dao.CountDistinctParticipants(ctx, eventID); err != nil {
		return EventCounts{}, fmt.Errorf("r.dao.CountDistinctParticipants -> %w", err)
	}

	byStatus, err := r.dao.CountEntriesByStatus(ctx, eventID)
	if err != nil {
		return EventCounts{}, fmt.Errorf("r.dao.CountEntriesByStatus -> %w", err)
	}
	c.EntriesByState = make(map[domain.EntryStatus]int64, len(byStatus))
	for status, n := range byStatus {
		c.EntriesByState[domain.EntryStatus(status)] = n
	}

	if c.ScanTimes, err = r.dao.ScanTimes(ctx, eventID); err != nil {
		return EventCounts{}, fmt.Errorf("r.dao.ScanTimes -> %w", err)
	}
	if c.ByJobLevel, err = r.dao.AttendanceByGuestColumn(ctx, eventID, "job_level"); err != nil {
		return EventCounts{}, fmt.Errorf("r.dao.AttendanceByGuestColumn(job_level) -> %w", err)
	}
	if c.ByWorkArea, err = r.dao.AttendanceByGuestColumn(ctx, eventID, "work_area"); err != nil {
		return EventCounts{}, fmt.Errorf("r.dao.AttendanceByGuestColumn(work_area) -> %w", err)
	}

	return c, nil
}
