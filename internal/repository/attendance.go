package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository/dao"
)

type AttendanceDAO interface {
	RecordScan(ctx context.Context, eventID, guestID uint, scannedBy string, metadata datatypes.JSON, at time.Time, maxScans int) (dao.Attendance, bool, error)
	FindByID(ctx context.Context, id uint) (dao.Attendance, error)
	FindByEvent(ctx context.Context, eventID uint) ([]dao.Attendance, error)
	FindByGuest(ctx context.Context, eventID, guestID uint) (dao.Attendance, error)
	Exists(ctx context.Context, eventID, guestID uint) (bool, error)
	GuestIDs(ctx context.Context, eventID uint) (map[uint]struct{}, error)
	Delete(ctx context.Context, id uint) error
}

type AttendanceRepository struct {
	dao AttendanceDAO
}

func NewAttendanceRepository(dao AttendanceDAO) *AttendanceRepository {
	return &AttendanceRepository{
		dao: dao,
	}
}

func (r *AttendanceRepository) RecordScan(ctx context.Context, eventID, guestID uint, scannedBy string, metadata map[string]interface{}, at time.Time, maxScans int) (domain.Attendance, bool, error) {
	recorded, first, err := r.dao.RecordScan(ctx, eventID, guestID, scannedBy, toJSON(metadata), at, maxScans)
	if err != nil {
		return domain.Attendance{}, false, fmt.Errorf("r.dao.RecordScan -> %w", err)
	}

	return attendanceToDomain(recorded), first, nil
}

func (r *AttendanceRepository) FindByID(ctx context.Context, id uint) (domain.Attendance, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return attendanceToDomain(found), nil
}

func (r *AttendanceRepository) FindByEvent(ctx context.Context, eventID uint) ([]domain.Attendance, error) {
	found, err := r.dao.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	out := make([]domain.Attendance, 0, len(found))
	for _, a := range found {
		out = append(out, attendanceToDomain(a))
	}

	return out, nil
}

func (r *AttendanceRepository) FindByGuest(ctx context.Context, eventID, guestID uint) (domain.Attendance, error) {
	found, err := r.dao.FindByGuest(ctx, eventID, guestID)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("r.dao.FindByGuest -> %w", err)
	}

	return attendanceToDomain(found), nil
}

func (r *AttendanceRepository) Exists(ctx context.Context, eventID, guestID uint) (bool, error) {
	ok, err := r.dao.Exists(ctx, eventID, guestID)
	if err != nil {
		return false, fmt.Errorf("r.dao.Exists -> %w", err)
	}

	return ok, nil
}

func (r *AttendanceRepository) GuestIDs(ctx context.Context, eventID uint) (map[uint]struct{}, error) {
	ids, err := r.dao.GuestIDs(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.GuestIDs -> %w", err)
	}

	return ids, nil
}

func (r *AttendanceRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}
