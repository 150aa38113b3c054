package repository

import (
	"context"
	"fmt"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository/dao"
)

type GuestDAO interface {
	Insert(ctx context.Context, guest dao.Guest) (dao.Guest, error)
	FindByID(ctx context.Context, id uint) (dao.Guest, error)
	FindByQRCode(ctx context.Context, eventID uint, qrCode string) (dao.Guest, error)
	FindByEmployeeNumber(ctx context.Context, eventID uint, employeeNumber string) (dao.Guest, error)
	FindByEvent(ctx context.Context, eventID uint) ([]dao.Guest, error)
	Update(ctx context.Context, guest dao.Guest) (dao.Guest, error)
	MarkEmailSent(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	FindByCredentials(ctx context.Context, eventID uint, credentials string) (dao.Guest, error)
}

type GuestRepository struct {
	dao GuestDAO
}

func NewGuestRepository(dao GuestDAO) *GuestRepository {
	return &GuestRepository{
		dao: dao,
	}
}

func (r *GuestRepository) Create(ctx context.Context, guest domain.Guest) (domain.Guest, error) {
	created, err := r.dao.Insert(ctx, guestToDAO(guest))
	if err != nil {
		return domain.Guest{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return guestToDomain(created), nil
}

func (r *GuestRepository) FindByID(ctx context.Context, id uint) (domain.Guest, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Guest{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return guestToDomain(found), nil
}

func (r *GuestRepository) FindByQRCode(ctx context.Context, eventID uint, qrCode string) (domain.Guest, error) {
	found, err := r.dao.FindByQRCode(ctx, eventID, qrCode)
	if err != nil {
		return domain.Guest{}, fmt.Errorf("r.dao.FindByQRCode -> %w", err)
	}

	return guestToDomain(found), nil
}

func (r *GuestRepository) FindByEmployeeNumber(ctx context.Context, eventID uint, employeeNumber string) (domain.Guest, error) {
	found, err := r.dao.FindByEmployeeNumber(ctx, eventID, employeeNumber)
	if err != nil {
		return domain.Guest{}, fmt.Errorf("r.dao.FindByEmployeeNumber -> %w", err)
	}

	return guestToDomain(found), nil
}

func (r *GuestRepository) FindByEvent(ctx context.Context, eventID uint) ([]domain.Guest, error) {
	found, err := r.dao.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEvent -> %w", err)
	}

	guests := make([]domain.Guest, 0, len(found))
	for _, g := range found {
		guests = append(guests, guestToDomain(g))
	}

	return guests, nil
}

func (r *GuestRepository) Update(ctx context.Context, guest domain.Guest) (domain.Guest, error) {
	updated, err := r.dao.Update(ctx, guestToDAO(guest))
	if err != nil {
		return domain.Guest{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return guestToDomain(updated), nil
}

func (r *GuestRepository) MarkEmailSent(ctx context.Context, id uint) error {
	if err := r.dao.MarkEmailSent(ctx, id); err != nil {
		return fmt.Errorf("r.dao.MarkEmailSent -> %w", err)
	}

	return nil
}

func (r *GuestRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *GuestRepository) FindByCredentials(ctx context.Context, eventID uint, credentials string) (domain.Guest, error) {
	found, err := r.dao.FindByCredentials(ctx, eventID, credentials)
	if err != nil {
		return domain.Guest{}, fmt.Errorf("r.dao.FindByCredentials -> %w", err)
	}

	return guestToDomain(found), nil
}
