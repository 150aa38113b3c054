package dao

import (
	"context"

	"gorm.io/gorm"
)

type GuestDAO struct {
	db *gorm.DB
}

func NewGuestDAO(db *gorm.DB) *GuestDAO {
	return &GuestDAO{
		db: db,
	}
}

func (d *GuestDAO) Insert(ctx context.Context, guest Guest) (Guest, error) {
	if err := d.db.WithContext(ctx).Create(&guest).Error; err != nil {
		if isUniqueViolation(err, "idx_guests_event_employee") {
			return Guest{}, ErrGuestExists
		}

		return Guest{}, err
	}

	return guest, nil
}

func (d *GuestDAO) FindByID(ctx context.Context, id uint) (Guest, error) {
	var guest Guest

	if err := d.db.WithContext(ctx).First(&guest, id).Error; err != nil {
		return Guest{}, notFound(err, ErrGuestNotFound)
	}

	return guest, nil
}

func (d *GuestDAO) FindByQRCode(ctx context.Context, eventID uint, qrCode string) (Guest, error) {
	var guest Guest

	err := d.db.WithContext(ctx).
		Where("event_id = ? AND qr_code = ?", eventID, qrCode).
		First(&guest).Error
	if err != nil {
		return Guest{}, notFound(err, ErrGuestNotFound)
	}

	return guest, nil
}

func (d *GuestDAO) FindByEmployeeNumber(ctx context.Context, eventID uint, employeeNumber string) (Guest, error) {
	var guest Guest

	err := d.db.WithContext(ctx).
		Where("event_id = ? AND employee_number = ?", eventID, employeeNumber).
		First(&guest).Error
	if err != nil {
		return Guest{}, notFound(err, ErrGuestNotFound)
	}

	return guest, nil
}

func (d *GuestDAO) FindByEvent(ctx context.Context, eventID uint) ([]Guest, error) {
	var guests []Guest

	if err := d.db.WithContext(ctx).Where("event_id = ?", eventID).Order("id").Find(&guests).Error; err != nil {
		return nil, err
	}

	return guests, nil
}

func (d *GuestDAO) Update(ctx context.Context, guest Guest) (Guest, error) {
	result := d.db.WithContext(ctx).Model(&Guest{ID: guest.ID}).
		Select("company", "employee_number", "full_name", "email", "work_area", "job_level",
			"location", "hire_date", "description", "raffle_category").
		Updates(&guest)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "idx_guests_event_employee") {
			return Guest{}, ErrGuestExists
		}

		return Guest{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Guest{}, ErrGuestNotFound
	}

	return d.FindByID(ctx, guest.ID)
}

func (d *GuestDAO) MarkEmailSent(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Model(&Guest{}).Where("id = ?", id).Update("email_sent", true).Error
}

// Delete removes a guest together with their attendance, entries and draw logs. Guests holding a won
// entry are kept. The guest's entries are locked before the guest row, the order CommitDraw uses.
func (d *GuestDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entries []RaffleEntry
		if err := lockForUpdate(tx).Where("guest_id = ?", id).Find(&entries).Error; err != nil {
			return err
		}
		for _, e := range entries {
			if e.Status == EntryStatusWon {
				return ErrGuestIsWinner
			}
		}

		var guest Guest
		if err := lockForUpdate(tx).Select("id").First(&guest, id).Error; err != nil {
			return notFound(err, ErrGuestNotFound)
		}

		for _, model := range []interface{}{&RaffleLog{}, &RaffleEntry{}, &Attendance{}} {
			if err := tx.Where("guest_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&Guest{}, id).Error
	})
}

// FindByCredentials matches the company and employee number a guest types on the public page.
// The two parts may be joined by a dash, a space or nothing.
func (d *GuestDAO) FindByCredentials(ctx context.Context, eventID uint, credentials string) (Guest, error) {
	var guest Guest

	err := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where("CONCAT(company, '-', employee_number) = ? OR CONCAT(company, employee_number) = ? OR CONCAT(company, ' ', employee_number) = ?",
			credentials, credentials, credentials).
		Order("id").
		First(&guest).Error
	if err != nil {
		return Guest{}, notFound(err, ErrGuestNotFound)
	}

	return guest, nil
}
