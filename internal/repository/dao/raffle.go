package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	EntryStatusPending = "pending"
	EntryStatusWon     = "won"
	EntryStatusLost    = "lost"
)

// DrawCommit is the winner picked by the service, recorded atomically by CommitDraw.
type DrawCommit struct {
	DrawID     string
	EventID    uint
	PrizeID    uint
	EntryID    uint
	UserID     *uint
	RaffleType string
	Seed       int64
	Candidates int
	DrawnAt    time.Time

	// Exclusive draws hold the event row lock and re-check that the winner has no other won
	// prize outside GeneralPrizeName and, for CapCompany guests, that the event has no
	// CapCompany winner yet.
	Exclusive        bool
	GeneralPrizeName string
	CapCompany       string
}

type RaffleDAO struct {
	db *gorm.DB
}

func NewRaffleDAO(db *gorm.DB) *RaffleDAO {
	return &RaffleDAO{
		db: db,
	}
}

// InsertEntries stores the entries, skipping any (guest, prize) pair that already exists.
// It returns how many rows were actually created.
func (d *RaffleDAO) InsertEntries(ctx context.Context, entries []RaffleEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guest_id"}, {Name: "prize_id"}},
			DoNothing: true,
		}).
		CreateInBatches(&entries, 200)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (d *RaffleDAO) InsertEntry(ctx context.Context, entry RaffleEntry) (RaffleEntry, error) {
	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guest_id"}, {Name: "prize_id"}},
			DoNothing: true,
		}).
		Create(&entry)
	if result.Error != nil {
		return RaffleEntry{}, result.Error
	}
	if result.RowsAffected == 0 {
		return RaffleEntry{}, ErrAlreadyEntered
	}

	return entry, nil
}

func (d *RaffleDAO) FindEntryByID(ctx context.Context, id uint) (RaffleEntry, error) {
	var entry RaffleEntry

	if err := d.db.WithContext(ctx).Preload("Guest").First(&entry, id).Error; err != nil {
		return RaffleEntry{}, notFound(err, ErrEntryNotFound)
	}

	return entry, nil
}

func (d *RaffleDAO) FindEntry(ctx context.Context, guestID, prizeID uint) (RaffleEntry, error) {
	var entry RaffleEntry

	err := d.db.WithContext(ctx).Preload("Guest").
		Where("guest_id = ? AND prize_id = ?", guestID, prizeID).
		First(&entry).Error
	if err != nil {
		return RaffleEntry{}, notFound(err, ErrEntryNotFound)
	}

	return entry, nil
}

// FindEntriesByPrize lists the prize's entries in creation order. An empty status returns all of them.
func (d *RaffleDAO) FindEntriesByPrize(ctx context.Context, prizeID uint, status string) ([]RaffleEntry, error) {
	var entries []RaffleEntry

	q := d.db.WithContext(ctx).Preload("Guest").Where("prize_id = ?", prizeID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	if err := q.Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (d *RaffleDAO) EnteredGuestIDs(ctx context.Context, prizeID uint) (map[uint]struct{}, error) {
	var ids []uint

	if err := d.db.WithContext(ctx).Model(&RaffleEntry{}).Where("prize_id = ?", prizeID).Pluck("guest_id", &ids).Error; err != nil {
		return nil, err
	}

	return toSet(ids), nil
}

// WinningGuestIDs returns guests of the event holding a won entry on any prize other than
// excludePrizeID whose name is not excludePrizeName.
func (d *RaffleDAO) WinningGuestIDs(ctx context.Context, eventID, excludePrizeID uint, excludePrizeName string) (map[uint]struct{}, error) {
	var ids []uint

	err := d.db.WithContext(ctx).Model(&RaffleEntry{}).
		Joins("JOIN prizes ON prizes.id = raffle_entries.prize_id").
		Where("raffle_entries.event_id = ? AND raffle_entries.status = ?", eventID, EntryStatusWon).
		Where("raffle_entries.prize_id <> ? AND prizes.name <> ?", excludePrizeID, excludePrizeName).
		Distinct().
		Pluck("raffle_entries.guest_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return toSet(ids), nil
}

func (d *RaffleDAO) HasWonOtherPrize(ctx context.Context, guestID uint, excludePrizeID *uint) (bool, error) {
	var count int64

	q := d.db.WithContext(ctx).Model(&RaffleEntry{}).
		Where("guest_id = ? AND status = ?", guestID, EntryStatusWon)
	if excludePrizeID != nil {
		q = q.Where("prize_id <> ?", *excludePrizeID)
	}

	if err := q.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (d *RaffleDAO) HasCompanyWinnerInEvent(ctx context.Context, eventID uint, company string) (bool, error) {
	return hasCompanyWinner(d.db.WithContext(ctx), eventID, company)
}

func hasCompanyWinner(db *gorm.DB, eventID uint, company string) (bool, error) {
	var count int64

	err := db.Model(&RaffleEntry{}).
		Joins("JOIN guests ON guests.id = raffle_entries.guest_id").
		Where("raffle_entries.event_id = ? AND raffle_entries.status = ? AND guests.company = ?", eventID, EntryStatusWon, company).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// checkExclusiveWin serialises exclusive draws of one event on the event row, so two draws of
// different prizes cannot both hand the same guest a prize, or both crown a capped company.
func checkExclusiveWin(tx *gorm.DB, draw DrawCommit, entry RaffleEntry) error {
	var event Event
	if err := lockForUpdate(tx).Select("id").First(&event, draw.EventID).Error; err != nil {
		return notFound(err, ErrEventNotFound)
	}

	var guest Guest
	if err := lockForUpdate(tx).First(&guest, entry.GuestID).Error; err != nil {
		return notFound(err, ErrGuestNotFound)
	}

	var won int64
	err := tx.Model(&RaffleEntry{}).
		Joins("JOIN prizes ON prizes.id = raffle_entries.prize_id").
		Where("raffle_entries.guest_id = ? AND raffle_entries.status = ?", guest.ID, EntryStatusWon).
		Where("raffle_entries.prize_id <> ? AND prizes.name <> ?", draw.PrizeID, draw.GeneralPrizeName).
		Count(&won).Error
	if err != nil {
		return err
	}
	if won > 0 {
		return ErrConcurrentDrawConflict
	}

	if draw.CapCompany == "" || guest.Company != draw.CapCompany {
		return nil
	}
	capped, err := hasCompanyWinner(tx, draw.EventID, draw.CapCompany)
	if err != nil {
		return err
	}
	if capped {
		return ErrConcurrentDrawConflict
	}

	return nil
}

// CommitDraw marks the entry won, takes one unit of stock and logs the draw in a single transaction.
// The prize row is locked first, then the entry, the same order CancelDraw uses. Exclusive
// draws then lock the event and the guest.
func (d *RaffleDAO) CommitDraw(ctx context.Context, draw DrawCommit) (RaffleEntry, int, error) {
	var (
		entry     RaffleEntry
		remaining int
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prize Prize
		if err := lockForUpdate(tx).First(&prize, draw.PrizeID).Error; err != nil {
			return notFound(err, ErrPrizeNotFound)
		}
		if prize.Stock <= 0 {
			return ErrStockExhausted
		}

		if err := lockForUpdate(tx).First(&entry, draw.EntryID).Error; err != nil {
			return notFound(err, ErrEntryNotFound)
		}
		if entry.Status != EntryStatusPending || entry.PrizeID == nil || *entry.PrizeID != draw.PrizeID {
			return ErrConcurrentDrawConflict
		}
		if draw.Exclusive {
			if err := checkExclusiveWin(tx, draw, entry); err != nil {
				return err
			}
		}

		drawnAt := draw.DrawnAt
		entry.Status = EntryStatusWon
		entry.DrawnAt = &drawnAt
		err := tx.Model(&RaffleEntry{ID: entry.ID}).Updates(map[string]interface{}{
			"status":   EntryStatusWon,
			"drawn_at": drawnAt,
		}).Error
		if err != nil {
			return err
		}

		result := tx.Model(&Prize{}).
			Where("id = ? AND stock > 0", prize.ID).
			UpdateColumn("stock", gorm.Expr("stock - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStockExhausted
		}
		remaining = prize.Stock - 1

		return tx.Create(&RaffleLog{
			DrawID:     draw.DrawID,
			EventID:    draw.EventID,
			UserID:     draw.UserID,
			PrizeID:    prize.ID,
			GuestID:    entry.GuestID,
			EntryID:    entry.ID,
			RaffleType: draw.RaffleType,
			Seed:       draw.Seed,
			Candidates: draw.Candidates,
			Confirmed:  true,
			CreatedAt:  drawnAt,
		}).Error
	})
	if err != nil {
		return RaffleEntry{}, 0, err
	}

	return entry, remaining, nil
}

// CancelDraw reverts a won entry to pending and gives its unit of stock back to the prize.
func (d *RaffleDAO) CancelDraw(ctx context.Context, entryID uint) (RaffleEntry, int, error) {
	var current RaffleEntry
	if err := d.db.WithContext(ctx).First(&current, entryID).Error; err != nil {
		return RaffleEntry{}, 0, notFound(err, ErrEntryNotFound)
	}
	if current.PrizeID == nil {
		return RaffleEntry{}, 0, ErrEntryNotWon
	}

	var (
		entry RaffleEntry
		stock int
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prize Prize
		if err := lockForUpdate(tx).First(&prize, *current.PrizeID).Error; err != nil {
			return notFound(err, ErrPrizeNotFound)
		}

		if err := lockForUpdate(tx).First(&entry, entryID).Error; err != nil {
			return notFound(err, ErrEntryNotFound)
		}
		if entry.Status != EntryStatusWon {
			return ErrEntryNotWon
		}

		entry.Status = EntryStatusPending
		entry.DrawnAt = nil
		entry.PrizeDelivered = false
		entry.DeliveredAt = nil
		entry.DeliveredBy = nil
		err := tx.Model(&RaffleEntry{ID: entry.ID}).Updates(map[string]interface{}{
			"status":          EntryStatusPending,
			"drawn_at":        nil,
			"prize_delivered": false,
			"delivered_at":    nil,
			"delivered_by":    nil,
		}).Error
		if err != nil {
			return err
		}

		if err := tx.Model(&Prize{}).Where("id = ?", prize.ID).UpdateColumn("stock", gorm.Expr("stock + 1")).Error; err != nil {
			return err
		}
		stock = prize.Stock + 1

		return tx.Model(&RaffleLog{}).
			Where("prize_id = ? AND guest_id = ? AND confirmed = ?", prize.ID, entry.GuestID, true).
			Update("confirmed", false).Error
	})
	if err != nil {
		return RaffleEntry{}, 0, err
	}

	return entry, stock, nil
}

func (d *RaffleDAO) DeleteEntry(ctx context.Context, id uint) (RaffleEntry, error) {
	var entry RaffleEntry

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&entry, id).Error; err != nil {
			return notFound(err, ErrEntryNotFound)
		}
		if entry.Status == EntryStatusWon {
			return ErrCannotDeleteWinner
		}

		return tx.Delete(&RaffleEntry{}, id).Error
	})
	if err != nil {
		return RaffleEntry{}, err
	}

	return entry, nil
}

func (d *RaffleDAO) MarkDelivered(ctx context.Context, id uint, by *uint, at time.Time) (RaffleEntry, error) {
	var entry RaffleEntry

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&entry, id).Error; err != nil {
			return notFound(err, ErrEntryNotFound)
		}
		if entry.Status != EntryStatusWon {
			return ErrEntryNotWon
		}

		entry.PrizeDelivered = true
		entry.DeliveredAt = &at
		entry.DeliveredBy = by

		return tx.Model(&RaffleEntry{ID: entry.ID}).Updates(map[string]interface{}{
			"prize_delivered": true,
			"delivered_at":    at,
			"delivered_by":    by,
		}).Error
	})
	if err != nil {
		return RaffleEntry{}, err
	}

	return entry, nil
}

// ResetEventResult counts the rows undone by ResetEvent.
type ResetEventResult struct {
	EntriesDeleted int64
	LogsDeleted    int64
	StockRestored  int64
}

// ResetEvent gives every won unit back to its prize and deletes the event's entries and draw logs,
// in one transaction. The event's prizes are locked first, as CommitDraw and CancelDraw do.
func (d *RaffleDAO) ResetEvent(ctx context.Context, eventID uint) (ResetEventResult, error) {
	var res ResetEventResult

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prizes []Prize
		if err := lockForUpdate(tx).Where("event_id = ?", eventID).Order("id").Find(&prizes).Error; err != nil {
			return err
		}

		for _, prize := range prizes {
			var won int64
			err := tx.Model(&RaffleEntry{}).
				Where("prize_id = ? AND status = ?", prize.ID, EntryStatusWon).
				Count(&won).Error
			if err != nil {
				return err
			}
			if won == 0 {
				continue
			}

			if err = tx.Model(&Prize{}).Where("id = ?", prize.ID).UpdateColumn("stock", gorm.Expr("stock + ?", won)).Error; err != nil {
				return err
			}
			res.StockRestored += won
		}

		entries := tx.Where("event_id = ?", eventID).Delete(&RaffleEntry{})
		if entries.Error != nil {
			return entries.Error
		}
		res.EntriesDeleted = entries.RowsAffected

		logs := tx.Where("event_id = ?", eventID).Delete(&RaffleLog{})
		if logs.Error != nil {
			return logs.Error
		}
		res.LogsDeleted = logs.RowsAffected

		return nil
	})
	if err != nil {
		return ResetEventResult{}, err
	}

	return res, nil
}

func (d *RaffleDAO) FindLogsByEvent(ctx context.Context, eventID uint) ([]RaffleLog, error) {
	var logs []RaffleLog

	err := d.db.WithContext(ctx).Preload("Guest").Preload("Prize").
		Where("event_id = ?", eventID).
		Order("created_at DESC, id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return logs, nil
}

func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
