package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository/dao"
)

type RaffleDAO interface {
	InsertEntries(ctx context.Context, entries []dao.RaffleEntry) (int64, error)
	InsertEntry(ctx context.Context, entry dao.RaffleEntry) (dao.RaffleEntry, error)
	FindEntryByID(ctx context.Context, id uint) (dao.RaffleEntry, error)
	FindEntry(ctx context.Context, guestID, prizeID uint) (dao.RaffleEntry, error)
	FindEntriesByPrize(ctx context.Context, prizeID uint, status string) ([]dao.RaffleEntry, error)
	EnteredGuestIDs(ctx context.Context, prizeID uint) (map[uint]struct{}, error)
	WinningGuestIDs(ctx context.Context, eventID, excludePrizeID uint, excludePrizeName string) (map[uint]struct{}, error)
	HasWonOtherPrize(ctx context.Context, guestID uint, excludePrizeID *uint) (bool, error)
	HasCompanyWinnerInEvent(ctx context.Context, eventID uint, company string) (bool, error)
	CommitDraw(ctx context.Context, draw dao.DrawCommit) (dao.RaffleEntry, int, error)
	CancelDraw(ctx context.Context, entryID uint) (dao.RaffleEntry, int, error)
	DeleteEntry(ctx context.Context, id uint) (dao.RaffleEntry, error)
	MarkDelivered(ctx context.Context, id uint, by *uint, at time.Time) (dao.RaffleEntry, error)
	FindLogsByEvent(ctx context.Context, eventID uint) ([]dao.RaffleLog, error)
	ResetEvent(ctx context.Context, eventID uint) (dao.ResetEventResult, error)
}

type RaffleRepository struct {
	dao RaffleDAO
}

func NewRaffleRepository(dao RaffleDAO) *RaffleRepository {
	return &RaffleRepository{
		dao: dao,
	}
}

func (r *RaffleRepository) CreateEntries(ctx context.Context, entries []domain.RaffleEntry) (int, error) {
	rows := make([]dao.RaffleEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, entryToDAO(e))
	}

	created, err := r.dao.InsertEntries(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("r.dao.InsertEntries -> %w", err)
	}

	return int(created), nil
}

func (r *RaffleRepository) CreateEntry(ctx context.Context, entry domain.RaffleEntry) (domain.RaffleEntry, error) {
	created, err := r.dao.InsertEntry(ctx, entryToDAO(entry))
	if err != nil {
		return domain.RaffleEntry{}, fmt.Errorf("r.dao.InsertEntry -> %w", err)
	}

	return entryToDomain(created), nil
}

func (r *RaffleRepository) FindEntryByID(ctx context.Context, id uint) (domain.RaffleEntry, error) {
	found, err := r.dao.FindEntryByID(ctx, id)
	if err != nil {
		return domain.RaffleEntry{}, fmt.Errorf("r.dao.FindEntryByID -> %w", err)
	}

	return entryToDomain(found), nil
}

func (r *RaffleRepository) FindEntry(ctx context.Context, guestID, prizeID uint) (domain.RaffleEntry, error) {
	found, err := r.dao.FindEntry(ctx, guestID, prizeID)
	if err != nil {
		return domain.RaffleEntry{}, fmt.Errorf("r.dao.FindEntry -> %w", err)
	}

	return entryToDomain(found), nil
}

func (r *RaffleRepository) FindEntriesByPrize(ctx context.Context, prizeID uint, status domain.EntryStatus) ([]domain.RaffleEntry, error) {
	found, err := r.dao.FindEntriesByPrize(ctx, prizeID, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindEntriesByPrize -> %w", err)
	}

	entries := make([]domain.RaffleEntry, 0, len(found))
	for _, e := range found {
		entries = append(entries, entryToDomain(e))
	}

	return entries, nil
}

func (r *RaffleRepository) EnteredGuestIDs(ctx context.Context, prizeID uint) (map[uint]struct{}, error) {
	ids, err := r.dao.EnteredGuestIDs(ctx, prizeID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.EnteredGuestIDs -> %w", err)
	}

	return ids, nil
}

// OtherPrizeWinners returns the guests holding a won entry on a non-general prize other than prizeID.
func (r *RaffleRepository) OtherPrizeWinners(ctx context.Context, eventID, prizeID uint) (map[uint]struct{}, error) {
	ids, err := r.dao.WinningGuestIDs(ctx, eventID, prizeID, domain.GeneralRafflePrizeName)
	if err != nil {
		return nil, fmt.Errorf("r.dao.WinningGuestIDs -> %w", err)
	}

	return ids, nil
}

func (r *RaffleRepository) HasWonOtherPrize(ctx context.Context, guestID uint, excludePrizeID *uint) (bool, error) {
	won, err := r.dao.HasWonOtherPrize(ctx, guestID, excludePrizeID)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasWonOtherPrize -> %w", err)
	}

	return won, nil
}

func (r *RaffleRepository) HasIMEXWinnerInEvent(ctx context.Context, eventID uint) (bool, error) {
	won, err := r.dao.HasCompanyWinnerInEvent(ctx, eventID, domain.CompanyIMEX)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasCompanyWinnerInEvent -> %w", err)
	}

	return won, nil
}

func (r *RaffleRepository) CommitDraw(ctx context.Context, draw domain.DrawCommit) (domain.RaffleEntry, int, error) {
	entry, remaining, err := r.dao.CommitDraw(ctx, dao.DrawCommit{
		DrawID:     draw.DrawID,
		EventID:    draw.EventID,
		PrizeID:    draw.PrizeID,
		EntryID:    draw.EntryID,
		UserID:     draw.ActorID,
		RaffleType: draw.RaffleType,
		Seed:       draw.Seed,
		Candidates: draw.Candidates,
		DrawnAt:    draw.DrawnAt,

		Exclusive:        draw.Exclusive,
		GeneralPrizeName: domain.GeneralRafflePrizeName,
		CapCompany:       domain.CompanyIMEX,
	})
	if err != nil {
		return domain.RaffleEntry{}, 0, fmt.Errorf("r.dao.CommitDraw -> %w", err)
	}

	return entryToDomain(entry), remaining, nil
}

func (r *RaffleRepository) CancelDraw(ctx context.Context, entryID uint) (domain.RaffleEntry, int, error) {
	entry, stock, err := r.dao.CancelDraw(ctx, entryID)
	if err != nil {
		return domain.RaffleEntry{}, 0, fmt.Errorf("r.dao.CancelDraw -> %w", err)
	}

	return entryToDomain(entry), stock, nil
}

func (r *RaffleRepository) DeleteEntry(ctx context.Context, id uint) (domain.RaffleEntry, error) {
	deleted, err := r.dao.DeleteEntry(ctx, id)
	if err != nil {
		return domain.RaffleEntry{}, fmt.Errorf("r.dao.DeleteEntry -> %w", err)
	}

	return entryToDomain(deleted), nil
}

func (r *RaffleRepository) MarkDelivered(ctx context.Context, id uint, by *uint, at time.Time) (domain.RaffleEntry, error) {
	entry, err := r.dao.MarkDelivered(ctx, id, by, at)
	if err != nil {
		return domain.RaffleEntry{}, fmt.Errorf("r.dao.MarkDelivered -> %w", err)
	}

	return entryToDomain(entry), nil
}

func (r *RaffleRepository) FindLogsByEvent(ctx context.Context, eventID uint) ([]domain.RaffleLog, error) {
	found, err := r.dao.FindLogsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindLogsByEvent -> %w", err)
	}

	logs := make([]domain.RaffleLog, 0, len(found))
	for _, l := range found {
		logs = append(logs, raffleLogToDomain(l))
	}

	return logs, nil
}

func (r *RaffleRepository) ResetEvent(ctx context.Context, eventID uint) (domain.RaffleReset, error) {
	res, err := r.dao.ResetEvent(ctx, eventID)
	if err != nil {
		return domain.RaffleReset{}, fmt.Errorf("r.dao.ResetEvent -> %w", err)
	}

	return domain.RaffleReset{
		EventID:        eventID,
		EntriesDeleted: res.EntriesDeleted,
		LogsDeleted:    res.LogsDeleted,
		StockRestored:  res.StockRestored,
	}, nil
}
