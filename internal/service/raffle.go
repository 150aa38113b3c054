package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/clock"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/random"
)

const DefaultGeneralPoolSize = 15

type RaffleRepository interface {
	CreateEntries(ctx context.Context, entries []domain.RaffleEntry) (int, error)
	CreateEntry(ctx context.Context, entry domain.RaffleEntry) (domain.RaffleEntry, error)
	FindEntryByID(ctx context.Context, id uint) (domain.RaffleEntry, error)
	FindEntry(ctx context.Context, guestID, prizeID uint) (domain.RaffleEntry, error)
	FindEntriesByPrize(ctx context.Context, prizeID uint, status domain.EntryStatus) ([]domain.RaffleEntry, error)
	EnteredGuestIDs(ctx context.Context, prizeID uint) (map[uint]struct{}, error)
	CommitDraw(ctx context.Context, draw domain.DrawCommit) (domain.RaffleEntry, int, error)
	CancelDraw(ctx context.Context, entryID uint) (domain.RaffleEntry, int, error)
	DeleteEntry(ctx context.Context, id uint) (domain.RaffleEntry, error)
	MarkDelivered(ctx context.Context, id uint, by *uint, at time.Time) (domain.RaffleEntry, error)
	FindLogsByEvent(ctx context.Context, eventID uint) ([]domain.RaffleLog, error)
	ResetEvent(ctx context.Context, eventID uint) (domain.RaffleReset, error)
}

type RafflePrizeRepository interface {
	Create(ctx context.Context, prize domain.Prize) (domain.Prize, error)
	FindByID(ctx context.Context, id uint) (domain.Prize, error)
	FindGeneralPool(ctx context.Context, eventID uint) (domain.Prize, error)
	FindByEvent(ctx context.Context, eventID uint, activeOnly, includeGeneral bool) ([]domain.Prize, error)
}

type RaffleGuestRepository interface {
	FindByEvent(ctx context.Context, eventID uint) ([]domain.Guest, error)
}

type RaffleEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

// Eligibility builds the candidate predicate for a prize and mode.
type Eligibility interface {
	Filter(ctx context.Context, prize domain.Prize, mode domain.RaffleMode) (func(domain.Guest) bool, error)
}

type RaffleService struct {
	repo        RaffleRepository
	prizes      RafflePrizeRepository
	guests      RaffleGuestRepository
	events      RaffleEventRepository
	eligibility Eligibility
	picker      random.Picker
	clock       clock.Clock

	notifier  Notifier
	auditor   Auditor
	publisher Publisher

	generalPoolSize int
	newDrawID       func() string
}

type RaffleServiceOption func(*RaffleService)

func WithRaffleNotifier(n Notifier) RaffleServiceOption {
	return func(s *RaffleService) { s.notifier = n }
}

func WithRaffleAuditor(a Auditor) RaffleServiceOption {
	return func(s *RaffleService) { s.auditor = a }
}

func WithRafflePublisher(p Publisher) RaffleServiceOption {
	return func(s *RaffleService) { s.publisher = p }
}

func WithGeneralPoolSize(size int) RaffleServiceOption {
	return func(s *RaffleService) {
		if size > 0 {
			s.generalPoolSize = size
		}
	}
}

func NewRaffleService(
	repo RaffleRepository,
	prizes RafflePrizeRepository,
	guests RaffleGuestRepository,
	events RaffleEventRepository,
	eligibility Eligibility,
	picker random.Picker,
	clk clock.Clock,
	opts ...RaffleServiceOption,
) *RaffleService {
	s := &RaffleService{
		repo:            repo,
		prizes:          prizes,
		guests:          guests,
		events:          events,
		eligibility:     eligibility,
		picker:          picker,
		clock:           clk,
		notifier:        noopNotifier{},
		auditor:         noopAuditor{},
		publisher:       noopPublisher{},
		generalPoolSize: DefaultGeneralPoolSize,
		newDrawID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *RaffleService) eventPrize(ctx context.Context, eventID, prizeID uint) (domain.Prize, error) {
	prize, err := s.prizes.FindByID(ctx, prizeID)
	if err != nil {
		return domain.Prize{}, fmt.Errorf("s.prizes.FindByID -> %w", err)
	}
	if prize.EventID != eventID {
		return domain.Prize{}, ErrPrizeNotFound
	}

	return prize, nil
}

func (s *RaffleService) eventEntry(ctx context.Context, eventID, entryID uint) (domain.RaffleEntry, error) {
	entry, err := s.repo.FindEntryByID(ctx, entryID)
	if err != nil {
		return domain.RaffleEntry{}, fmt.Errorf("s.repo.FindEntryByID -> %w", err)
	}
	if entry.EventID != eventID {
		return domain.RaffleEntry{}, ErrEntryNotFound
	}

	return entry, nil
}

func checkMode(prize domain.Prize, mode domain.RaffleMode) error {
	if prize.Mode() != mode {
		return fmt.Errorf("%w: prize %q is drawn in %s mode", ErrInvalidRaffleMode, prize.Name, prize.Mode())
	}
	return nil
}

// ListEligibleGuests returns every guest of the event who passes the mode's predicate and draw policy,
// whether or not they hold an entry.
func (s *RaffleService) ListEligibleGuests(ctx context.Context, eventID, prizeID uint, mode domain.RaffleMode) ([]domain.Guest, error) {
	prize, err := s.eventPrize(ctx, eventID, prizeID)
	if err != nil {
		return nil, err
	}
	if err = checkMode(prize, mode); err != nil {
		return nil, err
	}

	return s.eligibleGuests(ctx, prize, mode)
}

func (s *RaffleService) eligibleGuests(ctx context.Context, prize domain.Prize, mode domain.RaffleMode) ([]domain.Guest, error) {
	eligible, err := s.eligibility.Filter(ctx, prize, mode)
	if err != nil {
		return nil, fmt.Errorf("s.eligibility.Filter -> %w", err)
	}

	guests, err := s.guests.FindByEvent(ctx, prize.EventID)
	if err != nil {
		return nil, fmt.Errorf("s.guests.FindByEvent -> %w", err)
	}

	out := make([]domain.Guest, 0, len(guests))
	for _, g := range guests {
		if eligible(g) {
			out = append(out, g)
		}
	}

	return out, nil
}

// CreateEntries enters every eligible guest not yet entered for the prize. Running it twice creates nothing new.
func (s *RaffleService) CreateEntries(ctx context.Context, eventID, prizeID uint, mode domain.RaffleMode) (domain.EntriesResult, error) {
	prize, err := s.eventPrize(ctx, eventID, prizeID)
	if err != nil {
		return domain.EntriesResult{}, err
	}
	if err = checkMode(prize, mode); err != nil {
		return domain.EntriesResult{}, err
	}

	return s.createEntries(ctx, prize, mode)
}

func (s *RaffleService) createEntries(ctx context.Context, prize domain.Prize, mode domain.RaffleMode) (domain.EntriesResult, error) {
	eligible, err := s.eligibleGuests(ctx, prize, mode)
	if err != nil {
		return domain.EntriesResult{}, err
	}

	entered, err := s.repo.EnteredGuestIDs(ctx, prize.ID)
	if err != nil {
		return domain.EntriesResult{}, fmt.Errorf("s.repo.EnteredGuestIDs -> %w", err)
	}

	now := s.clock.Now()
	prizeID := prize.ID
	var entries []domain.RaffleEntry
	for _, g := range eligible {
		if _, ok := entered[g.ID]; ok {
			continue
		}
		entries = append(entries, domain.RaffleEntry{
			EventID:        prize.EventID,
			GuestID:        g.ID,
			PrizeID:        &prizeID,
			Status:         domain.EntryStatusPending,
			ParticipatedAt: now,
		})
	}

	created, err := s.repo.CreateEntries(ctx, entries)
	if err != nil {
		return domain.EntriesResult{}, fmt.Errorf("s.repo.CreateEntries -> %w", err)
	}

	return domain.EntriesResult{
		Created:        created,
		TotalEligible:  len(eligible),
		AlreadyEntered: len(eligible) - created,
	}, nil
}

// EnterGuest creates a single pending entry. created is false when the guest was already entered.
func (s *RaffleService) EnterGuest(ctx context.Context, guest domain.Guest, prize domain.Prize, metadata map[string]interface{}) (domain.RaffleEntry, bool, error) {
	prizeID := prize.ID
	entry, err := s.repo.CreateEntry(ctx, domain.RaffleEntry{
		EventID:        prize.EventID,
		GuestID:        guest.ID,
		PrizeID:        &prizeID,
		Status:         domain.EntryStatusPending,
		ParticipatedAt: s.clock.Now(),
		Metadata:       metadata,
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyEntered) {
			return domain.RaffleEntry{}, false, nil
		}
		return domain.RaffleEntry{}, false, fmt.Errorf("s.repo.CreateEntry -> %w", err)
	}

	return entry, true, nil
}

// AutoEnter enters a guest who just arrived into every active prize they qualify for.
// Errors are logged and skipped; it returns how many entries were created.
func (s *RaffleService) AutoEnter(ctx context.Context, guest domain.Guest, attendanceID uint) int {
	prizes, err := s.prizes.FindByEvent(ctx, guest.EventID, true, true)
	if err != nil {
		zap.L().Warn("auto entry: list prizes failed", zap.Uint("event_id", guest.EventID), zap.Error(err))
		return 0
	}

	created := 0
	for _, prize := range prizes {
		var eligible bool
		if prize.IsGeneralPool() {
			eligible = domain.CanParticipateInGeneralRaffle(guest, true)
		} else {
			eligible = domain.CanParticipateInPublicRaffle(guest, prize)
		}
		if !eligible {
			continue
		}

		_, ok, err := s.EnterGuest(ctx, guest, prize, map[string]interface{}{
			"auto_entered":  true,
			"entered_by":    "attendance_scan",
			"attendance_id": attendanceID,
		})
		if err != nil {
			zap.L().Warn("auto entry failed",
				zap.Uint("guest_id", guest.ID), zap.Uint("prize_id", prize.ID), zap.Error(err))
			continue
		}
		if ok {
			created++
		}
	}

	return created
}

func (s *RaffleService) ListEntries(ctx context.Context, eventID, prizeID uint) ([]domain.RaffleEntry, error) {
	if _, err := s.eventPrize(ctx, eventID, prizeID); err != nil {
		return nil, err
	}

	entries, err := s.repo.FindEntriesByPrize(ctx, prizeID, "")
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindEntriesByPrize -> %w", err)
	}

	return entries, nil
}

// DrawWinner picks one pending, eligible entry of the prize uniformly at random and records it as won.
func (s *RaffleService) DrawWinner(ctx context.Context, eventID, prizeID uint, mode domain.RaffleMode, notify bool) (domain.DrawResult, error) {
	prize, err := s.eventPrize(ctx, eventID, prizeID)
	if err != nil {
		return domain.DrawResult{}, err
	}
	if err = checkMode(prize, mode); err != nil {
		return domain.DrawResult{}, err
	}

	return s.draw(ctx, prize, mode, nil, notify)
}

// draw retries once when the chosen entry was taken by a concurrent draw.
func (s *RaffleService) draw(ctx context.Context, prize domain.Prize, mode domain.RaffleMode, exclude map[uint]struct{}, notify bool) (domain.DrawResult, error) {
	res, err := s.drawOnce(ctx, prize, mode, exclude)
	if errors.Is(err, ErrConcurrentDrawConflict) {
		zap.L().Info("draw conflict, retrying", zap.Uint("prize_id", prize.ID))

		if prize, err = s.prizes.FindByID(ctx, prize.ID); err != nil {
			return domain.DrawResult{}, fmt.Errorf("s.prizes.FindByID -> %w", err)
		}
		res, err = s.drawOnce(ctx, prize, mode, exclude)
	}
	if err != nil {
		return domain.DrawResult{}, err
	}

	s.afterDraw(ctx, prize, res, domain.AuditActionDraw, notify)

	return res, nil
}

func (s *RaffleService) drawOnce(ctx context.Context, prize domain.Prize, mode domain.RaffleMode, exclude map[uint]struct{}) (domain.DrawResult, error) {
	if prize.Stock <= 0 {
		return domain.DrawResult{}, ErrStockExhausted
	}

	candidates, err := s.candidates(ctx, prize, mode, exclude)
	if err != nil {
		return domain.DrawResult{}, err
	}
	if len(candidates) == 0 {
		return domain.DrawResult{}, ErrNoEligibleCandidates
	}

	idx, seed, err := s.picker.Pick(len(candidates))
	if err != nil {
		return domain.DrawResult{}, fmt.Errorf("s.picker.Pick -> %w", err)
	}
	chosen := candidates[idx]

	return s.commit(ctx, prize, chosen, string(mode), seed, len(candidates), mode == domain.RaffleModePublic)
}

func (s *RaffleService) commit(ctx context.Context, prize domain.Prize, chosen domain.RaffleEntry, raffleType string, seed int64, candidates int, exclusive bool) (domain.DrawResult, error) {
	drawID := s.newDrawID()
	entry, remaining, err := s.repo.CommitDraw(ctx, domain.DrawCommit{
		DrawID:     drawID,
		EventID:    prize.EventID,
		PrizeID:    prize.ID,
		EntryID:    chosen.ID,
		ActorID:    ActorFromContext(ctx).UserID,
		RaffleType: raffleType,
		Seed:       seed,
		Candidates: candidates,
		DrawnAt:    s.clock.Now(),
		Exclusive:  exclusive,
	})
	if err != nil {
		return domain.DrawResult{}, fmt.Errorf("s.repo.CommitDraw -> %w", err)
	}

	entry.Guest = chosen.Guest
	res := domain.DrawResult{
		DrawID:              drawID,
		Entry:               entry,
		PrizeRemainingStock: remaining,
		Seed:                seed,
		Candidates:          candidates,
	}
	if chosen.Guest != nil {
		res.Winner = *chosen.Guest
	}

	return res, nil
}

// candidates returns the pending entries of the prize whose guests pass the eligibility filter, in entry order.
func (s *RaffleService) candidates(ctx context.Context, prize domain.Prize, mode domain.RaffleMode, exclude map[uint]struct{}) ([]domain.RaffleEntry, error) {
	entries, err := s.repo.FindEntriesByPrize(ctx, prize.ID, domain.EntryStatusPending)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindEntriesByPrize -> %w", err)
	}

	eligible, err := s.eligibility.Filter(ctx, prize, mode)
	if err != nil {
		return nil, fmt.Errorf("s.eligibility.Filter -> %w", err)
	}

	out := make([]domain.RaffleEntry, 0, len(entries))
	for _, e := range entries {
		if e.Guest == nil {
			continue
		}
		if _, skip := exclude[e.GuestID]; skip {
			continue
		}
		if eligible(*e.Guest) {
			out = append(out, e)
		}
	}

	return out, nil
}

func (s *RaffleService) afterDraw(ctx context.Context, prize domain.Prize, res domain.DrawResult, action string, notify bool) {
	if notify && res.Winner.HasEmail() {
		s.notifier.Dispatch(ctx, domain.Notification{
			Kind:      domain.NotificationRaffleWinner,
			EventID:   prize.EventID,
			GuestID:   res.Winner.ID,
			GuestName: res.Winner.FullName,
			Email:     res.Winner.Email,
			PrizeID:   prize.ID,
			PrizeName: prize.Name,
		})
	}

	s.auditor.Record(ctx, domain.ChangeRecord{
		Action:      action,
		EntityType:  domain.EntityRaffleEntry,
		EntityID:    res.Entry.ID,
		EventID:     prize.EventID,
		Description: fmt.Sprintf("%s won %s", res.Winner.FullName, prize.Name),
		OldValues:   map[string]interface{}{"status": string(domain.EntryStatusPending)},
		NewValues:   domain.AuditValues(res.Entry),
		Actor:       ActorFromContext(ctx),
		Timestamp:   s.clock.Now(),
	})

	s.publisher.Publish(ctx, domain.TopicWinnerDrawn, prize.EventID, res)
}

// SelectWinner records a manual pick of the guest's pending entry through the same locked path as a draw.
func (s *RaffleService) SelectWinner(ctx context.Context, eventID, prizeID, guestID uint, notify bool) (domain.DrawResult, error) {
	prize, err := s.eventPrize(ctx, eventID, prizeID)
	if err != nil {
		return domain.DrawResult{}, err
	}
	if prize.Stock <= 0 {
		return domain.DrawResult{}, ErrStockExhausted
	}

	entry, err := s.repo.FindEntry(ctx, guestID, prizeID)
	if err != nil {
		return domain.DrawResult{}, fmt.Errorf("s.repo.FindEntry -> %w", err)
	}

	res, err := s.commit(ctx, prize, entry, domain.RaffleTypeManual, 0, 1, false)
	if err != nil {
		return domain.DrawResult{}, err
	}

	s.afterDraw(ctx, prize, res, domain.AuditActionSelectWinner, notify)

	return res, nil
}

// CancelDraw reverts a won entry to pending and restores one unit of stock.
func (s *RaffleService) CancelDraw(ctx context.Context, eventID, entryID uint) (domain.RaffleEntry, error) {
	return s.cancel(ctx, eventID, entryID, "draw cancelled")
}

// ResetEntry reopens a won entry. It shares the cancellation path.
func (s *RaffleService) ResetEntry(ctx context.Context, eventID, entryID uint) (domain.RaffleEntry, error) {
	return s.cancel(ctx, eventID, entryID, "entry reset")
}

func (s *RaffleService) cancel(ctx context.Context, eventID, entryID uint, description string) (domain.RaffleEntry, error) {
	current, err := s.eventEntry(ctx, eventID, entryID)
	if err != nil {
		return domain.RaffleEntry{}, err
	}

	entry, stock, err := s.repo.CancelDraw(ctx, entryID)
	if err != nil {
		return domain.RaffleEntry{}, fmt.Errorf("s.repo.CancelDraw -> %w", err)
	}
	entry.Guest = current.Guest

	s.auditor.Record(ctx, domain.ChangeRecord{
		Action:      domain.AuditActionCancelDraw,
		EntityType:  domain.EntityRaffleEntry,
		EntityID:    entry.ID,
		EventID:     eventID,
		Description: description,
		OldValues:   domain.AuditValues(current),
		NewValues:   domain.AuditValues(entry),
		Actor:       ActorFromContext(ctx),
		Timestamp:   s.clock.Now(),
	})

	s.publisher.Publish(ctx, domain.TopicDrawCancelled, eventID, map[string]interface{}{
		"entry_id":    entry.ID,
		"guest_id":    entry.GuestID,
		"prize_id":    entry.PrizeID,
		"prize_stock": stock,
	})

	return entry, nil
}

// DeleteEntry removes a pending or lost entry. Winners must be cancelled first.
func (s *RaffleService) DeleteEntry(ctx context.Context, eventID, entryID uint) error {
	if _, err := s.eventEntry(ctx, eventID, entryID); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("s.repo.DeleteEntry -> %w", err)
	}

	s.auditor.Record(ctx, domain.ChangeRecord{
		Action:     domain.AuditActionDeleted,
		EntityType: domain.EntityRaffleEntry,
		EntityID:   deleted.ID,
		EventID:    eventID,
		OldValues:  domain.AuditValues(deleted),
		Actor:      ActorFromContext(ctx),
		Timestamp:  s.clock.Now(),
	})

	return nil
}

func (s *RaffleService) MarkDelivered(ctx context.Context, eventID, entryID uint) (domain.RaffleEntry, error) {
	if _, err := s.eventEntry(ctx, eventID, entryID); err != nil {
		return domain.RaffleEntry{}, err
	}

	actor := ActorFromContext(ctx)
	entry, err := s.repo.MarkDelivered(ctx, entryID, actor.UserID, s.clock.Now())
	if err != nil {
		return domain.RaffleEntry{}, fmt.Errorf("s.repo.MarkDelivered -> %w", err)
	}

	s.auditor.Record(ctx, domain.ChangeRecord{
		Action:     domain.AuditActionDeliver,
		EntityType: domain.EntityRaffleEntry,
		EntityID:   entry.ID,
		EventID:    eventID,
		OldValues:  map[string]interface{}{"prize_delivered": false},
		NewValues:  domain.AuditValues(entry),
		Actor:      actor,
		Timestamp:  s.clock.Now(),
	})

	return entry, nil
}

// GetOrCreateGeneralPrize returns the event's general pool prize, creating it on first use.
func (s *RaffleService) GetOrCreateGeneralPrize(ctx context.Context, eventID uint) (domain.Prize, error) {
	prize, err := s.prizes.FindGeneralPool(ctx, eventID)
	if err == nil {
		return prize, nil
	}
	if !errors.Is(err, ErrPrizeNotFound) {
		return domain.Prize{}, fmt.Errorf("s.prizes.FindGeneralPool -> %w", err)
	}

	if _, err = s.events.FindByID(ctx, eventID); err != nil {
		return domain.Prize{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	prize, err = s.prizes.Create(ctx, domain.Prize{
		EventID:      eventID,
		Name:         domain.GeneralRafflePrizeName,
		Description:  "Premio de la rifa general entre asistentes",
		Stock:        s.generalPoolSize,
		InitialStock: s.generalPoolSize,
		Active:       true,
	})
	if err != nil {
		return domain.Prize{}, fmt.Errorf("s.prizes.Create -> %w", err)
	}

	return prize, nil
}

// DrawGeneral draws up to count general pool winners, stopping early when candidates or stock run out.
// resetPrevious cancels the current general winners first.
func (s *RaffleService) DrawGeneral(ctx context.Context, eventID uint, count int, notify, resetPrevious bool) (domain.GeneralDrawResult, error) {
	prize, err := s.GetOrCreateGeneralPrize(ctx, eventID)
	if err != nil {
		return domain.GeneralDrawResult{}, err
	}

	if resetPrevious {
		winners, err := s.repo.FindEntriesByPrize(ctx, prize.ID, domain.EntryStatusWon)
		if err != nil {
			return domain.GeneralDrawResult{}, fmt.Errorf("s.repo.FindEntriesByPrize -> %w", err)
		}
		for _, w := range winners {
			if _, err := s.cancel(ctx, eventID, w.ID, "general raffle reset"); err != nil {
				return domain.GeneralDrawResult{}, err
			}
		}

		if prize, err = s.prizes.FindByID(ctx, prize.ID); err != nil {
			return domain.GeneralDrawResult{}, fmt.Errorf("s.prizes.FindByID -> %w", err)
		}
	}

	if _, err = s.createEntries(ctx, prize, domain.RaffleModeGeneral); err != nil {
		return domain.GeneralDrawResult{}, err
	}

	result := domain.GeneralDrawResult{Winners: []domain.DrawResult{}}
	for i := 0; i < count; i++ {
		res, err := s.draw(ctx, prize, domain.RaffleModeGeneral, nil, notify)
		if errors.Is(err, ErrNoEligibleCandidates) || errors.Is(err, ErrStockExhausted) {
			if len(result.Winners) == 0 {
				return domain.GeneralDrawResult{}, err
			}
			break
		}
		if err != nil {
			return domain.GeneralDrawResult{}, err
		}

		result.Winners = append(result.Winners, res)
		prize.Stock = res.PrizeRemainingStock
	}
	result.Count = len(result.Winners)

	return result, nil
}

// ReselectGeneralWinner replaces one general pool winner with a new draw. When nobody else qualifies
// the original winner is restored and ErrNoEligibleCandidates is returned.
func (s *RaffleService) ReselectGeneralWinner(ctx context.Context, eventID, guestID uint, notify bool) (domain.DrawResult, error) {
	prize, err := s.prizes.FindGeneralPool(ctx, eventID)
	if err != nil {
		return domain.DrawResult{}, fmt.Errorf("s.prizes.FindGeneralPool -> %w", err)
	}

	original, err := s.repo.FindEntry(ctx, guestID, prize.ID)
	if err != nil {
		return domain.DrawResult{}, fmt.Errorf("s.repo.FindEntry -> %w", err)
	}
	if !original.IsWinner() {
		return domain.DrawResult{}, ErrEntryNotWon
	}

	if _, err = s.cancel(ctx, eventID, original.ID, "general winner reselected"); err != nil {
		return domain.DrawResult{}, err
	}
	if prize, err = s.prizes.FindByID(ctx, prize.ID); err != nil {
		return domain.DrawResult{}, fmt.Errorf("s.prizes.FindByID -> %w", err)
	}

	res, err := s.draw(ctx, prize, domain.RaffleModeGeneral, map[uint]struct{}{guestID: {}}, notify)
	if errors.Is(err, ErrNoEligibleCandidates) {
		restored, rErr := s.commit(ctx, prize, original, string(domain.RaffleModeGeneral), 0, 0, false)
		if rErr != nil {
			zap.L().Error("restore general winner failed",
				zap.Uint("entry_id", original.ID), zap.Uint("guest_id", guestID), zap.Error(rErr))
		} else {
			s.afterDraw(ctx, prize, restored, domain.AuditActionDraw, false)
		}
		return domain.DrawResult{}, err
	}
	if err != nil {
		return domain.DrawResult{}, err
	}

	return res, nil
}

func (s *RaffleService) RaffleLogs(ctx context.Context, eventID uint) ([]domain.RaffleLog, error) {
	logs, err := s.repo.FindLogsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindLogsByEvent -> %w", err)
	}

	return logs, nil
}

// ResetEventRaffle undoes every raffle of the event: won stock goes back to its prize and all entries
// and draw logs are deleted. Prizes, guests and attendances are kept.
func (s *RaffleService) ResetEventRaffle(ctx context.Context, eventID uint) (domain.RaffleReset, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return domain.RaffleReset{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	res, err := s.repo.ResetEvent(ctx, eventID)
	if err != nil {
		return domain.RaffleReset{}, fmt.Errorf("s.repo.ResetEvent -> %w", err)
	}

	zap.L().Info("raffle reset",
		zap.Uint("event_id", eventID),
		zap.Int64("entries_deleted", res.EntriesDeleted),
		zap.Int64("stock_restored", res.StockRestored),
	)

	s.auditor.Record(ctx, domain.ChangeRecord{
		Action:      domain.AuditActionResetRaffle,
		EntityType:  domain.EntityEvent,
		EntityID:    eventID,
		EventID:     eventID,
		Description: event.Name,
		NewValues:   domain.AuditValues(res),
		Actor:       ActorFromContext(ctx),
		Timestamp:   s.clock.Now(),
	})

	s.publisher.Publish(ctx, domain.TopicRaffleReset, eventID, res)

	return res, nil
}
