package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/clock"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository"
)

const (
	uncategorized = "Sin categoría"
	unspecified   = "Sin especificar"
)

type StatisticsRepository interface {
	AttendanceCounts(ctx context.Context, eventID uint) (guests, attendances int64, err error)
	EventCounts(ctx context.Context, eventID uint) (repository.EventCounts, error)
}

type StatisticsPrizeRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Prize, error)
	FindByEvent(ctx context.Context, eventID uint, activeOnly, includeGeneral bool) ([]domain.Prize, error)
}

type StatisticsEntryRepository interface {
	FindEntriesByPrize(ctx context.Context, prizeID uint, status domain.EntryStatus) ([]domain.RaffleEntry, error)
}

// StatisticsService recomputes every figure on each call.
type StatisticsService struct {
	repo    StatisticsRepository
	prizes  StatisticsPrizeRepository
	entries StatisticsEntryRepository
	events  RaffleEventRepository
	clock   clock.Clock
}

func NewStatisticsService(repo StatisticsRepository, prizes StatisticsPrizeRepository, entries StatisticsEntryRepository, events RaffleEventRepository, clk clock.Clock) *StatisticsService {
	return &StatisticsService{
		repo:    repo,
		prizes:  prizes,
		entries: entries,
		events:  events,
		clock:   clk,
	}
}

func (s *StatisticsService) AttendanceStats(ctx context.Context, eventID uint) (domain.AttendanceStats, error) {
	guests, attendances, err := s.repo.AttendanceCounts(ctx, eventID)
	if err != nil {
		return domain.AttendanceStats{}, fmt.Errorf("s.repo.AttendanceCounts -> %w", err)
	}

	return attendanceStats(guests, attendances), nil
}

func attendanceStats(guests, attendances int64) domain.AttendanceStats {
	pending := guests - attendances
	if pending < 0 {
		pending = 0
	}

	return domain.AttendanceStats{
		TotalGuests:      guests,
		TotalAttendances: attendances,
		PendingGuests:    pending,
		AttendanceRate:   domain.Percentage(attendances, guests),
	}
}

func (s *StatisticsService) GetStatistics(ctx context.Context, eventID uint) (domain.StatsSnapshot, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return domain.StatsSnapshot{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	counts, err := s.repo.EventCounts(ctx, eventID)
	if err != nil {
		return domain.StatsSnapshot{}, fmt.Errorf("s.repo.EventCounts -> %w", err)
	}

	prizes, err := s.prizes.FindByEvent(ctx, eventID, false, false)
	if err != nil {
		return domain.StatsSnapshot{}, fmt.Errorf("s.prizes.FindByEvent -> %w", err)
	}

	byCategory := make(map[string]int64)
	for _, p := range prizes {
		byCategory[categoryName(p.Category)] += int64(p.Stock)
	}

	hourly := make(map[string]int64, 24)
	for h := 0; h < 24; h++ {
		hourly[fmt.Sprintf("%02d", h)] = 0
	}
	for _, t := range counts.ScanTimes {
		hourly[t.In(s.clock.Location()).Format("15")]++
	}

	return domain.StatsSnapshot{
		EventID:             eventID,
		Attendance:          attendanceStats(counts.Guests, counts.Attendances),
		TotalWinners:        counts.Winners,
		TotalParticipants:   counts.Participants,
		TotalPrizes:         int64(len(prizes)),
		ActiveRaffleEntries: counts.EntriesByState[domain.EntryStatusPending] + counts.EntriesByState[domain.EntryStatusWon],
		PrizesByCategory:    byCategory,
		HourlyAttendance:    hourly,
		ByJobLevel:          labelled(counts.ByJobLevel),
		ByWorkArea:          labelled(counts.ByWorkArea),
	}, nil
}

func (s *StatisticsService) GetRaffleStatistics(ctx context.Context, eventID uint) (domain.RaffleStatistics, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return domain.RaffleStatistics{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	prizes, err := s.prizes.FindByEvent(ctx, eventID, false, true)
	if err != nil {
		return domain.RaffleStatistics{}, fmt.Errorf("s.prizes.FindByEvent -> %w", err)
	}

	counts, err := s.repo.EventCounts(ctx, eventID)
	if err != nil {
		return domain.RaffleStatistics{}, fmt.Errorf("s.repo.EventCounts -> %w", err)
	}

	var (
		overview   domain.RaffleOverview
		initial    int64
		categories = map[string]*domain.CategoryStock{}
	)
	for _, p := range prizes {
		overview.TotalPrizes++
		if p.Active {
			overview.ActivePrizes++
		}
		overview.TotalStock += int64(p.Stock)
		initial += int64(p.InitialStock)

		name := categoryName(p.Category)
		c, ok := categories[name]
		if !ok {
			c = &domain.CategoryStock{Name: name}
			categories[name] = c
		}
		c.PrizesCount++
		c.TotalStock += int64(p.Stock)
	}
	overview.DistributedStock = initial - overview.TotalStock
	overview.DistributionRate = domain.Percentage(overview.DistributedStock, initial)

	var total int64
	for _, n := range counts.EntriesByState {
		total += n
	}
	pending := counts.EntriesByState[domain.EntryStatusPending]

	out := domain.RaffleStatistics{
		Overview: overview,
		Participation: domain.RaffleParticipation{
			TotalEntries:   total,
			PendingEntries: pending,
			TotalWinners:   counts.EntriesByState[domain.EntryStatusWon],
			CompletionRate: domain.Percentage(total-pending, total),
		},
		Categories: make([]domain.CategoryStock, 0, len(categories)),
	}
	for _, c := range categories {
		out.Categories = append(out.Categories, *c)
	}
	sort.Slice(out.Categories, func(i, j int) bool { return out.Categories[i].Name < out.Categories[j].Name })

	return out, nil
}

func (s *StatisticsService) GetPrizeResults(ctx context.Context, eventID, prizeID uint) (domain.PrizeResults, error) {
	prize, err := s.prizes.FindByID(ctx, prizeID)
	if err != nil {
		return domain.PrizeResults{}, fmt.Errorf("s.prizes.FindByID -> %w", err)
	}
	if prize.EventID != eventID {
		return domain.PrizeResults{}, ErrPrizeNotFound
	}

	entries, err := s.entries.FindEntriesByPrize(ctx, prizeID, "")
	if err != nil {
		return domain.PrizeResults{}, fmt.Errorf("s.entries.FindEntriesByPrize -> %w", err)
	}

	results := domain.PrizeResults{
		Prize:    prize,
		Winners:  []domain.PrizeWinner{},
		Timeline: map[string]int{},
	}
	results.Summary.TotalEntries = len(entries)
	results.Summary.StockRemaining = prize.Stock

	loc := s.clock.Location()
	for _, e := range entries {
		switch e.Status {
		case domain.EntryStatusWon:
			results.Summary.Winners++
			results.Winners = append(results.Winners, prizeWinner(e, loc))
		case domain.EntryStatusLost:
			results.Summary.Losers++
		case domain.EntryStatusPending:
			results.Summary.Pending++
		}
		results.Timeline[e.CreatedAt.In(loc).Format("2006-01-02 15:00")]++
	}
	results.Summary.IsComplete = results.Summary.Pending == 0

	return results, nil
}

func prizeWinner(e domain.RaffleEntry, loc *time.Location) domain.PrizeWinner {
	w := domain.PrizeWinner{
		Delivered: e.PrizeDelivered,
		Metadata:  e.Metadata,
	}
	if e.Guest != nil {
		w.GuestName = e.Guest.FullName
		w.EmployeeNumber = e.Guest.EmployeeNumber
	}
	if e.DrawnAt != nil {
		wonAt := e.DrawnAt.In(loc).Format(time.RFC3339)
		w.WonAt = &wonAt
	}

	return w
}

func categoryName(c *string) string {
	if c == nil || *c == "" {
		return uncategorized
	}
	return *c
}

func labelled(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		if k == "" {
			k = unspecified
		}
		out[k] += v
	}
	return out
}
