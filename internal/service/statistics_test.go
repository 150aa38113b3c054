package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/clock"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository"
)

type statsRepo struct {
	counts repository.EventCounts
}

func (r statsRepo) AttendanceCounts(context.Context, uint) (int64, int64, error) {
	return r.counts.Guests, r.counts.Attendances, nil
}

func (r statsRepo) EventCounts(context.Context, uint) (repository.EventCounts, error) {
	return r.counts, nil
}

func TestAttendanceStats_Rate(t *testing.T) {
	tests := []struct {
		name        string
		guests      int64
		attendances int64
		want        domain.AttendanceStats
	}{
		{"no guests", 0, 0, domain.AttendanceStats{}},
		{"four of ten", 10, 4, domain.AttendanceStats{TotalGuests: 10, TotalAttendances: 4, PendingGuests: 6, AttendanceRate: 40}},
		{"one of three", 3, 1, domain.AttendanceStats{TotalGuests: 3, TotalAttendances: 1, PendingGuests: 2, AttendanceRate: 33.33}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, attendanceStats(tt.guests, tt.attendances))
		})
	}
}

func TestStatisticsService_GetStatistics(t *testing.T) {
	st := newStore()
	st.addEvent(domain.Event{ID: testEventID})
	electronics := "Electrónica"
	st.addPrize(domain.Prize{EventID: testEventID, Name: "Pantalla", Category: &electronics, Stock: 2})
	st.addPrize(domain.Prize{EventID: testEventID, Name: "Tablet", Category: &electronics, Stock: 3})
	st.addPrize(domain.Prize{EventID: testEventID, Name: "Bocina", Stock: 1})
	st.addPrize(domain.Prize{EventID: testEventID, Name: domain.GeneralRafflePrizeName, Stock: 15})

	mexico, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	counts := repository.EventCounts{
		Guests:       10,
		Attendances:  4,
		Winners:      2,
		Participants: 7,
		EntriesByState: map[domain.EntryStatus]int64{
			domain.EntryStatusPending: 5,
			domain.EntryStatusWon:     2,
			domain.EntryStatusLost:    1,
		},
		ScanTimes: []time.Time{
			time.Date(2025, 12, 13, 2, 10, 0, 0, time.UTC),
			time.Date(2025, 12, 13, 2, 50, 0, 0, time.UTC),
			time.Date(2025, 12, 13, 3, 5, 0, 0, time.UTC),
			time.Date(2025, 12, 13, 18, 0, 0, 0, time.UTC),
		},
		ByJobLevel: map[string]int64{"": 1, "Gerente": 3},
		ByWorkArea: map[string]int64{"Operaciones": 4},
	}

	svc := NewStatisticsService(statsRepo{counts}, prizeRepo{st}, raffleRepo{st}, eventRepo{st}, clock.Fixed{At: testNow, Loc: mexico})

	snap, err := svc.GetStatistics(context.Background(), testEventID)
	require.NoError(t, err)

	assert.Equal(t, 40.0, snap.Attendance.AttendanceRate)
	assert.Equal(t, int64(6), snap.Attendance.PendingGuests)
	assert.Equal(t, int64(2), snap.TotalWinners)
	assert.Equal(t, int64(7), snap.TotalParticipants)
	assert.Equal(t, int64(3), snap.TotalPrizes)
	assert.Equal(t, int64(7), snap.ActiveRaffleEntries)
	assert.Equal(t, map[string]int64{electronics: 5, "Sin categoría": 1}, snap.PrizesByCategory)
	assert.Equal(t, map[string]int64{"Sin especificar": 1, "Gerente": 3}, snap.ByJobLevel)

	require.Len(t, snap.HourlyAttendance, 24)
	assert.Equal(t, int64(2), snap.HourlyAttendance["20"])
	assert.Equal(t, int64(1), snap.HourlyAttendance["21"])
	assert.Equal(t, int64(1), snap.HourlyAttendance["12"])
	assert.Equal(t, int64(0), snap.HourlyAttendance["02"])

	_, err = svc.GetStatistics(context.Background(), 99)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestStatisticsService_GetRaffleStatistics(t *testing.T) {
	st := newStore()
	st.addEvent(domain.Event{ID: testEventID})
	st.addPrize(domain.Prize{EventID: testEventID, Name: "Pantalla", Stock: 1, InitialStock: 4})
	st.addPrize(domain.Prize{EventID: testEventID, Name: domain.GeneralRafflePrizeName, Stock: 10, InitialStock: 15})

	counts := repository.EventCounts{EntriesByState: map[domain.EntryStatus]int64{
		domain.EntryStatusPending: 2,
		domain.EntryStatusWon:     8,
	}}
	svc := NewStatisticsService(statsRepo{counts}, prizeRepo{st}, raffleRepo{st}, eventRepo{st}, clock.Fixed{At: testNow})

	stats, err := svc.GetRaffleStatistics(context.Background(), testEventID)
	require.NoError(t, err)

	assert.Equal(t, domain.RaffleOverview{
		TotalPrizes:      2,
		ActivePrizes:     2,
		TotalStock:       11,
		DistributedStock: 8,
		DistributionRate: 42.11,
	}, stats.Overview)
	assert.Equal(t, domain.RaffleParticipation{
		TotalEntries:   10,
		PendingEntries: 2,
		TotalWinners:   8,
		CompletionRate: 80,
	}, stats.Participation)
	assert.Equal(t, []domain.CategoryStock{{Name: "Sin categoría", PrizesCount: 2, TotalStock: 11}}, stats.Categories)
}

func TestStatisticsService_GetPrizeResults(t *testing.T) {
	st := newStore()
	st.addEvent(domain.Event{ID: testEventID})
	prize := st.addPrize(domain.Prize{EventID: testEventID, Name: "Pantalla", Stock: 1})
	ana := st.addGuest(domain.Guest{EventID: testEventID, FullName: "Ana", EmployeeNumber: "1001"})
	luis := st.addGuest(domain.Guest{EventID: testEventID, FullName: "Luis", EmployeeNumber: "1002"})

	won := st.addEntry(ana.ID, prize.ID, domain.EntryStatusWon)
	drawnAt := testNow
	won.DrawnAt = &drawnAt
	st.entries[won.ID] = won
	st.addEntry(luis.ID, prize.ID, domain.EntryStatusPending)

	svc := NewStatisticsService(statsRepo{}, prizeRepo{st}, raffleRepo{st}, eventRepo{st}, clock.Fixed{At: testNow})

	res, err := svc.GetPrizeResults(context.Background(), testEventID, prize.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.PrizeResultSummary{TotalEntries: 2, Winners: 1, Pending: 1, StockRemaining: 1}, res.Summary)
	require.Len(t, res.Winners, 1)
	assert.Equal(t, "Ana", res.Winners[0].GuestName)
	assert.Equal(t, "1001", res.Winners[0].EmployeeNumber)
	assert.Equal(t, map[string]int{"2025-12-12 20:00": 2}, res.Timeline)

	_, err = svc.GetPrizeResults(context.Background(), 2, prize.ID)
	assert.ErrorIs(t, err, ErrPrizeNotFound)
}
