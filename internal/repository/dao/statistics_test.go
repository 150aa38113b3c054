package dao

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsDAO_Counts(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 2, 4)
	general := f.addPrize(t, db, generalPrizeName, 15)
	bici := f.addPrize(t, db, "Bicicleta", 1)
	d := NewStatisticsDAO(db)

	f.enter(t, db, f.prize, f.guests[0], EntryStatusWon)
	f.enter(t, db, bici, f.guests[0], EntryStatusPending)
	f.enter(t, db, general, f.guests[1], EntryStatusWon)
	f.enter(t, db, f.prize, f.guests[2], EntryStatusPending)

	guests, err := d.CountGuests(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), guests)

	winners, err := d.CountDistinctWinners(ctx, f.event.ID, generalPrizeName)
	require.NoError(t, err)
	assert.Equal(t, int64(1), winners)

	participants, err := d.CountDistinctParticipants(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), participants)

	byStatus, err := d.CountEntriesByStatus(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{EntryStatusWon: 2, EntryStatusPending: 2}, byStatus)

	winners, err = d.CountDistinctWinners(ctx, f.event.ID+1, generalPrizeName)
	require.NoError(t, err)
	assert.Zero(t, winners)
}

func TestStatisticsDAO_Attendance(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 1, 4)
	d := NewStatisticsDAO(db)

	levels := []string{"Gerente", "Gerente", "Operativo"}
	for i, level := range levels {
		require.NoError(t, db.Model(&Guest{}).Where("id = ?", f.guests[i].ID).
			Updates(map[string]interface{}{"job_level": level, "work_area": "Patio"}).Error)
	}
	// imported rows can carry NULL labels
	require.NoError(t, db.Exec("UPDATE guests SET job_level = NULL, work_area = NULL WHERE id = ?", f.guests[3].ID).Error)

	at := time.Date(2025, 12, 13, 2, 15, 0, 0, time.UTC)
	for i, g := range f.guests {
		scanned := at.Add(time.Duration(i) * time.Hour)
		require.NoError(t, db.Create(&Attendance{
			EventID: f.event.ID, GuestID: g.ID, ScannedAt: scanned, LastScannedAt: scanned, ScanCount: 1,
		}).Error)
	}

	count, err := d.CountAttendances(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	times, err := d.ScanTimes(ctx, f.event.ID)
	require.NoError(t, err)
	require.Len(t, times, 4)
	for i, ts := range times {
		assert.True(t, ts.Equal(at.Add(time.Duration(i)*time.Hour)), "scan %d at %s", i, ts)
	}

	byLevel, err := d.AttendanceByGuestColumn(ctx, f.event.ID, "job_level")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Gerente": 2, "Operativo": 1, "": 1}, byLevel)

	byArea, err := d.AttendanceByGuestColumn(ctx, f.event.ID, "work_area")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Patio": 3, "": 1}, byArea)

	_, err = d.AttendanceByGuestColumn(ctx, f.event.ID, "email")
	assert.Error(t, err)
}
