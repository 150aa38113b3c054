package dao

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestDAO_Delete(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 2, 3)
	d := NewGuestDAO(db)

	doomed, winner, bystander := f.guests[0], f.guests[1], f.guests[2]
	now := time.Now()
	require.NoError(t, db.Create(&Attendance{
		EventID: f.event.ID, GuestID: doomed.ID, ScannedAt: now, LastScannedAt: now, ScanCount: 1,
	}).Error)
	pending := f.entry(t, db, doomed)
	require.NoError(t, db.Create(&RaffleLog{
		EventID: f.event.ID, PrizeID: f.prize.ID, GuestID: doomed.ID, EntryID: pending.ID, RaffleType: "public",
	}).Error)
	won := f.enter(t, db, f.prize, winner, EntryStatusWon)
	f.enter(t, db, f.addPrize(t, db, "Bicicleta", 1), bystander, EntryStatusPending)

	require.NoError(t, d.Delete(ctx, doomed.ID))

	_, err := d.FindByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, ErrGuestNotFound)
	for _, model := range []interface{}{&Attendance{}, &RaffleEntry{}, &RaffleLog{}} {
		var count int64
		require.NoError(t, db.Model(model).Where("guest_id = ?", doomed.ID).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}

	assert.ErrorIs(t, d.Delete(ctx, winner.ID), ErrGuestIsWinner)
	_, err = d.FindByID(ctx, winner.ID)
	assert.NoError(t, err)
	var kept RaffleEntry
	require.NoError(t, db.First(&kept, won.ID).Error)
	assert.Equal(t, EntryStatusWon, kept.Status)

	var others int64
	require.NoError(t, db.Model(&RaffleEntry{}).Where("guest_id = ?", bystander.ID).Count(&others).Error)
	assert.Equal(t, int64(1), others)

	assert.ErrorIs(t, d.Delete(ctx, 9999), ErrGuestNotFound)
}

func TestGuestDAO_FindByCredentials(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 1, 2)
	d := NewGuestDAO(db)

	want := f.guests[1]
	for _, creds := range []string{"FXE-E001", "FXEE001", "FXE E001"} {
		got, err := d.FindByCredentials(ctx, f.event.ID, creds)
		require.NoError(t, err, creds)
		assert.Equal(t, want.ID, got.ID, creds)
	}

	for _, creds := range []string{"FXE_E001", "E001", "IMEX-E001", ""} {
		_, err := d.FindByCredentials(ctx, f.event.ID, creds)
		assert.ErrorIs(t, err, ErrGuestNotFound, creds)
	}

	_, err := d.FindByCredentials(ctx, f.event.ID+1, "FXE-E001")
	assert.ErrorIs(t, err, ErrGuestNotFound)
}

func TestAttendanceDAO_FindByGuest(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 1, 2)
	d := NewAttendanceDAO(db)

	at := time.Date(2025, 12, 13, 2, 0, 0, 0, time.UTC)
	_, _, err := d.RecordScan(ctx, f.event.ID, f.guests[0].ID, "door", nil, at, 2)
	require.NoError(t, err)

	got, err := d.FindByGuest(ctx, f.event.ID, f.guests[0].ID)
	require.NoError(t, err)
	assert.True(t, got.ScannedAt.Equal(at))

	_, err = d.FindByGuest(ctx, f.event.ID, f.guests[1].ID)
	assert.ErrorIs(t, err, ErrAttendanceNotFound)
}
