package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/clock"
)

type eventStore struct{ *store }

func (r eventStore) Create(_ context.Context, e domain.Event) (domain.Event, error) {
	e.ID = r.id()
	r.events[e.ID] = e
	return e, nil
}

func (r eventStore) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	return eventRepo(r).FindByID(ctx, id)
}

func (r eventStore) FindByPublicToken(_ context.Context, token string) (domain.Event, error) {
	for _, e := range r.events {
		if e.PublicToken == token {
			return e, nil
		}
	}
	return domain.Event{}, ErrEventNotFound
}

func (r eventStore) FindAll(context.Context) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e)
	}
	return out, nil
}

func (r eventStore) Update(_ context.Context, e domain.Event) (domain.Event, error) {
	r.events[e.ID] = e
	return e, nil
}

func (r eventStore) Delete(_ context.Context, id uint) error {
	delete(r.events, id)
	return nil
}

func TestEventService_Lifecycle(t *testing.T) {
	st := newStore()
	auditor := &recordingAuditor{}
	svc := NewEventService(eventStore{st}, statsRepo{}, auditor, clock.Fixed{At: testNow})
	ctx := context.Background()

	created, err := svc.CreateEvent(ctx, domain.Event{Name: "Posada", UserID: 3})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), created.PublicToken)
	assert.Equal(t, domain.EventStatusActive, created.Status)

	updated, err := svc.UpdateEvent(ctx, domain.Event{ID: created.ID, Name: "Posada 2025"})
	require.NoError(t, err)
	assert.Equal(t, created.PublicToken, updated.PublicToken)
	assert.Equal(t, uint(3), updated.UserID)

	public, err := svc.PublicSummary(ctx, created.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, "Posada 2025", public.Event.Name)
	assert.Empty(t, public.Event.PublicToken)

	require.NoError(t, svc.DeleteEvent(ctx, created.ID))
	_, err = svc.GetEvent(ctx, created.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	actions := make([]string, 0, len(auditor.records))
	for _, r := range auditor.records {
		actions = append(actions, r.Action)
	}
	assert.Equal(t, []string{domain.AuditActionCreated, domain.AuditActionUpdated, domain.AuditActionDeleted}, actions)
}

func TestGuestService_Create(t *testing.T) {
	st := newStore()
	st.addEvent(domain.Event{ID: testEventID})
	svc := NewGuestService(guestRepo{st}, eventRepo{st}, nil, clock.Fixed{At: testNow})
	ctx := context.Background()

	g, err := svc.CreateGuest(ctx, domain.Guest{EventID: testEventID, EmployeeNumber: " 1001 ", FullName: "Ana"})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^QR-[A-Z0-9]{10}$`), g.QRCode)
	assert.Equal(t, "1001", g.EmployeeNumber)

	_, err = svc.CreateGuest(ctx, domain.Guest{EventID: testEventID, EmployeeNumber: "1001"})
	assert.ErrorIs(t, err, ErrGuestExists)

	_, err = svc.CreateGuest(ctx, domain.Guest{EventID: 99, EmployeeNumber: "1"})
	assert.ErrorIs(t, err, ErrEventNotFound)

	updated, err := svc.UpdateGuest(ctx, domain.Guest{ID: g.ID, EventID: testEventID, EmployeeNumber: "1001", FullName: "Ana M"})
	require.NoError(t, err)
	assert.Equal(t, g.QRCode, updated.QRCode)

	_, err = svc.GetGuest(ctx, 2, g.ID)
	assert.ErrorIs(t, err, ErrGuestNotFound)
}

func TestGuestService_DeleteGuest(t *testing.T) {
	st := newStore()
	st.addEvent(domain.Event{ID: testEventID})
	auditor := &recordingAuditor{}
	svc := NewGuestService(guestRepo{st}, eventRepo{st}, auditor, clock.Fixed{At: testNow})
	ctx := context.Background()

	prize := st.addPrize(domain.Prize{EventID: testEventID, Name: "Pantalla", Stock: 2})
	ana := st.addGuest(domain.Guest{EventID: testEventID, FullName: "Ana"})
	luis := st.addGuest(domain.Guest{EventID: testEventID, FullName: "Luis"})
	st.attend(testEventID, ana.ID)
	st.addEntry(ana.ID, prize.ID, domain.EntryStatusPending)
	won := st.addEntry(luis.ID, prize.ID, domain.EntryStatusWon)

	assert.ErrorIs(t, svc.DeleteGuest(ctx, 2, ana.ID), ErrGuestNotFound)

	require.NoError(t, svc.DeleteGuest(ctx, testEventID, ana.ID))
	assert.NotContains(t, st.guests, ana.ID)
	assert.Len(t, st.entries, 1)
	assert.Empty(t, st.attendances)
	require.Len(t, auditor.records, 1)
	assert.Equal(t, domain.AuditActionDeleted, auditor.records[0].Action)
	assert.Equal(t, domain.EntityGuest, auditor.records[0].EntityType)
	assert.Equal(t, "Ana", auditor.records[0].Description)

	err := svc.DeleteGuest(ctx, testEventID, luis.ID)
	assert.ErrorIs(t, err, ErrGuestIsWinner)
	assert.Contains(t, st.guests, luis.ID)
	assert.Contains(t, st.entries, won.ID)
	assert.Len(t, auditor.records, 1)
}

func TestPrizeService(t *testing.T) {
	st := newStore()
	st.addEvent(domain.Event{ID: testEventID})
	dir := t.TempDir()
	svc := NewPrizeService(prizeRepo{st}, eventRepo{st}, nil, clock.Fixed{At: testNow}, dir, 100)
	ctx := context.Background()

	p, err := svc.CreatePrize(ctx, domain.Prize{EventID: testEventID, Name: "Pantalla", Stock: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, p.InitialStock)
	assert.True(t, p.Active)

	st.addPrize(domain.Prize{EventID: testEventID, Name: domain.GeneralRafflePrizeName, Stock: 15})
	listed, err := svc.ListPrizes(ctx, testEventID, false)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 400, 200))))
	rel, err := svc.UploadImage(ctx, testEventID, p.ID, "photo.PNG", &buf)
	require.NoError(t, err)
	assert.Equal(t, rel, st.prizes[p.ID].Image)

	f, err := os.Open(filepath.Join(dir, rel))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)

	_, err = svc.UploadImage(ctx, testEventID, p.ID, "notes.txt", bytes.NewBufferString("hello"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	require.NoError(t, svc.DeactivatePrize(ctx, testEventID, p.ID))
	assert.False(t, st.prizes[p.ID].Active)
}

func TestPrizeService_GeneralPoolNameReserved(t *testing.T) {
	st := newStore()
	st.addEvent(domain.Event{ID: testEventID})
	svc := NewPrizeService(prizeRepo{st}, eventRepo{st}, nil, clock.Fixed{At: testNow}, t.TempDir(), 0)
	ctx := context.Background()
	pool := st.addPrize(domain.Prize{EventID: testEventID, Name: domain.GeneralRafflePrizeName, Stock: 15})
	tv, err := svc.CreatePrize(ctx, domain.Prize{EventID: testEventID, Name: "Pantalla", Stock: 1})
	require.NoError(t, err)

	_, err = svc.CreatePrize(ctx, domain.Prize{EventID: testEventID, Name: " rifa GENERAL ", Stock: 3})
	assert.ErrorIs(t, err, ErrReservedPrizeName)

	_, err = svc.UpdatePrize(ctx, domain.Prize{ID: tv.ID, EventID: testEventID, Name: domain.GeneralRafflePrizeName})
	assert.ErrorIs(t, err, ErrReservedPrizeName)
	assert.False(t, st.prizes[tv.ID].IsGeneralPool())

	_, err = svc.UpdatePrize(ctx, domain.Prize{ID: pool.ID, EventID: testEventID, Name: "Rifa de Navidad"})
	assert.ErrorIs(t, err, ErrReservedPrizeName)

	updated, err := svc.UpdatePrize(ctx, domain.Prize{ID: pool.ID, EventID: testEventID, Name: "rifa general", Description: "Quince premios"})
	require.NoError(t, err)
	assert.True(t, updated.IsGeneralPool())
	assert.Equal(t, "Quince premios", updated.Description)
}
