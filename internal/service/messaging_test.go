package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository"
)

type userRepo map[uint]domain.User

func (r userRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	u, ok := r[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return u, nil
}

type messagingFixture struct {
	store *store
	tasks *recordingTasks
	svc   *MessagingService

	ana, luis, pedro domain.Guest
}

func newMessagingFixture() *messagingFixture {
	st := newStore()
	st.addEvent(domain.Event{ID: testEventID, UserID: 1, Name: "Posada 2025"})

	f := &messagingFixture{store: st, tasks: &recordingTasks{}}
	f.ana = st.addGuest(domain.Guest{EventID: testEventID, FullName: "Ana", Email: "ana@ferromex.test", QRCode: "QR-ANA"})
	f.luis = st.addGuest(domain.Guest{EventID: testEventID, FullName: "Luis", Email: "luis@ferromex.test", EmailSent: true})
	f.pedro = st.addGuest(domain.Guest{EventID: testEventID, FullName: "Pedro"})
	st.addGuest(domain.Guest{EventID: testEventID + 1, FullName: "Otra", Email: "otra@ferromex.test"})

	users := userRepo{1: {ID: 1, Name: "Organizadora", Email: "eventos@ferromex.test"}}
	stats := statsRepo{counts: repository.EventCounts{Guests: 3, Attendances: 1}}
	f.svc = NewMessagingService(guestRepo{st}, eventRepo{st}, users, stats, NewNotificationService(f.tasks))

	return f
}

func TestMessagingService_SendWelcome(t *testing.T) {
	f := newMessagingFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.SendWelcome(ctx, testEventID, f.ana.ID))
	sent := f.tasks.notifications(t)
	require.Len(t, sent, 1)
	assert.Equal(t, domain.NotificationWelcome, sent[0].Kind)
	assert.Equal(t, "ana@ferromex.test", sent[0].Email)
	assert.Equal(t, "QR-ANA", sent[0].QRCode)
	assert.Equal(t, "Posada 2025", sent[0].EventName)

	assert.ErrorIs(t, f.svc.SendWelcome(ctx, testEventID, f.pedro.ID), ErrGuestHasNoEmail)
	assert.ErrorIs(t, f.svc.SendWelcome(ctx, testEventID+1, f.ana.ID), ErrEventNotFound)
	assert.ErrorIs(t, f.svc.SendWelcome(ctx, testEventID, 999), ErrGuestNotFound)
	assert.Len(t, f.tasks.tasks, 1)

	f.tasks.err = errors.New("redis down")
	assert.Error(t, f.svc.SendWelcome(ctx, testEventID, f.ana.ID))
}

func TestMessagingService_SendBulkWelcome(t *testing.T) {
	f := newMessagingFixture()

	res, err := f.svc.SendBulkWelcome(context.Background(), testEventID)
	require.NoError(t, err)
	assert.Equal(t, domain.MailingResult{Queued: 2, Skipped: 1}, res)

	var to []string
	for _, n := range f.tasks.notifications(t) {
		assert.Equal(t, domain.NotificationWelcome, n.Kind)
		to = append(to, n.Email)
	}
	assert.ElementsMatch(t, []string{"ana@ferromex.test", "luis@ferromex.test"}, to)
}

func TestMessagingService_SendReminder(t *testing.T) {
	f := newMessagingFixture()
	ctx := context.Background()

	for _, hours := range []int{0, 169} {
		_, err := f.svc.SendReminder(ctx, testEventID, hours)
		assert.ErrorIs(t, err, ErrInvalidMailing, "hours %d", hours)
	}
	assert.Empty(t, f.tasks.tasks)

	f.tasks.err = errors.New("redis down")
	f.tasks.failAfter = 1
	res, err := f.svc.SendReminder(ctx, testEventID, 24)
	require.NoError(t, err)
	assert.Equal(t, domain.MailingResult{Queued: 1, Failed: 1, Skipped: 1}, res)

	sent := f.tasks.notifications(t)
	require.Len(t, sent, 1)
	assert.Equal(t, domain.NotificationReminder, sent[0].Kind)
	assert.Equal(t, 24, sent[0].HoursBefore)
}

func TestMessagingService_SendCustomMessage(t *testing.T) {
	f := newMessagingFixture()
	ctx := context.Background()

	res, err := f.svc.SendCustomMessage(ctx, testEventID, "Cambio de horario", "La cena inicia a las 21:00", []uint{f.luis.ID, f.pedro.ID, f.luis.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.MailingResult{Queued: 1, Skipped: 1}, res)

	sent := f.tasks.notifications(t)
	require.Len(t, sent, 1)
	assert.Equal(t, domain.NotificationCustomMessage, sent[0].Kind)
	assert.Equal(t, f.luis.ID, sent[0].GuestID)
	assert.Equal(t, "Cambio de horario", sent[0].Subject)
	assert.Equal(t, "La cena inicia a las 21:00", sent[0].Message)

	res, err = f.svc.SendCustomMessage(ctx, testEventID, "Aviso", "Hola", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Queued)

	var otherEventGuest uint
	for id, g := range f.store.guests {
		if g.EventID != testEventID {
			otherEventGuest = id
		}
	}
	_, err = f.svc.SendCustomMessage(ctx, testEventID, "Aviso", "Hola", []uint{f.ana.ID, otherEventGuest})
	assert.ErrorIs(t, err, ErrGuestNotFound)
	assert.Len(t, f.tasks.tasks, 3)

	_, err = f.svc.SendCustomMessage(ctx, testEventID, "", "Hola", nil)
	assert.ErrorIs(t, err, ErrInvalidMailing)
}

func TestMessagingService_SendEventSummary(t *testing.T) {
	f := newMessagingFixture()

	require.NoError(t, f.svc.SendEventSummary(context.Background(), testEventID))
	sent := f.tasks.notifications(t)
	require.Len(t, sent, 1)
	assert.Equal(t, domain.NotificationEventSummary, sent[0].Kind)
	assert.Equal(t, "eventos@ferromex.test", sent[0].Email)
	assert.Zero(t, sent[0].GuestID)
	require.NotNil(t, sent[0].Summary)
	assert.Equal(t, int64(3), sent[0].Summary.TotalGuests)
	assert.Equal(t, int64(2), sent[0].Summary.PendingGuests)

	assert.ErrorIs(t, f.svc.SendEventSummary(context.Background(), 404), ErrEventNotFound)
}

func TestMessagingService_EmailStats(t *testing.T) {
	f := newMessagingFixture()

	stats, err := f.svc.EmailStats(context.Background(), testEventID)
	require.NoError(t, err)
	assert.Equal(t, domain.EmailStats{
		TotalGuests:        3,
		GuestsWithEmail:    2,
		GuestsWithoutEmail: 1,
		EmailsSent:         1,
		CoverageRate:       66.67,
	}, stats)
}
