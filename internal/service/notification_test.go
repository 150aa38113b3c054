package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/queue"
)

type recordingMailer struct {
	sent []domain.Notification
	err  error
}

func (m *recordingMailer) Send(_ context.Context, n domain.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, n)
	return nil
}

func TestNotificationService_Dispatch(t *testing.T) {
	tasks := &recordingTasks{}
	svc := NewNotificationService(tasks)

	svc.Dispatch(context.Background(), domain.Notification{Kind: domain.NotificationRaffleWinner, GuestID: 3})
	require.Len(t, tasks.tasks, 1)
	assert.Equal(t, TaskTypeNotification, tasks.tasks[0].Type)

	var n domain.Notification
	require.NoError(t, tasks.tasks[0].Decode(&n))
	assert.Equal(t, uint(3), n.GuestID)

	tasks.err = errors.New("redis down")
	assert.Error(t, svc.Enqueue(context.Background(), domain.Notification{Kind: domain.NotificationWelcome}))
	assert.NotPanics(t, func() {
		svc.Dispatch(context.Background(), domain.Notification{Kind: domain.NotificationRaffleWinner})
	})
}

func TestNotificationWorker_Handle(t *testing.T) {
	st := newStore()
	g := st.addGuest(domain.Guest{EventID: testEventID, Email: "ana@ferromex.test"})

	newTask := func(t *testing.T, n domain.Notification) *queue.Task {
		task, err := queue.NewTask(TaskTypeNotification, n)
		require.NoError(t, err)
		return task
	}

	t.Run("attendance confirmation marks email sent", func(t *testing.T) {
		mailer := &recordingMailer{}
		w := NewNotificationWorker(mailer, guestRepo{st})

		err := w.Handle(context.Background(), newTask(t, domain.Notification{
			Kind: domain.NotificationAttendanceConfirmation, GuestID: g.ID, Email: g.Email,
		}))
		require.NoError(t, err)
		assert.Len(t, mailer.sent, 1)
		assert.True(t, st.guests[g.ID].EmailSent)
	})

	t.Run("welcome marks email sent", func(t *testing.T) {
		luis := st.addGuest(domain.Guest{EventID: testEventID, Email: "luis@ferromex.test"})
		mailer := &recordingMailer{}
		w := NewNotificationWorker(mailer, guestRepo{st})

		err := w.Handle(context.Background(), newTask(t, domain.Notification{
			Kind: domain.NotificationWelcome, GuestID: luis.ID, Email: luis.Email, QRCode: "QR-LUIS",
		}))
		require.NoError(t, err)
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "QR-LUIS", mailer.sent[0].QRCode)
		assert.True(t, st.guests[luis.ID].EmailSent)
	})

	t.Run("reminder, custom and summary kinds", func(t *testing.T) {
		for _, kind := range []string{domain.NotificationReminder, domain.NotificationCustomMessage, domain.NotificationEventSummary} {
			mailer := &recordingMailer{}
			w := NewNotificationWorker(mailer, guestRepo{st})

			err := w.Handle(context.Background(), newTask(t, domain.Notification{Kind: kind, Email: "eventos@ferromex.test"}))
			require.NoError(t, err, kind)
			assert.Len(t, mailer.sent, 1, kind)
		}
	})

	t.Run("mailer failure is retried", func(t *testing.T) {
		w := NewNotificationWorker(&recordingMailer{err: errors.New("smtp timeout")}, guestRepo{st})

		err := w.Handle(context.Background(), newTask(t, domain.Notification{Kind: domain.NotificationRaffleWinner}))
		require.Error(t, err)
		assert.NotErrorIs(t, err, queue.ErrPermanent)
	})

	t.Run("unknown kind is permanent", func(t *testing.T) {
		w := NewNotificationWorker(&recordingMailer{}, guestRepo{st})

		err := w.Handle(context.Background(), newTask(t, domain.Notification{Kind: "newsletter"}))
		assert.ErrorIs(t, err, queue.ErrPermanent)
	})
}
