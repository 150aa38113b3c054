package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/queue"
)

// TaskTypeNotification is the queue task type carrying a domain.Notification.
const TaskTypeNotification = "notification"

type TaskPublisher interface {
	Publish(ctx context.Context, task *queue.Task) error
}

// Mailer delivers one notification.
type Mailer interface {
	Send(ctx context.Context, n domain.Notification) error
}

// LogMailer writes notifications to the log instead of sending mail.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, n domain.Notification) error {
	zap.L().Info("mail sent",
		zap.String("kind", n.Kind),
		zap.String("to", n.Email),
		zap.String("guest", n.GuestName),
		zap.String("prize", n.PrizeName),
		zap.String("subject", n.Subject),
	)
	return nil
}

type NotificationService struct {
	tasks TaskPublisher
}

func NewNotificationService(tasks TaskPublisher) *NotificationService {
	return &NotificationService{
		tasks: tasks,
	}
}

// Enqueue puts n on the queue for the mail worker.
func (s *NotificationService) Enqueue(ctx context.Context, n domain.Notification) error {
	task, err := queue.NewTask(TaskTypeNotification, n)
	if err != nil {
		return fmt.Errorf("queue.NewTask -> %w", err)
	}

	if err = s.tasks.Publish(ctx, task); err != nil {
		return fmt.Errorf("s.tasks.Publish -> %w", err)
	}

	return nil
}

// Dispatch enqueues n for the mail worker. Enqueue errors are logged only.
func (s *NotificationService) Dispatch(ctx context.Context, n domain.Notification) {
	if err := s.Enqueue(ctx, n); err != nil {
		zap.L().Error("notification: enqueue failed",
			zap.String("kind", n.Kind), zap.Uint("guest_id", n.GuestID), zap.Error(err))
	}
}

type NotificationGuestRepository interface {
	MarkEmailSent(ctx context.Context, id uint) error
}

// NotificationWorker consumes notification tasks from the queue.
type NotificationWorker struct {
	mailer Mailer
	guests NotificationGuestRepository
}

func NewNotificationWorker(mailer Mailer, guests NotificationGuestRepository) *NotificationWorker {
	return &NotificationWorker{
		mailer: mailer,
		guests: guests,
	}
}

// Handle is a queue.Handler. A returned error sends the task through the retry schedule.
func (w *NotificationWorker) Handle(ctx context.Context, task *queue.Task) error {
	if task.Type != TaskTypeNotification {
		return fmt.Errorf("%w: unknown task type %q", queue.ErrPermanent, task.Type)
	}

	var n domain.Notification
	if err := task.Decode(&n); err != nil {
		return err
	}

	switch n.Kind {
	case domain.NotificationRaffleWinner, domain.NotificationAttendanceConfirmation, domain.NotificationWelcome,
		domain.NotificationReminder, domain.NotificationCustomMessage, domain.NotificationEventSummary:
	default:
		return fmt.Errorf("%w: unknown notification kind %q", queue.ErrPermanent, n.Kind)
	}

	if err := w.mailer.Send(ctx, n); err != nil {
		return fmt.Errorf("w.mailer.Send -> %w", err)
	}

	if n.MarksEmailSent() {
		if err := w.guests.MarkEmailSent(ctx, n.GuestID); err != nil {
			zap.L().Warn("notification: mark email sent failed", zap.Uint("guest_id", n.GuestID), zap.Error(err))
		}
	}

	return nil
}
