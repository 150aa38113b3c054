package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

// Enqueuer puts a notification on the mail queue and reports failures.
type Enqueuer interface {
	Enqueue(ctx context.Context, n domain.Notification) error
}

type MessagingGuestRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Guest, error)
	FindByEvent(ctx context.Context, eventID uint) ([]domain.Guest, error)
}

// MessagingService queues the mail an organizer sends to guests by hand.
type MessagingService struct {
	guests MessagingGuestRepository
	events RaffleEventRepository
	users  UserRepository
	stats  EventStatsRepository
	queue  Enqueuer
}

func NewMessagingService(
	guests MessagingGuestRepository,
	events RaffleEventRepository,
	users UserRepository,
	stats EventStatsRepository,
	queue Enqueuer,
) *MessagingService {
	return &MessagingService{
		guests: guests,
		events: events,
		users:  users,
		stats:  stats,
		queue:  queue,
	}
}

func (s *MessagingService) eventGuest(ctx context.Context, eventID, guestID uint) (domain.Guest, error) {
	guest, err := s.guests.FindByID(ctx, guestID)
	if err != nil {
		return domain.Guest{}, fmt.Errorf("s.guests.FindByID -> %w", err)
	}
	if guest.EventID != eventID {
		return domain.Guest{}, ErrGuestNotFound
	}

	return guest, nil
}

func welcomeFor(event domain.Event, guest domain.Guest) domain.Notification {
	return domain.Notification{
		Kind:      domain.NotificationWelcome,
		EventID:   event.ID,
		EventName: event.Name,
		GuestID:   guest.ID,
		GuestName: guest.FullName,
		Email:     guest.Email,
		QRCode:    guest.QRCode,
	}
}

// SendWelcome queues the invitation with the guest's QR code.
func (s *MessagingService) SendWelcome(ctx context.Context, eventID, guestID uint) error {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("s.events.FindByID -> %w", err)
	}
	guest, err := s.eventGuest(ctx, eventID, guestID)
	if err != nil {
		return err
	}
	if !guest.HasEmail() {
		return ErrGuestHasNoEmail
	}

	if err = s.queue.Enqueue(ctx, welcomeFor(event, guest)); err != nil {
		return fmt.Errorf("s.queue.Enqueue -> %w", err)
	}

	return nil
}

// SendBulkWelcome queues the invitation for every guest of the event with an email address.
func (s *MessagingService) SendBulkWelcome(ctx context.Context, eventID uint) (domain.MailingResult, error) {
	return s.mailGuests(ctx, eventID, nil, func(event domain.Event, guest domain.Guest) domain.Notification {
		return welcomeFor(event, guest)
	})
}

func (s *MessagingService) SendReminder(ctx context.Context, eventID uint, hoursBefore int) (domain.MailingResult, error) {
	if hoursBefore < domain.MinReminderHours || hoursBefore > domain.MaxReminderHours {
		return domain.MailingResult{}, fmt.Errorf("%w: hours before must be between %d and %d",
			ErrInvalidMailing, domain.MinReminderHours, domain.MaxReminderHours)
	}

	return s.mailGuests(ctx, eventID, nil, func(event domain.Event, guest domain.Guest) domain.Notification {
		return domain.Notification{
			Kind:        domain.NotificationReminder,
			EventID:     event.ID,
			EventName:   event.Name,
			GuestID:     guest.ID,
			GuestName:   guest.FullName,
			Email:       guest.Email,
			QRCode:      guest.QRCode,
			HoursBefore: hoursBefore,
		}
	})
}

// SendCustomMessage queues subject and message for the given guests, or for every guest of the
// event when guestIDs is empty. Each listed guest must belong to the event.
func (s *MessagingService) SendCustomMessage(ctx context.Context, eventID uint, subject, message string, guestIDs []uint) (domain.MailingResult, error) {
	if subject == "" || message == "" {
		return domain.MailingResult{}, fmt.Errorf("%w: subject and message are required", ErrInvalidMailing)
	}

	return s.mailGuests(ctx, eventID, guestIDs, func(event domain.Event, guest domain.Guest) domain.Notification {
		return domain.Notification{
			Kind:      domain.NotificationCustomMessage,
			EventID:   event.ID,
			EventName: event.Name,
			GuestID:   guest.ID,
			GuestName: guest.FullName,
			Email:     guest.Email,
			Subject:   subject,
			Message:   message,
		}
	})
}

func (s *MessagingService) mailGuests(
	ctx context.Context,
	eventID uint,
	guestIDs []uint,
	build func(domain.Event, domain.Guest) domain.Notification,
) (domain.MailingResult, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return domain.MailingResult{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	var guests []domain.Guest
	if len(guestIDs) == 0 {
		if guests, err = s.guests.FindByEvent(ctx, eventID); err != nil {
			return domain.MailingResult{}, fmt.Errorf("s.guests.FindByEvent -> %w", err)
		}
	} else {
		seen := make(map[uint]struct{}, len(guestIDs))
		for _, id := range guestIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}

			guest, err := s.eventGuest(ctx, eventID, id)
			if err != nil {
				return domain.MailingResult{}, err
			}
			guests = append(guests, guest)
		}
	}

	var res domain.MailingResult
	for _, guest := range guests {
		if !guest.HasEmail() {
			res.Skipped++
			continue
		}

		n := build(event, guest)
		if err := s.queue.Enqueue(ctx, n); err != nil {
			zap.L().Error("mailing: enqueue failed",
				zap.String("kind", n.Kind), zap.Uint("guest_id", guest.ID), zap.Error(err))
			res.Failed++
			continue
		}
		res.Queued++
	}

	zap.L().Info("mailing queued",
		zap.Uint("event_id", eventID),
		zap.Int("queued", res.Queued),
		zap.Int("failed", res.Failed),
		zap.Int("skipped", res.Skipped),
	)

	return res, nil
}

// SendEventSummary queues the attendance summary to the organizer who created the event.
func (s *MessagingService) SendEventSummary(ctx context.Context, eventID uint) error {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("s.events.FindByID -> %w", err)
	}

	organizer, err := s.users.FindByID(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("s.users.FindByID -> %w", err)
	}

	guests, attendances, err := s.stats.AttendanceCounts(ctx, eventID)
	if err != nil {
		return fmt.Errorf("s.stats.AttendanceCounts -> %w", err)
	}
	summary := attendanceStats(guests, attendances)

	err = s.queue.Enqueue(ctx, domain.Notification{
		Kind:      domain.NotificationEventSummary,
		EventID:   event.ID,
		EventName: event.Name,
		GuestName: organizer.Name,
		Email:     organizer.Email,
		Summary:   &summary,
	})
	if err != nil {
		return fmt.Errorf("s.queue.Enqueue -> %w", err)
	}

	return nil
}

// EmailStats reports how many guests of the event can be reached by mail.
func (s *MessagingService) EmailStats(ctx context.Context, eventID uint) (domain.EmailStats, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return domain.EmailStats{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	guests, err := s.guests.FindByEvent(ctx, eventID)
	if err != nil {
		return domain.EmailStats{}, fmt.Errorf("s.guests.FindByEvent -> %w", err)
	}

	stats := domain.EmailStats{TotalGuests: len(guests)}
	for _, g := range guests {
		if g.HasEmail() {
			stats.GuestsWithEmail++
		}
		if g.EmailSent {
			stats.EmailsSent++
		}
	}
	stats.GuestsWithoutEmail = stats.TotalGuests - stats.GuestsWithEmail
	stats.CoverageRate = domain.Percentage(int64(stats.GuestsWithEmail), int64(stats.TotalGuests))

	return stats, nil
}
