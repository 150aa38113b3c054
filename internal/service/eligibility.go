package service

import (
	"context"
	"fmt"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type EligibilityRaffleRepository interface {
	HasWonOtherPrize(ctx context.Context, guestID uint, excludePrizeID *uint) (bool, error)
	HasIMEXWinnerInEvent(ctx context.Context, eventID uint) (bool, error)
	OtherPrizeWinners(ctx context.Context, eventID, prizeID uint) (map[uint]struct{}, error)
}

type EligibilityAttendanceRepository interface {
	Exists(ctx context.Context, eventID, guestID uint) (bool, error)
	GuestIDs(ctx context.Context, eventID uint) (map[uint]struct{}, error)
}

// EligibilityService answers eligibility questions against committed state. Nothing is cached.
type EligibilityService struct {
	raffle     EligibilityRaffleRepository
	attendance EligibilityAttendanceRepository
}

func NewEligibilityService(raffle EligibilityRaffleRepository, attendance EligibilityAttendanceRepository) *EligibilityService {
	return &EligibilityService{
		raffle:     raffle,
		attendance: attendance,
	}
}

func (s *EligibilityService) CanParticipateInPublicRaffle(guest domain.Guest, prize domain.Prize) bool {
	return domain.CanParticipateInPublicRaffle(guest, prize)
}

func (s *EligibilityService) CanParticipateInGeneralRaffle(ctx context.Context, guest domain.Guest) (bool, error) {
	attended, err := s.attendance.Exists(ctx, guest.EventID, guest.ID)
	if err != nil {
		return false, fmt.Errorf("s.attendance.Exists -> %w", err)
	}

	return domain.CanParticipateInGeneralRaffle(guest, attended), nil
}

func (s *EligibilityService) HasWonOtherPrize(ctx context.Context, guestID uint, excludePrizeID *uint) (bool, error) {
	won, err := s.raffle.HasWonOtherPrize(ctx, guestID, excludePrizeID)
	if err != nil {
		return false, fmt.Errorf("s.raffle.HasWonOtherPrize -> %w", err)
	}

	return won, nil
}

func (s *EligibilityService) HasIMEXWinnerInEvent(ctx context.Context, eventID uint) (bool, error) {
	won, err := s.raffle.HasIMEXWinnerInEvent(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("s.raffle.HasIMEXWinnerInEvent -> %w", err)
	}

	return won, nil
}

// Filter loads the state a draw of prize under mode depends on and returns the per-guest predicate.
//
// General mode requires a recorded attendance. Public mode also rejects guests who already won
// another non-general prize, and rejects IMEX guests once the event has an IMEX winner.
func (s *EligibilityService) Filter(ctx context.Context, prize domain.Prize, mode domain.RaffleMode) (func(domain.Guest) bool, error) {
	if mode == domain.RaffleModeGeneral {
		attended, err := s.attendance.GuestIDs(ctx, prize.EventID)
		if err != nil {
			return nil, fmt.Errorf("s.attendance.GuestIDs -> %w", err)
		}

		return func(g domain.Guest) bool {
			_, ok := attended[g.ID]
			return domain.CanParticipateInGeneralRaffle(g, ok)
		}, nil
	}

	winners, err := s.raffle.OtherPrizeWinners(ctx, prize.EventID, prize.ID)
	if err != nil {
		return nil, fmt.Errorf("s.raffle.OtherPrizeWinners -> %w", err)
	}

	imexCapped, err := s.HasIMEXWinnerInEvent(ctx, prize.EventID)
	if err != nil {
		return nil, err
	}

	return func(g domain.Guest) bool {
		if !domain.CanParticipateInPublicRaffle(g, prize) {
			return false
		}
		if _, won := winners[g.ID]; won {
			return false
		}
		return !(imexCapped && g.Company == domain.CompanyIMEX)
	}, nil
}
