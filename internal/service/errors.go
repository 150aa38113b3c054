package service

import (
	"errors"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrWrongPassword   = errors.New("wrong password")

	ErrEventNotFound      = repository.ErrEventNotFound
	ErrGuestNotFound      = repository.ErrGuestNotFound
	ErrGuestExists        = repository.ErrGuestExists
	ErrGuestIsWinner      = repository.ErrGuestIsWinner
	ErrGuestHasNoEmail    = errors.New("guest has no email address")
	ErrPrizeNotFound      = repository.ErrPrizeNotFound
	ErrAttendanceNotFound = repository.ErrAttendanceNotFound
	ErrScanLimitExceeded  = repository.ErrScanLimitExceeded
	ErrEventInactive      = errors.New("event is not active")

	ErrEntryNotFound          = repository.ErrEntryNotFound
	ErrAlreadyEntered         = repository.ErrAlreadyEntered
	ErrStockExhausted         = repository.ErrStockExhausted
	ErrConcurrentDrawConflict = repository.ErrConcurrentDrawConflict
	ErrEntryNotWon            = repository.ErrEntryNotWon
	ErrCannotDeleteWinner     = repository.ErrCannotDeleteWinner
	ErrNoEligibleCandidates   = errors.New("no eligible candidates")
	ErrInvalidRaffleMode      = domain.ErrInvalidRaffleMode

	ErrInvalidImage      = errors.New("invalid image")
	ErrInvalidMailing    = errors.New("invalid mailing")
	ErrReservedPrizeName = errors.New("the general raffle prize name is reserved")
)
