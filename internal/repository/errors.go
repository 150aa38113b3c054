package repository

import "github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository/dao"

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound

	ErrEventNotFound      = dao.ErrEventNotFound
	ErrGuestNotFound      = dao.ErrGuestNotFound
	ErrGuestExists        = dao.ErrGuestExists
	ErrGuestIsWinner      = dao.ErrGuestIsWinner
	ErrPrizeNotFound      = dao.ErrPrizeNotFound
	ErrAttendanceNotFound = dao.ErrAttendanceNotFound
	ErrScanLimitExceeded  = dao.ErrScanLimitExceeded

	ErrEntryNotFound          = dao.ErrEntryNotFound
	ErrAlreadyEntered         = dao.ErrAlreadyEntered
	ErrStockExhausted         = dao.ErrStockExhausted
	ErrConcurrentDrawConflict = dao.ErrConcurrentDrawConflict
	ErrEntryNotWon            = dao.ErrEntryNotWon
	ErrCannotDeleteWinner     = dao.ErrCannotDeleteWinner
)
