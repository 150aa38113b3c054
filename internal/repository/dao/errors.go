package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")

	ErrEventNotFound      = errors.New("event not found")
	ErrGuestNotFound      = errors.New("guest not found")
	ErrGuestExists        = errors.New("guest with this employee number already exists")
	ErrGuestIsWinner      = errors.New("guest holds a won raffle entry")
	ErrPrizeNotFound      = errors.New("prize not found")
	ErrAttendanceNotFound = errors.New("attendance not found")
	ErrScanLimitExceeded  = errors.New("scan limit exceeded")

	ErrEntryNotFound          = errors.New("raffle entry not found")
	ErrAlreadyEntered         = errors.New("guest already entered for this prize")
	ErrStockExhausted         = errors.New("prize stock exhausted")
	ErrConcurrentDrawConflict = errors.New("entry was changed by a concurrent draw")
	ErrEntryNotWon            = errors.New("entry is not a winner")
	ErrCannotDeleteWinner     = errors.New("cannot delete a winning entry")
)

// isUniqueViolation reports a duplicate key error. constraint narrows the match on postgres; MySQL
// connections run with TranslateError and surface gorm.ErrDuplicatedKey instead.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
	}

	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
