package v1

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/response"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/service"
)

var errAdminOnly = errors.New("only administrators can perform this action")

var notFoundErrs = []error{
	service.ErrEventNotFound,
	service.ErrGuestNotFound,
	service.ErrPrizeNotFound,
	service.ErrEntryNotFound,
	service.ErrAttendanceNotFound,
	service.ErrUserNotFound,
}

var unprocessableErrs = []error{
	service.ErrNoEligibleCandidates,
	service.ErrEntryNotWon,
	service.ErrCannotDeleteWinner,
	service.ErrGuestIsWinner,
	service.ErrScanLimitExceeded,
	service.ErrEventInactive,
	service.ErrInvalidRaffleMode,
	service.ErrInvalidImage,
	service.ErrReservedPrizeName,
	service.ErrInvalidMailing,
}

var conflictErrs = []error{
	service.ErrStockExhausted,
	service.ErrConcurrentDrawConflict,
}

var badRequestErrs = []error{
	service.ErrGuestExists,
	service.ErrUserEmailExists,
	service.ErrGuestHasNoEmail,
}

// renderServiceErr maps a service error onto its HTTP status. Unknown errors become a 500.
func renderServiceErr(ctx *gin.Context, op string, err error) {
	for _, e := range notFoundErrs {
		if errors.Is(err, e) {
			response.RenderErr(ctx, response.ErrResourceNotFound(e))
			return
		}
	}
	for _, e := range unprocessableErrs {
		if errors.Is(err, e) {
			response.RenderErr(ctx, response.ErrUnprocessable(e))
			return
		}
	}
	for _, e := range conflictErrs {
		if errors.Is(err, e) {
			response.RenderErr(ctx, response.ErrConflict(e))
			return
		}
	}
	for _, e := range badRequestErrs {
		if errors.Is(err, e) {
			response.RenderErr(ctx, response.ErrBadRequest(e))
			return
		}
	}

	response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %s: %q", name, ctx.Param(name))))
		return 0, false
	}

	return uint(id), true
}

// bindOptionalJSON binds the body into req, leaving req untouched when the body is empty.
func bindOptionalJSON(ctx *gin.Context, req interface{}) error {
	if err := ctx.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}
