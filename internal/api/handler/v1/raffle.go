package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/request"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/response"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type RaffleService interface {
	ListEligibleGuests(ctx context.Context, eventID, prizeID uint, mode domain.RaffleMode) ([]domain.Guest, error)
	CreateEntries(ctx context.Context, eventID, prizeID uint, mode domain.RaffleMode) (domain.EntriesResult, error)
	ListEntries(ctx context.Context, eventID, prizeID uint) ([]domain.RaffleEntry, error)
	DrawWinner(ctx context.Context, eventID, prizeID uint, mode domain.RaffleMode, notify bool) (domain.DrawResult, error)
	SelectWinner(ctx context.Context, eventID, prizeID, guestID uint, notify bool) (domain.DrawResult, error)
	CancelDraw(ctx context.Context, eventID, entryID uint) (domain.RaffleEntry, error)
	ResetEntry(ctx context.Context, eventID, entryID uint) (domain.RaffleEntry, error)
	DeleteEntry(ctx context.Context, eventID, entryID uint) error
	MarkDelivered(ctx context.Context, eventID, entryID uint) (domain.RaffleEntry, error)
	DrawGeneral(ctx context.Context, eventID uint, count int, notify, resetPrevious bool) (domain.GeneralDrawResult, error)
	ReselectGeneralWinner(ctx context.Context, eventID, guestID uint, notify bool) (domain.DrawResult, error)
	RaffleLogs(ctx context.Context, eventID uint) ([]domain.RaffleLog, error)
	ResetEventRaffle(ctx context.Context, eventID uint) (domain.RaffleReset, error)
}

type RaffleHandler struct {
	svc  RaffleService
	uSvc UserService
}

func NewRaffleHandler(svc RaffleService, uSvc UserService) *RaffleHandler {
	return &RaffleHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

func raffleMode(ctx *gin.Context, raw string) (domain.RaffleMode, bool) {
	mode, err := domain.ParseRaffleMode(raw)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return "", false
	}

	return mode, true
}

// HandleListEligible godoc
// @Summary      List the guests eligible for a prize
// @Tags         raffle
// @Produce      json
// @Param        eventID   path      int     true   "event ID"
// @Param        prizeID   path      int     true   "prize ID"
// @Param        mode      query     string  false  "public or general"  Enums(public, general)
// @Success      200      {array}    domain.Guest
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/prizes/{prizeID}/eligible [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleListEligible(ctx *gin.Context) {
	eventID, prizeID, ok := eventPrizeParams(ctx)
	if !ok {
		return
	}
	mode, ok := raffleMode(ctx, ctx.Query("mode"))
	if !ok {
		return
	}

	guests, err := h.svc.ListEligibleGuests(ctx.Request.Context(), eventID, prizeID, mode)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListEligible -> h.svc.ListEligibleGuests", err)
		return
	}

	ctx.JSON(http.StatusOK, guests)
}

// HandleCreateEntries godoc
// @Summary      Enter every eligible guest into a prize raffle
// @Description  Guests already entered are skipped
// @Tags         raffle
// @Produce      json
// @Param        eventID   path      int     true   "event ID"
// @Param        prizeID   path      int     true   "prize ID"
// @Param        mode      query     string  false  "public or general"  Enums(public, general)
// @Success      201      {object}   domain.EntriesResult
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/prizes/{prizeID}/entries [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleCreateEntries(ctx *gin.Context) {
	eventID, prizeID, ok := eventPrizeParams(ctx)
	if !ok {
		return
	}
	mode, ok := raffleMode(ctx, ctx.Query("mode"))
	if !ok {
		return
	}

	result, err := h.svc.CreateEntries(ctx.Request.Context(), eventID, prizeID, mode)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateEntries -> h.svc.CreateEntries", err)
		return
	}

	ctx.JSON(http.StatusCreated, result)
}

// HandleListEntries godoc
// @Summary      List the entries of a prize raffle
// @Tags         raffle
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        prizeID   path      int  true  "prize ID"
// @Success      200      {array}    domain.RaffleEntry
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/prizes/{prizeID}/entries [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleListEntries(ctx *gin.Context) {
	eventID, prizeID, ok := eventPrizeParams(ctx)
	if !ok {
		return
	}

	entries, err := h.svc.ListEntries(ctx.Request.Context(), eventID, prizeID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListEntries -> h.svc.ListEntries", err)
		return
	}

	ctx.JSON(http.StatusOK, entries)
}

// HandleDrawWinner godoc
// @Summary      Draw a random winner for a prize
// @Tags         raffle
// @Accept       json
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        prizeID   path      int  true  "prize ID"
// @Param        request   body      request.DrawRequest false "request body"
// @Success      200      {object}   response.DrawResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/prizes/{prizeID}/draw [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleDrawWinner(ctx *gin.Context) {
	eventID, prizeID, ok := eventPrizeParams(ctx)
	if !ok {
		return
	}

	var req request.DrawRequest
	if err := bindOptionalJSON(ctx, &req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	mode, ok := raffleMode(ctx, req.Mode)
	if !ok {
		return
	}

	result, err := h.svc.DrawWinner(ctx.Request.Context(), eventID, prizeID, mode, req.SendNotification)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleDrawWinner -> h.svc.DrawWinner", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewDrawResponse(result))
}

// HandleSelectWinner godoc
// @Summary      Mark a chosen guest as the winner of a prize
// @Tags         raffle
// @Accept       json
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        prizeID   path      int  true  "prize ID"
// @Param        request   body      request.SelectWinnerRequest true "request body"
// @Success      200      {object}   response.DrawResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/prizes/{prizeID}/select [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleSelectWinner(ctx *gin.Context) {
	eventID, prizeID, ok := eventPrizeParams(ctx)
	if !ok {
		return
	}

	var req request.SelectWinnerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.SelectWinner(ctx.Request.Context(), eventID, prizeID, req.GuestID, req.SendNotification)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleSelectWinner -> h.svc.SelectWinner", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewDrawResponse(result))
}

// HandleDrawGeneral godoc
// @Summary      Draw several winners of the general raffle
// @Tags         raffle
// @Accept       json
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        request   body      request.GeneralDrawRequest true "request body"
// @Success      200      {object}   domain.GeneralDrawResult
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/raffle/general/draw [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleDrawGeneral(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.GeneralDrawRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.DrawGeneral(ctx.Request.Context(), eventID, req.Count, req.SendNotification, req.ResetPrevious)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleDrawGeneral -> h.svc.DrawGeneral", err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleReselectGeneral godoc
// @Summary      Replace one general raffle winner with a new draw
// @Tags         raffle
// @Accept       json
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        request   body      request.ReselectRequest true "request body"
// @Success      200      {object}   response.DrawResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/raffle/general/reselect [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleReselectGeneral(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.ReselectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.ReselectGeneralWinner(ctx.Request.Context(), eventID, req.GuestID, req.SendNotification)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleReselectGeneral -> h.svc.ReselectGeneralWinner", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewDrawResponse(result))
}

func eventEntryParams(ctx *gin.Context) (uint, uint, bool) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return 0, 0, false
	}
	entryID, ok := paramID(ctx, "entryID")
	if !ok {
		return 0, 0, false
	}

	return eventID, entryID, true
}

// HandleCancelDraw godoc
// @Summary      Cancel a drawn winner and give the stock back
// @Tags         raffle
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        entryID   path      int  true  "entry ID"
// @Success      200      {object}   domain.RaffleEntry
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/entries/{entryID}/cancel [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleCancelDraw(ctx *gin.Context) {
	eventID, entryID, ok := eventEntryParams(ctx)
	if !ok {
		return
	}

	entry, err := h.svc.CancelDraw(ctx.Request.Context(), eventID, entryID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCancelDraw -> h.svc.CancelDraw", err)
		return
	}

	ctx.JSON(http.StatusOK, entry)
}

// HandleResetEntry godoc
// @Summary      Put a won entry back to pending
// @Tags         raffle
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        entryID   path      int  true  "entry ID"
// @Success      200      {object}   domain.RaffleEntry
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/entries/{entryID}/reset [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleResetEntry(ctx *gin.Context) {
	eventID, entryID, ok := eventEntryParams(ctx)
	if !ok {
		return
	}

	entry, err := h.svc.ResetEntry(ctx.Request.Context(), eventID, entryID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleResetEntry -> h.svc.ResetEntry", err)
		return
	}

	ctx.JSON(http.StatusOK, entry)
}

// HandleDeleteEntry godoc
// @Summary      Delete a raffle entry
// @Description  Winning entries cannot be deleted
// @Tags         raffle
// @Param        eventID   path      int  true  "event ID"
// @Param        entryID   path      int  true  "entry ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/entries/{entryID} [delete]
// @Security     BearerAuth
func (h *RaffleHandler) HandleDeleteEntry(ctx *gin.Context) {
	eventID, entryID, ok := eventEntryParams(ctx)
	if !ok {
		return
	}

	if err := h.svc.DeleteEntry(ctx.Request.Context(), eventID, entryID); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteEntry -> h.svc.DeleteEntry", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleDeliverPrize godoc
// @Summary      Mark the prize of a winning entry as delivered
// @Tags         raffle
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        entryID   path      int  true  "entry ID"
// @Success      200      {object}   domain.RaffleEntry
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/entries/{entryID}/deliver [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleDeliverPrize(ctx *gin.Context) {
	eventID, entryID, ok := eventEntryParams(ctx)
	if !ok {
		return
	}

	entry, err := h.svc.MarkDelivered(ctx.Request.Context(), eventID, entryID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleDeliverPrize -> h.svc.MarkDelivered", err)
		return
	}

	ctx.JSON(http.StatusOK, entry)
}

// HandleRaffleLogs godoc
// @Summary      Draw history of an event
// @Tags         raffle
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Success      200      {array}    domain.RaffleLog
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/raffle/logs [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleRaffleLogs(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	logs, err := h.svc.RaffleLogs(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleRaffleLogs -> h.svc.RaffleLogs", err)
		return
	}

	ctx.JSON(http.StatusOK, logs)
}

// HandleResetEventRaffle godoc
// @Summary      Reset every raffle of an event
// @Description  Gives won stock back to each prize and deletes all entries and draw logs. Administrators only.
// @Tags         raffle
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Success      200      {object}   domain.RaffleReset
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/raffle/reset [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleResetEventRaffle(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(errAdminOnly))
		return
	}

	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	res, err := h.svc.ResetEventRaffle(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleResetEventRaffle -> h.svc.ResetEventRaffle", err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}
