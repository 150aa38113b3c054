package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/request"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/response"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type GuestService interface {
	CreateGuest(ctx context.Context, guest domain.Guest) (domain.Guest, error)
	GetGuest(ctx context.Context, eventID, guestID uint) (domain.Guest, error)
	ListGuests(ctx context.Context, eventID uint) ([]domain.Guest, error)
	UpdateGuest(ctx context.Context, guest domain.Guest) (domain.Guest, error)
	DeleteGuest(ctx context.Context, eventID, guestID uint) error
}

type GuestHandler struct {
	svc GuestService
}

func NewGuestHandler(svc GuestService) *GuestHandler {
	return &GuestHandler{
		svc: svc,
	}
}

// HandleCreateGuest godoc
// @Summary      Register a guest for an event
// @Tags         guests
// @Accept       json
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        request   body      request.GuestRequest true "request body"
// @Success      201      {object}   domain.Guest
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/guests [post]
// @Security     BearerAuth
func (h *GuestHandler) HandleCreateGuest(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.GuestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	guest, err := h.svc.CreateGuest(ctx.Request.Context(), req.ToDomain(eventID, 0))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateGuest -> h.svc.CreateGuest", err)
		return
	}

	ctx.JSON(http.StatusCreated, guest)
}

// HandleListGuests godoc
// @Summary      List the guests of an event
// @Tags         guests
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Success      200      {array}    domain.Guest
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/guests [get]
// @Security     BearerAuth
func (h *GuestHandler) HandleListGuests(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	guests, err := h.svc.ListGuests(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListGuests -> h.svc.ListGuests", err)
		return
	}

	ctx.JSON(http.StatusOK, guests)
}

// HandleGetGuest godoc
// @Summary      Get a guest
// @Tags         guests
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        guestID   path      int  true  "guest ID"
// @Success      200      {object}   domain.Guest
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/guests/{guestID} [get]
// @Security     BearerAuth
func (h *GuestHandler) HandleGetGuest(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}
	guestID, ok := paramID(ctx, "guestID")
	if !ok {
		return
	}

	guest, err := h.svc.GetGuest(ctx.Request.Context(), eventID, guestID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetGuest -> h.svc.GetGuest", err)
		return
	}

	ctx.JSON(http.StatusOK, guest)
}

// HandleUpdateGuest godoc
// @Summary      Update a guest
// @Tags         guests
// @Accept       json
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        guestID   path      int  true  "guest ID"
// @Param        request   body      request.GuestRequest true "request body"
// @Success      200      {object}   domain.Guest
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/guests/{guestID} [put]
// @Security     BearerAuth
func (h *GuestHandler) HandleUpdateGuest(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}
	guestID, ok := paramID(ctx, "guestID")
	if !ok {
		return
	}

	var req request.GuestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	guest, err := h.svc.UpdateGuest(ctx.Request.Context(), req.ToDomain(eventID, guestID))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateGuest -> h.svc.UpdateGuest", err)
		return
	}

	ctx.JSON(http.StatusOK, guest)
}

// HandleDeleteGuest godoc
// @Summary      Delete a guest with their attendance and raffle entries
// @Description  Guests holding a won entry are refused until the draw is cancelled
// @Tags         guests
// @Param        eventID   path      int  true  "event ID"
// @Param        guestID   path      int  true  "guest ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/guests/{guestID} [delete]
// @Security     BearerAuth
func (h *GuestHandler) HandleDeleteGuest(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}
	guestID, ok := paramID(ctx, "guestID")
	if !ok {
		return
	}

	if err := h.svc.DeleteGuest(ctx.Request.Context(), eventID, guestID); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteGuest -> h.svc.DeleteGuest", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
