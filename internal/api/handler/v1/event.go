package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/request"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/response"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	DeleteEvent(ctx context.Context, id uint) error
	PublicSummary(ctx context.Context, token string) (domain.PublicEvent, error)
}

type EventHandler struct {
	svc  EventService
	uSvc UserService
}

func NewEventHandler(svc EventService, uSvc UserService) *EventHandler {
	return &EventHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request   body      request.EventRequest true "request body"
// @Success      201      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event := req.ToDomain(0)
	event.UserID = user.ID

	created, err := h.svc.CreateEvent(ctx.Request.Context(), event)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateEvent -> h.svc.CreateEvent", err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleListEvents godoc
// @Summary      List events
// @Tags         events
// @Produce      json
// @Success      200      {array}    domain.Event
// @Failure      500      {object}   response.Err
// @Router       /events [get]
// @Security     BearerAuth
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.svc.ListEvents(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListEvents -> h.svc.ListEvents", err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get an event by ID
// @Tags         events
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID} [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetEvent -> h.svc.GetEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        request   body      request.EventRequest true "request body"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID} [put]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateEvent(ctx.Request.Context(), req.ToDomain(eventID))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateEvent -> h.svc.UpdateEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event with its guests, prizes and entries
// @Tags         events
// @Param        eventID   path      int  true  "event ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID} [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
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

	if err := h.svc.DeleteEvent(ctx.Request.Context(), eventID); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteEvent -> h.svc.DeleteEvent", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandlePublicEvent godoc
// @Summary      Public summary of an event
// @Description  Reachable without authentication through the event's public token
// @Tags         public
// @Produce      json
// @Param        token    path      string  true  "public token"
// @Success      200      {object}   domain.PublicEvent
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /public/events/{token} [get]
func (h *EventHandler) HandlePublicEvent(ctx *gin.Context) {
	summary, err := h.svc.PublicSummary(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		renderServiceErr(ctx, "v1.HandlePublicEvent -> h.svc.PublicSummary", err)
		return
	}

	ctx.JSON(http.StatusOK, summary)
}
