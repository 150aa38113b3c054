package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/request"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/response"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type MessagingService interface {
	SendWelcome(ctx context.Context, eventID, guestID uint) error
	SendBulkWelcome(ctx context.Context, eventID uint) (domain.MailingResult, error)
	SendReminder(ctx context.Context, eventID uint, hoursBefore int) (domain.MailingResult, error)
	SendCustomMessage(ctx context.Context, eventID uint, subject, message string, guestIDs []uint) (domain.MailingResult, error)
	SendEventSummary(ctx context.Context, eventID uint) error
	EmailStats(ctx context.Context, eventID uint) (domain.EmailStats, error)
}

// MessagingHandler queues mail; delivery happens in the notification worker.
type MessagingHandler struct {
	svc MessagingService
}

func NewMessagingHandler(svc MessagingService) *MessagingHandler {
	return &MessagingHandler{
		svc: svc,
	}
}

// HandleSendWelcome godoc
// @Summary      Queue the invitation email of one guest
// @Tags         emails
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        guestID   path      int  true  "guest ID"
// @Success      202      {object}   response.Message
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/guests/{guestID}/emails/welcome [post]
// @Security     BearerAuth
func (h *MessagingHandler) HandleSendWelcome(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}
	guestID, ok := paramID(ctx, "guestID")
	if !ok {
		return
	}

	if err := h.svc.SendWelcome(ctx.Request.Context(), eventID, guestID); err != nil {
		renderServiceErr(ctx, "v1.HandleSendWelcome -> h.svc.SendWelcome", err)
		return
	}

	ctx.JSON(http.StatusAccepted, response.Message{Message: "welcome email queued"})
}

// HandleSendBulkWelcome godoc
// @Summary      Queue the invitation email of every guest with an address
// @Tags         emails
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Success      202      {object}   domain.MailingResult
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/emails/welcome [post]
// @Security     BearerAuth
func (h *MessagingHandler) HandleSendBulkWelcome(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	res, err := h.svc.SendBulkWelcome(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleSendBulkWelcome -> h.svc.SendBulkWelcome", err)
		return
	}

	ctx.JSON(http.StatusAccepted, res)
}

// HandleSendReminder godoc
// @Summary      Queue an event reminder to every guest with an address
// @Tags         emails
// @Accept       json
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        request   body      request.ReminderRequest true "request body"
// @Success      202      {object}   domain.MailingResult
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/emails/reminder [post]
// @Security     BearerAuth
func (h *MessagingHandler) HandleSendReminder(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.ReminderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	res, err := h.svc.SendReminder(ctx.Request.Context(), eventID, req.HoursBeforeEvent)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleSendReminder -> h.svc.SendReminder", err)
		return
	}

	ctx.JSON(http.StatusAccepted, res)
}

// HandleSendCustomMessage godoc
// @Summary      Queue a custom message
// @Description  Sent to the listed guests, or to every guest of the event when guest_ids is empty
// @Tags         emails
// @Accept       json
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        request   body      request.CustomMessageRequest true "request body"
// @Success      202      {object}   domain.MailingResult
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/emails/custom [post]
// @Security     BearerAuth
func (h *MessagingHandler) HandleSendCustomMessage(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.CustomMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	res, err := h.svc.SendCustomMessage(ctx.Request.Context(), eventID, req.Subject, req.Message, req.GuestIDs)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleSendCustomMessage -> h.svc.SendCustomMessage", err)
		return
	}

	ctx.JSON(http.StatusAccepted, res)
}

// HandleSendEventSummary godoc
// @Summary      Queue the attendance summary to the event organizer
// @Tags         emails
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Success      202      {object}   response.Message
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/emails/summary [post]
// @Security     BearerAuth
func (h *MessagingHandler) HandleSendEventSummary(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	if err := h.svc.SendEventSummary(ctx.Request.Context(), eventID); err != nil {
		renderServiceErr(ctx, "v1.HandleSendEventSummary -> h.svc.SendEventSummary", err)
		return
	}

	ctx.JSON(http.StatusAccepted, response.Message{Message: "event summary queued"})
}

// HandleEmailStats godoc
// @Summary      Email coverage of an event's guests
// @Tags         emails
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Success      200      {object}   domain.EmailStats
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/emails/statistics [get]
// @Security     BearerAuth
func (h *MessagingHandler) HandleEmailStats(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	stats, err := h.svc.EmailStats(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleEmailStats -> h.svc.EmailStats", err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
