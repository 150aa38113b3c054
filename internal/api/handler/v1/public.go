package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/request"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/response"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type PublicGuestService interface {
	LookupGuest(ctx context.Context, token, credentials string) (domain.PublicGuest, error)
	GuestDetails(ctx context.Context, token, qrCode string) (domain.PublicGuest, error)
}

type PublicGuestHandler struct {
	svc PublicGuestService
}

func NewPublicGuestHandler(svc PublicGuestService) *PublicGuestHandler {
	return &PublicGuestHandler{
		svc: svc,
	}
}

// HandleLookupGuest godoc
// @Summary      Find an invitation by company and employee number
// @Description  Credentials such as "FXE-1234", "FXE 1234" or "FXE1234". Reachable without authentication.
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        token     path      string  true  "event public token"
// @Param        request   body      request.GuestLookupRequest true "request body"
// @Success      200      {object}   domain.PublicGuest
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /public/events/{token}/guests/lookup [post]
func (h *PublicGuestHandler) HandleLookupGuest(ctx *gin.Context) {
	var req request.GuestLookupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	guest, err := h.svc.LookupGuest(ctx.Request.Context(), ctx.Param("token"), req.Credentials)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleLookupGuest -> h.svc.LookupGuest", err)
		return
	}

	ctx.JSON(http.StatusOK, guest)
}

// HandleGuestDetails godoc
// @Summary      Invitation details of the guest holding a QR code
// @Tags         public
// @Produce      json
// @Param        token     path      string  true  "event public token"
// @Param        qrCode    path      string  true  "guest QR code"
// @Success      200      {object}   domain.PublicGuest
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /public/events/{token}/guests/{qrCode} [get]
func (h *PublicGuestHandler) HandleGuestDetails(ctx *gin.Context) {
	guest, err := h.svc.GuestDetails(ctx.Request.Context(), ctx.Param("token"), ctx.Param("qrCode"))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGuestDetails -> h.svc.GuestDetails", err)
		return
	}

	ctx.JSON(http.StatusOK, guest)
}
