package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/request"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/response"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

const maxImageSize = 5 << 20

var errImageTooLarge = errors.New("image must not exceed 5MB")

type PrizeService interface {
	CreatePrize(ctx context.Context, prize domain.Prize) (domain.Prize, error)
	GetPrize(ctx context.Context, eventID, prizeID uint) (domain.Prize, error)
	ListPrizes(ctx context.Context, eventID uint, includeGeneral bool) ([]domain.Prize, error)
	UpdatePrize(ctx context.Context, prize domain.Prize) (domain.Prize, error)
	DeactivatePrize(ctx context.Context, eventID, prizeID uint) error
	UploadImage(ctx context.Context, eventID, prizeID uint, filename string, r io.Reader) (string, error)
}

type PrizeHandler struct {
	svc PrizeService
}

func NewPrizeHandler(svc PrizeService) *PrizeHandler {
	return &PrizeHandler{
		svc: svc,
	}
}

// HandleCreatePrize godoc
// @Summary      Create a prize
// @Tags         prizes
// @Accept       json
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        request   body      request.PrizeRequest true "request body"
// @Success      201      {object}   domain.Prize
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/prizes [post]
// @Security     BearerAuth
func (h *PrizeHandler) HandleCreatePrize(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.PrizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	prize, err := h.svc.CreatePrize(ctx.Request.Context(), req.ToDomain(eventID, 0))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreatePrize -> h.svc.CreatePrize", err)
		return
	}

	ctx.JSON(http.StatusCreated, prize)
}

// HandleListPrizes godoc
// @Summary      List the prizes of an event
// @Description  The general raffle pool is hidden unless include_general is true
// @Tags         prizes
// @Produce      json
// @Param        eventID          path      int   true   "event ID"
// @Param        include_general  query     bool  false  "include the general raffle prize"
// @Success      200      {array}    domain.Prize
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/prizes [get]
// @Security     BearerAuth
func (h *PrizeHandler) HandleListPrizes(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	includeGeneral, _ := strconv.ParseBool(ctx.Query("include_general"))

	prizes, err := h.svc.ListPrizes(ctx.Request.Context(), eventID, includeGeneral)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListPrizes -> h.svc.ListPrizes", err)
		return
	}

	ctx.JSON(http.StatusOK, prizes)
}

// HandleGetPrize godoc
// @Summary      Get a prize
// @Tags         prizes
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        prizeID   path      int  true  "prize ID"
// @Success      200      {object}   domain.Prize
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/prizes/{prizeID} [get]
// @Security     BearerAuth
func (h *PrizeHandler) HandleGetPrize(ctx *gin.Context) {
	eventID, prizeID, ok := eventPrizeParams(ctx)
	if !ok {
		return
	}

	prize, err := h.svc.GetPrize(ctx.Request.Context(), eventID, prizeID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetPrize -> h.svc.GetPrize", err)
		return
	}

	ctx.JSON(http.StatusOK, prize)
}

// HandleUpdatePrize godoc
// @Summary      Update a prize
// @Description  Stock is managed by draws and is not changed here
// @Tags         prizes
// @Accept       json
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        prizeID   path      int  true  "prize ID"
// @Param        request   body      request.PrizeRequest true "request body"
// @Success      200      {object}   domain.Prize
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/prizes/{prizeID} [put]
// @Security     BearerAuth
func (h *PrizeHandler) HandleUpdatePrize(ctx *gin.Context) {
	eventID, prizeID, ok := eventPrizeParams(ctx)
	if !ok {
		return
	}

	var req request.PrizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	prize, err := h.svc.UpdatePrize(ctx.Request.Context(), req.ToDomain(eventID, prizeID))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdatePrize -> h.svc.UpdatePrize", err)
		return
	}

	ctx.JSON(http.StatusOK, prize)
}

// HandleDeletePrize godoc
// @Summary      Deactivate a prize
// @Tags         prizes
// @Param        eventID   path      int  true  "event ID"
// @Param        prizeID   path      int  true  "prize ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/prizes/{prizeID} [delete]
// @Security     BearerAuth
func (h *PrizeHandler) HandleDeletePrize(ctx *gin.Context) {
	eventID, prizeID, ok := eventPrizeParams(ctx)
	if !ok {
		return
	}

	if err := h.svc.DeactivatePrize(ctx.Request.Context(), eventID, prizeID); err != nil {
		renderServiceErr(ctx, "v1.HandleDeletePrize -> h.svc.DeactivatePrize", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleUploadPrizeImage godoc
// @Summary      Upload the picture of a prize
// @Tags         prizes
// @Accept       multipart/form-data
// @Produce      json
// @Param        eventID   path      int   true  "event ID"
// @Param        prizeID   path      int   true  "prize ID"
// @Param        image     formData  file  true  "jpeg, png or gif image"
// @Success      200      {object}   response.ImageResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/prizes/{prizeID}/image [post]
// @Security     BearerAuth
func (h *PrizeHandler) HandleUploadPrizeImage(ctx *gin.Context) {
	eventID, prizeID, ok := eventPrizeParams(ctx)
	if !ok {
		return
	}

	header, err := ctx.FormFile("image")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if header.Size > maxImageSize {
		response.RenderErr(ctx, response.ErrBadRequest(errImageTooLarge))
		return
	}

	file, err := header.Open()
	if err != nil {
		err = fmt.Errorf("v1.HandleUploadPrizeImage -> header.Open -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	defer file.Close()

	path, err := h.svc.UploadImage(ctx.Request.Context(), eventID, prizeID, header.Filename, file)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUploadPrizeImage -> h.svc.UploadImage", err)
		return
	}

	ctx.JSON(http.StatusOK, response.ImageResponse{Image: path})
}

func eventPrizeParams(ctx *gin.Context) (uint, uint, bool) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return 0, 0, false
	}
	prizeID, ok := paramID(ctx, "prizeID")
	if !ok {
		return 0, 0, false
	}

	return eventID, prizeID, true
}
