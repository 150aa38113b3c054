package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type StatisticsService interface {
	GetStatistics(ctx context.Context, eventID uint) (domain.StatsSnapshot, error)
	GetRaffleStatistics(ctx context.Context, eventID uint) (domain.RaffleStatistics, error)
	GetPrizeResults(ctx context.Context, eventID, prizeID uint) (domain.PrizeResults, error)
}

type StatisticsHandler struct {
	svc StatisticsService
}

func NewStatisticsHandler(svc StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{
		svc: svc,
	}
}

// HandleGetStatistics godoc
// @Summary      Attendance and raffle dashboard of an event
// @Tags         statistics
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Success      200      {object}   domain.StatsSnapshot
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/statistics [get]
// @Security     BearerAuth
func (h *StatisticsHandler) HandleGetStatistics(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	stats, err := h.svc.GetStatistics(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetStatistics -> h.svc.GetStatistics", err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleGetRaffleStatistics godoc
// @Summary      Prize distribution of an event
// @Tags         statistics
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Success      200      {object}   domain.RaffleStatistics
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/raffle/statistics [get]
// @Security     BearerAuth
func (h *StatisticsHandler) HandleGetRaffleStatistics(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	stats, err := h.svc.GetRaffleStatistics(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetRaffleStatistics -> h.svc.GetRaffleStatistics", err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleGetPrizeResults godoc
// @Summary      Results of a single prize raffle
// @Tags         statistics
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        prizeID   path      int  true  "prize ID"
// @Success      200      {object}   domain.PrizeResults
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/prizes/{prizeID}/results [get]
// @Security     BearerAuth
func (h *StatisticsHandler) HandleGetPrizeResults(ctx *gin.Context) {
	eventID, prizeID, ok := eventPrizeParams(ctx)
	if !ok {
		return
	}

	results, err := h.svc.GetPrizeResults(ctx.Request.Context(), eventID, prizeID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetPrizeResults -> h.svc.GetPrizeResults", err)
		return
	}

	ctx.JSON(http.StatusOK, results)
}
