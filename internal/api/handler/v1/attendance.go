package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/request"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/response"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type AttendanceService interface {
	Scan(ctx context.Context, eventID uint, qrData, scannedBy string, metadata map[string]interface{}) (domain.ScanResult, error)
	RegisterManual(ctx context.Context, eventID uint, employeeNumber, registeredBy string, metadata map[string]interface{}) (domain.ScanResult, error)
	List(ctx context.Context, eventID uint) ([]domain.Attendance, error)
	Delete(ctx context.Context, eventID, attendanceID uint) error
}

type AttendanceHandler struct {
	svc  AttendanceService
	uSvc UserService
}

func NewAttendanceHandler(svc AttendanceService, uSvc UserService) *AttendanceHandler {
	return &AttendanceHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleScan godoc
// @Summary      Register attendance from a QR scan
// @Description  The first scan enters the guest into every raffle they qualify for
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        request   body      request.ScanRequest true "request body"
// @Success      200      {object}   domain.ScanResult
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/attendance/scan [post]
// @Security     BearerAuth
func (h *AttendanceHandler) HandleScan(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.ScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.Scan(ctx.Request.Context(), eventID, req.QRData, user.Email, req.Metadata)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleScan -> h.svc.Scan", err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleManualAttendance godoc
// @Summary      Register attendance by employee number
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Param        request   body      request.ManualAttendanceRequest true "request body"
// @Success      200      {object}   domain.ScanResult
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/attendance/manual [post]
// @Security     BearerAuth
func (h *AttendanceHandler) HandleManualAttendance(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.ManualAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.RegisterManual(ctx.Request.Context(), eventID, req.EmployeeNumber, user.Email, req.Metadata)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleManualAttendance -> h.svc.RegisterManual", err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleListAttendance godoc
// @Summary      List the attendances of an event
// @Tags         attendance
// @Produce      json
// @Param        eventID   path      int  true  "event ID"
// @Success      200      {array}    domain.Attendance
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/attendance [get]
// @Security     BearerAuth
func (h *AttendanceHandler) HandleListAttendance(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}

	attendances, err := h.svc.List(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListAttendance -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, attendances)
}

// HandleDeleteAttendance godoc
// @Summary      Delete an attendance
// @Tags         attendance
// @Param        eventID        path      int  true  "event ID"
// @Param        attendanceID   path      int  true  "attendance ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/attendance/{attendanceID} [delete]
// @Security     BearerAuth
func (h *AttendanceHandler) HandleDeleteAttendance(ctx *gin.Context) {
	eventID, ok := paramID(ctx, "eventID")
	if !ok {
		return
	}
	attendanceID, ok := paramID(ctx, "attendanceID")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), eventID, attendanceID); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteAttendance -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
