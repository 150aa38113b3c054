package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/request"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/response"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type AuditService interface {
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLog, error)
}

type AuditHandler struct {
	svc  AuditService
	uSvc UserService
}

func NewAuditHandler(svc AuditService, uSvc UserService) *AuditHandler {
	return &AuditHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListAuditLogs godoc
// @Summary      Search the audit trail
// @Description  Only administrators can read the audit trail
// @Tags         audit
// @Produce      json
// @Param        event_id  query     int     false  "event ID"
// @Param        model     query     string  false  "entity type, e.g. Prize"
// @Param        action    query     string  false  "action, e.g. draw"
// @Param        user_id   query     int     false  "acting user ID"
// @Param        limit     query     int     false  "page size, 50 by default"
// @Param        offset    query     int     false  "page offset"
// @Success      200      {array}    domain.AuditLog
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /audit-logs [get]
// @Security     BearerAuth
func (h *AuditHandler) HandleListAuditLogs(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(errAdminOnly))
		return
	}

	var req request.AuditQuery
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	logs, err := h.svc.List(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListAuditLogs -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, logs)
}
