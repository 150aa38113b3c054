package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

const defaultAuditLimit = 50

type AuditQuery struct {
	EventID *uint  `form:"event_id"`
	Model   string `form:"model"`
	Action  string `form:"action"`
	UserID  *uint  `form:"user_id"`
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
}

func (req *AuditQuery) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Limit, validation.Min(0), validation.Max(500)),
		validation.Field(&req.Offset, validation.Min(0)),
	)
}

func (req *AuditQuery) ToDomain() domain.AuditFilter {
	limit := req.Limit
	if limit == 0 {
		limit = defaultAuditLimit
	}

	return domain.AuditFilter{
		EventID: req.EventID,
		Model:   req.Model,
		Action:  req.Action,
		UserID:  req.UserID,
		Limit:   limit,
		Offset:  req.Offset,
	}
}
