package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	Err        error  `json:"-"`
	StatusCode int    `json:"-"`
	StatusText string `json:"status_text"`
	Message    string `json:"message,omitempty"`
}

// RenderErr aborts the request with e. Server-side errors are logged with the request id.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.Err),
		)
	}

	ctx.AbortWithStatusJSON(e.StatusCode, e)
}

func newErr(status int, err error, message string) *Err {
	return &Err{
		Err:        err,
		StatusCode: status,
		StatusText: http.StatusText(status),
		Message:    message,
	}
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, err, err.Error())
}

func ErrUnauthorized(err error) *Err {
	return newErr(http.StatusUnauthorized, err, err.Error())
}

func ErrWrongCredentials(err error) *Err {
	return newErr(http.StatusUnauthorized, err, "wrong email or password")
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, err, "permission denied")
}

func ErrNotFound(entity, field string, value interface{}) *Err {
	return newErr(http.StatusNotFound, nil, fmt.Sprintf("%s with %s %v not found", entity, field, value))
}

func ErrResourceNotFound(err error) *Err {
	return newErr(http.StatusNotFound, err, err.Error())
}

func ErrConflict(err error) *Err {
	return newErr(http.StatusConflict, err, err.Error())
}

func ErrUnprocessable(err error) *Err {
	return newErr(http.StatusUnprocessableEntity, err, err.Error())
}

func ErrInternalServerError(err error) *Err {
	return newErr(http.StatusInternalServerError, err, "")
}
