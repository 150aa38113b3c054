package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/api/handler/v1/response"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/jwthelper"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/service"
)

// ContextKeyUserID holds the authenticated user's id in the gin context.
const ContextKeyUserID = "userID"

var errMissingToken = errors.New("missing bearer token")

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT accepts the token from the Authorization header, or from the token query parameter
// for websocket upgrades where browsers cannot set headers.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = ctx.Query("token")
		}
		if token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		userID := claims.UserID
		ctx.Set(ContextKeyUserID, userID)
		ctx.Request = ctx.Request.WithContext(service.ContextWithActor(ctx.Request.Context(), domain.Actor{
			UserID:    &userID,
			IPAddress: ctx.ClientIP(),
			UserAgent: ctx.Request.UserAgent(),
		}))

		ctx.Next()
	}
}
