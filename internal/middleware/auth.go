package middleware

import (
	"context"
	"strings"

	"instaclone-backend/internal/errors"
	"instaclone-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "user_id"
	ContextToken  = "token"
)

// TokenRevoker reports tokens revoked by logout.
type TokenRevoker interface {
	IsTokenBlacklisted(ctx context.Context, token string) bool
}

func AuthMiddleware(revoker TokenRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Authentication required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Invalid authorization header"))
			c.Abort()
			return
		}
		token := parts[1]

		if revoker.IsTokenBlacklisted(c.Request.Context(), token) {
			errors.HandleError(c, errors.New(errors.ErrInvalidToken, "Token has been revoked"))
			c.Abort()
			return
		}

		userID, err := util.ValidateToken(token)
		if err != nil {
			util.Logger.Debug("rejected token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "Invalid or expired token", err))
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextToken, token)
		c.Next()
	}
}
