package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nyasatech/expense_request_app/internal/core/domain"
	"github.com/nyasatech/expense_request_app/internal/utils"
)

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens
// and resolves the caller into a domain.Actor for the duration of the call.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
			return
		}

		claims, err := utils.ParseAndValidateJWT(parts[1], jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid or expired token"
			if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msg})
			return
		}

		if claims.Subject == "" || !domain.Role(claims.Role).IsValid() {
			logger.Error("Token claims missing subject or role")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			return
		}

		actor := domain.Actor{
			ID:    claims.Subject,
			Role:  domain.Role(claims.Role),
			Email: claims.Email,
			Name:  claims.Name,
		}

		// Store the actor in the context and enrich the logger with the
		// caller's identity.
		ctx := context.WithValue(c.Request.Context(), actorKey, actor)
		enrichedLogger := GetLoggerFromCtx(ctx).With(slog.String("user_id", actor.ID))
		ctx = context.WithValue(ctx, loggerCtxKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
