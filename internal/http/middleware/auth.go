package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bookmart-backend/internal/http/response"
	"github.com/yungbote/bookmart-backend/internal/platform/ctxutil"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
	"github.com/yungbote/bookmart-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// AttachPrincipal verifies a bearer token when one is sent and stores the
// principal on the request context. Requests without a token pass through.
func (am *AuthMiddleware) AttachPrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}
		p, err := am.authService.ParseToken(tokenString)
		if err != nil {
			am.log.Debug("Rejected bearer token", "path", c.FullPath(), "error", err)
			response.RespondAppError(c, err)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireRole rejects requests whose principal is missing or has another role.
func (am *AuthMiddleware) RequireRole(role ctxutil.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := ctxutil.GetPrincipal(c.Request.Context())
		if p == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorEnvelope{
				Error: response.APIError{Message: "missing or invalid token", Code: "unauthorized"},
			})
			return
		}
		if p.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorEnvelope{
				Error: response.APIError{Message: "forbidden", Code: "forbidden"},
			})
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
