package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"society-be-svc/internal/models"
	"society-be-svc/internal/service"
	"society-be-svc/pkg/utils"
)

const callerKey = "caller"

// Authenticator resolves a bearer token to an active user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Auth validates the bearer token and stores the caller in the gin context
func Auth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.UnauthorizedResponse(c, "No token, authorization denied")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			utils.UnauthorizedResponse(c, "Invalid authorization format")
			c.Abort()
			return
		}

		user, err := authenticator.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			var svcErr *service.Error
			if errors.As(err, &svcErr) && svcErr.Kind == service.KindAuthentication {
				utils.UnauthorizedResponse(c, svcErr.Message)
			} else {
				utils.InternalServerErrorResponse(c, "Failed to authenticate", err)
			}
			c.Abort()
			return
		}

		c.Set(callerKey, service.CallerFromUser(user))
		c.Next()
	}
}

// RequireAdmin rejects callers that are not the administrator. It must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok || !caller.IsAdmin() {
			utils.ForbiddenResponse(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCaller returns the authenticated caller stored by Auth
func GetCaller(c *gin.Context) (service.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return service.Caller{}, false
	}
	caller, ok := v.(service.Caller)
	return caller, ok
}
