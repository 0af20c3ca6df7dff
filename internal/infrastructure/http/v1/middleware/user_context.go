package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "github.com/ravikhokle/oddostock/internal/core/context"
	"github.com/ravikhokle/oddostock/internal/core/id"
)

// HeaderUserID selects the acting operator when token verification is disabled.
const HeaderUserID = "X-User-ID"

// StaticUser stands in for Auth when no JWT secret is configured (development only).
// Every request acts as fallback unless it names another operator in X-User-ID.
//
// Usage in router:
//
//	if cfg.JWTValidator == nil {
//		protected.Use(middleware.StaticUser(devUser))
//	}
func StaticUser(fallback *appctx.UserContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := fallback
		if raw := c.GetHeader(HeaderUserID); raw != "" {
			if uid, err := id.Parse(raw); err == nil && !id.IsNil(uid) {
				user = &appctx.UserContext{UserID: uid, Roles: fallback.Roles}
			}
		}
		setUser(c, user)
		c.Next()
	}
}
