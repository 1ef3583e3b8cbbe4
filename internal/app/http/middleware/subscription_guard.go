package middleware

import (
	"net/http"
	"time"

	"planner-app/internal/domain/access"

	"github.com/gin-gonic/gin"
)

const (
	KeyAccess = "access"
	KeyNow    = "now"
)

// ResolveAccess loads the caller's subscription once per request and stores
// the resolution and the request clock for the handlers. A request without a
// user id is rejected before any gate logic runs.
func ResolveAccess(resolver *access.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(KeyUserID)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing user id"})
			return
		}

		c.Set(KeyNow, resolver.Now())
		c.Set(KeyAccess, resolver.Resolve(c.Request.Context(), userID))
		c.Next()
	}
}

// AccessFrom returns the resolution set by ResolveAccess. Without one the
// caller is treated as free.
func AccessFrom(c *gin.Context) access.Resolution {
	if v, ok := c.Get(KeyAccess); ok {
		if r, ok := v.(access.Resolution); ok {
			return r
		}
	}
	return access.Resolve(time.Time{}, access.FreeSnapshot())
}

// NowFrom returns the request clock set by ResolveAccess.
func NowFrom(c *gin.Context) time.Time {
	if v, ok := c.Get(KeyNow); ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Now()
}
