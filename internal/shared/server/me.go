package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtracker-backend/internal/shared/auth"
	"jobtracker-backend/internal/shared/server/middleware"
	"jobtracker-backend/internal/shared/server/respond"
)

// UserEnsurer creates the caller's user row on first sight.
type UserEnsurer interface {
	Ensure(ctx context.Context, id auth.Identity) error
}

// registerMeRoutes attaches the /me endpoint, which echoes the token identity.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	respond.OK(c, "identity fetched", id)
}

// ensureUser makes sure authenticated callers have a user row before any
// owned row references them.
func ensureUser(users UserEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.IdentityFromContext(c)
		if !ok || users == nil {
			c.Next()
			return
		}
		if err := users.Ensure(c.Request.Context(), id); err != nil {
			respond.Fail(c, err)
			return
		}
		c.Next()
	}
}
