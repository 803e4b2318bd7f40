package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-admin/internal/authz"
	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/httpresp"
	"github.com/BruksfildServices01/clinic-admin/internal/session"
)

// RouteGuard runs the authorization policy before every page and API
// handler. Pages get soft redirects; API callers get a JSON 401.
func RouteGuard(policy *authz.Policy, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := sessions.Read(c)
		if err != nil {
			if err != session.ErrNoSession {
				sessions.Clear(c)
			}
			claims = nil
		}

		d := policy.Decide(c.Request.URL.Path, claims, sessions.Now())
		if d.ClearSession {
			sessions.Clear(c)
		}

		if d.Allow {
			if d.State == authz.StateValid {
				c.Set(session.ContextClaims, claims)
			}
			c.Next()
			return
		}

		if isAPI(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpresp.ActionResult{
				Success: false,
				Message: httperr.MsgUnauthorized,
			})
			return
		}

		c.Redirect(http.StatusFound, d.Location)
		c.Abort()
	}
}

// RequireSession rejects requests that reached a handler without claims in
// context. Used on groups where the guard lets anonymous visitors through.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := session.FromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpresp.ActionResult{
				Success: false,
				Message: httperr.MsgUnauthorized,
			})
			return
		}
		c.Next()
	}
}

func isAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}
