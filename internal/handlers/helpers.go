package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
	"github.com/BruksfildServices01/clinic-admin/internal/httpresp"
	"github.com/BruksfildServices01/clinic-admin/internal/session"
)

const dateLayout = "2006-01-02"

// --------------------------------------------------
// Params
// --------------------------------------------------

func paramID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		httpresp.Fail(c, http.StatusBadRequest, httperr.MsgInvalidInputs)
		return 0, false
	}
	return uint(n), true
}

func queryID(c *gin.Context, name string) *uint {
	n, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	id := uint(n)
	return &id
}

func parseDateIn(loc *time.Location, s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, loc)
}

type page struct {
	Page   int
	Limit  int
	Offset int
}

func pagination(c *gin.Context) page {
	p, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if p <= 0 {
		p = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return page{Page: p, Limit: limit, Offset: (p - 1) * limit}
}

// --------------------------------------------------
// Session
// --------------------------------------------------

// currentClaims returns the guard-verified claims. Routes using it sit
// behind RequireSession or a permission rule, so a miss is a wiring bug.
func currentClaims(c *gin.Context) *session.Claims {
	claims, ok := session.FromContext(c)
	if !ok {
		httpresp.Fail(c, http.StatusUnauthorized, httperr.MsgUnauthorized)
		c.Abort()
		return nil
	}
	return claims
}

// pushClaims re-signs the caller's cookie with fresh claims when a use case
// returned some.
func pushClaims(c *gin.Context, sessions *session.Manager, current, fresh *session.Claims) {
	if fresh == nil {
		return
	}
	if err := sessions.Push(c, current, fresh); err != nil {
		httpresp.Error(c, "push session", err)
		c.Abort()
	}
}
