// Package ez registers typed action endpoints: bind input, run a handler,
// map domain errors to the response envelope. Non-CRUD operations (schedule,
// reschedule, resolve, join...) all go through here so error mapping lives in
// exactly one place.
package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reclamation-api/internal/domain"
	resp "reclamation-api/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Binder selects how the typed input is populated.
type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // handler reads c.Param itself
)

// Action is one endpoint: I is the bound input, O the success payload.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	// Roles restricts access on top of the group's auth middleware.
	Roles []string
	// Status overrides the success HTTP status (default 200).
	Status  int
	Handler func(c *gin.Context, in *I) (O, error)
}

func Register[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		if len(a.Roles) > 0 && !hasRole(c.GetString("role"), a.Roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			writeErr(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// writeErr maps the domain error kind to the HTTP status and wire code.
// Internal errors keep their details out of the response body.
func writeErr(c *gin.Context, err error) {
	code := resp.CodeForKind(domain.KindOf(err))
	msg := err.Error()
	if code == resp.CodeServerError {
		_ = c.Error(err) // surfaces in the access log
		msg = ""
	}
	c.JSON(code, resp.Error(code, msg))
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
