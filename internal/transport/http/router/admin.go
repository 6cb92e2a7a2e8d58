package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reclamation-api/internal/core/auth"
	"reclamation-api/internal/domain"
	"reclamation-api/internal/transport/http/handler"
	mdw "reclamation-api/internal/transport/http/middleware"
)

// AdminDeps bundles the back-office engine's handlers.
type AdminDeps struct {
	Users      *handler.UserAdminHandler
	Stats      *handler.StatsHandler
	JWTer      *auth.JWTer
	CORSOrigin string
}

// NewAdminEngine is lighter on middleware than the public engine: it sits
// behind the office network, so ginzap logging plus recovery is enough.
func NewAdminEngine(l *zap.Logger, d AdminDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		ginzap.Ginzap(l, time.RFC3339, true),
		ginzap.RecoveryWithZap(l, true),
		corsFor(d.CORSOrigin),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWTer, domain.RoleAdmin, domain.RoleDirector))

	d.Users.Mount(admin)
	d.Stats.MountAdmin(admin)

	return r
}
