package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"reclamation-api/internal/core/auth"
	"reclamation-api/internal/transport/http/handler"
	mdw "reclamation-api/internal/transport/http/middleware"
)

// APIDeps bundles everything the citizen/staff engine mounts.
type APIDeps struct {
	Auth       *handler.AuthHandler
	Meetings   *handler.MeetingHandler
	Complaints *handler.ComplaintHandler
	Stats      *handler.StatsHandler
	JWTer      *auth.JWTer
	CORSOrigin string
}

func NewAPIEngine(l *zap.Logger, d APIDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
		corsFor(d.CORSOrigin),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// login gets its own per-IP bucket on top of the global limiter
	pub := api.Group("", mdw.RateLimitPerIP(5, 10))
	d.Auth.MountPublic(pub)

	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWTer))
	d.Auth.MountAuthed(authed)
	d.Meetings.Mount(authed)
	d.Complaints.Mount(authed)
	d.Stats.MountAPI(authed)

	return r
}

func corsFor(origin string) gin.HandlerFunc {
	if origin == "" {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = []string{origin}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cors.New(cfg)
}
