package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Anirudha-Sai/Event-Attendance/config"
	"github.com/Anirudha-Sai/Event-Attendance/internal/api/handler"
	"github.com/Anirudha-Sai/Event-Attendance/internal/api/middleware"
	"github.com/Anirudha-Sai/Event-Attendance/internal/policy"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/jwt"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/metrics"
	"github.com/Anirudha-Sai/Event-Attendance/pkg/redis"
)

// Setup builds the gin engine. rdb and db may be nil (tests, degraded start);
// without redis, revocation checks and rate limits are skipped.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	db *gorm.DB,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	// typed nil pointers must not leak into the interfaces
	var (
		revocation middleware.TokenRevocation
		limiter    middleware.RateLimiter
	)
	if rdb != nil {
		revocation = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── probes ──
	r.GET("/health", healthHandler(db, rdb))
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	loginLimit := middleware.RateLimit(limiter, cfg.RateLimit.LoginPerMinute, time.Minute)
	scanLimit := middleware.RateLimit(limiter, cfg.RateLimit.ScanPerMinute, time.Minute)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", loginLimit, h.Auth.Register)
			auth.POST("/login", loginLimit, h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, revocation))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			events := authorized.Group("/events")
			{
				events.GET("", h.Event.List)
				events.POST("", middleware.RequireOperation(policy.OpCreateEvent), h.Event.Create)
				events.GET("/calendar.ics", h.Event.Calendar)
				events.GET("/:id", h.Event.Get)
				events.GET("/:id/attendance", h.Event.Attendance)
				events.GET("/:id/export", h.Event.Export)
			}

			scan := authorized.Group("/scan", scanLimit)
			{
				scan.POST("/lookup", middleware.RequireOperation(policy.OpLookupRoster), h.Scan.Lookup)
				scan.POST("/add", middleware.RequireOperation(policy.OpRecordScan), h.Scan.Add)
			}

			authorized.POST("/hod/action", middleware.RequireOperation(policy.OpApplyHodAction), h.Hod.Action)
			authorized.GET("/students/:roll/qrcode.png", h.Student.Badge)
		}
	}

	return r
}

// healthHandler reports 503 when the database is unreachable; redis is optional
func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := gin.H{"status": "ok"}

		if db != nil {
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body["database"] = "down"
			} else {
				body["database"] = "up"
			}
		}
		switch {
		case rdb == nil:
			body["redis"] = "disabled"
		case rdb.Healthy(ctx):
			body["redis"] = "up"
		default:
			body["redis"] = "down"
		}

		c.JSON(status, body)
	}
}
