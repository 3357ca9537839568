package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/unitq/unitq-backend/internal/config"
	"github.com/unitq/unitq-backend/internal/handler"
	"github.com/unitq/unitq-backend/internal/middleware"
	"github.com/unitq/unitq-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Unit    *handler.UnitHandler
	Session *handler.SessionHandler
	Wrong   *handler.WrongAnswerHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the API (120 requests per minute per IP). Heartbeats
	// arrive every few seconds, so the budget is generous.
	apiLimiter := middleware.NewRateLimiter(120, time.Minute)

	// ─── 1. Session Group (JWT) ────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireUserJWT(cfg.JWTSecret),
		apiLimiter.Middleware(),
	)
	{
		units := api.Group("/units")
		{
			units.GET("", handlers.Unit.List)
			units.GET("/:unit_id", handlers.Unit.Get)
		}

		sessions := api.Group("/sessions")
		{
			sessions.POST("/by-unit/:unit_id", handlers.Session.CreateByUnit)
			sessions.POST("/by-mock", handlers.Session.CreateByMock)
			sessions.POST("/by-all", handlers.Session.CreateByAll)
			sessions.GET("/latest", handlers.Session.GetLatest)
			sessions.GET("/:session_id", handlers.Session.Get)

			sessions.GET("/:session_id/next", handlers.Session.Next)
			sessions.GET("/:session_id/previous", handlers.Session.Previous)
			sessions.GET("/:session_id/current", handlers.Session.Current)
			sessions.POST("/:session_id/questions/:question_map_id/answer", handlers.Session.Submit)

			sessions.POST("/:session_id/segments/start", handlers.Session.StartSegment)
			sessions.POST("/:session_id/segments/stop", handlers.Session.StopSegment)
			sessions.POST("/:session_id/segments/heartbeat", handlers.Session.Heartbeat)
			sessions.GET("/:session_id/elapsed-ms", handlers.Session.ElapsedMs)
		}

		wrong := api.Group("/wrong-answers")
		{
			wrong.GET("", handlers.Wrong.List)
			wrong.GET("/:question_id", handlers.Wrong.Detail)
			wrong.POST("/:question_id/review", handlers.Wrong.Review)
		}
	}

	// ─── 2. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserWSAuth(cfg.JWTSecret))
	{
		ws.GET("/sessions/:session_id/timer", handlers.WS.SessionTimerStream)
	}

	return router
}
