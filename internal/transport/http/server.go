package http

import (
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/sweeper/internal/auth"
	"github.com/vovakirdan/sweeper/internal/config"
	"github.com/vovakirdan/sweeper/internal/proto"
	"github.com/vovakirdan/sweeper/internal/service/games"
)

// NewServer builds the game service HTTP server. The action limiter resets
// every minute until stop is closed.
func NewServer(authService *auth.Service, gameService *games.Service, cfg *config.Config, logger *zerolog.Logger, stop <-chan struct{}) *stdhttp.Server {
	limiter := newRateLimiter(cfg.Server.ActionsPerMinute, time.Minute)
	limiter.startReset(stop)

	return &stdhttp.Server{
		Addr:              cfg.Server.Addr,
		Handler:           NewRouter(authService, gameService, limiter, logger),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(authService *auth.Service, gameService *games.Service, limiter *rateLimiter, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	apiHandlers := NewAPIHandlers(authService, logger)
	router.POST(proto.PathRegister, apiHandlers.Register)
	router.POST(proto.PathAuthenticate, apiHandlers.Authenticate)

	gameHandlers := NewGameHandlers(gameService, logger)
	authed := router.Group(proto.PathGames, TokenMiddleware(authService, logger))
	authed.GET("", gameHandlers.List)
	authed.POST("", gameHandlers.Start)
	authed.GET("/:id", gameHandlers.Get)

	actions := authed.Group("/:id", RateLimitMiddleware(limiter, logger))
	actions.POST("/clear", gameHandlers.Clear)
	actions.POST("/toggle", gameHandlers.Toggle)

	return router
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
