package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ebroker-go/internal/broker"
	"ebroker-go/internal/config"
	"ebroker-go/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Server exposes the trading operations and CRUD surfaces over HTTP.
type Server struct {
	httpServer *http.Server
	traders    *broker.TraderManager
	equities   *broker.Manager[models.Equity]
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// New creates a Server wired to the given managers.
func New(cfg config.Server, traders *broker.TraderManager, equities *broker.Manager[models.Equity], logger *zap.Logger) *Server {
	s := &Server{
		traders:  traders,
		equities: equities,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		logger:   logger.Named("http"),
	}

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.Router(),
	}

	return s
}

// Router builds the gin handler tree. Exposed separately so tests can drive
// it through httptest without binding a port.
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.rateLimit())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	traders := r.Group("/traders")
	traders.GET("", s.listTraders)
	traders.GET("/:id", s.getTrader)
	traders.POST("", s.createTrader)
	traders.PUT("", s.updateTrader)
	traders.DELETE("/:id", s.deleteTrader)
	traders.POST("/buy", s.buyEquity)
	traders.POST("/sell", s.sellEquity)
	traders.POST("/addfunds", s.addFunds)

	equities := r.Group("/equities")
	equities.GET("", s.listEquities)
	equities.GET("/:id", s.getEquity)
	equities.POST("", s.createEquity)
	equities.PUT("", s.updateEquity)
	equities.DELETE("/:id", s.deleteEquity)

	return r
}

// Start runs the HTTP server in a new goroutine.
func (s *Server) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.httpServer.Addr))
	go func() {
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// writeError maps the domain error taxonomy to HTTP status codes. Business
// rejections never reach here; they come back as a boolean false and map to
// 400 in the operation handlers.
func (s *Server) writeError(c *gin.Context, err error) {
	var notFound *broker.NotFoundError
	var outOfRange *broker.RangeError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error(), "entity": notFound.Entity})
	case errors.As(err, &outOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": outOfRange.Error()})
	case errors.Is(err, broker.ErrNilModel):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
