package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RasheedLewis/VibeCraft-sub006/internal/config"
	"github.com/RasheedLewis/VibeCraft-sub006/internal/usecase"
)

// Server exposes the timing engine over HTTP. It adapts the pure core only:
// no media work, no persistence.
type Server struct {
	uc      usecase.Usecase
	presets config.Config
	log     *zap.Logger
}

func New(presets config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		uc:      usecase.New(usecase.Deps{Log: log}),
		presets: presets,
		log:     log,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/healthz", s.handleHealth)

	v1 := r.Group("/v1")
	v1.POST("/plan", s.handlePlan)
	v1.POST("/verify", s.handleVerify)
	v1.POST("/effects", s.handleEffects)
	v1.POST("/motion", s.handleMotion)
	return r
}

// Run blocks serving on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info("serving", zap.String("addr", addr))
	return s.Router().Run(addr)
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		s.log.Info("request",
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

const requestIDKey = "request_id"

func requestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
