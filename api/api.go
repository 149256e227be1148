package api

import (
	"ChintuIdrive/server-surveillance/conf"
	"ChintuIdrive/server-surveillance/monitor"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// NewRouter mounts the consumer endpoints under /api/v1.
func NewRouter(config *conf.Config, m *monitor.Monitor, rl *RateLimiter) *gin.Engine {
	router := gin.New()
	// rate limiting keys on ClientIP, so forwarded headers must not be honoured
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Printf("[WARN] trusted proxies: %v", err)
	}
	router.Use(gin.Recovery(), rl.Middleware())

	metricsHandler := NewMetricsHandler(m)
	alertsHandler := NewAlertsHandler(m)
	monitorHandler := NewMonitorHandler(m)
	streamHandler := NewStreamHandler(m, config.StreamInterval())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/metrics/current", metricsHandler.Current)
		v1.GET("/metrics/history", metricsHandler.History)
		v1.GET("/host", metricsHandler.Host)

		v1.GET("/alerts", alertsHandler.Drain)
		v1.GET("/threshold", alertsHandler.GetThreshold)
		v1.PUT("/threshold", alertsHandler.SetThreshold)

		v1.POST("/monitor/start", monitorHandler.Start)
		v1.POST("/monitor/stop", monitorHandler.Stop)
		v1.GET("/monitor/status", monitorHandler.Status)

		v1.GET("/stream", streamHandler.Stream)
	}
	return router
}

// NewServer builds the HTTP server and the rate limiter it uses. Call
// rl.Stop after the server has shut down.
func NewServer(config *conf.Config, m *monitor.Monitor) (*http.Server, *RateLimiter) {
	rl := NewRateLimiter(rate.Limit(config.API.RateLimit), config.API.RateBurst)
	return &http.Server{
		Addr:              config.API.ListenAddr,
		Handler:           NewRouter(config, m, rl),
		ReadHeaderTimeout: 10 * time.Second,
	}, rl
}

func abortWithError(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}
