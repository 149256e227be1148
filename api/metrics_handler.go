package api

import (
	"ChintuIdrive/server-surveillance/monitor"
	"net/http"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	monitor *monitor.Monitor
}

func NewMetricsHandler(m *monitor.Monitor) *MetricsHandler {
	return &MetricsHandler{monitor: m}
}

// Current reads the host now, independent of the sampling loop.
func (mh *MetricsHandler) Current(c *gin.Context) {
	sample, err := mh.monitor.CurrentMetrics(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusServiceUnavailable, err)
		return
	}
	c.JSON(http.StatusOK, sample)
}

func (mh *MetricsHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, mh.monitor.History())
}

func (mh *MetricsHandler) Host(c *gin.Context) {
	info, err := mh.monitor.HostInfo(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusServiceUnavailable, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
