package api

import (
	"ChintuIdrive/server-surveillance/monitor"
	"net/http"

	"github.com/gin-gonic/gin"
)

type MonitorHandler struct {
	monitor *monitor.Monitor
}

func NewMonitorHandler(m *monitor.Monitor) *MonitorHandler {
	return &MonitorHandler{monitor: m}
}

func (mh *MonitorHandler) Start(c *gin.Context) {
	mh.monitor.Start()
	c.JSON(http.StatusOK, mh.monitor.Status())
}

// Stop does not wait for an in-flight tick.
func (mh *MonitorHandler) Stop(c *gin.Context) {
	mh.monitor.Stop()
	c.JSON(http.StatusOK, mh.monitor.Status())
}

func (mh *MonitorHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, mh.monitor.Status())
}
