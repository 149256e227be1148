package api

import (
	"ChintuIdrive/server-surveillance/monitor"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ThresholdRequest struct {
	Threshold *float64 `json:"threshold" binding:"required,gte=0,lte=100"`
}

type ThresholdResponse struct {
	Threshold float64 `json:"threshold"`
}

type AlertsHandler struct {
	monitor *monitor.Monitor
}

func NewAlertsHandler(m *monitor.Monitor) *AlertsHandler {
	return &AlertsHandler{monitor: m}
}

// Drain hands every queued alert to the caller; they are not returned again.
func (ah *AlertsHandler) Drain(c *gin.Context) {
	c.JSON(http.StatusOK, ah.monitor.DrainAlerts())
}

func (ah *AlertsHandler) GetThreshold(c *gin.Context) {
	c.JSON(http.StatusOK, ThresholdResponse{Threshold: ah.monitor.Threshold()})
}

func (ah *AlertsHandler) SetThreshold(c *gin.Context) {
	var req ThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	if err := ah.monitor.SetThreshold(*req.Threshold); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, ThresholdResponse{Threshold: ah.monitor.Threshold()})
}
