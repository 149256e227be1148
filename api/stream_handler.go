package api

import (
	"ChintuIdrive/server-surveillance/dto"
	"ChintuIdrive/server-surveillance/monitor"
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	// dashboards are served from other origins
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamFrame is pushed to websocket clients on every stream interval.
// Alerts in a frame have been drained from the queue.
type StreamFrame struct {
	Current *dto.Sample         `json:"current,omitempty"`
	Error   string              `json:"error,omitempty"`
	History dto.HistorySnapshot `json:"history"`
	Alerts  []dto.Alert         `json:"alerts"`
	Status  dto.MonitorStatus   `json:"status"`
}

type StreamHandler struct {
	monitor  *monitor.Monitor
	interval time.Duration
}

func NewStreamHandler(m *monitor.Monitor, interval time.Duration) *StreamHandler {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &StreamHandler{monitor: m, interval: interval}
}

func (sh *StreamHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	log.Printf("stream client connected: %s", c.ClientIP())

	// the read side only handles control frames and notices disconnects
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		}
	}()

	ticker := time.NewTicker(sh.interval)
	defer ticker.Stop()
	for {
		if err := sh.push(c.Request.Context(), conn); err != nil {
			log.Printf("stream client %s dropped: %v", c.ClientIP(), err)
			return
		}
		select {
		case <-closed:
			log.Printf("stream client disconnected: %s", c.ClientIP())
			return
		case <-ticker.C:
		}
	}
}

func (sh *StreamHandler) push(ctx context.Context, conn *websocket.Conn) error {
	frame := StreamFrame{
		History: sh.monitor.History(),
		Status:  sh.monitor.Status(),
	}
	if sample, err := sh.monitor.CurrentMetrics(ctx); err != nil {
		frame.Error = err.Error()
	} else {
		frame.Current = &sample
	}
	frame.Alerts = sh.monitor.DrainAlerts()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := conn.WriteJSON(frame); err != nil {
		return err
	}
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}
