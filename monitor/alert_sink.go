package monitor

import (
	"ChintuIdrive/server-surveillance/dto"
	"sync"
)

// AlertSink queues alerts until a consumer drains them. It is unbounded.
type AlertSink struct {
	mu     sync.Mutex
	alerts []dto.Alert
}

func NewAlertSink() *AlertSink {
	return &AlertSink{}
}

func (as *AlertSink) Push(alert dto.Alert) {
	as.mu.Lock()
	as.alerts = append(as.alerts, alert)
	as.mu.Unlock()
}

// DrainAll removes and returns every queued alert in FIFO order.
func (as *AlertSink) DrainAll() []dto.Alert {
	as.mu.Lock()
	drained := as.alerts
	as.alerts = nil
	as.mu.Unlock()

	if drained == nil {
		return []dto.Alert{}
	}
	return drained
}

func (as *AlertSink) Len() int {
	as.mu.Lock()
	defer as.mu.Unlock()
	return len(as.alerts)
}
