package monitor

import (
	"ChintuIdrive/server-surveillance/actions"
	"ChintuIdrive/server-surveillance/analyzer"
	"ChintuIdrive/server-surveillance/collector"
	"ChintuIdrive/server-surveillance/conf"
	"ChintuIdrive/server-surveillance/dto"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidThreshold    = errors.New("threshold must be a number between 0 and 100")
	ErrHostInfoUnavailable = errors.New("metric source does not provide host info")
)

// Settings seed a Monitor. They come from the alerts section of the config.
type Settings struct {
	Threshold     float64
	HistorySize   int
	CheckInterval time.Duration
}

func SettingsFromConfig(config *conf.Config) Settings {
	return Settings{
		Threshold:     config.Threshold(),
		HistorySize:   config.Alerts.HistorySize,
		CheckInterval: config.CheckInterval(),
	}
}

// Monitor samples the host on a fixed interval, keeps the rolling history,
// queues alerts for threshold breaches and notifies about them.
// All methods are safe for concurrent use.
type Monitor struct {
	interval time.Duration
	source   collector.MetricSource
	notifier actions.Notifier
	history  *HistoryStore
	alerts   *AlertSink
	// float64 bits
	threshold atomic.Uint64
	newID     func() string

	// held for the whole tick so ticks never overlap, even across Stop/Start
	tickMu sync.Mutex

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New returns a stopped Monitor. Invalid settings are reported as
// *conf.ConfigurationError. A nil notifier only logs.
func New(settings Settings, source collector.MetricSource, notifier actions.Notifier) (*Monitor, error) {
	if source == nil {
		return nil, &conf.ConfigurationError{Field: "metric-source", Reason: "is required"}
	}
	if settings.HistorySize < 1 {
		return nil, &conf.ConfigurationError{Field: "alerts.history-size", Reason: "must be at least 1"}
	}
	if settings.CheckInterval <= 0 {
		return nil, &conf.ConfigurationError{Field: "alerts.check-interval", Reason: "must be positive"}
	}
	if !validThreshold(settings.Threshold) {
		return nil, &conf.ConfigurationError{Field: "alerts.default-threshold", Reason: ErrInvalidThreshold.Error()}
	}
	if notifier == nil {
		notifier = actions.NewActor(0, actions.LogSender{})
	}

	m := &Monitor{
		interval: settings.CheckInterval,
		source:   source,
		notifier: notifier,
		history:  NewHistoryStore(settings.HistorySize),
		alerts:   NewAlertSink(),
		newID:    uuid.NewString,
	}
	m.threshold.Store(math.Float64bits(settings.Threshold))
	return m, nil
}

// Start launches the sampling loop. It is a no-op while running.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.run(m.stop, m.done)
	log.Printf("monitor started, interval %v", m.interval)
}

// Stop asks the loop to exit. A tick already in progress is allowed to finish;
// use Wait to block until the loop has exited.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	close(m.stop)
	log.Printf("monitor stopping")
}

// Wait blocks until the most recently started loop has exited.
func (m *Monitor) Wait() {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	timer := time.NewTimer(m.interval)
	defer timer.Stop()
	ctx := context.Background()

	for {
		select {
		case <-stop:
			return
		default:
		}

		if err := m.Tick(ctx); err != nil {
			log.Printf("[WARN] tick skipped: %v", err)
		}

		timer.Reset(m.interval)
		select {
		case <-stop:
			return
		case <-timer.C:
		}
	}
}

// Tick runs one iteration: read, record, detect, alert. A failed read skips
// the tick and is returned; notification failures are only logged.
func (m *Monitor) Tick(ctx context.Context) error {
	m.tickMu.Lock()
	defer m.tickMu.Unlock()

	sample, err := m.source.Read(ctx)
	if err != nil {
		return fmt.Errorf("read metrics: %w", err)
	}
	m.history.Record(sample)

	// threshold is read once so a concurrent change applies from the next tick
	threshold := m.Threshold()
	for _, metric := range sample.Metrics(threshold) {
		outcome := analyzer.EvaluateMetric(metric, sample.Timestamp)
		if !outcome.Breach {
			continue
		}
		alert := outcome.Alert
		alert.ID = m.newID()
		m.alerts.Push(alert)
		log.Printf("%s breached: %.1f%% > %.1f%%", metric.Name, metric.Value, metric.Threshold)

		if !m.notifier.Notify(ctx, outcome.Subject, outcome.Body) {
			log.Printf("[WARN] notification for %s alert %s not delivered", alert.Metric, alert.ID)
		}
	}
	return nil
}

// CurrentMetrics reads the source directly, outside the sampling loop.
// Sources with a separate on-demand path are read through it so the loop's
// measurements stay undisturbed.
func (m *Monitor) CurrentMetrics(ctx context.Context) (dto.Sample, error) {
	if cs, ok := m.source.(collector.CurrentSource); ok {
		return cs.ReadCurrent(ctx)
	}
	return m.source.Read(ctx)
}

func (m *Monitor) HostInfo(ctx context.Context) (dto.HostInfo, error) {
	his, ok := m.source.(collector.HostInfoSource)
	if !ok {
		return dto.HostInfo{}, ErrHostInfoUnavailable
	}
	return his.HostInfo(ctx)
}

func (m *Monitor) History() dto.HistorySnapshot {
	return m.history.Snapshot()
}

// DrainAlerts returns and removes every queued alert.
func (m *Monitor) DrainAlerts() []dto.Alert {
	return m.alerts.DrainAll()
}

func (m *Monitor) Threshold() float64 {
	return math.Float64frombits(m.threshold.Load())
}

// SetThreshold takes effect from the next tick.
func (m *Monitor) SetThreshold(threshold float64) error {
	if !validThreshold(threshold) {
		return ErrInvalidThreshold
	}
	m.threshold.Store(math.Float64bits(threshold))
	return nil
}

func validThreshold(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}

func (m *Monitor) Status() dto.MonitorStatus {
	return dto.MonitorStatus{
		Running:         m.Running(),
		Threshold:       m.Threshold(),
		CheckInterval:   m.interval.String(),
		HistoryLen:      m.history.Len(),
		HistoryCapacity: m.history.Capacity(),
		PendingAlerts:   m.alerts.Len(),
	}
}
