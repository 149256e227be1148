package analyzer

import (
	"ChintuIdrive/server-surveillance/dto"
	"fmt"
	"time"
)

// Outcome is the result of comparing one reading against the alert threshold.
// Subject and Body are only set on a breach.
type Outcome struct {
	Breach  bool
	Alert   dto.Alert
	Subject string
	Body    string
}

// Evaluate reports a breach iff value is strictly above threshold.
func Evaluate(metric string, value, threshold float64, at time.Time) Outcome {
	return EvaluateMetric(dto.Metric[float64]{Name: metric, Value: value, Threshold: threshold}, at)
}

func EvaluateMetric(m dto.Metric[float64], at time.Time) Outcome {
	if !m.Breached() {
		return Outcome{}
	}
	return Outcome{
		Breach: true,
		Alert: dto.Alert{
			Timestamp: at,
			Metric:    m.Name,
			Value:     m.Value,
			Threshold: m.Threshold,
			Message:   alertMessage(m, at),
		},
		Subject: fmt.Sprintf("System Alert - %s Critical", m.Name),
		Body:    alertBody(m, at),
	}
}

func alertMessage(m dto.Metric[float64], at time.Time) string {
	return fmt.Sprintf("ALERT: %s high - %.1f%% (threshold %.1f%%, at %s)",
		m.Name, m.Value, m.Threshold, at.Format(time.RFC3339))
}

func alertBody(m dto.Metric[float64], at time.Time) string {
	return fmt.Sprintf(`System monitoring alert

Metric: %s
Current value: %.1f%%
Alert threshold: %.1f%%
Timestamp: %s

This is an automated message generated by the monitoring system.
`, m.Name, m.Value, m.Threshold, at.Format(time.RFC3339))
}
