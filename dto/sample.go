package dto

import "time"

// Metric names, in the order they are evaluated on every tick.
const (
	CPUMetric  = "CPU"
	RAMMetric  = "RAM"
	DiskMetric = "Disk"
)

// Sample is one reading of the host taken by a MetricSource.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	CPU       float64   `json:"cpu"`
	RAM       float64   `json:"ram"`
	Disk      float64   `json:"disk"`
}

// Metrics returns the sample as named readings against threshold,
// ordered cpu, ram, disk.
func (s Sample) Metrics(threshold float64) []Metric[float64] {
	return []Metric[float64]{
		{Name: CPUMetric, Value: s.CPU, Threshold: threshold},
		{Name: RAMMetric, Value: s.RAM, Threshold: threshold},
		{Name: DiskMetric, Value: s.Disk, Threshold: threshold},
	}
}

// HistorySnapshot is a point-in-time copy of the rolling history used for charting.
// All three slices have the same length and are in chronological order.
type HistorySnapshot struct {
	CPU        []float64   `json:"cpu"`
	RAM        []float64   `json:"ram"`
	Timestamps []time.Time `json:"timestamps"`
}

func (hs HistorySnapshot) Len() int {
	return len(hs.Timestamps)
}
