package dto

// HostInfo is the static-ish host description shown next to the live metrics.
type HostInfo struct {
	PhysicalCores int         `json:"physical-cores"`
	LogicalCores  int         `json:"logical-cores"`
	Memory        MemoryStats `json:"memory"`
	Disk          DiskStats   `json:"disk"`
	AvgLoad1      float64     `json:"avg-load1"`
	AvgLoad5      float64     `json:"avg-load5"`
	AvgLoad15     float64     `json:"avg-load15"`
}

type MemoryStats struct {
	Total     uint64 `json:"total"`
	Available uint64 `json:"available"`
	Used      uint64 `json:"used"`
}

type DiskStats struct {
	Path  string `json:"path"`
	Total uint64 `json:"total"`
	Used  uint64 `json:"used"`
	Free  uint64 `json:"free"`
}

// MonitorStatus describes the sampling loop for the status endpoint.
type MonitorStatus struct {
	Running         bool    `json:"running"`
	Threshold       float64 `json:"threshold"`
	CheckInterval   string  `json:"check-interval"`
	HistoryLen      int     `json:"history-len"`
	HistoryCapacity int     `json:"history-capacity"`
	PendingAlerts   int     `json:"pending-alerts"`
}
