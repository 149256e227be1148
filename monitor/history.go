package monitor

import (
	"ChintuIdrive/server-surveillance/dto"
	"sync"
	"time"
)

// HistoryStore keeps the most recent CPU and RAM readings with their
// timestamps in fixed-capacity ring buffers. Disk usage is not kept.
type HistoryStore struct {
	mu         sync.RWMutex
	cpu        []float64
	ram        []float64
	timestamps []time.Time
	head       int // next write position
	count      int
}

// NewHistoryStore clamps capacity to at least 1.
func NewHistoryStore(capacity int) *HistoryStore {
	if capacity < 1 {
		capacity = 1
	}
	return &HistoryStore{
		cpu:        make([]float64, capacity),
		ram:        make([]float64, capacity),
		timestamps: make([]time.Time, capacity),
	}
}

// Record appends a reading, overwriting the oldest one once full.
func (hs *HistoryStore) Record(sample dto.Sample) {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	hs.cpu[hs.head] = sample.CPU
	hs.ram[hs.head] = sample.RAM
	hs.timestamps[hs.head] = sample.Timestamp
	hs.head = (hs.head + 1) % len(hs.timestamps)
	if hs.count < len(hs.timestamps) {
		hs.count++
	}
}

// Snapshot returns a chronological copy of the history.
func (hs *HistoryStore) Snapshot() dto.HistorySnapshot {
	hs.mu.RLock()
	defer hs.mu.RUnlock()

	snapshot := dto.HistorySnapshot{
		CPU:        make([]float64, hs.count),
		RAM:        make([]float64, hs.count),
		Timestamps: make([]time.Time, hs.count),
	}
	// oldest entry is at head once the buffer has wrapped
	start := 0
	if hs.count == len(hs.timestamps) {
		start = hs.head
	}
	for i := 0; i < hs.count; i++ {
		j := (start + i) % len(hs.timestamps)
		snapshot.CPU[i] = hs.cpu[j]
		snapshot.RAM[i] = hs.ram[j]
		snapshot.Timestamps[i] = hs.timestamps[j]
	}
	return snapshot
}

func (hs *HistoryStore) Len() int {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return hs.count
}

func (hs *HistoryStore) Capacity() int {
	return len(hs.timestamps)
}
