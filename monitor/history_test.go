package monitor

import (
	"ChintuIdrive/server-surveillance/dto"
	"testing"
	"time"
)

func TestHistoryStoreCapacityClamped(t *testing.T) {
	for _, c := range []int{-5, 0} {
		if got := NewHistoryStore(c).Capacity(); got != 1 {
			t.Errorf("NewHistoryStore(%d).Capacity() = %d, want 1", c, got)
		}
	}
}

func TestHistoryStoreWrap(t *testing.T) {
	hs := NewHistoryStore(3)
	for i := 1; i <= 5; i++ {
		hs.Record(dto.Sample{
			Timestamp: baseTime.Add(time.Duration(i) * time.Second),
			CPU:       float64(i),
			RAM:       float64(i * 10),
		})
	}

	snap := hs.Snapshot()
	wantCPU := []float64{3, 4, 5}
	wantRAM := []float64{30, 40, 50}
	if snap.Len() != 3 {
		t.Fatalf("len = %d, want 3", snap.Len())
	}
	for i := range wantCPU {
		if snap.CPU[i] != wantCPU[i] || snap.RAM[i] != wantRAM[i] {
			t.Errorf("entry %d = (%v, %v), want (%v, %v)", i, snap.CPU[i], snap.RAM[i], wantCPU[i], wantRAM[i])
		}
		if want := baseTime.Add(time.Duration(i+3) * time.Second); !snap.Timestamps[i].Equal(want) {
			t.Errorf("timestamp %d = %v, want %v", i, snap.Timestamps[i], want)
		}
	}
}

func TestHistorySnapshotIsCopy(t *testing.T) {
	hs := NewHistoryStore(2)
	hs.Record(dto.Sample{Timestamp: baseTime, CPU: 1, RAM: 2})

	snap := hs.Snapshot()
	snap.CPU[0] = 99

	if got := hs.Snapshot().CPU[0]; got != 1 {
		t.Errorf("store mutated through snapshot: %v", got)
	}
}

func TestHistoryEmptySnapshot(t *testing.T) {
	snap := NewHistoryStore(4).Snapshot()
	if snap.Len() != 0 || snap.CPU == nil || snap.Timestamps == nil {
		t.Errorf("empty snapshot = %+v", snap)
	}
}
