package collector

import (
	"ChintuIdrive/server-surveillance/dto"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/disk"
	"github.com/shirou/gopsutil/load"
	"github.com/shirou/gopsutil/mem"
)

// SystemStatsCollector reads CPU, memory and filesystem usage through gopsutil.
type SystemStatsCollector struct {
	mountPoint string

	// overridable for tests
	now         func() time.Time
	cpuPercent  func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	cpuCounts   func(ctx context.Context, logical bool) (int, error)
	virtualMem  func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	diskUsage   func(ctx context.Context, path string) (*disk.UsageStat, error)
	loadAverage func(ctx context.Context) (*load.AvgStat, error)
}

func NewSystemStatsCollector(mountPoint string) *SystemStatsCollector {
	if mountPoint == "" {
		mountPoint = "/"
	}
	return &SystemStatsCollector{
		mountPoint:  mountPoint,
		now:         time.Now,
		cpuPercent:  cpu.PercentWithContext,
		cpuCounts:   cpu.CountsWithContext,
		virtualMem:  mem.VirtualMemoryWithContext,
		diskUsage:   disk.UsageWithContext,
		loadAverage: load.AvgWithContext,
	}
}

// currentCPUWindow is how long ReadCurrent measures CPU usage for.
const currentCPUWindow = 250 * time.Millisecond

// Read takes one sample for the sampling loop. CPU usage is measured since
// the previous Read; gopsutil keeps that baseline process-wide, so only one
// caller may use Read.
func (ssc *SystemStatsCollector) Read(ctx context.Context) (dto.Sample, error) {
	return ssc.read(ctx, 0)
}

// ReadCurrent measures CPU over its own short window and leaves the
// baseline used by Read untouched.
func (ssc *SystemStatsCollector) ReadCurrent(ctx context.Context) (dto.Sample, error) {
	return ssc.read(ctx, currentCPUWindow)
}

func (ssc *SystemStatsCollector) read(ctx context.Context, cpuWindow time.Duration) (dto.Sample, error) {
	cpuUsage, err := ssc.cpuPercent(ctx, cpuWindow, false)
	if err != nil {
		return dto.Sample{}, fmt.Errorf("cpu usage: %w", err)
	}
	if len(cpuUsage) == 0 {
		return dto.Sample{}, fmt.Errorf("cpu usage: no data")
	}
	memStats, err := ssc.virtualMem(ctx)
	if err != nil {
		return dto.Sample{}, fmt.Errorf("memory usage: %w", err)
	}
	diskStats, err := ssc.diskUsage(ctx, ssc.mountPoint)
	if err != nil {
		return dto.Sample{}, fmt.Errorf("disk usage for %s: %w", ssc.mountPoint, err)
	}

	return dto.Sample{
		Timestamp: ssc.now(),
		CPU:       clampPercent(cpuUsage[0]),
		RAM:       clampPercent(memStats.UsedPercent),
		Disk:      clampPercent(diskStats.UsedPercent),
	}, nil
}

// HostInfo reports core counts, memory and disk totals for the monitored mount.
// Load average is best effort and left at zero where unsupported.
func (ssc *SystemStatsCollector) HostInfo(ctx context.Context) (dto.HostInfo, error) {
	physical, err := ssc.cpuCounts(ctx, false)
	if err != nil {
		return dto.HostInfo{}, fmt.Errorf("physical core count: %w", err)
	}
	logical, err := ssc.cpuCounts(ctx, true)
	if err != nil {
		return dto.HostInfo{}, fmt.Errorf("logical core count: %w", err)
	}
	memStats, err := ssc.virtualMem(ctx)
	if err != nil {
		return dto.HostInfo{}, fmt.Errorf("memory stats: %w", err)
	}
	diskStats, err := ssc.diskUsage(ctx, ssc.mountPoint)
	if err != nil {
		return dto.HostInfo{}, fmt.Errorf("disk stats for %s: %w", ssc.mountPoint, err)
	}

	info := dto.HostInfo{
		PhysicalCores: physical,
		LogicalCores:  logical,
		Memory: dto.MemoryStats{
			Total:     memStats.Total,
			Available: memStats.Available,
			Used:      memStats.Used,
		},
		Disk: dto.DiskStats{
			Path:  ssc.mountPoint,
			Total: diskStats.Total,
			Used:  diskStats.Used,
			Free:  diskStats.Free,
		},
	}

	loadAvg, err := ssc.loadAverage(ctx)
	if err != nil {
		log.Printf("load average unavailable: %v", err)
	} else {
		info.AvgLoad1 = loadAvg.Load1
		info.AvgLoad5 = loadAvg.Load5
		info.AvgLoad15 = loadAvg.Load15
	}
	return info, nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

var (
	_ MetricSource   = (*SystemStatsCollector)(nil)
	_ HostInfoSource = (*SystemStatsCollector)(nil)
)
