package collector

import (
	"ChintuIdrive/server-surveillance/dto"
	"context"
)

// MetricSource reads the current utilisation of the host.
type MetricSource interface {
	Read(ctx context.Context) (dto.Sample, error)
}

// HostInfoSource describes the host for display next to the live metrics.
// CurrentSource takes an on-demand reading that does not disturb the
// measurement state Read relies on.
type CurrentSource interface {
	ReadCurrent(ctx context.Context) (dto.Sample, error)
}

type HostInfoSource interface {
	HostInfo(ctx context.Context) (dto.HostInfo, error)
}
