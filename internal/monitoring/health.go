package monitoring

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemStats is a snapshot of host resource usage.
type SystemStats struct {
	CPUPercent        float64 `json:"cpuPercent"`
	MemoryUsedPercent float64 `json:"memoryUsedPercent"`
	HostUptimeSeconds uint64  `json:"hostUptimeSeconds"`
}

// Health is the service health report.
type Health struct {
	Status           string      `json:"status"`
	StartedAt        time.Time   `json:"startedAt"`
	UptimeSeconds    int64       `json:"uptimeSeconds"`
	WebsocketClients int         `json:"websocketClients"`
	System           SystemStats `json:"system"`
}

// HealthChecker builds health reports.
type HealthChecker struct {
	started time.Time
	clients func() int
}

// NewHealthChecker creates a HealthChecker. clients may be nil.
func NewHealthChecker(clients func() int) *HealthChecker {
	return &HealthChecker{started: time.Now(), clients: clients}
}

// Check gathers the current report. Host metrics that cannot be read are left at zero.
func (h *HealthChecker) Check(ctx context.Context) Health {
	report := Health{
		Status:        "ok",
		StartedAt:     h.started.UTC(),
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	}
	if h.clients != nil {
		report.WebsocketClients = h.clients()
	}

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err != nil {
		log.Debug().Err(err).Msg("Failed to read CPU usage")
	} else if len(percents) > 0 {
		report.System.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		log.Debug().Err(err).Msg("Failed to read memory usage")
	} else {
		report.System.MemoryUsedPercent = vm.UsedPercent
	}

	if uptime, err := host.UptimeWithContext(ctx); err != nil {
		log.Debug().Err(err).Msg("Failed to read host uptime")
	} else {
		report.System.HostUptimeSeconds = uptime
	}

	return report
}
