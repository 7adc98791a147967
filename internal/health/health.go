package health

import (
	"context"
	"time"

	"lab-reception/internal/cache"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

const checkTimeout = 2 * time.Second

// Pinger is any dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	backend  Pinger
	database Pinger
	archive  Pinger
}

type HealthStatus struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
}

// DetailedStatus adds host usage to the readiness report.
type DetailedStatus struct {
	HealthStatus
	Host HostStats `json:"host"`
}

type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	DiskPercent   float64 `json:"disk_percent"`
}

// NewHealthChecker builds a checker. database and archive may be nil when
// the optional audit log or document archive are disabled.
func NewHealthChecker(backend, database, archive Pinger) *HealthChecker {
	return &HealthChecker{backend: backend, database: database, archive: archive}
}

// CheckBasic pings the backend and the optional components. Only the
// backend decides readiness; the others are reported.
func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	components := map[string]ComponentHealth{
		"backend":  h.check(ctx, h.backend),
		"database": h.check(ctx, h.database),
		"archive":  h.check(ctx, h.archive),
		"cache":    h.checkCache(ctx),
	}

	status := StatusHealthy
	if components["backend"].Status != StatusHealthy {
		status = StatusUnhealthy
	}
	return HealthStatus{Status: status, Components: components}
}

func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	return DetailedStatus{HealthStatus: h.CheckBasic(ctx), Host: hostStats()}
}

func (h *HealthChecker) check(ctx context.Context, p Pinger) ComponentHealth {
	if p == nil {
		return ComponentHealth{Status: StatusDisabled}
	}
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{Status: StatusUnhealthy, ResponseTime: responseTime, Error: err.Error()}
	}
	return ComponentHealth{Status: StatusHealthy, ResponseTime: responseTime}
}

func (h *HealthChecker) checkCache(ctx context.Context) ComponentHealth {
	if cache.GetClient() == nil {
		return ComponentHealth{Status: StatusDisabled}
	}
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	ok := cache.IsHealthy(ctx)
	responseTime := time.Since(start).Milliseconds()
	if !ok {
		return ComponentHealth{Status: StatusUnhealthy, ResponseTime: responseTime}
	}
	return ComponentHealth{Status: StatusHealthy, ResponseTime: responseTime}
}

// hostStats samples CPU since the previous call, so it never blocks.
func hostStats() HostStats {
	var s HostStats
	if cpuPercents, err := cpu.Percent(0, false); err == nil && len(cpuPercents) > 0 {
		s.CPUPercent = cpuPercents[0]
	}
	if memStats, err := mem.VirtualMemory(); err == nil {
		s.MemoryPercent = memStats.UsedPercent
		s.MemoryUsedMB = memStats.Used / 1024 / 1024
	}
	if diskStats, err := disk.Usage("/"); err == nil {
		s.DiskPercent = diskStats.UsedPercent
	}
	return s
}
