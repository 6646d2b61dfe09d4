package health

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/bitcoin-adapter/internal/infra/rpc/provider"
)

// CheckFunc probes a dependency.
type CheckFunc func(ctx context.Context) error

type check struct {
	fn       CheckFunc
	critical bool
}

// Monitor aggregates health status from the adapter's dependencies.
// Reports are cached for the check interval to avoid hammering providers.
type Monitor struct {
	checks    map[string]check
	providers []provider.Provider
	interval  time.Duration

	mu         sync.Mutex
	lastCheck  time.Time
	lastReport HealthReport
}

// NewMonitor creates a new health monitor.
func NewMonitor(interval time.Duration) *Monitor {
	return &Monitor{
		checks:   make(map[string]check),
		interval: interval,
	}
}

// AddCheck registers a probe. A failing critical probe makes the system critical,
// any other failure degrades it.
func (m *Monitor) AddCheck(name string, fn CheckFunc, critical bool) {
	m.checks[name] = check{fn: fn, critical: critical}
}

// AddProviders registers remote providers whose health is tracked passively.
func (m *Monitor) AddProviders(providers ...provider.Provider) {
	m.providers = append(m.providers, providers...)
}

// CheckHealth runs every probe unless a recent report is cached.
func (m *Monitor) CheckHealth(ctx context.Context) HealthReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.lastCheck.IsZero() && time.Since(m.lastCheck) < m.interval {
		return m.lastReport
	}

	report := HealthReport{
		SystemStatus: StatusHealthy,
		Components:   make(map[string]ComponentHealth),
	}

	for name, c := range m.checks {
		h := ComponentHealth{Name: name, Status: StatusHealthy}
		start := time.Now()
		if err := c.fn(ctx); err != nil {
			h.Error = err.Error()
			h.Status = StatusDegraded
			if c.critical {
				h.Status = StatusCritical
			}
		}
		h.Latency = time.Since(start)
		report.Components[name] = h
		report.SystemStatus = worse(report.SystemStatus, h.Status)
	}

	for _, p := range m.providers {
		ph := p.GetHealth()
		h := ComponentHealth{
			Name:      p.GetName(),
			Status:    StatusHealthy,
			ErrorRate: ph.ErrorRate,
			Latency:   ph.Latency,
		}
		if !p.IsAvailable() || !ph.Available {
			h.Status = StatusDegraded
		}
		report.Components["provider:"+p.GetName()] = h
		report.SystemStatus = worse(report.SystemStatus, h.Status)
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}
