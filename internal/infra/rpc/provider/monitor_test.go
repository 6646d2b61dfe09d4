package provider

import (
	"testing"
	"time"
)

func TestMonitorAccumulation(t *testing.T) {
	m := NewProviderMonitor()

	m.RecordRequest(100 * time.Millisecond)

	stats := m.GetStats()
	if stats.RequestsLastHour != 1 {
		t.Errorf("Expected 1 request, got %d", stats.RequestsLastHour)
	}

	for i := 0; i < 100; i++ {
		m.RecordRequest(50 * time.Millisecond)
	}

	stats = m.GetStats()
	if stats.RequestsLastHour != 101 {
		t.Errorf("Expected 101 requests, got %d", stats.RequestsLastHour)
	}
	if stats.AverageLatency != 50*time.Millisecond {
		t.Errorf("Expected latency window to drop the oldest sample, got %v", stats.AverageLatency)
	}
	if stats.Status != StatusHealthy {
		t.Errorf("Expected healthy, got %s", stats.Status)
	}
}

func TestMonitorThrottle(t *testing.T) {
	m := NewProviderMonitor()

	for i := 0; i < 6; i++ {
		m.RecordThrottle(429, "30")
	}
	if got := m.CheckProviderStatus(); got != StatusThrottled {
		t.Errorf("Expected throttled, got %s", got)
	}
	if m.GetRetryAfter() <= 0 || m.GetRetryAfter() > 30*time.Second {
		t.Errorf("Expected retry-after within 30s, got %v", m.GetRetryAfter())
	}

	m.RecordThrottle(403, "")
	if got := m.CheckProviderStatus(); got != StatusBlocked {
		t.Errorf("Expected blocked, got %s", got)
	}
}

func TestMonitorDegraded(t *testing.T) {
	m := NewProviderMonitor()
	for i := 0; i < 11; i++ {
		m.RecordRequest(5 * time.Second)
	}
	if got := m.CheckProviderStatus(); got != StatusDegraded {
		t.Errorf("Expected degraded, got %s", got)
	}
}

func TestDetectThrottlePattern(t *testing.T) {
	m := NewProviderMonitor()
	if !m.DetectThrottlePattern("Rate limit exceeded for this IP") {
		t.Error("expected throttle pattern match")
	}
	if m.DetectThrottlePattern("Invalid Bitcoin address") {
		t.Error("unexpected throttle pattern match")
	}
}
