package server

import (
	"runtime"
	"sync"
	"time"
)

// HealthStatus represents the current health state of the service.
type HealthStatus struct {
	Status        string    `json:"status"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	MemoryMB      float64   `json:"memory_mb"`
	LastCheck     time.Time `json:"last_check"`
	Version       string    `json:"version,omitempty"`
	Goroutines    int       `json:"goroutines"`
}

// HealthChecker provides health status for the service.
type HealthChecker struct {
	mu           sync.RWMutex
	startTime    time.Time
	lastCheck    time.Time
	version      string
	customChecks map[string]func() error
}

// NewHealthChecker creates a new health checker.
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		startTime:    time.Now(),
		version:      version,
		customChecks: make(map[string]func() error),
	}
}

// Check performs a health check and returns the status.
func (h *HealthChecker) Check() *HealthStatus {
	h.mu.Lock()
	h.lastCheck = time.Now()
	lastCheck := h.lastCheck
	h.mu.Unlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &HealthStatus{
		Status:        h.determineStatus(),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		MemoryMB:      float64(memStats.Alloc) / 1024 / 1024,
		LastCheck:     lastCheck,
		Version:       h.version,
		Goroutines:    runtime.NumGoroutine(),
	}
}

// determineStatus checks all health indicators and returns the status.
func (h *HealthChecker) determineStatus() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, check := range h.customChecks {
		if err := check(); err != nil {
			return "unhealthy"
		}
	}
	return "healthy"
}

// AddCheck adds a custom health check function.
func (h *HealthChecker) AddCheck(name string, check func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.customChecks[name] = check
}
