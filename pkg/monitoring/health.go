package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck represents a single health check result
type HealthCheck struct {
	Name        string        `json:"name"`
	Status      HealthStatus  `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration"`
}

// HealthReport represents the overall health report
type HealthReport struct {
	Status    HealthStatus   `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Service   string         `json:"service"`
	Checks    []HealthCheck  `json:"checks"`
	Summary   map[string]int `json:"summary"`
}

// HealthChecker is implemented by components that can report their health
type HealthChecker interface {
	Check(ctx context.Context) HealthCheck
}

// CheckFunc adapts a function to HealthChecker
type CheckFunc func(ctx context.Context) HealthCheck

// Check implements HealthChecker
func (f CheckFunc) Check(ctx context.Context) HealthCheck {
	return f(ctx)
}

// UpstreamCheck probes the hospital API server's health endpoint
func UpstreamCheck(baseURL string, client *http.Client) HealthChecker {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return CheckFunc(func(ctx context.Context) HealthCheck {
		start := time.Now()
		check := HealthCheck{Name: "upstream-api", LastChecked: start}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
		if err != nil {
			check.Status = HealthStatusUnhealthy
			check.Message = err.Error()
			check.Duration = time.Since(start)
			return check
		}

		resp, err := client.Do(req)
		check.Duration = time.Since(start)
		if err != nil {
			check.Status = HealthStatusUnhealthy
			check.Message = err.Error()
			return check
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			check.Status = HealthStatusUnhealthy
			check.Message = resp.Status
			return check
		}

		check.Status = HealthStatusHealthy
		return check
	})
}

// HealthManager runs registered health checks
type HealthManager struct {
	serviceName string
	checkers    map[string]HealthChecker
	mu          sync.RWMutex
	timeout     time.Duration
}

// NewHealthManager creates a new health manager
func NewHealthManager(serviceName string) *HealthManager {
	return &HealthManager{
		serviceName: serviceName,
		checkers:    make(map[string]HealthChecker),
		timeout:     5 * time.Second,
	}
}

// Register adds a named health check
func (m *HealthManager) Register(name string, checker HealthChecker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers[name] = checker
}

// Report runs every check and aggregates the result
func (m *HealthManager) Report(ctx context.Context) HealthReport {
	m.mu.RLock()
	checkers := make(map[string]HealthChecker, len(m.checkers))
	for name, checker := range m.checkers {
		checkers[name] = checker
	}
	m.mu.RUnlock()

	report := HealthReport{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now(),
		Service:   m.serviceName,
		Summary:   map[string]int{},
	}

	for name, checker := range checkers {
		checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
		check := checker.Check(checkCtx)
		cancel()

		if check.Name == "" {
			check.Name = name
		}
		report.Checks = append(report.Checks, check)
		report.Summary[string(check.Status)]++

		if check.Status == HealthStatusUnhealthy {
			report.Status = HealthStatusUnhealthy
		}
	}

	return report
}

// Handler serves the health report as JSON
func (m *HealthManager) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := m.Report(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if report.Status != HealthStatusHealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(report)
	})
}
