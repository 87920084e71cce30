package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the value cache is down; searches still work.
	Degraded Status = "degraded"
	// Unhealthy indicates the layer database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	layers Pinger
	cache  Pinger
}

// New creates a Service. cache can be nil when caching is disabled.
func New(layers, cache Pinger) *Service {
	return &Service{layers: layers, cache: cache}
}

// Check pings the layer database and, if configured, the value cache.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.cache != nil {
		checks["cache"] = ping(ctx, s.cache)
		if checks["cache"] == CheckError {
			status = Degraded
		}
	}

	checks["database"] = ping(ctx, s.layers)
	if checks["database"] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

func ping(ctx context.Context, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
