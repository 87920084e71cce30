package layersearch

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/layersearch/internal/usecase/health"
)

// HealthStatus reports the layer database and, when configured, the value cache.
type HealthStatus struct {
	Status string            // "ok", "degraded" (cache down) or "error" (database down)
	Checks map[string]string // component → "ok"/"error"
}

// Searchable reports whether searches can run; a degraded cache does not stop them.
func (h HealthStatus) Searchable() bool {
	return h.Status != string(healthuc.Unhealthy)
}

// Health checks every backing store.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)

	checks := make(map[string]string, len(report.Checks))
	for name, res := range report.Checks {
		checks[name] = string(res)
	}
	h := HealthStatus{Status: string(report.Status), Checks: checks}

	var err error
	if !h.Searchable() {
		err = errUnhealthy
	}
	c.obs.observe("health", start, err)
	return h
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
