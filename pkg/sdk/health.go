package catalog

import (
	"context"
	"time"

	healthuc "github.com/abhichtrvd/1goli-sub001/internal/usecase/health"
)

// HealthStatus is the aggregated health of the client's backends.
//
// Status is "ok", "degraded" (media resolver down, pages still served) or
// "error" (record store unreachable). Checks maps each component to "ok" or "error".
type HealthStatus struct {
	Status  string
	Version string
	Checks  map[string]string
	Latency map[string]time.Duration
}

// Healthy reports whether pages can be served, possibly without image URLs.
func (h HealthStatus) Healthy() bool { return h.Status != string(healthuc.Unhealthy) }

// Health probes the record store and, when one is configured, the media resolver.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	hs := HealthStatus{
		Status:  string(report.Status),
		Version: report.Version,
		Checks:  make(map[string]string, len(report.Checks)),
		Latency: make(map[string]time.Duration, len(report.Checks)),
	}
	for name, comp := range report.Checks {
		hs.Checks[name] = string(comp.Result)
		hs.Latency[name] = comp.Latency
	}
	return hs
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
