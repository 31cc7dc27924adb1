package health

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhichtrvd/1goli-sub001/internal/version"
)

// DefaultCheckTimeout bounds each component probe.
const DefaultCheckTimeout = 2 * time.Second

// Status is the aggregated health status.
type Status string

const (
	Healthy   Status = "ok"
	Degraded  Status = "degraded" // pages are served without image URLs
	Unhealthy Status = "error"
)

// CheckResult is the outcome of one component probe.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Component is a single probe outcome.
type Component struct {
	Result  CheckResult
	Latency time.Duration
	Err     error
}

// Report aggregates component probes.
type Report struct {
	Status  Status
	Version string
	Checks  map[string]Component
}

// Service probes the record store and the media resolver.
type Service struct {
	db      DBPinger
	media   MediaChecker
	timeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithCheckTimeout overrides DefaultCheckTimeout. Non-positive values are ignored.
func WithCheckTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a Service. media can be nil.
func New(db DBPinger, media MediaChecker, opts ...Option) *Service {
	s := &Service{db: db, media: media, timeout: DefaultCheckTimeout}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Check probes every component concurrently.
// A failed database makes the report unhealthy; a failed media resolver only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	var db, media Component

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		db = s.probe(gctx, s.db.Ping)
		return nil
	})
	if s.media != nil {
		g.Go(func() error {
			media = s.probe(gctx, s.media.Check)
			return nil
		})
	}
	_ = g.Wait()

	checks := map[string]Component{ComponentDatabase: db}
	if s.media != nil {
		checks[ComponentMedia] = media
	}

	status := Healthy
	switch {
	case db.Result == CheckError:
		status = Unhealthy
	case s.media != nil && media.Result == CheckError:
		status = Degraded
	}
	return Report{Status: status, Version: version.String(), Checks: checks}
}

func (s *Service) probe(ctx context.Context, fn func(context.Context) error) Component {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	c := Component{Result: CheckOK, Latency: time.Since(start)}
	if err != nil {
		c.Result = CheckError
		c.Err = err
	}
	return c
}
