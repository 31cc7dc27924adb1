package health

import "context"

// DBPinger checks record store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// MediaChecker reports whether image URLs can currently be resolved.
// An open circuit breaker counts as a failure.
type MediaChecker interface {
	Check(ctx context.Context) error
}

// Component names used as report keys.
const (
	ComponentDatabase = "database"
	ComponentMedia    = "media"
)
