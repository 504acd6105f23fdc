package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// UpstreamChecker checks search-service availability.
type UpstreamChecker interface {
	HealthCheck(ctx context.Context) error
}
