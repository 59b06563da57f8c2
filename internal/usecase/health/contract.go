package health

import "context"

// CachePinger checks cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// SourceChecker reports whether an upstream search source is usable.
type SourceChecker interface {
	HealthCheck(ctx context.Context) error
}
