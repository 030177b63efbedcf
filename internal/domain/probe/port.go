package probe

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

type Fetcher interface {
	Fetch(ctx context.Context, target CheckTarget) Outcome
}

// Sink receives a finished result. Errors never change the reported severity.
type Sink interface {
	Publish(ctx context.Context, r Result) error
}
