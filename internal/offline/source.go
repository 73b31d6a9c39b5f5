package offline

import (
	"context"
	"time"
)

// Source supplies the records of one category during a populate. A remote
// backend would fetch here.
type Source interface {
	Load(ctx context.Context, c Category) ([]Record, error)
}

type SourceFunc func(ctx context.Context, c Category) ([]Record, error)

func (f SourceFunc) Load(ctx context.Context, c Category) ([]Record, error) { return f(ctx, c) }

// StaticSource serves a fixed in-memory dataset. Loaded records are deep
// copies.
type StaticSource map[Category][]Record

func (s StaticSource) Load(ctx context.Context, c Category) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cloneRecords(s[c]), nil
}

// Latency models the acquisition delay of one step.
type Latency interface {
	Wait(ctx context.Context) error
}

// FixedLatency sleeps for a constant duration, or until ctx is done.
type FixedLatency time.Duration

func (l FixedLatency) Wait(ctx context.Context) error {
	if l <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(l))
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoLatency returns immediately.
var NoLatency Latency = FixedLatency(0)

// Fetcher acquires a single named resource for the download side channel.
type Fetcher interface {
	Fetch(ctx context.Context, label string) ([]byte, error)
}

type FetcherFunc func(ctx context.Context, label string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, label string) ([]byte, error) { return f(ctx, label) }
