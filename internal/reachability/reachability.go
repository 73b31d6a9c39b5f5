// Package reachability tells the offline manager whether the network is up.
package reachability

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/MrSnakeDoc/gompa/internal/service"
)

type Prober interface {
	Probe(ctx context.Context) bool
}

type ProberFunc func(ctx context.Context) bool

func (f ProberFunc) Probe(ctx context.Context) bool { return f(ctx) }

// HTTPProber considers the network up when URL answers a HEAD within Timeout.
type HTTPProber struct {
	Client  service.HTTPClient
	URL     string
	Timeout time.Duration
}

func (p *HTTPProber) Probe(ctx context.Context) bool {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	ok := service.Reachable(ctx, p.Client, p.URL)
	logger.Debug("reachability: probe %s -> %t", p.URL, ok)
	return ok
}

// Always reports a fixed state; used when probing is disabled.
type Always bool

func (a Always) Probe(context.Context) bool { return bool(a) }

// Watch probes immediately and then every interval, handing each result to
// sink until ctx is done. Sinks such as offline.Manager.SetReachability
// filter out repeated states themselves.
func Watch(ctx context.Context, p Prober, interval time.Duration, sink func(online bool)) {
	sink(p.Probe(ctx))

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if ctx.Err() != nil {
				return
			}
			sink(p.Probe(ctx))
		}
	}
}
