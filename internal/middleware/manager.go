package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/config"
	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/MrSnakeDoc/gompa/internal/offline"
	"github.com/MrSnakeDoc/gompa/internal/reachability"
	"github.com/MrSnakeDoc/gompa/internal/seed"
	"github.com/MrSnakeDoc/gompa/internal/service"
	"github.com/MrSnakeDoc/gompa/internal/store"
	"github.com/MrSnakeDoc/gompa/internal/version"
	"github.com/spf13/cobra"
)

// BuildManager opens the snapshot store under the configured data dir and
// puts a ready offline.Manager in the command context. LoadConfig must run
// first. The manager starts out online unless CheckReachability ran earlier
// in the chain and found the network down.
func BuildManager(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	cfg, err := Get[*config.Config](cmd, CtxKeyConfig)
	if err != nil {
		return err
	}

	st, err := store.NewFS(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	online := true
	if v, err := Get[bool](cmd, CtxKeyOnline); err == nil {
		online = v
	}

	m := offline.New(st, ManagerOptions(cfg, online)...)
	logger.Debug("manager ready (data dir %s, online %t)", cfg.DataDir, online)

	ctx := context.WithValue(cmd.Context(), CtxKeyManager, m)
	cmd.SetContext(ctx)

	return next(cmd, args)
}

// CheckReachability probes the network once and stores the result for
// BuildManager. Only commands that report or act on reachability use it, so
// reading the snapshot never waits on the network.
func CheckReachability(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	cfg, err := Get[*config.Config](cmd, CtxKeyConfig)
	if err != nil {
		return err
	}

	online := NewProber(cfg).Probe(cmd.Context())
	cmd.SetContext(context.WithValue(cmd.Context(), CtxKeyOnline, online))
	return next(cmd, args)
}

// ManagerOptions maps the configuration onto offline.Manager options.
func ManagerOptions(cfg *config.Config, online bool) []offline.Option {
	opts := []offline.Option{
		offline.WithSource(seed.Source()),
		offline.WithLatency(offline.FixedLatency(cfg.StepLatency)),
		offline.WithStaleAfter(cfg.StaleAfter),
		offline.WithInitialReachability(online),
	}

	if cfg.DownloadBaseURL != "" {
		opts = append(opts, offline.WithFetcher(&service.Fetcher{
			Client:   service.NewHTTPClient(0, version.UserAgent()),
			BaseURL:  cfg.DownloadBaseURL,
			MaxBytes: cfg.MaxDownloadBytes,
		}))
	} else {
		opts = append(opts, offline.WithFetcher(
			offline.SimulatedFetcher(offline.FixedLatency(cfg.DownloadLatency), time.Now),
		))
	}
	return opts
}

// NewProber returns the reachability probe described by cfg.
func NewProber(cfg *config.Config) reachability.Prober {
	if cfg.Reachability.Disabled || cfg.Reachability.ProbeURL == "" {
		return reachability.Always(true)
	}
	return &reachability.HTTPProber{
		Client:  service.NewHTTPClient(cfg.Reachability.Timeout, version.UserAgent()),
		URL:     cfg.Reachability.ProbeURL,
		Timeout: cfg.Reachability.Timeout,
	}
}
