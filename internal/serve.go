package internal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MrSnakeDoc/gompa/internal/config"
	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/MrSnakeDoc/gompa/internal/middleware"
	"github.com/MrSnakeDoc/gompa/internal/mockapi"
	"github.com/MrSnakeDoc/gompa/internal/offline"
	"github.com/MrSnakeDoc/gompa/internal/reachability"
	"github.com/MrSnakeDoc/gompa/internal/webservice"

	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mock search/translate API and the offline cache API",
		Long: `Starts the HTTP server used by the site front end:

    POST /api/search                  mock search
    POST /api/translate               mock translation
    GET  /api/offline/status          reachability and snapshot state
    POST /api/offline/populate        refresh the snapshot in the background
    GET  /api/offline/{category}      cached records of one category
    POST /api/offline/download/{label} save one resource for offline use
    GET  /version

Reachability is probed periodically unless disabled in the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}
			m, err := middleware.Get[*offline.Manager](cmd, middleware.CtxKeyManager)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("port") {
				cfg.Server.ListenPort, _ = cmd.Flags().GetInt("port")
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			unsubscribe := m.OnReachabilityChange(func(online bool) {
				logger.Infow("reachability changed", "online", online)
			})
			defer unsubscribe()

			if !cfg.Reachability.Disabled {
				go reachability.Watch(sigCtx, middleware.NewProber(cfg), cfg.Reachability.Interval, m.SetReachability)
			}

			sc := cfg.Server
			svc := mockapi.New(sc.SearchDelay, sc.TranslateDelay)
			watchConfig(sigCtx, cmd.Flag("config").Value.String(), svc)

			srv := webservice.New(cmd.Context(), m, svc, webservice.StaticConfig{
				ListenHost:     sc.ListenHost,
				ListenPort:     sc.ListenPort,
				ReadTimeout:    sc.ReadTimeout,
				WriteTimeout:   sc.WriteTimeout,
				RequestTimeout: sc.RequestTimeout,
				MaxBodyBytes:   sc.MaxBodyBytes,
			})

			go func() {
				<-sigCtx.Done()
				srv.Quit(false)
			}()

			logger.Info("Listening on http://%s", srv.Addr())
			return srv.Run()
		},
	}

	cmd.Flags().IntP("port", "p", 0, "Override server.listen_port")
	return cmd
}

// watchConfig applies the mock delays of every reloaded configuration to svc.
// Listen address and timeouts need a restart.
func watchConfig(ctx context.Context, path string, svc *mockapi.Service) {
	w, err := config.NewWatcher(path)
	if err != nil {
		logger.Warn("Configuration changes will not be applied: %v", err)
		return
	}
	changes, watchErrs, err := w.Watch(ctx)
	if err != nil {
		logger.Warn("Configuration changes will not be applied: %v", err)
		return
	}

	go func() {
		for {
			select {
			case cfg, ok := <-changes:
				if !ok {
					return
				}
				svc.SetDelays(cfg.Server.SearchDelay, cfg.Server.TranslateDelay)
				logger.Infow("configuration reloaded", "path", w.Path(),
					"search_delay", cfg.Server.SearchDelay, "translate_delay", cfg.Server.TranslateDelay)
			case err, ok := <-watchErrs:
				if ok && err != nil {
					logger.Errorw("configuration watcher stopped", "err", err)
				}
				return
			}
		}
	}()
}
