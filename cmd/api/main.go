package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "review_dashboard/internal/adapters/http_server"
	"review_dashboard/internal/adapters/observability"
	redisad "review_dashboard/internal/adapters/redis"
	"review_dashboard/internal/adapters/refresh"
	"review_dashboard/internal/analysis"
	"review_dashboard/internal/app"
	"review_dashboard/internal/domain"
	"review_dashboard/internal/shared"
	"review_dashboard/internal/storage/files"
)

func main() {
	cfg, err := shared.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	observability.Install(observability.NewLogger(cfg.AppEnv, cfg.LogLevel))

	profile, err := cfg.Profile()
	if err != nil {
		log.Fatal().Err(err).Msg("analysis profile")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// deps
	var cache domain.Cache = app.NopCache{}
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, view cache disabled")
		} else {
			cache = rc
			defer func() { _ = rc.Close() }()
		}
	}
	pipeline := app.NewPipeline(files.New(cfg.DataDir), profile, analysis.NewScorer())
	store := app.NewStore(pipeline)
	q := app.NewQueryService(store, cache, cfg.CacheTTL)
	store.OnSwap(func(old *app.Snapshot) { q.Evict(context.Background(), old) })

	log.Info().Str("data_dir", cfg.DataDir).Msg("building initial snapshot")
	store.Reload(ctx)

	// refresh triggers
	if cfg.WatchData {
		w := refresh.NewWatcher(cfg.DataDir, cfg.WatchDebounce, func(ctx context.Context) { store.Reload(ctx) })
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Warn().Err(err).Msg("data watcher stopped")
			}
		}()
	}
	if cfg.RefreshCron != "" {
		sched, err := refresh.NewScheduler(cfg.RefreshCron, func(ctx context.Context) { store.Reload(ctx) })
		if err != nil {
			log.Fatal().Err(err).Msg("refresh schedule")
		}
		sched.Start()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			sched.Stop(sctx)
		}()
	}

	// http
	srv := server.New(cfg.CORSOrigins)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(server.NewHandlers(q, store, cfg.ReloadRPS))

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(sctx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("dashboard listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("shut down")
}
