package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/atlantis-diagrams/atlantis-backend/config"
	httpapi "github.com/atlantis-diagrams/atlantis-backend/internal/api/http"
	"github.com/atlantis-diagrams/atlantis-backend/internal/api/http/middleware"
	"github.com/atlantis-diagrams/atlantis-backend/internal/bootstrap"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/cache"
	"github.com/atlantis-diagrams/atlantis-backend/internal/jobs"
)

const serviceName = "atlantis-backend"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App)

	st, err := bootstrap.OpenStore(ctx, bootstrap.StoreOptions{Storage: cfg.Storage})
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer st.Close()
	log.Printf("storage backend: %s", st.Capabilities().Name)

	repo := diagrams.NewRepo(st)
	var (
		svc         diagrams.Service = repo
		cachePinger httpapi.Pinger
	)

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Cache)
	if err != nil {
		log.Printf("cache disabled: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
		cached := cache.New(repo, rdb, cfg.Cache.TTL)
		svc, cachePinger = cached, cached
		log.Printf("diagram cache enabled (%s, ttl %s)", cfg.Cache.RedisAddr, cfg.Cache.TTL)
	}

	sink, err := bootstrap.BackupSink(ctx, cfg.Backup)
	if err != nil {
		log.Printf("scheduled backups disabled: %v", err)
	}
	sched, err := jobs.NewScheduler(jobs.Config{
		BackfillSchedule: cfg.Jobs.BackfillSchedule,
		BackupSchedule:   cfg.Jobs.BackupSchedule,
	}, repo, svc, sink)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	sched.Start()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:     serviceName,
		Version:         cfg.App.Version,
		Store:           st,
		Diagrams:        svc,
		Cache:           cachePinger,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		SecureCookies:   cfg.Security.SecureCookies,
		EnableAPIAccess: cfg.Security.EnableAPIAccess,
		Limiter:         middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	sched.Stop(shutdownCtx)
}
