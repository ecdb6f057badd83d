package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ozzus/club-sanctions/internal/application/service"
	"github.com/ozzus/club-sanctions/internal/config"
	"github.com/ozzus/club-sanctions/internal/domain/models"
	"github.com/ozzus/club-sanctions/internal/domain/ports"
	postgres "github.com/ozzus/club-sanctions/internal/infrastructures/db/postgres/repo"
	cacheredis "github.com/ozzus/club-sanctions/internal/infrastructures/db/redis"
	"github.com/ozzus/club-sanctions/internal/infrastructures/notion"
	"github.com/ozzus/club-sanctions/internal/infrastructures/notion/http/client"
	"github.com/ozzus/club-sanctions/internal/infrastructures/snapshot"
	"github.com/ozzus/club-sanctions/internal/infrastructures/tracing"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "sanctions-sync"

// app holds what every command needs; it is built once the config flag is parsed.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *snapshot.Store
	shutdown tracing.Shutdown
	out      io.Writer
	closed   bool
}

func newApp(configPath string, out io.Writer) (*app, error) {
	cfg, err := config.Load(config.ResolvePath(configPath))
	if err != nil {
		return nil, err
	}

	log := setupLogger(cfg.Log.Level, cfg.Log.File)

	shutdown, err := tracing.Setup(tracing.Config{
		Service:   serviceName,
		Env:       cfg.Env,
		Collector: cfg.Jaeger,
	})
	if err != nil {
		log.Warn("failed to init tracer, continuing without tracing", zap.Error(err))
		shutdown = nil
	}

	return &app{
		cfg:      cfg,
		log:      log,
		store:    snapshot.NewStore(cfg.Snapshots.Dir),
		shutdown: shutdown,
		out:      out,
	}, nil
}

// close flushes spans and the log. It runs once per app, whatever the command returned.
func (a *app) close() {
	if a.closed {
		return
	}
	a.closed = true

	if a.shutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdown(shutdownCtx); err != nil {
			a.log.Warn("failed to shutdown tracer provider", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

func (a *app) notionSource() (*notion.Source, error) {
	c, err := client.NewClient(client.Config{
		BaseURL: a.cfg.Notion.BaseURL,
		Token:   a.cfg.Notion.Token,
		Version: a.cfg.Notion.Version,
		Timeout: a.cfg.Notion.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return notion.NewSource(c, notion.Databases{
		Clubs:            a.cfg.Databases.Clubs,
		ClubAliases:      a.cfg.Databases.ClubAliases,
		ManagerSanctions: a.cfg.Databases.ManagerSanctions,
		AdeptSanctions:   a.cfg.Databases.AdeptSanctions,
	}), nil
}

func (a *app) syncService() (*service.SyncService, error) {
	src, err := a.notionSource()
	if err != nil {
		return nil, err
	}

	return service.NewSyncService(a.log, src, src, a.store, a.cfg.Sync.Delay,
		service.WithProgress(a.out),
	), nil
}

// reportService degrades to snapshot-only when no token is configured and
// runs without a cache when redis is unreachable.
func (a *app) reportService(ctx context.Context) (*service.ReportService, func()) {
	var (
		source  ports.SanctionSource
		cache   ports.SanctionCache
		cleanup = func() {}
	)

	if src, err := a.notionSource(); err != nil {
		a.log.Warn("live source disabled", zap.Error(err))
	} else {
		source = src
	}

	rdb, err := cacheredis.Connect(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
	if err != nil {
		a.log.Warn("redis cache disabled", zap.Error(err))
	} else if rdb != nil {
		cache = cacheredis.NewSanctionCache(rdb)
		cleanup = func() { closeRedis(a.log, rdb) }
	}

	return service.NewReportService(a.log, source, cache, a.cfg.Redis.TTL, a.store), cleanup
}

func closeRedis(log *zap.Logger, rdb *goredis.Client) {
	if err := rdb.Close(); err != nil {
		log.Warn("failed to close redis client", zap.Error(err))
	}
}

func (a *app) mirrorService(ctx context.Context) (*service.MirrorService, func(), error) {
	dsn := a.cfg.DB.DatabaseURL()
	if dsn == "" {
		return nil, nil, fmt.Errorf("db dsn is not configured")
	}

	repository, err := postgres.New(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}

	return service.NewMirrorService(a.log, repository, a.store), repository.Close, nil
}

func (a *app) sanctionSnapshot(kind models.SanctionKind) string {
	if kind == models.SanctionKindAdepts {
		return a.cfg.Snapshots.AdeptSanctions
	}
	return a.cfg.Snapshots.ManagerSanctions
}
