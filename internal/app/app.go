package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "showcase/internal/app/http"
	"showcase/internal/config"
	"showcase/internal/lib/logger/sl"
	"showcase/internal/repository"
	eventservice "showcase/internal/services/event_service"
	galleryservice "showcase/internal/services/gallery_service"
	filestorage "showcase/internal/storage/filestorage"
	cachestore "showcase/internal/storage/redis"
	httprouters "showcase/internal/transport/http"
)

// App wires config, storage, services and the HTTP server together with
// explicit construction and teardown; nothing lives in package-level state.
type App struct {
	log        *slog.Logger
	Repo       *repository.Repository
	Cache      *cachestore.Client
	HTTPServer *httpapp.Server
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	repo, err := repository.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cache := cachestore.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := cache.HealthCheck(ctx); err != nil {
		// The cache is an accelerator only; start without it.
		log.Warn("redis unreachable, list cache disabled", sl.Err(err))
		cache = nil
	}

	eventService := eventservice.NewEventService(log, repo.Event, fileStorage, cache)
	galleryService := galleryservice.NewGalleryService(log, repo.Gallery, fileStorage, cache)

	var cacheChecker httprouters.HealthChecker
	if cache != nil {
		cacheChecker = cache
	}

	routers := httprouters.NewRouter(log, eventService, galleryService, repo, cacheChecker)

	server := httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, cfg.FileStorage.BaseDir, routers)

	return &App{
		log:        log,
		Repo:       repo,
		Cache:      cache,
		HTTPServer: server,
	}, nil
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("failed to stop http server", sl.Err(err))
	}

	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.log.Error("failed to close redis client", sl.Err(err))
		}
	}

	a.Repo.Close()
}
