package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	httpapp "contractor_site/internal/app/http"
	"contractor_site/internal/config"
	"contractor_site/internal/domain/models"
	"contractor_site/internal/lib/logger/sl"
	"contractor_site/internal/repository"
	"contractor_site/internal/services/auth"
	blog "contractor_site/internal/services/blog_service"
	"contractor_site/internal/services/changefeed"
	"contractor_site/internal/services/content"
	gallery "contractor_site/internal/services/gallery_service"
	lead "contractor_site/internal/services/lead_service"
	media "contractor_site/internal/services/media_service"
	token "contractor_site/internal/services/token_service"
	user "contractor_site/internal/services/user_service"
	"contractor_site/internal/storage/filestorage"
	"contractor_site/internal/storage/postgresql"
	redisapp "contractor_site/internal/storage/redis"
	httprouters "contractor_site/internal/transport/http"

	"github.com/gorilla/sessions"
	"github.com/supabase-community/supabase-go"
)

type App struct {
	log        *slog.Logger
	HTTPServer *httpapp.Server

	storage     *postgresql.Storage
	redis       *redisapp.Client
	leads       *lead.LeadService
	invalidator *changefeed.Invalidator
	cancel      context.CancelFunc
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	storage, err := postgresql.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := storage.Migrate(ctx); err != nil {
		storage.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := rdb.HealthCheck(ctx); err != nil {
		storage.Stop()
		return nil, fmt.Errorf("%s: redis: %w", op, err)
	}

	files, err := newFileStorage(cfg)
	if err != nil {
		storage.Stop()
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("file storage ready", slog.String("kind", files.Kind()))

	repo := repository.NewRepository(storage.Pool())
	feed := changefeed.New(log, rdb.Client)

	tokens := token.NewTokenService(log, repository.NewRedisTokenRepo(rdb), cfg.Token.Secret, cfg.Token.AccessTTL, cfg.Token.RefreshTTL)
	authService := auth.New(log, repo.User, repo.Role, tokens)
	userService := user.NewUserService(log, repo.User, repo.Role)
	overviewService := user.NewOverviewService(log, repo.Gallery, repo.Blog, repo.Lead)

	mediaService := media.NewMediaService(log, repo.Upload, files, media.CompressOptions{
		MaxDimension: cfg.Media.MaxDimension,
		TargetBytes:  cfg.Media.TargetBytes,
		Quality:      cfg.Media.Quality,
		MinQuality:   cfg.Media.MinQuality,
	}, cfg.FileStorage.MaxSize)

	galleryService := gallery.NewGalleryService(log, repo.Gallery, mediaService, feed, cfg.Cache.TTL)

	fallback, err := blog.LoadFallback(cfg.Blog.FallbackPath)
	if err != nil {
		log.Warn("bundled blog posts not loaded", sl.Err(err))
	}
	blogService := blog.NewBlogService(log, repo.Blog, content.NewRenderer(cfg.Blog.WordsPerMinute), feed, fallback, cfg.Cache.TTL)

	var invoker lead.FunctionInvoker
	if cfg.Supabase.URL != "" {
		client, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey, nil)
		if err != nil {
			log.Warn("supabase client not created, lead mirrors disabled", sl.Err(err))
		} else {
			invoker = client.Functions
		}
	}
	leadService := lead.NewLeadService(log, repo.Lead, invoker, feed,
		lead.Mirror{Target: models.SyncTargetCRM, Function: cfg.Supabase.CRMFunction},
		lead.Mirror{Target: models.SyncTargetSheet, Function: cfg.Supabase.SheetFunction},
	)

	invalidator := changefeed.NewInvalidator(log, feed)
	for _, table := range []string{changefeed.TableGalleryProjects, changefeed.TableGalleryImages} {
		invalidator.On(table, func(changefeed.Change) { galleryService.InvalidateCache() })
	}
	invalidator.On(changefeed.TableBlogPosts, func(changefeed.Change) { blogService.InvalidateCache() })

	routers := httprouters.NewRouter(log, httprouters.Services{
		Auth:     authService,
		Users:    userService,
		Overview: overviewService,
		Gallery:  galleryService,
		Media:    mediaService,
		Blog:     blogService,
		Leads:    leadService,
		Changes:  feed,
	}, sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Token.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	opts := httpapp.Options{
		Host:          cfg.HTTP.Host,
		Port:          cfg.HTTP.Port,
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		Timeout:       cfg.HTTP.Timeout,
		SessionSecret: cfg.Session.Secret,
	}
	if files.Kind() == filestorage.KindLocal {
		opts.UploadsPrefix = "/uploads"
		opts.UploadsDir = cfg.FileStorage.BaseDir
	}

	server := httpapp.New(ctx, log, opts, routers, authService)
	server.BuildRouters()

	return &App{
		log:         log,
		HTTPServer:  server,
		storage:     storage,
		redis:       rdb,
		leads:       leadService,
		invalidator: invalidator,
	}, nil
}

// RunBackground starts the cache invalidator.
func (a *App) RunBackground(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)

	go func() {
		if err := a.invalidator.Run(ctx); err != nil {
			a.log.Error("cache invalidator stopped", sl.Err(err))
		}
	}()
}

// Stop shuts the server down, waits for pending lead mirrors and closes
// connections.
func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("http server stop", sl.Err(err))
	}
	if a.cancel != nil {
		a.cancel()
	}

	a.leads.Close()

	if err := a.redis.Close(); err != nil {
		a.log.Error("redis close", sl.Err(err))
	}
	a.storage.Stop()
}

func newFileStorage(cfg *config.Config) (filestorage.FileStorage, error) {
	switch cfg.FileStorage.Kind {
	case config.StorageSupabase:
		return filestorage.NewSupabaseFileStorage(cfg.Supabase.URL, cfg.Supabase.ServiceKey, cfg.Supabase.Bucket), nil
	case config.StorageS3:
		return filestorage.NewS3FileStorage(cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.UseSSL, cfg.S3.PublicBaseURL)
	case config.StorageLocal, "":
		return filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
	}
	return nil, fmt.Errorf("unknown file storage kind %q", cfg.FileStorage.Kind)
}
