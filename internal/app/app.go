package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"github.com/sageverse/tree/internal/config"
	"github.com/sageverse/tree/internal/httpserver"
	"github.com/sageverse/tree/internal/httpserver/deps"
	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/profile"
	"github.com/sageverse/tree/internal/redis"
	"github.com/sageverse/tree/internal/scheduler"
	"github.com/sageverse/tree/internal/seed"
	"github.com/sageverse/tree/internal/session"
	"github.com/sageverse/tree/internal/shortener"
	redisstore "github.com/sageverse/tree/internal/store/redis"
	sqlstore "github.com/sageverse/tree/internal/store/sql"
	"github.com/sageverse/tree/internal/utils"
	"github.com/sageverse/tree/internal/version"
	"github.com/sageverse/tree/internal/view"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	db          *bun.DB
	redisClient *goredis.Client
	prefetcher  *profile.Prefetcher
	shortLinks  *shortener.Shortener
	reloader    *scheduler.TemplateReloader // nil without a seed file
	collector   *scheduler.SessionCollector // nil when sessions live in Redis
}

// New wires every component. Nothing runs until Run.
func New(ctx context.Context) (*App, error) {
	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	db, err := openDatabase(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	data, err := sqlstore.NewProfileStore(db)
	if err != nil {
		utils.Close(db, "database", loggerClient)
		return nil, err
	}
	accounts, err := sqlstore.NewAccountStore(db, sqlstore.AccountOptions{
		RequireConfirmation: cfg.RequireConfirmation,
	})
	if err != nil {
		utils.Close(db, "database", loggerClient)
		return nil, err
	}

	a := &App{cfg: cfg, logger: loggerClient, db: db}

	var (
		sessions   session.Store
		shortCache shortener.Cache
		redisPing  deps.Pinger
		stats      session.StatsReporter
	)
	if cfg.RedisEnabled() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.OptionsFromConfig(cfg), loggerClient)
		if err != nil {
			utils.Close(db, "database", loggerClient)
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redisClient = client
		store := redisstore.NewStore(client)
		redisSessions := store.Sessions()
		sessions = redisSessions
		stats = redisSessions
		shortCache = store.ShortLinks()
		redisPing = store
		loggerClient.Info("Redis initialized successfully")
	} else {
		mem := session.NewMemoryStore()
		sessions = mem
		stats = mem
		shortCache = shortener.NewMemoryCache()
		a.collector = scheduler.NewSessionCollector(mem, loggerClient, cfg.SessionGCInterval)
		loggerClient.Info("redis not configured, sessions and short links kept in memory")
	}

	manager := session.NewManager(accounts, sessions, session.Options{
		Secret:        cfg.JWTSecret,
		TTL:           cfg.SessionTTL,
		RefreshWindow: cfg.RefreshWindow,
		SecureCookies: cfg.SecureCookies,
	}, loggerClient)

	seeds := seed.NewSource(nil)
	reloadTrigger := make(chan struct{}, 1)
	if cfg.SeedFile != "" {
		a.reloader = scheduler.NewTemplateReloader(
			seed.NewLoader(cfg.SeedFile),
			seeds,
			loggerClient,
			cfg.SeedReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("seed file not configured, using built-in default template")
	}

	synchronizer := profile.NewSynchronizer(data, seeds, loggerClient)
	a.prefetcher = profile.NewPrefetcher(synchronizer, manager, cfg.RequestTimeout, loggerClient)

	a.shortLinks = shortener.New(shortener.Options{
		Endpoint: cfg.ShortenerURL,
		Timeout:  cfg.ShortenerTimeout,
		CacheTTL: cfg.ShortenerCacheTTL,
	}, shortCache, loggerClient)

	exec, err := view.Parse()
	if err != nil {
		a.closeStores()
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		PublicBaseURL: cfg.PublicBaseURL,
		Sessions:      manager,
		Synchronizer:  synchronizer,
		Public:        profile.NewPublicFetcher(data),
		Shortener:     a.shortLinks,
		Renderer:      view.NewRenderer(exec, loggerClient),
		Seeds:         seeds,
		Database:      data,
		Redis:         redisPing,
		SessionStats:  stats,
	}
	if a.reloader != nil {
		d.ReloadTrigger = reloadTrigger
	}

	a.server = httpserver.New(cfg, loggerClient, d)
	return a, nil
}

func openDatabase(ctx context.Context, cfg *config.Config, log logger.Logger) (*bun.DB, error) {
	db, err := sqlstore.Open(ctx, sqlstore.OpenOptions{
		Driver: cfg.DatabaseDriver,
		DSN:    cfg.DatabaseURL,
		Debug:  cfg.DatabaseDebug,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := sqlstore.Migrate(ctx, db); err != nil {
		utils.Close(db, "database", log)
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	log.Info("database ready", logger.String("driver", cfg.DatabaseDriver))
	return db, nil
}

// Migrate creates the schema and exits.
func Migrate(ctx context.Context) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	utils.Close(db, "database", log)
	return nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Sageverse Tree v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Sageverse Tree %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			a.closeStores()
			return fmt.Errorf("failed to start template reloader: %w", err)
		}
		a.logger.Info("template reloader started",
			logger.String("file", a.cfg.SeedFile),
			logger.Duration("interval", a.cfg.SeedReloadInterval))
	}

	if a.collector != nil {
		a.collector.Start()
		a.logger.Info("session collector started",
			logger.Duration("interval", a.cfg.SessionGCInterval))
	}

	a.prefetcher.Start()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received, draining requests")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	a.prefetcher.Stop()
	a.shortLinks.Close()
	if a.reloader != nil {
		a.reloader.Stop()
	}
	if a.collector != nil {
		a.collector.Stop()
	}
	a.closeStores()

	if runErr != nil {
		return runErr
	}
	a.logger.Info("Sageverse Tree stopped")
	_ = a.logger.Sync()
	return nil
}

func (a *App) closeStores() {
	if a.redisClient != nil {
		utils.Close(a.redisClient, "redis", a.logger)
	}
	utils.Close(a.db, "database", a.logger)
}
