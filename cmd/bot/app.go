package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/studyhelper/student-helper-bot/config"
	"github.com/studyhelper/student-helper-bot/internal/application/conversation"
	"github.com/studyhelper/student-helper-bot/internal/application/generator"
	"github.com/studyhelper/student-helper-bot/internal/application/query"
	"github.com/studyhelper/student-helper-bot/internal/domain/intent"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/messaging"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/metrics"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence/jsonfile"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence/postgres"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/persistence/redis"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/scheduler"
	"github.com/studyhelper/student-helper-bot/internal/infrastructure/scheduler/jobs"
	"github.com/studyhelper/student-helper-bot/internal/interface/chat"
	"github.com/studyhelper/student-helper-bot/internal/interface/cli"
	httpserver "github.com/studyhelper/student-helper-bot/internal/interface/http"
	"github.com/studyhelper/student-helper-bot/internal/interface/http/handlers"
	"github.com/studyhelper/student-helper-bot/pkg/logger"
	"github.com/studyhelper/student-helper-bot/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION
// ══════════════════════════════════════════════════════════════════════════════

type appOptions struct {
	// terminal receives reminder alerts in chat mode.
	terminal *cli.Console
	// headless always serves the status API.
	headless bool
	// readOnly stops after the store is loaded.
	readOnly bool
}

// app owns every long-lived component of one process.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics

	store     *persistence.Store
	assistant *chat.Assistant
	pg        *postgres.Connection

	scheduler *scheduler.Scheduler
	watcher   *jsonfile.Watcher
	server    *httpserver.Server

	closers []func()
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Options{
		Output: os.Stderr,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
		Format: logger.Format(cfg.Observability.LogFormat),
	})
}

func newApp(ctx context.Context, cfg *config.Config, opts appOptions) (a *app, err error) {
	a = &app{
		cfg:     cfg,
		log:     newLogger(cfg).With(logger.String("app", cfg.App.Name)),
		metrics: metrics.New(),
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	health := handlers.NewCompositeHealthChecker(cfg.App.Version)

	// ─────────────────────────────────────────────────────────────────────────
	// 1. STORAGE
	// ─────────────────────────────────────────────────────────────────────────
	var (
		backend     persistence.Backend
		fileBackend *jsonfile.Backend
		pg          *postgres.Connection
		rdb         *redis.Client
	)

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pg, err = openPostgres(ctx, cfg, a.log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)
		a.pg = pg
		health.AddCheck("postgres", handlers.NewPingCheck(pg))
		backend = a.resilient(postgres.NewSnapshotRepository(pg, cfg.Database.SnapshotKey), health)

	case config.BackendRedis:
		rdb, err = a.redisClient(cfg, health)
		if err != nil {
			return nil, err
		}
		backend = a.resilient(redis.NewSnapshotStore(rdb, cfg.Redis.SnapshotName), health)

	default:
		fileBackend = jsonfile.New(cfg.Storage.DataFile)
		backend = fileBackend
	}

	a.store = persistence.NewStore(backend,
		persistence.WithLogger(a.log),
		persistence.WithObserver(a.metrics),
	)
	if err := a.store.Load(ctx); err != nil {
		a.log.Warn("starting with an empty record", logger.Err(err))
	}

	if opts.readOnly {
		return a, nil
	}

	clock := timeutil.SystemClock{}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. TEXT GENERATOR (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		gen     generator.Generator
		genName string
	)
	if cfg.Features.IsEnabled(config.FeatureGenerator) {
		genCfg := generatorConfig(cfg)
		inner, gerr := generator.New(genCfg)
		switch {
		case gerr != nil:
			a.log.Warn("text generator disabled", logger.Err(gerr))
		case inner != nil:
			resilient := generator.NewResilient(inner, genCfg,
				generator.WithLogger(a.log),
				generator.WithObserver(a.metrics),
			)
			gen, genName = resilient, resilient.Name()
			health.AddCheck("generator", handlers.NewBreakerCheck(resilient.BreakerState))
			a.log.Info("text generator enabled", logger.String("provider", genName))
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ASSISTANT
	// ─────────────────────────────────────────────────────────────────────────
	location := cfg.Storage.DataFile
	if fileBackend == nil {
		location = backend.Name()
	}
	a.assistant = chat.NewAssistant(chat.Config{
		Store:         a.store,
		Classifier:    intent.NewClassifier(intent.NewResolver(nil)),
		Responder:     conversation.NewResponder(conversation.WithFuzzyKeywords(cfg.Features.IsEnabled(config.FeatureFuzzyKeywords))),
		Generator:     gen,
		GeneratorName: genName,
		Location:      location,
		Clock:         clock,
		Logger:        a.log,
		Observer:      a.metrics,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ALERT CHANNELS
	// ─────────────────────────────────────────────────────────────────────────
	dispatcher := messaging.NewDispatcher(messaging.Config{
		Logger:   a.log,
		Observer: a.metrics,
	})
	if opts.terminal != nil {
		dispatcher.Register(cli.NewTerminalChannel(opts.terminal))
	}
	dispatcher.Register(messaging.NewLogChannel(a.log))

	if cfg.Features.IsEnabled(config.FeatureRedisPublish) && cfg.Redis.Configured() {
		if rdb == nil {
			rdb, err = a.redisClient(cfg, health)
			if err != nil {
				return nil, err
			}
		}
		dispatcher.Register(redis.NewAlertPublisher(rdb))
	}
	if pg != nil && cfg.Features.IsEnabled(config.FeatureAlertLog) {
		dispatcher.Register(postgres.NewAlertLog(pg, cfg.Database.SnapshotKey))
	}
	a.log.Debug("alert channels ready", logger.Int("count", len(dispatcher.Channels())))

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REMINDER POLLER
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Scheduler.Enabled {
		a.scheduler = scheduler.New(scheduler.Config{
			Logger:   a.log,
			Tick:     cfg.Scheduler.Tick,
			Observer: a.metrics,
		})
		poll := jobs.NewReminderPollJob(a.store, dispatcher, clock, a.log)
		if err := a.scheduler.Register(poll, scheduler.NewIntervalSchedule(cfg.Scheduler.ReminderInterval)); err != nil {
			return nil, fmt.Errorf("register reminder poller: %w", err)
		}
		health.AddCheck("scheduler", handlers.NewRunningCheck("scheduler", a.scheduler.IsRunning))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. FILE WATCHER
	// ─────────────────────────────────────────────────────────────────────────
	if fileBackend != nil && cfg.Features.IsEnabled(config.FeatureFileWatch) {
		a.watcher = jsonfile.NewWatcher(fileBackend, a.store.Reload, a.log)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. STATUS API
	// ─────────────────────────────────────────────────────────────────────────
	if opts.headless || cfg.Features.IsEnabled(config.FeatureStatusAPI) {
		httpCfg := httpserver.DefaultConfig()
		httpCfg.Host = cfg.HTTP.Host
		httpCfg.Port = cfg.HTTP.Port
		httpCfg.RequestsPerSecond = cfg.HTTP.RequestsPerSecond
		httpCfg.EnableMetrics = cfg.Observability.MetricsEnabled

		var jobLister httpserver.JobLister
		if a.scheduler != nil {
			jobLister = a.scheduler
		}

		a.server = httpserver.NewServer(httpCfg, httpserver.Dependencies{
			Progress:      query.NewGetProgressHandler(a.store),
			Reminders:     query.NewListRemindersHandler(a.store),
			Goals:         query.NewListGoalsHandler(a.store),
			Jobs:          jobLister,
			HealthChecker: health,
			Metrics:       a.metrics.Handler(),
			Logger:        a.log,
		})
	}

	return a, nil
}

// Run starts the background components, runs foreground until it returns
// and then stops everything. The first error from any component ends the
// run.
func (a *app) Run(ctx context.Context, foreground func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return err
		}
		g.Go(func() error { return a.scheduler.Wait(ctx) })
	}

	if a.watcher != nil {
		g.Go(func() error {
			if err := a.watcher.Run(ctx); err != nil {
				a.log.Warn("file watcher stopped", logger.Err(err))
			}
			return nil
		})
	}

	if a.server != nil {
		g.Go(a.server.Start)
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), a.cfg.App.ShutdownTimeout)
			defer done()
			return a.server.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancel()
		return foreground(ctx)
	})

	return g.Wait()
}

// Close releases connections in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	_ = a.log.Sync()
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// resilient puts a remote backend behind retries and a circuit breaker.
func (a *app) resilient(inner persistence.Backend, health *handlers.CompositeHealthChecker) persistence.Backend {
	rb := persistence.NewResilientBackend(inner, a.log)
	health.AddCheck("store_breaker", handlers.NewBreakerCheck(func() string { return rb.BreakerState().String() }))
	return rb
}

func (a *app) redisClient(cfg *config.Config, health *handlers.CompositeHealthChecker) (*redis.Client, error) {
	client, err := openRedis(cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = client.Close() })
	health.AddCheck("redis", handlers.NewPingCheck(client))
	return client, nil
}

func openRedis(cfg *config.Config) (*redis.Client, error) {
	rc := redis.DefaultConfig()
	rc.URL = cfg.Redis.URL
	if cfg.Redis.Host != "" {
		rc.Host = cfg.Redis.Host
	}
	rc.Port = cfg.Redis.Port
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB
	rc.PoolSize = cfg.Redis.PoolSize
	rc.MinIdleConns = cfg.Redis.MinIdleConns
	rc.DialTimeout = cfg.Redis.DialTimeout
	rc.ReadTimeout = cfg.Redis.ReadTimeout
	rc.WriteTimeout = cfg.Redis.WriteTimeout

	client, err := redis.NewClient(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*postgres.Connection, error) {
	pc := postgres.DefaultConfig(cfg.Database.URL)
	pc.MaxConns = int32(cfg.Database.MaxConns)
	pc.MinConns = int32(cfg.Database.MinConns)
	pc.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pc.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	log.Info("connecting to database...")
	conn, err := postgres.NewConnection(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	migrator := postgres.NewMigrator(conn)
	if err := migrator.Migrate(migrateCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	status, err := migrator.Status(migrateCtx)
	if err != nil {
		log.Warn("failed to get migration status", logger.Err(err))
	} else {
		applied := 0
		for _, m := range status {
			if m.IsApplied {
				applied++
			}
		}
		log.Info("database ready", logger.Int("migrations_applied", applied), logger.Int("migrations_total", len(status)))
	}
	return conn, nil
}

func generatorConfig(cfg *config.Config) generator.Config {
	gc := generator.DefaultConfig()
	if cfg.Generator.Provider != "" {
		gc.Provider = cfg.Generator.Provider
	}
	gc.Model = cfg.Generator.Model
	gc.APIKey = cfg.Generator.APIKey
	gc.BaseURL = cfg.Generator.BaseURL
	gc.MaxTokens = cfg.Generator.MaxTokens
	gc.Timeout = cfg.Generator.Timeout
	gc.RatePerSecond = cfg.Generator.RatePerSecond
	gc.Burst = cfg.Generator.Burst
	gc.MaxAttempts = cfg.Generator.MaxAttempts
	return gc
}
