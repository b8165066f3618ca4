package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gamificationCommands "github.com/felixgeelhaar/workday/internal/gamification/application/commands"
	gamificationQueries "github.com/felixgeelhaar/workday/internal/gamification/application/queries"
	gamificationServices "github.com/felixgeelhaar/workday/internal/gamification/application/services"
	gamificationSubs "github.com/felixgeelhaar/workday/internal/gamification/application/subscribers"
	gamificationDomain "github.com/felixgeelhaar/workday/internal/gamification/domain"
	scheduleCommands "github.com/felixgeelhaar/workday/internal/scheduling/application/commands"
	scheduleQueries "github.com/felixgeelhaar/workday/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/services"
	scheduleSubs "github.com/felixgeelhaar/workday/internal/scheduling/application/subscribers"
	schedulingDomain "github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/internal/scheduling/infrastructure/caldav"
	"github.com/felixgeelhaar/workday/internal/scheduling/infrastructure/gateway"
	"github.com/felixgeelhaar/workday/internal/scheduling/infrastructure/snapshot"
	sharedApplication "github.com/felixgeelhaar/workday/internal/shared/application"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/workday/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/workday/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/httpclient"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/syncqueue"
	"github.com/felixgeelhaar/workday/pkg/config"
	"github.com/felixgeelhaar/workday/pkg/observability"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	Metrics  *observability.InMemoryMetrics
	Health   *observability.HealthRegistry
	Location *time.Location

	// Database. Nil when the CLI talks to a remote API.
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis. Nil when unset or unreachable in development.
	RedisClient *redis.Client

	// Repositories
	ScheduleRepo schedulingDomain.ScheduleRepository
	TemplateRepo schedulingDomain.TemplateRepository
	ProfileRepo  gamificationDomain.ProfileRepository
	OutboxRepo   outbox.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Publishers. LocalBus is set when events are dispatched in process.
	EventPublisher eventbus.Publisher
	LocalBus       *eventbus.LocalBus

	// Schedule Handlers
	GetBlocksHandler       *scheduleQueries.GetBlocksHandler
	GetIncompleteHandler   *scheduleQueries.GetIncompleteHandler
	GetConfigHandler       *scheduleQueries.GetConfigHandler
	SaveBlocksHandler      *scheduleCommands.SaveBlocksHandler
	PatchBlockHandler      *scheduleCommands.PatchBlockHandler
	CommitCarryOverHandler *scheduleCommands.CommitCarryOverHandler
	SaveTemplateHandler    *scheduleCommands.SaveTemplateHandler

	// Gamification Handlers
	GetProfileHandler        *gamificationQueries.GetProfileHandler
	AwardXPHandler           *gamificationCommands.AwardXPHandler
	UpdateStreakHandler      *gamificationCommands.UpdateStreakHandler
	UnlockAchievementHandler *gamificationCommands.UnlockAchievementHandler
	RecordWorkHandler        *gamificationCommands.RecordWorkHandler

	// Event subscribers
	WorkStatsSubscriber      *gamificationSubs.WorkStatsSubscriber
	CalendarMirrorSubscriber *scheduleSubs.CalendarMirrorSubscriber
	CalendarMirror           *caldav.Mirror

	// Outbox
	OutboxProcessor *outbox.Processor

	// Client side
	APIClient       *httpclient.Client
	Snapshots       *snapshot.Store
	SnapshotSQL     *snapshot.SQLBackend
	SyncQueue       *syncqueue.Queue
	ScheduleGateway services.ScheduleGateway
	XPGateway       services.XPGateway
	Session         *services.DaySession
	CarryOver       *services.CarryOverCoordinator
}

// NewContainer wires the application. Without WORKDAY_API_URL the schedule
// lives in the configured database; with it, the CLI is a client of that API
// and opens no database at all.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Metrics:  observability.NewInMemoryMetrics(),
		Health:   observability.NewHealthRegistry(),
		Location: time.Local,
	}

	if err := c.initRedis(ctx); err != nil {
		return nil, err
	}

	c.CalendarMirror = caldav.NewMirror(caldav.Config{
		URL:          cfg.CalDAVURL,
		Username:     cfg.CalDAVUsername,
		Password:     cfg.CalDAVPassword,
		CalendarPath: cfg.CalDAVCalendar,
	}, logger)

	var snapshotBackend snapshot.Backend
	if cfg.RemoteMode() {
		c.initRemote()
	} else {
		factory, err := c.initDatabase(ctx)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.initHandlers(factory)
		if err := c.initEvents(); err != nil {
			c.Close()
			return nil, err
		}
		c.SnapshotSQL = factory.SnapshotBackend()
		snapshotBackend = c.SnapshotSQL
	}

	switch {
	case c.RedisClient != nil:
		snapshotBackend = snapshot.NewRedisBackend(c.RedisClient)
	case snapshotBackend == nil:
		logger.Warn("no Redis configured, snapshots are kept in memory")
		snapshotBackend = snapshot.NewMemoryBackend()
	}
	c.Snapshots = snapshot.NewStore(snapshotBackend, cfg.SnapshotTTL)

	if err := c.initSession(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// NewLocalContainer creates a container for local mode with SQLite.
// This provides zero-config operation without requiring PostgreSQL, Redis, or RabbitMQ.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	local := *cfg
	local.LocalMode = true
	local.DatabaseURL = ""
	local.DatabaseDriver = string(database.DriverSQLite)
	local.APIURL = ""
	local.RedisURL = ""
	local.RabbitMQURL = ""
	return NewContainer(ctx, &local, logger)
}

func (c *Container) initRedis(ctx context.Context) error {
	cfg := c.Config
	if cfg.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, snapshots will use the fallback store", "error", err)
		return nil
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, snapshots will use the fallback store", "error", err)
		return nil
	}
	c.RedisClient = client
	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) initDatabase(ctx context.Context) (*RepositoryFactory, error) {
	cfg := c.Config
	path := cfg.SQLitePath
	if path == "" {
		path = database.DefaultSQLitePath()
	}

	conn, err := database.Open(ctx, database.Config{
		Driver:     database.Driver(cfg.DatabaseDriver),
		URL:        cfg.DatabaseURL,
		SQLitePath: path,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := migrations.Run(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	factory, err := NewRepositoryFactory(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	c.DBConn = conn
	c.DBDriver = factory.Driver()
	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))

	if c.DBDriver == database.DriverSQLite {
		c.Logger.Info("connected to database", "driver", c.DBDriver, "path", path)
	} else {
		c.Logger.Info("connected to database", "driver", c.DBDriver)
	}
	return factory, nil
}

func (c *Container) initHandlers(factory *RepositoryFactory) {
	c.ScheduleRepo = factory.ScheduleRepository()
	c.TemplateRepo = factory.TemplateRepository()
	c.ProfileRepo = factory.ProfileRepository()
	c.OutboxRepo = factory.OutboxRepository()
	c.UnitOfWork = factory.UnitOfWork()

	c.GetBlocksHandler = scheduleQueries.NewGetBlocksHandler(c.ScheduleRepo)
	c.GetIncompleteHandler = scheduleQueries.NewGetIncompleteHandler(c.ScheduleRepo)
	c.GetConfigHandler = scheduleQueries.NewGetConfigHandler(c.TemplateRepo, gamificationDomain.ClientXPConfig(), c.Logger)
	c.SaveBlocksHandler = scheduleCommands.NewSaveBlocksHandler(c.ScheduleRepo, c.OutboxRepo, c.UnitOfWork)
	c.PatchBlockHandler = scheduleCommands.NewPatchBlockHandler(c.ScheduleRepo, c.OutboxRepo, c.UnitOfWork)
	c.CommitCarryOverHandler = scheduleCommands.NewCommitCarryOverHandler(c.ScheduleRepo, c.OutboxRepo, c.UnitOfWork)
	c.SaveTemplateHandler = scheduleCommands.NewSaveTemplateHandler(c.TemplateRepo)

	c.GetProfileHandler = gamificationQueries.NewGetProfileHandler(c.ProfileRepo)
	c.AwardXPHandler = gamificationCommands.NewAwardXPHandler(c.ProfileRepo, c.OutboxRepo, c.UnitOfWork, c.Metrics)
	c.UpdateStreakHandler = gamificationCommands.NewUpdateStreakHandler(c.ProfileRepo, c.OutboxRepo, c.UnitOfWork)
	c.UnlockAchievementHandler = gamificationCommands.NewUnlockAchievementHandler(c.ProfileRepo, c.OutboxRepo, c.UnitOfWork)
	c.RecordWorkHandler = gamificationCommands.NewRecordWorkHandler(c.ProfileRepo, c.OutboxRepo, c.UnitOfWork)

	c.WorkStatsSubscriber = gamificationSubs.NewWorkStatsSubscriber(c.RecordWorkHandler, c.Logger)
	c.CalendarMirrorSubscriber = scheduleSubs.NewCalendarMirrorSubscriber(c.CalendarMirror, c.ScheduleRepo, c.Location, c.Logger)

	user := c.Config.DefaultUser()
	c.ScheduleGateway = gateway.NewLocalScheduleGateway(
		user,
		c.TemplateRepo,
		c.GetBlocksHandler,
		c.GetIncompleteHandler,
		c.SaveBlocksHandler,
		c.CommitCarryOverHandler,
	)
	c.XPGateway = gateway.NewLocalXPGateway(user, c.GetProfileHandler, c.AwardXPHandler, c.UpdateStreakHandler)
}

// initEvents picks the outbox's publisher. Without RabbitMQ the subscribers
// run in process; with it they run in the worker.
func (c *Container) initEvents() error {
	cfg := c.Config
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.Logger)
		switch {
		case err == nil:
			c.EventPublisher = publisher
			c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(publisher.Ping))
		case cfg.IsDevelopment():
			c.Logger.Warn("RabbitMQ not available, dispatching events in process", "error", err)
		default:
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
	}
	if c.EventPublisher == nil {
		c.LocalBus = eventbus.NewLocalBus(c.Logger)
		c.LocalBus.Subscribe(c.WorkStatsSubscriber)
		c.LocalBus.Subscribe(c.CalendarMirrorSubscriber)
		c.EventPublisher = c.LocalBus
	}

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorConfig(cfg), c.Logger)
	return nil
}

func processorConfig(cfg *config.Config) outbox.ProcessorConfig {
	pc := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		pc.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		pc.BatchSize = cfg.OutboxBatchSize
	}
	if cfg.OutboxMaxRetries > 0 {
		pc.MaxRetries = cfg.OutboxMaxRetries
	}
	return pc
}

func (c *Container) initRemote() {
	cfg := c.Config
	clientCfg := httpclient.Config{
		BaseURL:          cfg.APIURL,
		UserID:           cfg.UserID,
		Timeout:          cfg.APITimeout,
		MaxRequests:      cfg.BreakerMaxRequests,
		Interval:         cfg.BreakerInterval,
		BreakerTimeout:   cfg.BreakerTimeout,
		FailureThreshold: cfg.BreakerFailureThreshold,
	}
	c.APIClient = httpclient.New(clientCfg, nil, c.Logger, c.Metrics)
	c.ScheduleGateway = gateway.NewHTTPScheduleGateway(c.APIClient)
	c.XPGateway = gateway.NewHTTPXPGateway(c.APIClient)
	c.Logger.Info("using remote schedule API", "url", cfg.APIURL)
}

func (c *Container) initSession() error {
	cfg := c.Config
	start, err := schedulingDomain.ParseTimeOfDay(cfg.ScheduleStartTime)
	if err != nil {
		return fmt.Errorf("invalid schedule start time: %w", err)
	}

	c.SyncQueue = syncqueue.New(syncqueue.Config{
		MaxRetries: cfg.SyncMaxRetries,
		RetryDelay: cfg.SyncRetryDelay,
	}, c.Logger, c.Metrics)

	c.Session = services.NewDaySession(services.SessionConfig{
		UserID:            cfg.DefaultUser(),
		StartTime:         start,
		TargetWorkMinutes: cfg.TargetWorkMinutes,
		Location:          c.Location,
		DrainTimeout:      cfg.SyncDrainWait,
	},
		c.ScheduleGateway,
		c.XPGateway,
		c.Snapshots,
		c.SyncQueue,
		gamificationServices.NewXPLedger(0),
		c.Logger,
		c.Metrics,
	)
	c.CarryOver = services.NewCarryOverCoordinator(c.ScheduleGateway, c.Snapshots, c.Session, c.Logger)
	return nil
}

// StartBackground starts the sync queue worker and, when enabled, the
// outbox processor. Long-running commands call it.
func (c *Container) StartBackground(ctx context.Context) {
	if c.SyncQueue != nil {
		c.SyncQueue.Start(ctx)
	}
	if c.OutboxProcessor != nil && c.Config.OutboxProcessorEnabled {
		c.OutboxProcessor.Start(ctx)
	}
}

// FlushEvents publishes whatever the outbox holds. Short-lived commands call
// it so in-process subscribers see their events before exit.
func (c *Container) FlushEvents(ctx context.Context) {
	if c.OutboxProcessor == nil {
		return
	}
	if err := c.OutboxProcessor.ProcessOnce(ctx); err != nil {
		c.Logger.Warn("outbox flush failed", "error", err)
	}
}

// Close cleans up all resources.
func (c *Container) Close() {
	ctx := context.Background()

	if c.SyncQueue != nil {
		c.SyncQueue.Stop()
	}
	if c.Session != nil {
		if err := c.Session.Close(ctx); err != nil {
			c.Logger.Warn("pending sync tasks not drained", "error", err)
		}
	}

	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
		if c.LocalBus != nil {
			c.FlushEvents(ctx)
		}
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Debug("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "driver", c.DBDriver, "error", err)
		} else {
			c.Logger.Debug("database connection closed", "driver", c.DBDriver)
		}
	}
}
