package di

import (
	"taskhub/application/serviceimpl"
	"taskhub/domain/ports"
	"taskhub/domain/repositories"
	"taskhub/domain/services"
	"taskhub/infrastructure/memory"
	"taskhub/infrastructure/messaging"
	natspkg "taskhub/infrastructure/nats"
	"taskhub/infrastructure/postgres"
	redispkg "taskhub/infrastructure/redis"
	"taskhub/interfaces/api/handlers"
	"taskhub/pkg/config"
	"taskhub/pkg/logger"
	"taskhub/pkg/scheduler"

	"gorm.io/gorm"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redispkg.Client
	NATSClient     *natspkg.Client
	EventScheduler scheduler.EventScheduler

	// Repositories
	UserRepository    repositories.UserRepository
	TaskRepository    repositories.TaskRepository
	SessionRepository repositories.SessionRepository

	// Messaging
	TaskEvents ports.TaskEventPublisher

	// Services
	UserService services.UserService
	TaskService services.TaskService

	// Memory session store, kept so the scheduler can prune it.
	memorySessions *memory.SessionRepository
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Info("Configuration loaded")
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	dbConfig := postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		if c.Config.IsDevelopment() {
			// Local development without Postgres runs entirely in-memory.
			logger.Warn("Database unavailable, falling back to in-memory stores", "error", err)
		} else {
			return err
		}
	} else {
		c.DB = db
		logger.Info("Database connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

		if err := postgres.Migrate(db); err != nil {
			return err
		}
		logger.Info("Database migrated")
	}

	// Redis backs the refresh-token session store when configured.
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (using in-memory sessions)", "error", err)
		} else {
			c.RedisClient = redisClient
			logger.Info("Redis client initialized", "url", c.Config.Redis.URL)
		}
	}

	// NATS publishes task lifecycle events when configured.
	if c.Config.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(natspkg.ClientConfig{URL: c.Config.NATS.URL})
		if err != nil {
			logger.Warn("NATS client initialization failed (events disabled)", "error", err)
		} else {
			c.NATSClient = natsClient
			c.TaskEvents = messaging.NewNATSTaskEvents(natsClient)
			logger.Info("NATS client initialized", "url", c.Config.NATS.URL)
		}
	}

	return nil
}

func (c *Container) initRepositories() error {
	if c.DB != nil {
		c.UserRepository = postgres.NewUserRepository(c.DB)
		c.TaskRepository = postgres.NewTaskRepository(c.DB)
	} else {
		c.UserRepository = memory.NewUserRepository()
		c.TaskRepository = memory.NewTaskRepository()
	}

	if c.RedisClient != nil {
		c.SessionRepository = redispkg.NewSessionRepository(c.RedisClient)
	} else {
		c.memorySessions = memory.NewSessionRepository()
		c.SessionRepository = c.memorySessions
	}

	logger.Info("Repositories initialized")
	return nil
}

func (c *Container) initServices() error {
	c.UserService = serviceimpl.NewUserService(c.UserRepository, c.SessionRepository, c.Config.JWT.Secret)
	c.TaskService = serviceimpl.NewTaskService(c.TaskRepository, c.TaskEvents)

	logger.Info("Services initialized")
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()
	c.EventScheduler.Start()
	logger.Info("Event scheduler started")

	if c.memorySessions != nil {
		sessions := c.memorySessions
		err := c.EventScheduler.AddJob("session-prune", "*/10 * * * *", func() {
			if n := sessions.Prune(); n > 0 {
				logger.Debug("Pruned expired sessions", "count", n)
			}
		})
		if err != nil {
			logger.Warn("Failed to schedule session pruning", "error", err)
		}
	}

	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
		logger.Info("Event scheduler stopped")
	}

	if c.NATSClient != nil {
		c.NATSClient.Close()
		logger.Info("NATS connection closed")
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database connection", "error", err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		UserService: c.UserService,
		TaskService: c.TaskService,
		JWTSecret:   c.Config.JWT.Secret,
	}
}
