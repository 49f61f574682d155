package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"invitation-backend/internal/config"
	"invitation-backend/internal/domains/invitation/channel"
	invitationHandler "invitation-backend/internal/domains/invitation/handler"
	invitationRepo "invitation-backend/internal/domains/invitation/repository"
	invitationService "invitation-backend/internal/domains/invitation/service"
	"invitation-backend/internal/domains/invitation/tasks"
	infraCache "invitation-backend/internal/infrastructure/cache"
	"invitation-backend/internal/infrastructure/database"
	"invitation-backend/internal/infrastructure/storage"
	"invitation-backend/pkg/cache"
	"invitation-backend/pkg/logger"
)

// Container is the root of the dependency graph. Both the API and the
// worker binaries build one; the worker just ignores the HTTP layer.
type Container struct {
	Config  *config.Config
	DB      *database.PostgresDB
	Redis   *infraCache.RedisClient
	Storage *storage.MinIOStorage
	Cache   cache.Cache

	Channel        *channel.Channel
	InvitationRepo invitationRepo.Repository
	Progress       invitationService.ProgressStore

	AsynqClient *asynq.Client
	Enqueuer    tasks.Enqueuer

	DraftService      *invitationService.DraftService
	InvitationService *invitationService.InvitationService

	InvitationHandler *invitationHandler.InvitationHandler
}

// NewContainer initializes the full graph in dependency order:
// config, infrastructure, channel and repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Name, cfg.App.Environment)
	logger.Info("config loaded", map[string]interface{}{"environment": cfg.App.Environment})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.NewPostgresDB(cfg.Database)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	redisClient := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Connect(ctx); err != nil {
		// The channel fallback and the progress store live in redis, so a
		// dead redis means no cross-process generation. Fail fast.
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Redis = redisClient
	c.Cache = cache.NewRedisCache(redisClient.Client)

	objectStore, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = objectStore

	c.Channel = channel.New(c.Cache, cfg.Draft.TTL, cfg.Draft.MaxPayloadBytes)
	c.InvitationRepo = invitationRepo.NewPostgresRepository(db.Pool)
	c.Progress = invitationService.NewCacheProgressStore(c.Cache, cfg.Draft.TTL)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	c.Enqueuer = tasks.NewAsynqEnqueuer(c.AsynqClient)

	c.DraftService = invitationService.NewDraftService(c.Channel, cfg.Draft.TTL)
	c.InvitationService = invitationService.NewInvitationService(
		c.DraftService,
		c.Channel,
		c.InvitationRepo,
		c.Progress,
		c.Enqueuer,
		cfg.Share,
	)

	c.InvitationHandler = invitationHandler.NewInvitationHandler(c.DraftService, c.InvitationService)

	logger.Info("container initialized", nil)
	return c, nil
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("failed to close asynq client", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	logger.Info("container cleanup completed", nil)
}
