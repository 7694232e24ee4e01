package app

import (
	"context"
	"fmt"

	"psp-reconciler/config"
	"psp-reconciler/internal/adapter/event"
	httpHandler "psp-reconciler/internal/adapter/http/handler"
	"psp-reconciler/internal/adapter/orderstate"
	"psp-reconciler/internal/adapter/psp"
	pgStorage "psp-reconciler/internal/adapter/storage/postgres"
	redisStorage "psp-reconciler/internal/adapter/storage/redis"
	"psp-reconciler/internal/core/domain"
	"psp-reconciler/internal/core/ports"
	"psp-reconciler/internal/service"
	"psp-reconciler/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// App holds the wired reconciler and the resources it owns.
type App struct {
	Config     *config.Config
	Log        zerolog.Logger
	Reconciler *service.ReconciliationServiceImpl
	Tokens     *service.JWTTokenService

	pool      *pgxpool.Pool
	rdb       *goredis.Client
	publisher publisher
}

type publisher interface {
	ports.EventPublisher
	Close() error
}

// New connects to PostgreSQL and Redis and wires the reconciliation engine.
// Migrations run first when database.auto_migrate is set.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if cfg.Database.AutoMigrate {
		if err := pgStorage.Migrate(ctx, cfg.Database.DSN(), logger.Component(log, "migrate")); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	a := &App{
		Config:    cfg,
		Log:       log,
		Tokens:    service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer),
		pool:      pool,
		rdb:       rdb,
		publisher: newPublisher(cfg.Kafka, log),
	}

	a.Reconciler = service.NewReconciliationService(
		pgStorage.NewTransactionRepo(pool),
		psp.NewClient(cfg.PSP, logger.Component(log, "psp")),
		orderstate.NewClient(cfg.Shop, logger.Component(log, "orderstate")),
		newLocker(cfg.Reconcile, rdb, log),
		a.publisher,
		domain.ParseStatusWritePolicy(cfg.Reconcile.StatusWritePolicy),
		logger.Component(log, "reconciler"),
	)

	return a, nil
}

// Router builds the HTTP API on top of the wired services.
func (a *App) Router() *gin.Engine {
	return httpHandler.SetupRouter(httpHandler.RouterDeps{
		ReconcileSvc:      a.Reconciler,
		TokenSvc:          a.Tokens,
		RateLimitStore:    redisStorage.NewRateLimitStore(a.rdb),
		ExchangeRateLimit: a.Config.Server.ExchangeRateLimit,
		HealthCheckers: []ports.HealthChecker{
			pgStorage.NewHealthCheck(a.pool),
			redisStorage.NewHealthCheck(a.rdb),
		},
		Logger: logger.Component(a.Log, "http"),
	})
}

// Close flushes pending events and releases connections.
func (a *App) Close() {
	if err := a.publisher.Close(); err != nil {
		a.Log.Warn().Err(err).Msg("closing event publisher")
	}
	if err := a.rdb.Close(); err != nil {
		a.Log.Warn().Err(err).Msg("closing redis client")
	}
	a.pool.Close()
}

// newLocker picks the distributed lock unless reconcile.redis_lock is off.
func newLocker(cfg config.ReconcileConfig, rdb *goredis.Client, log zerolog.Logger) ports.KeyLocker {
	if cfg.RedisLock && rdb != nil {
		return redisStorage.NewLocker(rdb, cfg.LockTTL, cfg.LockWait, logger.Component(log, "locker"))
	}
	log.Info().Msg("using in-process reconciliation lock")
	return service.NewLocalKeyLocker()
}

func newPublisher(cfg config.KafkaConfig, log zerolog.Logger) publisher {
	if cfg.Enabled {
		return event.NewKafkaPublisher(cfg, logger.Component(log, "events"))
	}
	return event.NewLogPublisher(logger.Component(log, "events"))
}
