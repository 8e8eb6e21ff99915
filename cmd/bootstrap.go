package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/meinhoongagan/roadside-assist/config"
	"github.com/meinhoongagan/roadside-assist/db"
	"github.com/meinhoongagan/roadside-assist/logger"
	"github.com/meinhoongagan/roadside-assist/pricing"
	"github.com/meinhoongagan/roadside-assist/redis"
	"github.com/meinhoongagan/roadside-assist/services"
	"github.com/meinhoongagan/roadside-assist/storage"
	"github.com/meinhoongagan/roadside-assist/utils"
	"gorm.io/gorm"
)

// env is the process wiring shared by every command.
type env struct {
	cfg     *config.Config
	conn    *gorm.DB
	catalog *pricing.Catalog
	cache   *redis.Cache
	closers []func()
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// loadEnv reads config, sets up logging and opens the database.
func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg}

	var extra []slog.Handler
	if cfg.LogMongoURI != "" {
		h, err := logger.NewMongoHandler(cfg.LogMongoURI, cfg.LogMongoDB, cfg.LogMongoCollection, slog.LevelInfo)
		if err != nil {
			slog.Warn("mongo log sink disabled", "error", err)
		} else {
			extra = append(extra, h)
			e.closers = append(e.closers, h.Close)
		}
	}
	logger.Setup(cfg.Env, extra...)

	if err := db.Init(cfg.DBDriver, cfg.DatabaseURL); err != nil {
		e.Close()
		return nil, err
	}
	e.conn = db.GetDB()

	e.catalog = pricing.Default()
	if cfg.PricingCatalogPath != "" {
		if e.catalog, err = pricing.LoadFile(cfg.PricingCatalogPath); err != nil {
			e.Close()
			return nil, err
		}
	}
	return e, nil
}

// connectCache returns nil when Redis is not configured or unreachable.
// Directory reads then go straight to the database.
func (e *env) connectCache(ctx context.Context) *redis.Cache {
	if e.cfg.RedisAddr == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	cache, err := redis.Connect(ctx, e.cfg.RedisAddr, e.cfg.RedisPassword, "roadside:")
	if err != nil {
		logger.Warn("redis unavailable, directory cache disabled", "error", err)
		return nil
	}
	e.cache = cache
	e.closers = append(e.closers, func() { _ = cache.Close() })
	return cache
}

// cacheOrNil keeps a nil *redis.Cache from becoming a non-nil interface.
func cacheOrNil(c *redis.Cache) services.PageCache {
	if c == nil {
		return nil
	}
	return c
}

func (e *env) applications(uploader storage.Uploader) *services.ApplicationService {
	return services.NewApplicationService(e.conn, uploader, cacheOrNil(e.cache))
}

func (e *env) mailer() *utils.Mailer {
	return utils.NewMailer(e.cfg.SMTPHost, e.cfg.SMTPPort, e.cfg.EmailUser, e.cfg.EmailPass)
}
