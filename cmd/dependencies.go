package cmd

import (
	"context"

	"golang-portfolio/config"
	"golang-portfolio/internal/repository"
	"golang-portfolio/internal/service"
	"golang-portfolio/pkg/cache"
	"golang-portfolio/pkg/database"
	"golang-portfolio/pkg/logger"
	"golang-portfolio/pkg/telegram"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AppDependency struct {
	db        *database.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	notifier  telegram.Notifier
}

func NewAppDependency(ctx context.Context, configPath string) (*AppDependency, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return newAppDependencyWithConfig(ctx, cfg)
}

func newAppDependencyWithConfig(ctx context.Context, cfg *config.Config) (*AppDependency, error) {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.ErrorField(err))
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		if err := migrateSchema(db, cfg.DB.Driver, database.MigrateUp); err != nil {
			log.Error("Failed to migrate database", logger.ErrorField(err))
			_ = db.Close()
			return nil, err
		}
	}

	notifier, err := telegram.NewNotifier(&cfg.Telegram, log)
	if err != nil {
		log.Error("Failed to create telegram notifier", logger.ErrorField(err))
		_ = db.Close()
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		db:        db,
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		notifier:  notifier,
	}, nil
}

func (d *AppDependency) Services() *service.Service {
	repo := repository.NewRepository(d.cfg, d.cache, d.db.DB, d.log)
	return service.NewService(d.cfg, d.log, repo, d.validator, d.cache, d.notifier)
}

func (d *AppDependency) Close() error {
	d.log.Debug("Closing app dependency")
	_ = d.log.Sync()
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
