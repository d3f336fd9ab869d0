package service

import (
	"golang-portfolio/config"
	"golang-portfolio/internal/repository"
	"golang-portfolio/pkg/cache"
	"golang-portfolio/pkg/logger"
	"golang-portfolio/pkg/telegram"

	goValidator "github.com/go-playground/validator/v10"
)

type Service struct {
	PositionService  PositionService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	validator *goValidator.Validate,
	inmemoryCache cache.Cache,
	notifier telegram.Notifier,
) *Service {
	positionService := NewPositionService(cfg, log, validator, inmemoryCache, notifier, repo.PositionRepo, repo.QuoteRepo, repo.UnitOfWork)
	return &Service{
		PositionService:  positionService,
		SchedulerService: NewSchedulerService(cfg, log, positionService, notifier),
	}
}
