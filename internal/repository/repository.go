package repository

import (
	"golang-portfolio/config"
	"golang-portfolio/pkg/cache"
	"golang-portfolio/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	PositionRepo PositionRepository
	QuoteRepo    QuoteRepository
	UnitOfWork   UnitOfWork
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, db *gorm.DB, log *logger.Logger) *Repository {
	return &Repository{
		PositionRepo: NewPositionRepository(db),
		QuoteRepo:    NewQuoteRepository(cfg, log, inmemoryCache),
		UnitOfWork:   NewUnitOfWork(db),
	}
}

// NewQuoteRepository picks the quote source named by quote.provider.
func NewQuoteRepository(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache) QuoteRepository {
	if cfg.Quote.Provider == config.QuoteProviderYahoo {
		return NewYahooFinanceRepository(cfg, log, inmemoryCache)
	}
	return NewGoogleFinanceRepository(cfg, log, inmemoryCache)
}
