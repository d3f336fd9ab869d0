package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang-portfolio/config"
	"golang-portfolio/internal/dto"
	"golang-portfolio/pkg/cache"
	"golang-portfolio/pkg/common"
	"golang-portfolio/pkg/httpclient"
	"golang-portfolio/pkg/logger"
	"golang-portfolio/pkg/utils"

	"golang.org/x/time/rate"
)

// yahooFinanceRepository reads regularMarketPrice from the Yahoo Finance chart API.
type yahooFinanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	inmemoryCache  cache.Cache
	requestLimiter *rate.Limiter
}

func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache) QuoteRepository {
	return newYahooFinanceRepository(
		cfg, log, inmemoryCache,
		httpclient.New(cfg.Quote.YahooBaseURL, cfg.Quote.Timeout, cfg.Quote.UserAgent),
	)
}

func newYahooFinanceRepository(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache, client httpclient.HTTPClient) *yahooFinanceRepository {
	limit := rate.Inf
	if cfg.Quote.MaxRequestPerMin > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.Quote.MaxRequestPerMin))
	}
	return &yahooFinanceRepository{
		httpClient:     client,
		cfg:            cfg,
		logger:         log,
		inmemoryCache:  inmemoryCache,
		requestLimiter: rate.NewLimiter(limit, 1),
	}
}

// yahooTicker maps an exchange-qualified code to Yahoo's suffix convention.
func yahooTicker(stockCode, exchange string) string {
	switch exchange {
	case "NSE":
		return stockCode + ".NS"
	case "BSE":
		return stockCode + ".BO"
	case "IDX":
		return stockCode + ".JK"
	default:
		return stockCode
	}
}

func (r *yahooFinanceRepository) GetPrice(ctx context.Context, symbol string) (float64, error) {
	stockCode, exchange, err := utils.ParseStockSymbol(symbol, r.cfg.Quote.Exchange)
	if err != nil {
		return 0, err
	}
	cacheKey := fmt.Sprintf(common.KEY_LAST_PRICE, stockCode+":"+exchange)
	if price, ok := cache.GetFromCache[float64](r.inmemoryCache, cacheKey); ok {
		return price, nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return 0, err
	}

	ticker := yahooTicker(stockCode, exchange)
	queryParams := map[string]string{
		"range":    "1d",
		"interval": "1d",
	}
	headers := map[string]string{
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         "https://finance.yahoo.com/",
	}

	var yahooResp dto.YahooFinanceResponse
	resp, err := r.httpClient.Get(ctx, "/"+ticker, queryParams, headers, &yahooResp)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch data from yahoo finance: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return 0, fmt.Errorf("%w: %s", ErrQuoteNotFound, ticker)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Yahoo Finance API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("ticker", ticker))
		return 0, fmt.Errorf("yahoo finance api returned status: %d", resp.StatusCode)
	}

	if yahooResp.Chart.Error != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrQuoteNotFound, ticker, yahooResp.Chart.Error)
	}
	if len(yahooResp.Chart.Result) == 0 || yahooResp.Chart.Result[0].Meta.RegularMarketPrice <= 0 {
		return 0, fmt.Errorf("%w: no market price for %s", ErrQuoteNotFound, ticker)
	}

	price := yahooResp.Chart.Result[0].Meta.RegularMarketPrice
	r.inmemoryCache.Set(cacheKey, price, r.cfg.Cache.QuoteExpiration)
	return price, nil
}
