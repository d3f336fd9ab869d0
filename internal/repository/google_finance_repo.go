package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang-portfolio/config"
	"golang-portfolio/pkg/cache"
	"golang-portfolio/pkg/common"
	"golang-portfolio/pkg/httpclient"
	"golang-portfolio/pkg/logger"
	"golang-portfolio/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

var ErrQuoteNotFound = errors.New("quote not found")

type QuoteRepository interface {
	GetPrice(ctx context.Context, symbol string) (float64, error)
}

// googleFinanceRepository reads the last traded price from the public Google
// Finance quote page.
type googleFinanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	inmemoryCache  cache.Cache
	requestLimiter *rate.Limiter
}

func NewGoogleFinanceRepository(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache) QuoteRepository {
	return newGoogleFinanceRepository(
		cfg, log, inmemoryCache,
		httpclient.New(cfg.Quote.BaseURL, cfg.Quote.Timeout, cfg.Quote.UserAgent),
	)
}

func newGoogleFinanceRepository(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache, client httpclient.HTTPClient) *googleFinanceRepository {
	limit := rate.Inf
	if cfg.Quote.MaxRequestPerMin > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.Quote.MaxRequestPerMin))
	}
	return &googleFinanceRepository{
		httpClient:     client,
		cfg:            cfg,
		logger:         log,
		inmemoryCache:  inmemoryCache,
		requestLimiter: rate.NewLimiter(limit, 1),
	}
}

func (r *googleFinanceRepository) GetPrice(ctx context.Context, symbol string) (float64, error) {
	stockCode, exchange, err := utils.ParseStockSymbol(symbol, r.cfg.Quote.Exchange)
	if err != nil {
		return 0, err
	}
	symbolWithExchange := stockCode + ":" + exchange
	cacheKey := fmt.Sprintf(common.KEY_LAST_PRICE, symbolWithExchange)

	if price, ok := cache.GetFromCache[float64](r.inmemoryCache, cacheKey); ok {
		r.logger.DebugContext(ctx, "Quote served from cache", logger.StringField("symbol", symbolWithExchange))
		return price, nil
	}

	if r.requestLimiter.Tokens() < 1 {
		r.logger.DebugContext(ctx, "Quote request throttled",
			logger.IntField("max_request_per_min", r.cfg.Quote.MaxRequestPerMin),
		)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return 0, err
	}

	headers := map[string]string{
		"Accept":          "text/html,application/xhtml+xml",
		"Accept-Language": "en-US,en;q=0.9",
	}
	resp, err := r.httpClient.Get(ctx, "/quote/"+symbolWithExchange, nil, headers, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch quote page for %s: %w", symbolWithExchange, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return 0, fmt.Errorf("%w: %s", ErrQuoteNotFound, symbolWithExchange)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Quote page returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", symbolWithExchange))
		return 0, fmt.Errorf("quote page returned status: %d", resp.StatusCode)
	}

	price, err := r.extractPrice(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrQuoteNotFound, symbolWithExchange, err)
	}

	r.inmemoryCache.Set(cacheKey, price, r.cfg.Cache.QuoteExpiration)
	return price, nil
}

func (r *googleFinanceRepository) extractPrice(body []byte) (float64, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("parse html: %w", err)
	}

	selection := doc.Find(r.cfg.Quote.PriceSelector).First()
	if selection.Length() == 0 {
		return 0, fmt.Errorf("price element %q not found", r.cfg.Quote.PriceSelector)
	}

	return ParsePrice(selection.Text())
}

// ParsePrice reads a displayed price such as "₹1,234.50" or "$ 98.10".
func ParsePrice(text string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '.' {
			return r
		}
		return -1
	}, text)
	if cleaned == "" {
		return 0, fmt.Errorf("no digits in %q", strings.TrimSpace(text))
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", strings.TrimSpace(text), err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("non-positive price %q", strings.TrimSpace(text))
	}
	return price, nil
}
