package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang-portfolio/config"
	"golang-portfolio/internal/dto"
	"golang-portfolio/internal/model"
	"golang-portfolio/internal/repository"
	"golang-portfolio/internal/valuation"
	"golang-portfolio/pkg/cache"
	"golang-portfolio/pkg/logger"
	"golang-portfolio/pkg/telegram"
	"golang-portfolio/pkg/utils"

	goValidator "github.com/go-playground/validator/v10"
)

var (
	ErrSymbolRequired    = errors.New("stock symbol is required")
	ErrTradeTypeRequired = errors.New("trade type is required")
	ErrPriceNotFetched   = errors.New("fetch current price first")
	ErrInvalidRequest    = errors.New("invalid request")
)

type PositionService interface {
	CreatePosition(ctx context.Context, req dto.PositionRequest) (uint, error)
	ListPositions(ctx context.Context) ([]dto.PositionView, error)
	GetPosition(ctx context.Context, id uint) (*dto.PositionView, error)
	UpdatePosition(ctx context.Context, id uint, req dto.PositionRequest) error
	DeletePosition(ctx context.Context, id uint) error
	GetQuote(ctx context.Context, symbol string) (*dto.Quote, error)
	SuggestPlan(ctx context.Context, symbol string, tradeType string) (*dto.TradePlan, error)
	RefreshPrices(ctx context.Context) (*dto.RefreshResult, error)
	Summary(ctx context.Context) (*dto.PortfolioSummary, error)
}

type positionService struct {
	cfg                *config.Config
	log                *logger.Logger
	validator          *goValidator.Validate
	inmemoryCache      cache.Cache
	notifier           telegram.Notifier
	positionRepository repository.PositionRepository
	quoteRepository    repository.QuoteRepository
	unitOfWork         repository.UnitOfWork
}

func NewPositionService(
	cfg *config.Config,
	log *logger.Logger,
	validator *goValidator.Validate,
	inmemoryCache cache.Cache,
	notifier telegram.Notifier,
	positionRepository repository.PositionRepository,
	quoteRepository repository.QuoteRepository,
	unitOfWork repository.UnitOfWork,
) PositionService {
	return &positionService{
		cfg:                cfg,
		log:                log,
		validator:          validator,
		inmemoryCache:      inmemoryCache,
		notifier:           notifier,
		positionRepository: positionRepository,
		quoteRepository:    quoteRepository,
		unitOfWork:         unitOfWork,
	}
}

func (s *positionService) CreatePosition(ctx context.Context, req dto.PositionRequest) (uint, error) {
	position, err := s.buildPosition(ctx, req)
	if err != nil {
		return 0, err
	}

	var id uint
	err = s.unitOfWork.Run(ctx, func(opts ...utils.DBOption) error {
		exists, err := s.positionRepository.ExistsBySymbol(ctx, position.Symbol, 0, opts...)
		if err != nil {
			return err
		}
		if exists {
			return repository.ErrDuplicateSymbol
		}
		id, err = s.positionRepository.Create(ctx, &position, opts...)
		return err
	})
	if err != nil {
		s.log.WarnContext(ctx, "Failed to create position", logger.StringField("symbol", position.Symbol), logger.ErrorField(err))
		return 0, err
	}

	s.log.InfoContext(ctx, "Position created", logger.UintField("id", id), logger.StringField("symbol", position.Symbol))
	return id, nil
}

func (s *positionService) ListPositions(ctx context.Context) ([]dto.PositionView, error) {
	positions, err := s.positionRepository.List(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list positions", logger.ErrorField(err))
		return nil, err
	}

	views := make([]dto.PositionView, 0, len(positions))
	for _, p := range positions {
		views = append(views, dto.NewPositionView(p))
	}
	return views, nil
}

func (s *positionService) GetPosition(ctx context.Context, id uint) (*dto.PositionView, error) {
	position, err := s.positionRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := dto.NewPositionView(*position)
	return &view, nil
}

// UpdatePosition replaces every field of the position. A request without a
// current price triggers a fresh quote, as on create.
func (s *positionService) UpdatePosition(ctx context.Context, id uint, req dto.PositionRequest) error {
	if _, err := s.positionRepository.GetByID(ctx, id); err != nil {
		return err
	}

	position, err := s.buildPosition(ctx, req)
	if err != nil {
		return err
	}

	err = s.unitOfWork.Run(ctx, func(opts ...utils.DBOption) error {
		exists, err := s.positionRepository.ExistsBySymbol(ctx, position.Symbol, id, opts...)
		if err != nil {
			return err
		}
		if exists {
			return repository.ErrDuplicateSymbol
		}
		return s.positionRepository.Update(ctx, id, position, opts...)
	})
	if err != nil {
		s.log.WarnContext(ctx, "Failed to update position", logger.UintField("id", id), logger.ErrorField(err))
		return err
	}

	s.log.InfoContext(ctx, "Position updated", logger.UintField("id", id), logger.StringField("symbol", position.Symbol))
	return nil
}

func (s *positionService) DeletePosition(ctx context.Context, id uint) error {
	if err := s.positionRepository.Delete(ctx, id); err != nil {
		s.log.WarnContext(ctx, "Failed to delete position", logger.UintField("id", id), logger.ErrorField(err))
		return err
	}
	s.log.InfoContext(ctx, "Position deleted", logger.UintField("id", id))
	return nil
}

func (s *positionService) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	symbol, err := s.canonicalSymbol(symbol)
	if err != nil {
		return nil, err
	}

	price, err := s.quoteRepository.GetPrice(ctx, symbol)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to fetch quote", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return nil, fmt.Errorf("%w: %w", ErrPriceNotFetched, err)
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: %w: %s", ErrPriceNotFetched, repository.ErrQuoteNotFound, symbol)
	}
	s.log.DebugContext(ctx, "Quote fetched", logger.StringField("symbol", symbol), logger.FloatField("price", price))
	return &dto.Quote{Symbol: symbol, Price: valuation.Round2(price)}, nil
}

// canonicalSymbol keeps "TCS" and "TCS:NSE" the same stock when NSE is the
// configured exchange.
func (s *positionService) canonicalSymbol(symbol string) (string, error) {
	if utils.NormalizeSymbol(symbol) == "" {
		return "", ErrSymbolRequired
	}
	canonical, err := utils.CanonicalSymbol(symbol, s.cfg.Quote.Exchange)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return canonical, nil
}

// SuggestPlan fetches a quote and derives the entry form defaults from it.
func (s *positionService) SuggestPlan(ctx context.Context, symbol string, tradeType string) (*dto.TradePlan, error) {
	tt, err := parseTradeType(tradeType)
	if err != nil {
		return nil, err
	}

	quote, err := s.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	plan, err := valuation.SuggestPlan(quote.Price, tt)
	if err != nil {
		return nil, err
	}
	return &dto.TradePlan{Symbol: quote.Symbol, Plan: plan}, nil
}

func (s *positionService) Summary(ctx context.Context) (*dto.PortfolioSummary, error) {
	positions, err := s.positionRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]dto.PositionView, 0, len(positions))
	for _, p := range positions {
		views = append(views, dto.NewPositionView(p))
	}
	return &dto.PortfolioSummary{
		Totals:    valuation.Summarize(positions),
		Positions: views,
	}, nil
}

// buildPosition validates the request and fills in every omitted price.
func (s *positionService) buildPosition(ctx context.Context, req dto.PositionRequest) (model.Position, error) {
	symbol, err := s.canonicalSymbol(req.Symbol)
	if err != nil {
		return model.Position{}, err
	}
	req.Symbol = symbol

	tradeType, err := parseTradeType(req.TradeType)
	if err != nil {
		return model.Position{}, err
	}

	if err := s.validator.StructCtx(ctx, req); err != nil {
		return model.Position{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	var currentPrice float64
	if req.CurrentPrice != nil {
		currentPrice = valuation.Round2(*req.CurrentPrice)
	} else {
		quote, err := s.GetQuote(ctx, symbol)
		if err != nil {
			return model.Position{}, err
		}
		currentPrice = quote.Price
	}
	if currentPrice <= 0 {
		return model.Position{}, ErrPriceNotFetched
	}

	entryPrice := valuation.Round2(currentPrice)
	if req.EntryPrice != nil {
		entryPrice = valuation.Round2(*req.EntryPrice)
	}

	stopLoss, target, err := valuation.DefaultBands(entryPrice, tradeType)
	if err != nil {
		return model.Position{}, err
	}
	if req.StopLoss != nil {
		stopLoss = valuation.Round2(*req.StopLoss)
	}
	if req.Target != nil {
		target = valuation.Round2(*req.Target)
	}

	return model.Position{
		Symbol:       symbol,
		CurrentPrice: currentPrice,
		EntryPrice:   entryPrice,
		Quantity:     req.Quantity,
		StopLoss:     stopLoss,
		Target:       target,
		TradeType:    tradeType,
	}, nil
}

func parseTradeType(value string) (model.TradeType, error) {
	if strings.TrimSpace(value) == "" {
		return "", ErrTradeTypeRequired
	}
	tradeType, err := model.ParseTradeType(value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return tradeType, nil
}
