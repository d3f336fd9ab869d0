package http

import (
	"context"
	"errors"
	"net/http"

	"golang-portfolio/config"
	"golang-portfolio/internal/dto"
	"golang-portfolio/internal/repository"
	"golang-portfolio/internal/service"
	"golang-portfolio/pkg/middleware"

	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo    *echo.Echo
	cfg     *config.Config
	service *service.Service
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, cfg *config.Config, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:    echo,
		cfg:     cfg,
		service: service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	base.Use(middleware.NewRateLimiterMiddleware(h.cfg.API))
	h.SetupPositions(base)
	h.SetupQuotes(base)
}

// errorStatus maps service and repository errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrDuplicateSymbol):
		return http.StatusConflict
	case errors.Is(err, repository.ErrPositionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSymbolRequired),
		errors.Is(err, service.ErrTradeTypeRequired),
		errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPriceNotFetched),
		errors.Is(err, repository.ErrQuoteNotFound):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(c echo.Context, err error) error {
	code := errorStatus(err)
	return c.JSON(code, dto.NewBaseResponse(code, err.Error(), nil))
}
