package http

import (
	"net/http"

	"golang-portfolio/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupQuotes(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.GET("/quotes/:symbol", h.GetQuote)
		v1.GET("/plans/:symbol", h.SuggestPlan)
	}
}

func (h *HttpAPIHandler) GetQuote(c echo.Context) error {
	quote, err := h.service.PositionService.GetQuote(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", quote))
}

// SuggestPlan answers GET /plans/:symbol?trade_type=Bullish.
func (h *HttpAPIHandler) SuggestPlan(c echo.Context) error {
	plan, err := h.service.PositionService.SuggestPlan(c.Request().Context(), c.Param("symbol"), c.QueryParam("trade_type"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", plan))
}
