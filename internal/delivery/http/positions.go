package http

import (
	"net/http"
	"strconv"

	"golang-portfolio/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPositions(base *echo.Group) {
	v1 := base.Group("/v1/positions")
	{
		v1.GET("", h.ListPositions)
		v1.POST("", h.CreatePosition)
		v1.GET("/summary", h.Summary)
		v1.POST("/refresh", h.RefreshPrices)
		v1.GET("/:id", h.GetPosition)
		v1.PUT("/:id", h.UpdatePosition)
		v1.DELETE("/:id", h.DeletePosition)
	}
}

func positionID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *HttpAPIHandler) ListPositions(c echo.Context) error {
	positions, err := h.service.PositionService.ListPositions(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", positions))
}

func (h *HttpAPIHandler) CreatePosition(c echo.Context) error {
	var req dto.PositionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}

	id, err := h.service.PositionService.CreatePosition(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Position created", map[string]uint{"id": id}))
}

func (h *HttpAPIHandler) GetPosition(c echo.Context) error {
	id, ok := positionID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid position id"))
	}

	position, err := h.service.PositionService.GetPosition(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", position))
}

func (h *HttpAPIHandler) UpdatePosition(c echo.Context) error {
	id, ok := positionID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid position id"))
	}

	var req dto.PositionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}

	if err := h.service.PositionService.UpdatePosition(c.Request().Context(), id, req); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Position updated", nil))
}

func (h *HttpAPIHandler) DeletePosition(c echo.Context) error {
	id, ok := positionID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid position id"))
	}

	if err := h.service.PositionService.DeletePosition(c.Request().Context(), id); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Position deleted", nil))
}

func (h *HttpAPIHandler) RefreshPrices(c echo.Context) error {
	result, err := h.service.PositionService.RefreshPrices(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Prices refreshed", result))
}

func (h *HttpAPIHandler) Summary(c echo.Context) error {
	summary, err := h.service.PositionService.Summary(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", summary))
}
