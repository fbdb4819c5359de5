package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"TripAtlas-App/internal/domain/model"
	"TripAtlas-App/internal/usecase"
)

// RouteHandler ルート構築APIのハンドラー
type RouteHandler struct {
	routeUseCase usecase.RouteBuildUseCase
}

// NewRouteHandler 新しいRouteHandlerインスタンスを作成
func NewRouteHandler(routeUseCase usecase.RouteBuildUseCase) *RouteHandler {
	return &RouteHandler{
		routeUseCase: routeUseCase,
	}
}

// BuildRoute 地点列から徒歩ルートを構築するエンドポイント
// POST /routes/build
func (h *RouteHandler) BuildRoute(c *gin.Context) {
	var req model.RouteBuildRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	route, err := h.routeUseCase.BuildRoute(c.Request.Context(), &req)
	if err != nil {
		respondRouteError(c, err)
		return
	}

	c.JSON(http.StatusOK, route)
}

// GetItineraryDayRoute 旅程1日分のルートを構築して返すエンドポイント
// GET /itineraries/days/:id/route
func (h *RouteHandler) GetItineraryDayRoute(c *gin.Context) {
	dayID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || dayID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "itinerary day id must be a positive integer",
		})
		return
	}

	route, err := h.routeUseCase.BuildRouteForItineraryDay(c.Request.Context(), dayID)
	if err != nil {
		respondRouteError(c, err)
		return
	}

	c.JSON(http.StatusOK, route)
}

// respondRouteError エラーの種類をHTTPステータスにマッピングしてレスポンスする
// validation=400 / timeout=504 / upstream=502 / internal・その他=500
func respondRouteError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	var timeoutErr *model.TimeoutError
	var upstreamErr *model.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": validationErr.Message,
		})
	case errors.As(err, &timeoutErr):
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error":   "timeout_error",
			"message": timeoutErr.Message,
		})
	case errors.As(err, &upstreamErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "upstream_error",
			"message": upstreamErr.Message,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}
