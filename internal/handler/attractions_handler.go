package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"TripAtlas-App/internal/application"
)

// AttractionsHandler アトラクション参照APIのハンドラー
type AttractionsHandler struct {
	attractionsService application.AttractionsService
}

// NewAttractionsHandler 新しいAttractionsHandlerインスタンスを作成
func NewAttractionsHandler(attractionsService application.AttractionsService) *AttractionsHandler {
	return &AttractionsHandler{
		attractionsService: attractionsService,
	}
}

// GetAttraction GET /attractions/:id - アトラクションの詳細を取得
func (h *AttractionsHandler) GetAttraction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "attraction id must be a positive integer",
		})
		return
	}

	attraction, err := h.attractionsService.GetAttraction(c.Request.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "見つかりません") {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to get attraction: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, attraction)
}

// ListCityAttractions GET /cities/:id/attractions?limit= - 都市別のアトラクション一覧を取得
func (h *AttractionsHandler) ListCityAttractions(c *gin.Context) {
	cityID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || cityID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "city id must be a positive integer",
		})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "limit must be a non-negative integer",
			})
			return
		}
	}

	attractions, err := h.attractionsService.ListCityAttractions(c.Request.Context(), cityID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list attractions: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attractions": attractions})
}
