package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"TripAtlas-App/internal/domain/repository"
)

// defaultCitySearchRadiusDegrees 近傍都市検索の既定の半径（度）
const defaultCitySearchRadiusDegrees = 1.0

// GeoHandler 地理データ（国・都市）参照APIのハンドラー
type GeoHandler struct {
	geoRepo repository.GeoRepository
}

// NewGeoHandler 新しいGeoHandlerインスタンスを作成
func NewGeoHandler(geoRepo repository.GeoRepository) *GeoHandler {
	return &GeoHandler{
		geoRepo: geoRepo,
	}
}

// GetCountries GET /geo/countries - 全ての国を名前順で取得
func (h *GeoHandler) GetCountries(c *gin.Context) {
	countries, err := h.geoRepo.ListCountries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list countries: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"countries": countries})
}

// GetCities GET /geo/cities?country=XX&search= - 指定国の都市一覧を取得
func (h *GeoHandler) GetCities(c *gin.Context) {
	countryCode := strings.ToUpper(c.Query("country"))
	if len(countryCode) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "country parameter is required (2-letter country code)",
		})
		return
	}

	cities, err := h.geoRepo.ListCitiesByCountry(c.Request.Context(), countryCode, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list cities: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

// GetNearestCities GET /geo/cities/nearest?lat=&lng=&radius= - 近傍都市を取得
func (h *GeoHandler) GetNearestCities(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "lat and lng parameters are required",
		})
		return
	}

	radius := defaultCitySearchRadiusDegrees
	if raw := c.Query("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "radius must be a positive number of degrees",
			})
			return
		}
		radius = parsed
	}

	cities, err := h.geoRepo.ListNearestCities(c.Request.Context(), lat, lng, radius)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to find nearest cities: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cities": cities})
}
