package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oikia/backend-go/internal/database/repository"
	"github.com/oikia/backend-go/internal/geocode"
)

// GeoHandler handles HTTP requests for the geographic reference catalog
type GeoHandler struct {
	geoRepo  repository.GeoRepository
	searcher geocode.Searcher
	logger   *slog.Logger
}

// NewGeoHandler creates a new geo handler
func NewGeoHandler(geoRepo repository.GeoRepository, searcher geocode.Searcher, logger *slog.Logger) *GeoHandler {
	return &GeoHandler{
		geoRepo:  geoRepo,
		searcher: searcher,
		logger:   logger,
	}
}

// ListContinents returns a page of continents.
func (h *GeoHandler) ListContinents(c *gin.Context) {
	page, size := pageParams(c)

	continents, count, err := h.geoRepo.ListContinents((page-1)*size, size)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageEnvelope(continents, count, page, size))
}

// GetContinent returns one continent by code.
func (h *GeoHandler) GetContinent(c *gin.Context) {
	continent, err := h.geoRepo.FindContinent(c.Param("code"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, continent)
}

// ListCountries returns a page of countries.
func (h *GeoHandler) ListCountries(c *gin.Context) {
	page, size := pageParams(c)

	countries, count, err := h.geoRepo.ListCountries((page-1)*size, size)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageEnvelope(countries, count, page, size))
}

// GetCountry returns one country by ISO alpha-2 code.
func (h *GeoHandler) GetCountry(c *gin.Context) {
	country, err := h.geoRepo.FindCountry(c.Param("code"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, country)
}

// ListCities returns a page of cities.
func (h *GeoHandler) ListCities(c *gin.Context) {
	page, size := pageParams(c)

	cities, count, err := h.geoRepo.ListCities((page-1)*size, size)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageEnvelope(cities, count, page, size))
}

// GetCity returns one city by INSEE code.
func (h *GeoHandler) GetCity(c *gin.Context) {
	city, err := h.geoRepo.FindCityByInsee(c.Param("code"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, city)
}

// SearchAddress proxies the national address API, serving cached responses
// when available.
func (h *GeoHandler) SearchAddress(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Query parameter q is required"})
		return
	}

	result, err := h.searcher.Search(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, geocode.ErrUpstream) {
			c.JSON(http.StatusBadGateway, gin.H{"detail": "Address search unavailable"})
			return
		}
		h.handleError(c, err)
		return
	}

	c.Header("X-Cache", cacheHeader(result.Cached))
	c.Data(http.StatusOK, "application/json", result.Payload)
}

func cacheHeader(cached bool) string {
	if cached {
		return "HIT"
	}
	return "MISS"
}

func (h *GeoHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrGeoEntityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
	default:
		h.logger.Error("❌ [Handler] Internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}
