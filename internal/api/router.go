package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oikia/backend-go/internal/handler"
	"github.com/oikia/backend-go/internal/middleware"
)

// SetupRouter wires every route group. Unhandled panics are answered with a
// bare 500; the stack goes to the log only.
func SetupRouter(
	authHandler *handler.AuthHandler,
	geoHandler *handler.GeoHandler,
	intentHandler *handler.IntentHandler,
	authMiddleware *middleware.AuthMiddleware,
	logger *slog.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("💥 [API] Panic recovered", "panic", recovered, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}))
	r.SetTrustedProxies(nil)

	// Public routes
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Auth routes (Public)
	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/authenticate", authHandler.Authenticate)
		authGroup.POST("/authenticate/token", authHandler.AuthenticateToken)
		authGroup.POST("/session", authHandler.CreateSession)
		authGroup.GET("/api-key", authHandler.CreateAPIKey)
	}

	// Protected auth listings
	authAdmin := r.Group("/api/v1/auth")
	authAdmin.Use(authMiddleware.RequireAuth())
	{
		authAdmin.GET("/tokens", authHandler.ListTokens)
		authAdmin.GET("/refreshes", authHandler.ListRefreshes)
		authAdmin.GET("/sessions", authHandler.ListSessions)
	}

	// Geographic reference catalog
	geoGroup := r.Group("/api/v1/geo")
	{
		geoGroup.GET("/continents", geoHandler.ListContinents)
		geoGroup.GET("/continents/:code", geoHandler.GetContinent)
		geoGroup.GET("/countries", geoHandler.ListCountries)
		geoGroup.GET("/countries/:code", geoHandler.GetCountry)
		geoGroup.GET("/cities", geoHandler.ListCities)
		geoGroup.GET("/cities/:code", geoHandler.GetCity)
		geoGroup.GET("/address/search", geoHandler.SearchAddress)
	}

	// Intent capture (Protected)
	intentGroup := r.Group("/api/v1/intents")
	intentGroup.Use(authMiddleware.RequireAuth())
	{
		intentGroup.POST("", intentHandler.Create)
		intentGroup.GET("/:id", intentHandler.Get)
	}

	return r
}
