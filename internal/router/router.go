package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/varlik-app/varlik/internal/auth"
	"github.com/varlik-app/varlik/internal/handler"
	"github.com/varlik-app/varlik/internal/stream"
)

// Registrable is a handler group that mounts its own routes; the
// generic entity resources implement it.
type Registrable interface {
	Register(group *gin.RouterGroup)
}

// Config collects everything the router needs.
type Config struct {
	MarketHandler    *handler.MarketHandler
	PortfolioHandler *handler.PortfolioHandler
	WatchlistHandler *handler.WatchlistHandler
	StreamHub        *stream.Hub
	Entities         []Registrable
	Verifier         auth.TokenVerifier
	Debug            bool
}

// NewRouter assembles the Gin engine. The catalog listing and the
// websocket stream are public; everything else requires an identity,
// and the manual refresh additionally requires the admin role.
func NewRouter(cfg *Config) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/v1/")
	registerMarketRoutes(api, cfg)
	registerUserRoutes(api, cfg)

	return router
}

func registerMarketRoutes(api *gin.RouterGroup, cfg *Config) {
	authed := auth.Middleware(cfg.Verifier)

	marketGroup := api.Group("/market")
	{
		marketGroup.GET("/assets", cfg.MarketHandler.ListAssets)
		marketGroup.GET("/assets/:asset_key/history", authed, cfg.MarketHandler.GetHistory)
		marketGroup.POST("/refresh", authed, auth.RequireRole(auth.RoleAdmin), cfg.MarketHandler.TriggerRefresh)
		marketGroup.GET("/stream", cfg.StreamHub.Handle)
	}
}

func registerUserRoutes(api *gin.RouterGroup, cfg *Config) {
	authed := api.Group("", auth.Middleware(cfg.Verifier))

	watchlist := authed.Group("/watchlist")
	{
		watchlist.GET("", cfg.WatchlistHandler.List)
		watchlist.POST("", cfg.WatchlistHandler.Add)
		watchlist.DELETE("/:asset_key", cfg.WatchlistHandler.Remove)
	}

	portfolio := authed.Group("/portfolio")
	{
		portfolio.GET("/summary", cfg.PortfolioHandler.GetSummary)
	}

	entities := authed.Group("/entities")
	for _, entity := range cfg.Entities {
		entity.Register(entities)
	}
}
