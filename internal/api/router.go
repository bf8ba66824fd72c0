// Package api wires the HTTP handlers into a gin engine.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"microgrid-valuation/internal/api/handlers"
	"microgrid-valuation/internal/api/middleware"
	"microgrid-valuation/internal/api/models"
	"microgrid-valuation/internal/data"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	Cache     *data.RunCache
	PresetDir string
	// StaticDir holds a built single-page app. Empty or missing disables it.
	StaticDir string
}

// NewRouter builds the engine with middleware, API routes, /health, /metrics
// and the optional static app.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	presets := handlers.NewPresetHandler(opts.PresetDir)
	sim := handlers.NewSimulationHandler(opts.Cache, presets)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cached_runs": opts.Cache.Len()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/simulation/run", sim.RunSimulation)
		v1.POST("/simulation/compare", sim.CompareSimulations)
		v1.GET("/simulation/:id/snapshots", sim.GetSnapshots)
		v1.GET("/simulation/:id/sankey", sim.GetSankey)
		v1.GET("/simulation/:id/export.csv", sim.ExportCSV)

		v1.POST("/pricing/curve", handlers.DescribeCurve)
		v1.GET("/pricing/templates", handlers.ListTemplates)
		v1.POST("/pricing/arbitrage", handlers.EstimateArbitrage)

		v1.POST("/profile", handlers.GenerateProfile)
		v1.GET("/scenarios", handlers.ListScenarios)
		v1.GET("/presets", presets.ListPresets)
	}

	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
		})
	}
	if info, err := os.Stat(opts.StaticDir); opts.StaticDir != "" && err == nil && info.IsDir() {
		router.Static("/assets", filepath.Join(opts.StaticDir, "assets"))
		router.StaticFile("/favicon.ico", filepath.Join(opts.StaticDir, "favicon.ico"))
		index := filepath.Join(opts.StaticDir, "index.html")
		// Non-API paths fall through to the SPA router.
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				notFound(c)
				return
			}
			c.File(index)
		})
	} else {
		router.NoRoute(notFound)
	}
	return router
}
