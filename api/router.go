package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/encarta/api/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *server) setupRoutes(router *gin.Engine) {
	router.GET("/health", health())
	router.GET("/metrics", metricsHandler(s.registry))

	api := router.Group("/api")
	handlers.SetupSearch(api, s.logger, s.search, s.gateway, s.controller, s.validator)
	handlers.SetupChat(api, s.logger, s.assistant, s.controller, s.validator)
	handlers.SetupDocuments(api, s.logger, s.reader, s.resolver, s.validator)
	handlers.SetupNotes(api, s.logger, s.reader, s.validator)
	handlers.SetupView(api, s.logger, s.controller)
	handlers.SetupLibrary(api, s.logger, s.searchdb, s.indexer, s.validator)
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func metricsHandler(registry *prometheus.Registry) gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

func newRouter(metrics *httpMetrics) *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(metrics.middleware())

	return router
}

func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}
