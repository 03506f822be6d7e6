package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"codesearch/internal/bootstrap"
	"codesearch/internal/transport/http/handler"
	"codesearch/internal/transport/http/middleware"
	"codesearch/web"
)

func newEngine(ginMode string, logger *zap.Logger) *gin.Engine {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(logger.Named("http")), gin.Recovery())
	return router
}

// NewSearchRouter serves codebase search, on-demand indexing and metrics.
func NewSearchRouter(a *bootstrap.SearchApp) *gin.Engine {
	router := newEngine(a.Config.App.GinMode, a.Logger)

	searchHandler := handler.NewSearchHandler(a.Search)
	healthHandler := handler.NewHealthHandler(a.Config.App.Name, a.StartedAt, a.Search)
	if a.Breaker != nil {
		healthHandler.WithCircuit(a.Breaker)
	}

	router.GET("/search", searchHandler.Search)
	router.POST("/search", searchHandler.Search)
	router.POST("/index", searchHandler.Index)
	router.GET("/index/report", searchHandler.Report)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))

	return router
}

// NewBlogRouter serves the blog page, its post fragments and the post API.
func NewBlogRouter(a *bootstrap.BlogApp) (*gin.Engine, error) {
	router := newEngine(a.Config.App.GinMode, a.Logger)

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates failed: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	postHandler := handler.NewPostHandler(a.Blog)
	healthHandler := handler.NewHealthHandler(a.Config.App.Name+"-blog", a.StartedAt, nil)

	router.GET("/", postHandler.Home)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	api.GET("/posts", postHandler.List)
	api.POST("/posts", postHandler.Create)

	return router, nil
}
