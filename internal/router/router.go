// Package router assembles the gin engine: middleware chain, public
// routes and the JWT-protected admission surface.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sigemech/admission-api/config"
	"github.com/sigemech/admission-api/internal/middleware"
	"github.com/sigemech/admission-api/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine *gin.Engine
}

func New(
	logger zerolog.Logger,
	m *metrics.Metrics,
	rateCfg config.RateLimitConfig,
	auth *middleware.AuthMiddleware,
	healthH Handler,
	authH Handler,
	admissionH Handler,
	patientH Handler,
	catalogH Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(logger),
		middleware.Logger(logger),
		middleware.Metrics(m),
		middleware.CORS(),
		middleware.RateLimit(rateCfg),
	)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	root := engine.Group("")
	healthH.RegisterRoutes(root)

	api := engine.Group("/api/v1")
	authH.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(auth.Authenticate())
	admissionH.RegisterRoutes(protected)
	patientH.RegisterRoutes(protected)
	catalogH.RegisterRoutes(protected)

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
