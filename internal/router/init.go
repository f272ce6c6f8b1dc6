package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/crochee/actionstore/internal/controllers"
	"github.com/crochee/actionstore/internal/metrics"
	"github.com/crochee/actionstore/internal/service"
	"github.com/crochee/actionstore/pkg/logger"
	"github.com/crochee/actionstore/pkg/middleware"
	"github.com/crochee/actionstore/pkg/validator"
)

type option struct {
	origins        []string
	limit          rate.Limit
	burst          int
	tracerProvider trace.TracerProvider
	service        string
}

type Option func(*option)

// WithCORS allows browsers on origins to call the api
func WithCORS(origins ...string) Option {
	return func(o *option) {
		o.origins = origins
	}
}

// WithRateLimit caps each client at limit requests per second, zero disables it
func WithRateLimit(limit float64, burst int) Option {
	return func(o *option) {
		o.limit = rate.Limit(limit)
		o.burst = burst
	}
}

func WithTracing(tp trace.TracerProvider, service string) Option {
	return func(o *option) {
		o.tracerProvider = tp
		o.service = service
	}
}

// New gin router. /metrics serves gatherer.
func New(srv service.Service, log *zap.Logger, gatherer prometheus.Gatherer, opts ...Option) (*gin.Engine, error) {
	o := &option{}
	for _, opt := range opts {
		opt(o)
	}
	v, err := validator.New()
	if err != nil {
		return nil, err
	}
	binding.Validator = v

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(controllers.NoRoute)
	router.NoMethod(controllers.NoMethod)
	router.Use(
		middleware.RequestLogger(log),
		middleware.Log,
		middleware.Recovery,
		middleware.Metric(metrics.HTTPRequestDuration),
	)
	if o.tracerProvider != nil {
		router.Use(middleware.Tracing(o.tracerProvider, o.service))
	}
	if len(o.origins) > 0 {
		router.Use(middleware.CrossDomain(o.origins...))
	}
	if o.limit > 0 {
		router.Use(middleware.RateLimit(o.limit, o.burst))
	}

	router.GET("/health", controllers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	logger.RegisterLog(router)

	v1RouterGroup(router, srv)
	return router, nil
}

func v1RouterGroup(router *gin.Engine, srv service.Service) {
	v1Router := router.Group("/v1")
	registerAction(v1Router, srv)
}
