package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"agentready/internal/api/v1/handler"
	"agentready/internal/api/v1/middleware"
)

const (
	appName    = "agentready"
	apiVersion = "v1"
	BasePath   = "/" + appName + "/api/" + apiVersion
)

type Options struct {
	BasicAuthUser string
	BasicAuthPass string
	RateLimit     float64
	RateBurst     int
}

func New(h *handler.Handler, opts Options) http.Handler {
	mux := http.NewServeMux()

	var routes []string
	register := func(path string, fn http.HandlerFunc) {
		routes = append(routes, BasePath+path)
		mux.HandleFunc(BasePath+path, fn)
	}

	register("/health", handler.HealthCheckHandler)
	register("/check", h.CheckPageHandler)
	register("/batch", h.BatchCheckHandler)

	var api http.Handler = middleware.RateLimit(opts.RateLimit, opts.RateBurst)(mux)
	if opts.BasicAuthUser != "" && opts.BasicAuthPass != "" {
		api = middleware.BasicAuth(opts.BasicAuthUser, opts.BasicAuthPass)(api)
	}

	return middleware.Logging(
		middleware.RecoverPanic(
			middleware.Metrics(routes...)(api),
		),
	)
}

func NewMetricsRouter(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler.MetricsHandler(reg))
	return mux
}
