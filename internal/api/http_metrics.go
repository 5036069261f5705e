package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/legaltech/case-management/internal/api/metrics"
)

// httpMetrics returns the request instrumentation middleware and the
// /metrics handler. A nil registry means the process-wide default, which is
// also where the metrics package registers.
func httpMetrics(reg *prometheus.Registry) (echo.MiddlewareFunc, echo.HandlerFunc) {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}

	mw := echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:          metrics.Namespace,
		Subsystem:          "http",
		Registerer:         registerer,
		StatusCodeResolver: metricsStatus,
		// Unmatched paths share one label value.
		DoNotUseRequestPathFor404: true,
	})
	return mw, echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer})
}

// metricsStatus labels a request with the status it is rendered with. The
// middleware sees handler errors before the error handler writes them.
func metricsStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	if code, _, ok := classify(err); ok {
		return code
	}
	return http.StatusInternalServerError
}
