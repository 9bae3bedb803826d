package metrics

import (
	pkgmetrics "github.com/pythonvista/intelligent-libary-sub000/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Init registers all custom collectors. Engine and experiment collectors
// register themselves in their package init.
func Init() {
	pkgmetrics.Init()
}

// Register exposes the Prometheus scrape endpoint on the server.
func Register(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
