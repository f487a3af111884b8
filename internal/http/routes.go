package http

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	middleware "complaint-desk.com/complaint-desk/internal/http/middlewares"
)

type RouteOptions struct {
	Limiter middleware.Limiter
	Auth    echo.MiddlewareFunc
}

func Register(e *echo.Echo, h *Handler, opts RouteOptions) {
	e.HTTPErrorHandler = ErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Printf("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency.Round(time.Microsecond))
			return nil
		},
	}))

	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	auth := opts.Auth
	if auth == nil {
		auth = middleware.Anonymous()
	}

	for _, prefix := range []string{"/complaints", "/api/complaints"} {
		g := e.Group(prefix)
		if opts.Limiter != nil {
			g.Use(middleware.RateLimiter(opts.Limiter))
		}
		g.Use(auth)

		g.POST("", h.CreateComplaint)
		g.GET("", h.ListComplaints)
		g.GET("/:id", h.GetComplaint)
		g.PATCH("/:id", h.UpdateComplaint)
		g.DELETE("/:id", h.DeleteComplaint)
		g.POST("/:id/restore", h.RestoreComplaint)
		g.PATCH("/:id/status", h.UpdateStatus)
	}
}
