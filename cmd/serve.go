package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "complaint-desk.com/complaint-desk/internal/configs"
	httpapi "complaint-desk.com/complaint-desk/internal/http"
	middleware "complaint-desk.com/complaint-desk/internal/http/middlewares"
	repository "complaint-desk.com/complaint-desk/internal/repositories"
	"complaint-desk.com/complaint-desk/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the complaints HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		database := config.NewDatabaseClient(cfg.DatabaseDriver, cfg.DatabaseDSN)
		complaintRepo := repository.NewComplaintRepository(database)
		complaintService := services.NewComplaintService(complaintRepo, cfg.ListDefaultLimit, cfg.ListMaxLimit)

		opts := httpapi.RouteOptions{
			Limiter: middleware.NewMemoryLimiter(cfg.RateLimit, time.Minute),
			Auth:    middleware.Authenticate([]byte(cfg.JWTSecret)),
		}

		if cfg.RedisAddr != "" {
			redisClient := config.NewRedisClient(cfg.RedisAddr)
			defer redisClient.Close()

			opts.Limiter = middleware.NewRedisLimiter(redisClient, cfg.RedisRateLimitPrefix, cfg.RateLimit, time.Minute)
			log.Printf("rate limiting through redis at %s", cfg.RedisAddr)
		}

		if cfg.AuthDisabled {
			log.Println("AUTH_DISABLED is set, requests run without identity")
			opts.Auth = middleware.Anonymous()
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e := echo.New()
		e.HideBanner = true
		httpapi.Register(e, httpapi.NewHandler(complaintService), opts)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("server stopped: %v", err)
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown: %v", err)
		}

		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}

		log.Println("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
