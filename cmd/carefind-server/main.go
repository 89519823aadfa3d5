package main

import (
	"context"
	cryptorand "crypto/rand"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carefind/carefind/internal/config"
	"github.com/carefind/carefind/internal/domain/appointment"
	"github.com/carefind/carefind/internal/domain/discovery"
	"github.com/carefind/carefind/internal/domain/hospital"
	"github.com/carefind/carefind/internal/domain/identity"
	"github.com/carefind/carefind/internal/domain/pharmacy"
	"github.com/carefind/carefind/internal/platform/auth"
	"github.com/carefind/carefind/internal/platform/db"
	"github.com/carefind/carefind/internal/platform/event"
	"github.com/carefind/carefind/internal/platform/middleware"
	"github.com/carefind/carefind/internal/platform/notification"
	"github.com/carefind/carefind/internal/platform/websocket"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "carefind-server",
		Short: "Hospital discovery and appointment booking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// publicRoute reports whether a request may pass without a session token.
// Discovery, single-hospital reads, the medicine catalog and the realtime
// socket are open; booking and dashboard operations are not.
func publicRoute(c echo.Context) bool {
	path := c.Path()
	switch path {
	case "/health", "/health/db", "/ws",
		"/api/v1/auth/signup", "/api/v1/auth/signin":
		return true
	}
	if c.Request().Method == http.MethodGet {
		switch {
		case path == "/api/v1/hospitals", path == "/api/v1/medicines":
			return true
		case strings.HasPrefix(path, "/api/v1/hospitals/") && path != "/api/v1/hospitals/mine":
			return true
		}
	}
	return false
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware. In development a missing JWT_SECRET falls back to a
	// random per-process key, so sessions do not survive a restart.
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := cryptorand.Read(secret); err != nil {
			logger.Fatal().Err(err).Msg("failed to generate dev secret")
		}
		logger.Warn().Msg("JWT_SECRET not set, using a random per-process key")
	}
	issuer := auth.NewTokenIssuer(secret, cfg.TokenTTL())
	e.Use(auth.Middleware(issuer, publicRoute))

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Realtime hub
	hub := websocket.NewHub(logger)
	wsHandler := websocket.NewHandler(hub)
	wsHandler.RegisterRoutes(e.Group(""))
	events := event.NewHubPublisher(hub)

	// Notifications
	var sender notification.EmailSender = &notification.LogSender{Logger: logger}
	notifier := notification.NewService(sender, logger)

	// Repositories
	hospitalRepo := hospital.NewHospitalRepoPG(pool)
	doctorRepo := hospital.NewDoctorRepoPG(pool)
	appointmentRepo := appointment.NewRepoPG(pool)
	userRepo := identity.NewRepoPG(pool)
	orderRepo := pharmacy.NewMemoryOrderRepo()

	// Services
	inTx := func(ctx context.Context, fn func(context.Context) error) error {
		return db.RunInTx(ctx, pool, fn)
	}
	identitySvc := identity.NewService(userRepo, hospitalRepo, issuer, inTx)
	hospitalSvc := hospital.NewService(hospitalRepo, doctorRepo)
	discoverySvc := discovery.NewService(hospitalRepo)
	appointmentSvc := appointment.NewService(appointmentRepo, hospitalRepo, doctorRepo, identitySvc, events, notifier)
	pharmacySvc := pharmacy.NewService(orderRepo)

	// Handlers
	identity.NewHandler(identitySvc).RegisterRoutes(apiV1)
	discovery.NewHandler(discoverySvc).RegisterRoutes(apiV1)
	hospital.NewHandler(hospitalSvc).RegisterRoutes(apiV1)
	appointment.NewHandler(appointmentSvc).RegisterRoutes(apiV1)
	pharmacy.NewHandler(pharmacySvc, func(ctx context.Context, id uuid.UUID) (string, error) {
		info, err := identitySvc.PatientByID(ctx, id)
		return info.Name, err
	}).RegisterRoutes(apiV1)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
