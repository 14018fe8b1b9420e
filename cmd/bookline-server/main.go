package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bookline/bookline/internal/config"
	"github.com/bookline/bookline/internal/domain/appointment"
	"github.com/bookline/bookline/internal/domain/availability"
	"github.com/bookline/bookline/internal/domain/catalog"
	"github.com/bookline/bookline/internal/domain/client"
	"github.com/bookline/bookline/internal/domain/provider"
	"github.com/bookline/bookline/internal/platform/activity"
	"github.com/bookline/bookline/internal/platform/auth"
	"github.com/bookline/bookline/internal/platform/cache"
	"github.com/bookline/bookline/internal/platform/calendar"
	"github.com/bookline/bookline/internal/platform/db"
	"github.com/bookline/bookline/internal/platform/locking"
	"github.com/bookline/bookline/internal/platform/middleware"
)

// ProviderSourceAdapter adapts a provider.Repository to the
// availability.ProviderSource interface, avoiding circular imports
// between the availability and provider packages.
type ProviderSourceAdapter struct {
	repo provider.Repository
}

// NewProviderSourceAdapter creates a new adapter.
func NewProviderSourceAdapter(repo provider.Repository) *ProviderSourceAdapter {
	return &ProviderSourceAdapter{repo: repo}
}

// IsActive implements availability.ProviderSource.
func (a *ProviderSourceAdapter) IsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	p, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return p.Active, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "bookline-server",
		Short: "Appointment scheduling API server",
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
		Short: "Start the scheduling API server",
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
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
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
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
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
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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

// newDayCache selects the availability cache backend. With no REDIS_URL
// configured the in-process cache is used; it is correct for a single
// instance only.
func newDayCache(ctx context.Context, redisURL string, logger zerolog.Logger) cache.DayCache {
	if redisURL == "" {
		logger.Info().Msg("REDIS_URL not set; using in-memory availability cache")
		return cache.NewMemory()
	}
	c, err := cache.NewRedis(ctx, redisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable; falling back to in-memory availability cache")
		return cache.NewMemory()
	}
	logger.Info().Msg("connected to redis")
	return c
}

// newCalendarSync selects the calendar backend. Sync is optional; without
// a configured calendar every event operation is a no-op.
func newCalendarSync(ctx context.Context, cfg *config.Config, logger zerolog.Logger) calendar.Sync {
	if cfg.GoogleCalendarID == "" {
		return calendar.NoopSync{}
	}
	sync, err := calendar.NewGoogleSync(ctx, cfg.GoogleCredentialsFile, cfg.GoogleCalendarID)
	if err != nil {
		logger.Warn().Err(err).Msg("google calendar unavailable; calendar sync disabled")
		return calendar.NoopSync{}
	}
	logger.Info().Str("calendar_id", cfg.GoogleCalendarID).Msg("google calendar sync enabled")
	return sync
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
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid business timezone")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Optional backends
	dayCache := newDayCache(ctx, cfg.RedisURL, logger)
	calSync := newCalendarSync(ctx, cfg, logger)

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
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			SigningKey: []byte(cfg.AuthSecret),
		}))
	}

	// API group with rate limiting
	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// -- Repositories --
	providerRepo := provider.NewRepoPG(pool)
	catalogRepo := catalog.NewRepoPG(pool)
	clientRepo := client.NewRepoPG(pool)
	apptRepo := appointment.NewRepoPG(pool)
	ruleRepo := availability.NewRuleRepoPG(pool)
	exceptionRepo := availability.NewExceptionRepoPG(pool)
	holidayRepo := availability.NewHolidayRepoPG(pool)
	activityRecorder := activity.NewRecorderPG(pool)

	// -- Services --
	providerSvc := provider.NewService(providerRepo)
	catalogSvc := catalog.NewService(catalogRepo)
	clientSvc := client.NewService(clientRepo)

	cacheTTL := time.Duration(cfg.AvailabilityCacheTTL) * time.Second
	resolver := availability.NewResolver(
		NewProviderSourceAdapter(providerRepo),
		ruleRepo, exceptionRepo, holidayRepo, apptRepo,
		dayCache, cacheTTL, loc, logger,
	)
	availabilitySvc := availability.NewService(ruleRepo, exceptionRepo, holidayRepo, dayCache, logger)

	apptSvc := appointment.NewService(appointment.Deps{
		Appointments: apptRepo,
		Clients:      clientRepo,
		Providers:    providerRepo,
		Catalog:      catalogRepo,
		Resolver:     resolver,
		Activity:     activityRecorder,
		Calendar:     calSync,
		Locks:        locking.NewKeyedMutex(),
		Cache:        dayCache,
		InTx: func(ctx context.Context, fn func(context.Context) error) error {
			return db.InTx(ctx, pool, fn)
		},
		Config: appointment.Config{
			Location:     loc,
			CheckinEarly: time.Duration(cfg.CheckInEarlyMinutes) * time.Minute,
			CheckinLate:  time.Duration(cfg.CheckInLateMinutes) * time.Minute,
			NoShowGrace:  time.Duration(cfg.NoShowGraceMinutes) * time.Minute,
		},
		Logger: logger,
	})

	// -- Handlers --
	provider.NewHandler(providerSvc).RegisterRoutes(apiV1)
	catalog.NewHandler(catalogSvc).RegisterRoutes(apiV1)
	client.NewHandler(clientSvc).RegisterRoutes(apiV1)
	availability.NewHandler(resolver, availabilitySvc, loc, cfg.SlotGranularityMinutes).RegisterRoutes(apiV1)
	appointment.NewHandler(apptSvc, loc).RegisterRoutes(apiV1)
	activity.NewHandler(activityRecorder).RegisterRoutes(apiV1)

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
