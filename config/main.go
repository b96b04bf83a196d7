package config

import (
	"context"
	"time"

	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/auth"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/mailer"
	"gorm.io/gorm"
)

// ApplicationConfig is built once at startup and shared read-only by every
// controller.
type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	Admin           *auth.CredentialChecker
	Notifier        *mailer.Notifier
	StartedAt       time.Time
	TracingShutdown func(context.Context) error
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		_ = CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

// LoadApplicationConfiguration reads the environment, connects to the
// database, ensures the schema and wires the router and notifier.
func LoadApplicationConfiguration(ctx context.Context, logger *log.Logger) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	settings, err := LoadSettings()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		return nil, err
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(ctx, logger, &settings.Database)
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
		CloseDatabase(db, logger)
		return nil, err
	}

	cache := settings.Cache.NewCacheOrNil(logger)

	routerService := router.CreateRouterService(logger, NewRouterConfig(&settings.App))

	notifier := NewNotifier(ctx, logger, &settings.Email, routerService.MetricsRegisterer())

	checker := auth.NewCredentialChecker(settings.Admin.Username, settings.Admin.Password)
	if !checker.Configured() {
		logger.Warn("ADMIN_PASSWORD not set; admin endpoints will return a configuration error")
	}
	logger.Warn("Admin login issues a static placeholder token; it is not a session credential")

	logger.Info("Application configuration loaded successfully")

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Config:          &settings.App,
		Admin:           checker,
		Notifier:        notifier,
		StartedAt:       time.Now(),
		TracingShutdown: tracingShutdown,
	}, nil
}

// NewRouterConfig maps the HTTP settings onto the router.
func NewRouterConfig(app *AppConfig) *router.RouterConfig {
	hstsEnabled := app.HSTSEnabled != nil && *app.HSTSEnabled

	return &router.RouterConfig{
		Port:               app.Port,
		GinMode:            app.GinMode,
		RequestTimeout:     app.RequestTimeout,
		CORSAllowedOrigins: app.CORSAllowedOrigins,
		TrustedProxies:     app.TrustedProxies,
		MaxBodyBytes:       app.MaxRequestBodyBytes,
		MetricsEnabled:     app.MetricsEnabled,
		HSTS: router.HSTSConfig{
			Enabled:           hstsEnabled,
			MaxAge:            app.HSTSMaxAge,
			IncludeSubdomains: app.HSTSIncludeSubdomains,
		},
	}
}
