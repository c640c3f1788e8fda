package bootstrap

import (
	"context"
	"io"

	"schoolhub-be/internal/config"
	"schoolhub-be/internal/controller"
	"schoolhub-be/internal/handler"
	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/internal/pkg/mailer"
	"schoolhub-be/internal/pkg/metrics"
	"schoolhub-be/internal/pkg/serverutils"
	"schoolhub-be/internal/repository/memory"
	"schoolhub-be/internal/repository/unitofwork"
	"schoolhub-be/internal/service"
	"schoolhub-be/internal/websocket"
	"schoolhub-be/pkg/events"
	pktNats "schoolhub-be/pkg/nats"
	"schoolhub-be/pkg/onboarding"
	"schoolhub-be/pkg/tenant"
	"schoolhub-be/pkg/theme"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	TenantController     controller.ITenantController
	OnboardingController controller.IOnboardingController

	// Background Services (Exposed for main.go to run)
	ConsumerServices []service.IConsumerService

	// WebSockets & Toasts
	ToastHandler *handler.ToastHandler
	WebSocketHub *websocket.Hub

	Logger   logger.ILogger
	Registry *prometheus.Registry

	closers []io.Closer
}

// NewContainer wires the application. A nil db or STORAGE_DRIVER=memory
// selects the in-memory repositories.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	tenantMetrics := metrics.NewTenantMetrics(registry)

	uowFactory := newRepositoryFactory(db, cfg, sysLogger)

	palette := theme.Palette{
		Primary:    cfg.Tenant.PrimaryColor,
		Secondary:  cfg.Tenant.SecondaryColor,
		Accent:     cfg.Tenant.AccentColor,
		FontFamily: cfg.Tenant.FontFamily,
	}

	c := &Container{Logger: sysLogger, Registry: registry}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermillLogger,
	)
	c.closers = append(c.closers, pubSub)

	// 2.5 Infrastructure
	var eventPublisher events.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, closerFunc(func() error { natsPub.Close(); return nil }))
		}
	}

	rdb := newRedisClient(cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, rdb)
	}

	var surface theme.Surface = theme.NewMemorySurface()
	if cfg.Tenant.ThemeSurface == "redis" && rdb != nil {
		surface = theme.NewRedisSurface(rdb)
	}
	themeResolver := theme.NewResolver(surface, palette, sysLogger, tenantMetrics)

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.App.ClientURL,
			sysLogger,
		)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, cfg.App.InstanceID, wsLogger)

	// 3. Tenant runtime
	deps := tenant.Deps{
		Resolver:  tenant.NewResolver(uowFactory, sysLogger, tenantMetrics),
		Factory:   uowFactory,
		Gate:      tenant.NewMutationGate(),
		Publisher: tenant.NewWatermillPublisher(pubSub, cfg.Tenant.ChangeTopic),
		Logger:    sysLogger,
		Metrics:   tenantMetrics,
		Timeout:   cfg.Tenant.MutationTimeout,
	}
	completer := onboarding.NewCompleter(uowFactory, deps.Catalog, palette, sysLogger, tenantMetrics)

	sessionService := service.NewSessionService(cfg.Tenant.SessionTTL, deps, completer)
	tenantService := service.NewTenantService(sessionService, themeResolver, c.WebSocketHub, sysLogger)
	onboardingService := service.NewOnboardingService(sessionService, eventPublisher, emailService, c.WebSocketHub, sysLogger)

	c.ConsumerServices = append(c.ConsumerServices,
		service.NewThemeConsumerService(pubSub, cfg.Tenant.ChangeTopic, themeResolver, sysLogger),
	)
	if eventPublisher != nil {
		c.ConsumerServices = append(c.ConsumerServices,
			service.NewTenantEventRelay(pubSub, cfg.Tenant.ChangeTopic, eventPublisher, sysLogger),
		)
	}

	// 4. Controllers
	auth := serverutils.NewJwtMiddleware(cfg.Auth.JWTSecret)
	c.TenantController = controller.NewTenantController(tenantService, auth)
	c.OnboardingController = controller.NewOnboardingController(onboardingService, auth)
	c.ToastHandler = handler.NewToastHandler(c.WebSocketHub, cfg.Auth.JWTSecret, wsLogger)

	return c
}

// Start runs the hub and every consumer until ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)
	for _, cs := range c.ConsumerServices {
		if err := cs.Consume(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			c.Logger.Warn("BOOTSTRAP", "Close failed", map[string]interface{}{"error": err.Error()})
		}
	}
	_ = c.Logger.Sync()
}

func newRepositoryFactory(db *gorm.DB, cfg *config.Config, log logger.ILogger) unitofwork.RepositoryFactory {
	if db == nil || cfg.Tenant.StorageDriver == "memory" {
		log.Info("BOOTSTRAP", "Using in-memory storage driver", nil)
		return memory.NewRepositoryFactory(memory.NewDatabase())
	}
	return unitofwork.NewRepositoryFactory(db)
}

func newRedisClient(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Failed to connect to Redis, running without fan-out", map[string]interface{}{"error": err.Error()})
		rdb.Close()
		return nil
	}
	return rdb
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
