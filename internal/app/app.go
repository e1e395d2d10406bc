package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailadapter "github.com/devhermez/full-stack-sneakup/internal/adapter/email"
	mongoadapter "github.com/devhermez/full-stack-sneakup/internal/adapter/mongo"
	natsadapter "github.com/devhermez/full-stack-sneakup/internal/adapter/nats"
	redisadapter "github.com/devhermez/full-stack-sneakup/internal/adapter/redis"
	s3adapter "github.com/devhermez/full-stack-sneakup/internal/adapter/storage/s3"
	stripeadapter "github.com/devhermez/full-stack-sneakup/internal/adapter/stripe"
	"github.com/devhermez/full-stack-sneakup/internal/app/config"
	"github.com/devhermez/full-stack-sneakup/internal/auth"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/platform/metrics"
	"github.com/devhermez/full-stack-sneakup/internal/platform/tracer"
	"github.com/devhermez/full-stack-sneakup/internal/port/rest"
	"github.com/devhermez/full-stack-sneakup/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const metricsNamespace = "sneakup"

type App struct {
	cfg            *config.Config
	log            logger.Logger
	server         *rest.Server
	notifier       *service.EmailNotifier
	tracerProvider *sdktrace.TracerProvider
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	natsConn       *nats.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	tp, err := tracer.Init(ctx, cfg.Tracing)
	if err != nil {
		appLogger.Errorf("Failed to initialize tracing: %v", err)
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if cfg.Tracing.Endpoint == "" {
		appLogger.Info("Tracer initialized without exporter")
	} else {
		appLogger.Infof("Tracer initialized, exporting to %s", cfg.Tracing.Endpoint)
	}

	appLogger.Info("Initializing MongoDB client...")
	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		appLogger.Errorf("Failed to initialize MongoDB client: %v", err)
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	appLogger.Info("MongoDB client initialized successfully")

	cleanup := &releaser{}
	defer cleanup.release()
	cleanup.add(func() { _ = mongoClient.Disconnect(context.Background()) })
	db := mongoadapter.Database(mongoClient, cfg.MongoDB)

	appLogger.Info("Initializing Redis client...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Errorf("Failed to initialize Redis client: %v", err)
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	appLogger.Info("Redis client initialized successfully")
	cleanup.add(func() { _ = redisClient.Close() })

	var (
		natsConn  *nats.Conn
		publisher service.EventPublisher = natsadapter.NewNopPublisher()
	)
	if cfg.NATS.URL != "" {
		appLogger.Info("Initializing NATS connection...")
		natsConn, err = natsadapter.NewConnection(cfg.NATS, appLogger)
		if err != nil {
			appLogger.Errorf("Failed to connect to NATS: %v", err)
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		cleanup.add(natsConn.Close)
		publisher, err = natsadapter.NewNATSPublisher(natsConn)
		if err != nil {
			return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
		}
		appLogger.Info("NATS publisher initialized")
	} else {
		appLogger.Warn("NATS_URL is not set, domain events will not be published")
	}

	var sender service.EmailSender
	if cfg.SMTP.Host != "" {
		smtpSender, err := emailadapter.NewSMTPSender(cfg.SMTP, appLogger)
		if err != nil {
			appLogger.Errorf("Failed to initialize SMTP sender: %v", err)
			return nil, fmt.Errorf("failed to initialize SMTP sender: %w", err)
		}
		sender = smtpSender
		appLogger.Infof("SMTP sender initialized for %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	} else {
		appLogger.Warn("SMTP_HOST is not set, emails will be skipped")
	}

	var images service.ImageStore
	if cfg.Storage.Endpoint != "" {
		storage, err := s3adapter.NewStorage(ctx, cfg.Storage, appLogger)
		if err != nil {
			appLogger.Errorf("Failed to initialize object storage: %v", err)
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		images = storage
		appLogger.Infof("Object storage initialized, bucket %s", cfg.Storage.Bucket)
	} else {
		appLogger.Warn("S3_ENDPOINT is not set, product image uploads are disabled")
	}

	if cfg.Stripe.SecretKey == "" {
		appLogger.Warn("STRIPE_SECRET_KEY is not set, checkout sessions will fail")
	}
	if cfg.Stripe.WebhookSecret == "" {
		appLogger.Warn("STRIPE_WEBHOOK_SECRET is not set, webhook events will be rejected")
	}
	gateway := stripeadapter.NewGateway(cfg.Stripe)

	metricsManager := metrics.NewMetricsManager(metricsNamespace)
	notifier := service.NewEmailNotifier(sender, cfg.SMTP.SendTimeout, appLogger, metricsManager)

	userRepo := mongoadapter.NewUserRepository(db, appLogger)
	productRepo := mongoadapter.NewProductRepository(db)
	orderRepo := mongoadapter.NewOrderRepository(db, appLogger)
	productCache := redisadapter.NewProductCacheRepository(redisClient)
	appLogger.Info("Repositories initialized")

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	userService := service.NewUserService(userRepo, tokens, notifier, cfg.Client.URL, cfg.Auth.ResetTTL, appLogger)
	productService := service.NewProductService(productRepo, productCache, images, cfg.ProductCache.TTL, appLogger)
	orderService := service.NewOrderService(orderRepo, userRepo, productRepo, publisher, notifier, metricsManager, appLogger)
	paymentService := service.NewPaymentService(orderRepo, gateway, publisher, cfg.Client.URL, metricsManager, appLogger)
	appLogger.Info("Services initialized")

	routerCfg := rest.RouterConfig{
		AllowedOrigins:  cfg.Client.Origins(),
		APIRequests:     cfg.RateLimit.APIRequests,
		AuthRequests:    cfg.RateLimit.AuthRequests,
		RateLimitWindow: cfg.RateLimit.Window,
		RequestTimeout:  cfg.HTTPServer.WriteTimeout,
	}
	if cfg.RateLimit.Enabled {
		routerCfg.Limiter = redisadapter.NewRateLimiter(redisClient)
	}

	router := rest.NewRouter(routerCfg, rest.Handlers{
		Auth:     userService,
		Users:    rest.NewUserHandler(userService, appLogger),
		Products: rest.NewProductHandler(productService, cfg.HTTPServer.MaxUploadBytes, appLogger),
		Orders:   rest.NewOrderHandler(orderService, paymentService, appLogger),
	}, metricsManager, appLogger)

	httpSrv := rest.NewServer(appLogger, cfg.HTTPServer, router)
	appLogger.Info("HTTP server instance created")

	cleanup.keep()
	return &App{
		cfg:            cfg,
		log:            appLogger,
		server:         httpSrv,
		notifier:       notifier,
		tracerProvider: tp,
		mongoClient:    mongoClient,
		redisClient:    redisClient,
		natsConn:       natsConn,
	}, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	}

	if err := a.notifier.Wait(shutdownCtx); err != nil {
		a.log.Warnf("Pending emails were not delivered before shutdown: %v", err)
	}

	if a.natsConn != nil {
		if err := a.natsConn.Drain(); err != nil {
			a.log.Errorf("Error draining NATS connection: %v", err)
		} else {
			a.log.Info("NATS connection drained")
		}
	}

	if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
		a.log.Errorf("Error shutting down tracer provider: %v", err)
	}

	a.log.Info("Closing database connections...")

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}

	a.log.Info("Application shut down successfully")
	_ = a.log.Sync()
}
