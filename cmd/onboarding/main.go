package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	identityapp "github.com/wyfcoding/merchantonboarding/internal/identity/application"
	identitydomain "github.com/wyfcoding/merchantonboarding/internal/identity/domain"
	identitymysql "github.com/wyfcoding/merchantonboarding/internal/identity/infrastructure/persistence/mysql"
	identityhttp "github.com/wyfcoding/merchantonboarding/internal/identity/interfaces/http"
	notifyapp "github.com/wyfcoding/merchantonboarding/internal/notification/application"
	notifydomain "github.com/wyfcoding/merchantonboarding/internal/notification/domain"
	notifymysql "github.com/wyfcoding/merchantonboarding/internal/notification/infrastructure/persistence/mysql"
	"github.com/wyfcoding/merchantonboarding/internal/notification/infrastructure/sender"
	notifyhttp "github.com/wyfcoding/merchantonboarding/internal/notification/interfaces/http"
	onboardingapp "github.com/wyfcoding/merchantonboarding/internal/onboarding/application"
	onboardingdomain "github.com/wyfcoding/merchantonboarding/internal/onboarding/domain"
	"github.com/wyfcoding/merchantonboarding/internal/onboarding/infrastructure/messaging"
	onboardingmysql "github.com/wyfcoding/merchantonboarding/internal/onboarding/infrastructure/persistence/mysql"
	onboardinghttp "github.com/wyfcoding/merchantonboarding/internal/onboarding/interfaces/http"
	reportingapp "github.com/wyfcoding/merchantonboarding/internal/reporting/application"
	reportingmysql "github.com/wyfcoding/merchantonboarding/internal/reporting/infrastructure/persistence/mysql"
	reportinghttp "github.com/wyfcoding/merchantonboarding/internal/reporting/interfaces/http"
	uploadapp "github.com/wyfcoding/merchantonboarding/internal/upload/application"
	uploadhttp "github.com/wyfcoding/merchantonboarding/internal/upload/interfaces/http"
	"github.com/wyfcoding/merchantonboarding/pkg/auth"
	"github.com/wyfcoding/merchantonboarding/pkg/cache"
	"github.com/wyfcoding/merchantonboarding/pkg/config"
	"github.com/wyfcoding/merchantonboarding/pkg/db"
	"github.com/wyfcoding/merchantonboarding/pkg/logger"
	"github.com/wyfcoding/merchantonboarding/pkg/metrics"
	"github.com/wyfcoding/merchantonboarding/pkg/middleware"
	"github.com/wyfcoding/merchantonboarding/pkg/mq"
)

func main() {
	configPath := flag.String("config", "configs/onboarding/config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "starting service", "service", cfg.ServiceName, "version", cfg.Version, "environment", cfg.Environment)

	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&identitydomain.Merchant{},
		&onboardingdomain.CompanyInfo{},
		&onboardingdomain.BeneficialOwnership{},
		&onboardingdomain.PaymentInfo{},
		&onboardingdomain.SettlementBankDetails{},
		&onboardingdomain.RiskManagement{},
		&onboardingdomain.KYCDocuments{},
		&notifydomain.ReadMark{},
	); err != nil {
		logger.Fatal(ctx, "failed to migrate database", "error", err)
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.Host != "" {
		redisCache, err = cache.New(cache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxPoolSize:  cfg.Redis.MaxPoolSize,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			logger.Warn(ctx, "redis unavailable, dashboard cache disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	var publisher *messaging.KafkaEventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Warn(ctx, "kafka unavailable, event publishing disabled", "error", err)
		} else {
			defer producer.Close()
			publisher = messaging.NewKafkaEventPublisher(producer)
		}
	}

	m := metrics.New(cfg.ServiceName)

	// 仓储
	merchantRepo := identitymysql.NewMerchantRepository(database.DB)
	stepRegistry := onboardingmysql.NewStepRegistry(database.DB)
	reportRepo := reportingmysql.NewReportRepository(database.DB)
	readMarkRepo := notifymysql.NewReadMarkRepository(database.DB)

	// 通知
	var notifier identityapp.RegistrationNotifier
	if cfg.Webhook.URL != "" {
		webhook := sender.NewWebhookSender(cfg.Webhook.URL, time.Duration(cfg.Webhook.TimeoutSeconds)*time.Second)
		notifier = notifyapp.NewDispatcher(webhook, time.Duration(cfg.Webhook.TimeoutSeconds)*time.Second)
	}

	// 应用服务
	signer := auth.NewSigner([]byte(cfg.Auth.JWTSecret), time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	identityService := identityapp.NewIdentityService(merchantRepo, signer, eventPublisher(publisher), notifier, m)
	onboardingService := onboardingapp.NewOnboardingService(merchantRepo, stepRegistry, eventPublisher(publisher), database, m)
	reportingService := reportingapp.NewReportingService(reportRepo, redisCache)
	notificationService := notifyapp.NewNotificationService(onboardingService, readMarkRepo)
	uploadService := uploadapp.NewUploadService(cfg.Upload.Dir, int(cfg.Upload.MaxSizeMB))

	// HTTP
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.GinRecoveryMiddleware(),
		middleware.GinLoggingMiddleware(),
		middleware.GinCORSMiddleware(),
		middleware.GinMetricsMiddleware(m),
		middleware.GinRateLimitMiddleware(middleware.NewRateLimiter(200, 100)),
	)
	router.Static("/"+uploadService.BaseDir(), uploadService.BaseDir())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})

	authMW := auth.Middleware(signer, identityService.Exists)
	api := router.Group("/api")

	identityhttp.NewIdentityHandler(identityService).RegisterRoutes(api, authMW)
	onboardingHandler := onboardinghttp.NewOnboardingHandler(onboardingService)
	onboardingHandler.RegisterRoutes(api, authMW)
	notifyhttp.NewNotificationHandler(notificationService).RegisterRoutes(api, authMW)
	uploadhttp.NewUploadHandler(uploadService).RegisterRoutes(api, authMW)

	admin := api.Group("/admin", authMW, auth.RequireRole(auth.RoleAdmin))
	onboardingHandler.RegisterAdminRoutes(admin)
	reportingHandler := reportinghttp.NewReportingHandler(reportingService)
	reportingHandler.RegisterAdminRoutes(admin)

	profiles := api.Group("/user", authMW, auth.RequireRole(auth.RoleAdmin))
	reportingHandler.RegisterProfileRoutes(profiles)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// gRPC 仅暴露健康检查与反射
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(cfg.ServiceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(gctx, "HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		addr := fmt.Sprintf("%s:%d", cfg.GRPC.Host, cfg.GRPC.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		logger.Info(gctx, "gRPC server listening", "addr", addr)
		return grpcServer.Serve(lis)
	})

	if cfg.Metrics.Enabled {
		// 指标端口随进程退出，不参与优雅停机
		go func() {
			logger.Info(ctx, "metrics server listening", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
			if err := m.Serve(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
				logger.Error(ctx, "metrics server stopped", "error", err)
			}
		}()
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-quit:
			logger.Info(gctx, "shutdown signal received", "signal", sig.String())
		case <-gctx.Done():
			return gctx.Err()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		healthServer.SetServingStatus(cfg.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
		grpcServer.GracefulStop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "service exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "service stopped")
}

// eventPublisher 避免把 nil 具体类型塞进接口
func eventPublisher(p *messaging.KafkaEventPublisher) identitydomain.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
