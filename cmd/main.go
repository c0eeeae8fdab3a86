package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/shenikar/emergency_aid_connect/internal/config"
	v1 "github.com/shenikar/emergency_aid_connect/internal/handler/http/v1"
	"github.com/shenikar/emergency_aid_connect/internal/repository"
	"github.com/shenikar/emergency_aid_connect/internal/repository/memory"
	"github.com/shenikar/emergency_aid_connect/internal/service"
	"github.com/shenikar/emergency_aid_connect/internal/storage"
	"github.com/shenikar/emergency_aid_connect/internal/webhook"
	"github.com/shenikar/emergency_aid_connect/pkg/logger"
	"github.com/shenikar/emergency_aid_connect/pkg/metrics"
	"github.com/shenikar/emergency_aid_connect/pkg/postgres"
	redisclient "github.com/shenikar/emergency_aid_connect/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/emergency_aid_connect/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// repositories - набор хранилищ выбранного драйвера
type repositories struct {
	users     service.UserRepository
	sessions  service.SessionRepository
	disasters interface {
		service.DisasterRepository
		service.StatsRepository
	}
	media     service.MediaRepository
	publisher webhook.WebhookPublisher
}

// @title Emergency Aid Connect API
// @version 1.0
// @description Disaster reporting and coordination API for citizens, first responders and administrators.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
		migrationURL = strings.Replace(migrationURL, "postgresql://", "pgx5://", 1)
	}

	m, err := migrate.New("file://migrations", migrationURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// newPostgresRepositories подключает PostgreSQL и Redis. Возвращает функцию освобождения ресурсов.
func newPostgresRepositories(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*repositories, func(), error) {
	if err := runMigrations(cfg, log); err != nil {
		return nil, nil, err
	}

	dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Successfully connected to PostgreSQL")

	redisClient, err := redisclient.NewRedisClient(ctx, redisclient.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		dbpool.Close()
		return nil, nil, err
	}
	log.Info("Successfully connected to Redis")

	repos := &repositories{
		users:     repository.NewUserRepository(dbpool),
		sessions:  repository.NewSessionRepository(redisClient),
		disasters: repository.NewDisasterRepository(dbpool, redisClient),
		media:     repository.NewMediaRepository(dbpool),
		publisher: newPublisher(ctx, cfg, log, redisClient),
	}
	return repos, closeAll(dbpool, redisClient), nil
}

// newPublisher включает доставку вебхуков через очередь Redis, если задан WEBHOOK_URL
func newPublisher(ctx context.Context, cfg *config.Config, log *logrus.Logger, redisClient *goredis.Client) webhook.WebhookPublisher {
	if cfg.WebhookURL == "" {
		log.Info("WEBHOOK_URL is not set, webhook delivery disabled")
		return webhook.NewLogWebhookPublisher(log)
	}
	worker := webhook.NewWebhookWorker(redisClient, log, cfg)
	worker.Start(ctx)
	return webhook.NewRedisWebhookPublisher(redisClient)
}

func closeAll(dbpool *pgxpool.Pool, redisClient *goredis.Client) func() {
	return func() {
		if err := redisClient.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close Redis client")
		}
		dbpool.Close()
	}
}

func newMemoryRepositories(log *logrus.Logger) *repositories {
	log.Warn("Using in-memory storage, data is lost on restart")
	return &repositories{
		users:     memory.NewUserRepository(),
		sessions:  memory.NewSessionRepository(),
		disasters: memory.NewDisasterRepository(),
		media:     memory.NewMediaRepository(),
		publisher: webhook.NewLogWebhookPublisher(log),
	}
}

func newRouter(cfg *config.Config, log *logrus.Logger, m *metrics.Metrics, handler *v1.Handler, mediaDir string) *gin.Engine {
	router := gin.New()
	router.Use(v1.Recovery(log), logger.GinMiddleware(log), m.Middleware())

	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Загруженные файлы раздаются сервером, только если MEDIA_BASE_URL - локальный путь
	if strings.HasPrefix(cfg.MediaBaseURL, "/") {
		router.Static(cfg.MediaBaseURL, mediaDir)
	}

	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return router
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация хранилищ
	var repos *repositories
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		repos = newMemoryRepositories(log)
	default:
		var cleanup func()
		repos, cleanup, err = newPostgresRepositories(ctx, cfg, log)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		defer cleanup()
	}

	objectStorage, err := storage.NewLocalStorage(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize media storage: %v", err)
	}

	appMetrics := metrics.New(cfg.MetricsNamespace)

	// Инициализация сервисов
	identityService := service.NewIdentityService(repos.users, repos.sessions, log, cfg)
	disasterService := service.NewDisasterService(repos.disasters, repos.users, repos.publisher, appMetrics, log)
	mediaService := service.NewMediaService(objectStorage, repos.media, cfg.MediaMaxBytes, appMetrics, log)
	statsService := service.NewStatsService(repos.disasters, repos.users, log, cfg)

	if cfg.AdminEmail != "" {
		if err := identityService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("Failed to seed admin account: %v", err)
		}
	}

	// Инициализация хэндлеров
	handler := v1.NewHandler(identityService, disasterService, mediaService, statsService, log, cfg)
	router := newRouter(cfg, log, appMetrics, handler, objectStorage.Dir())

	// Запуск HTTP-сервера
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.WithField("driver", cfg.StorageDriver).Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	cancel()

	log.Info("Server gracefully stopped")
}
