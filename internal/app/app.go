package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sensen_backend/internal/config"
	"sensen_backend/internal/controller"
	"sensen_backend/internal/repository"
	"sensen_backend/internal/service"
	"sensen_backend/pkg/configwatcher"
	"sensen_backend/pkg/database"
	"sensen_backend/pkg/logger"
	"sensen_backend/pkg/monitoring"
	"sensen_backend/pkg/security"
	"sensen_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	// ConfigFile is watched for changes while the server runs.
	ConfigFile string
	Router     *gin.Engine
	DB         *gorm.DB
	Redis      *redis.Client

	limiter         *security.RateLimiter
	questionCache   *repository.QuestionCache
	tracer          *sdktrace.TracerProvider
	stop            chan struct{}
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	assessment *repository.AssessmentRepository
	attempt    *repository.AttemptRepository
	tutorial   *repository.TutorialRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	assessment *service.AssessmentService
	attempt    *service.AttemptService
	tutorial   *service.TutorialService
}

type controllers struct {
	auth       *controller.AuthController
	assessment *controller.AssessmentController
	attempt    *controller.AttemptController
	admin      *controller.AdminController
	tutorial   *controller.TutorialController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		assessment: repository.NewAssessmentRepository(db, a.questionCache),
		attempt:    repository.NewAttemptRepository(db),
		tutorial:   repository.NewTutorialRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.assessment = service.NewAssessmentService(repos.assessment, repos.attempt, cfg.Assessment.LeaderboardSize)
	s.attempt = service.NewAttemptService(repos.assessment, repos.attempt)
	s.tutorial = service.NewTutorialService(repos.tutorial, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.user),
		assessment: controller.NewAssessmentController(s.assessment),
		attempt:    controller.NewAttemptController(s.attempt),
		admin:      controller.NewAdminController(s.assessment, s.user),
		tutorial:   controller.NewTutorialController(s.tutorial),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.limiter.Middleware())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func rateWindow(cfg *config.Config) time.Duration {
	return time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
}

// Build wires repositories, services and routes on top of open connections.
// rdb may be nil, which disables the question cache.
func Build(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config:        cfg,
		DB:            db,
		Redis:         rdb,
		limiter:       security.NewRateLimiter(cfg.RateLimit.MaxRequests, rateWindow(cfg)),
		questionCache: repository.NewQuestionCache(rdb, cfg.Assessment.QuestionCacheTTL()),
		stop:          make(chan struct{}),
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.limiter.Update(newCfg.RateLimit.MaxRequests, rateWindow(newCfg))
		app.questionCache.SetTTL(newCfg.Assessment.QuestionCacheTTL())
		logger.Log.Info("runtime settings refreshed",
			zap.Int("rate_limit_max_requests", newCfg.RateLimit.MaxRequests),
			zap.Int("rate_limit_window_minutes", newCfg.RateLimit.WindowMinutes),
			zap.Duration("question_cache_ttl", newCfg.Assessment.QuestionCacheTTL()),
		)
	})

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode == gin.DebugMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := Build(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("sensen-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

func (a *App) watchConfig(ctx context.Context) {
	if a.ConfigFile == "" {
		return
	}
	go func() {
		if err := configwatcher.WatchConfig(ctx, a.ConfigFile, time.Second, a.applyConfig); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.String("file", filepath.Clean(a.ConfigFile)), zap.Error(err))
		}
	}()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, cancelWatch := context.WithCancel(context.Background())
	a.limiter.StartCleanup(a.stop)
	a.watchConfig(ctx)

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	cancelWatch()
	close(a.stop)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
