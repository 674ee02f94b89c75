package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/clubportal/internal/app/auth"
	appControllers "github.com/yigit/clubportal/internal/app/controllers"
	appMigrations "github.com/yigit/clubportal/internal/app/migrations"
	appRepos "github.com/yigit/clubportal/internal/app/repositories"
	appRoutes "github.com/yigit/clubportal/internal/app/routes"
	appServices "github.com/yigit/clubportal/internal/app/services"
	"github.com/yigit/clubportal/internal/config"
	"github.com/yigit/clubportal/internal/db"
	appMiddleware "github.com/yigit/clubportal/internal/middleware"
	pkgAuth "github.com/yigit/clubportal/internal/pkg/auth"
	"github.com/yigit/clubportal/internal/pkg/cache"
	"github.com/yigit/clubportal/internal/pkg/filestorage"
	"github.com/yigit/clubportal/internal/pkg/helpers"
	"github.com/yigit/clubportal/internal/pkg/logger"
	"github.com/yigit/clubportal/internal/pkg/metrics"
	"github.com/yigit/clubportal/internal/pkg/weather"
)

// DefaultConfigPath is used when no path is given on the command line
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos        *appRepos.Repositories
	JWTService   *pkgAuth.JWTService
	Denylist     *pkgAuth.TokenDenylist
	AuthzService *appAuth.AuthorizationService
	FileStorage  *filestorage.LocalStorage
	Weather      *weather.Client

	AuthService     *appServices.AuthService
	ClubService     *appServices.ClubService
	PostService     *appServices.PostService
	MessageService  *appServices.MessageService
	FeedbackService *appServices.FeedbackService
	AdminService    *appServices.AdminService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	AuthLimiter    *appMiddleware.IPRateLimiter
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFromStrings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the connection pool.
func ConnectDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// RunMigrations applies pending migrations from the configured directory.
func RunMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Str("dir", cfg.Database.MigrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// ConnectRedis connects to Redis. Redis is optional: on failure caching and
// logout revocation are disabled and a nil client is returned.
func ConnectRedis(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, continuing without cache and token revocation")
		return nil
	}
	if client == nil {
		lgr.Info().Msg("Redis not configured")
	}
	return client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, int64(cfg.Server.MaxUploadMB)<<20)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Denylist = pkgAuth.NewTokenDenylist(redisClient)
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.AccountRepository)

	deps.Weather = weather.NewClient(weather.Config{
		APIKey:   cfg.Weather.APIKey,
		BaseURL:  cfg.Weather.BaseURL,
		Country:  cfg.Weather.Country,
		Language: cfg.Weather.Language,
		Timeout:  helpers.ParseDuration(cfg.Weather.Timeout, 5*time.Second),
		CacheTTL: helpers.ParseDuration(cfg.Weather.CacheTTL, 10*time.Minute),
	}, redisClient, logger.Component("weather"))

	repos := deps.Repos
	deps.AuthService = appServices.NewAuthService(
		database,
		repos.AccountRepository,
		repos.ClubRepository,
		deps.FileStorage,
		pkgAuth.NewPasswordHasher(pkgAuth.BcryptCost),
		deps.JWTService,
		deps.Denylist,
		logger.Component("auth"),
	)
	deps.ClubService = appServices.NewClubService(
		repos.AccountRepository,
		repos.ClubRepository,
		repos.PostRepository,
		repos.FeedbackRepository,
		repos.MessageRepository,
		deps.FileStorage,
		logger.Component("clubs"),
	)
	deps.PostService = appServices.NewPostService(database, repos.PostRepository, deps.FileStorage, logger.Component("posts"))
	deps.MessageService = appServices.NewMessageService(repos.MessageRepository, repos.AccountRepository, repos.ClubRepository, logger.Component("messages"))
	deps.FeedbackService = appServices.NewFeedbackService(database, repos.FeedbackRepository, repos.ClubRepository, logger.Component("feedback"))
	deps.AdminService = appServices.NewAdminService(
		database,
		repos.AccountRepository,
		repos.ClubRepository,
		repos.PostRepository,
		repos.MessageRepository,
		deps.FileStorage,
		cfg.CascadeMessages(),
		logger.Component("admin"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Denylist, deps.AuthzService)
	deps.AuthLimiter = appMiddleware.NewIPRateLimiter(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst)

	var redisPing appControllers.Pinger
	if redisClient != nil {
		redisPing = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	deps.Controllers = appRoutes.Controllers{
		Auth:     appControllers.NewAuthController(deps.AuthService, lgr),
		Post:     appControllers.NewPostController(deps.PostService, lgr),
		Club:     appControllers.NewClubController(deps.ClubService, lgr),
		Message:  appControllers.NewMessageController(deps.MessageService, lgr),
		Feedback: appControllers.NewFeedbackController(deps.FeedbackService, lgr),
		Admin:    appControllers.NewAdminController(deps.AdminService, lgr),
		Weather:  appControllers.NewWeatherController(deps.Weather, cfg.Weather.City),
		Health: appControllers.NewHealthController(map[string]appControllers.Pinger{
			"database": database.Ping,
			"redis":    redisPing,
		}),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.Metrics(),
		// room for a full post: every image at the size limit plus the form fields
		appMiddleware.MaxBodySize(int64(cfg.Server.MaxUploadMB)<<20*int64(appServices.MaxPostImages+1)),
	)
	router.NoRoute(appMiddleware.NotFound())

	appRoutes.SetupSwagger(router, "")
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.AuthLimiter)

	router.Static("/uploads", cfg.Server.StoragePath)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	lgr.Info().Str("uploads", cfg.Server.StoragePath).Str("baseURL", cfg.PublicBaseURL()).Msg("Router configured")
	return router
}

// NewHTTPServer wraps router in an http.Server listening on the configured port
func NewHTTPServer(cfg *config.Config, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
