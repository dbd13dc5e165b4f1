package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/volunteerhub/internal/app/controllers"
	appMigrations "github.com/yigit/volunteerhub/internal/app/migrations"
	appRoutes "github.com/yigit/volunteerhub/internal/app/routes"
	appServices "github.com/yigit/volunteerhub/internal/app/services"
	"github.com/yigit/volunteerhub/internal/config"
	"github.com/yigit/volunteerhub/internal/db"
	appMiddleware "github.com/yigit/volunteerhub/internal/middleware"
	pkgAuth "github.com/yigit/volunteerhub/internal/pkg/auth"
	"github.com/yigit/volunteerhub/internal/pkg/clock"
	"github.com/yigit/volunteerhub/internal/pkg/distance"
	"github.com/yigit/volunteerhub/internal/pkg/filestorage"
	"github.com/yigit/volunteerhub/internal/pkg/logger"
)

// DefaultConfigPath is where the configuration file is looked up
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config     *config.Config
	DB         *db.PostgresDB
	Redis      *redis.Client
	JWTService *pkgAuth.JWTService
	Services   *appServices.Services
	Logger     zerolog.Logger
}

// Close releases the connections held by the dependencies
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	format := strings.ToLower(cfg.Logging.Format)
	lgr := logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  format == "console" || format == "text",
		Service: "volunteerhub",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the connection pool
func ConnectDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// RunMigrations applies the pending SQL files of the configured migrations directory
func RunMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (int, error) {
	dir := cfg.Database.MigrationsDir
	if _, err := os.Stat(dir); err != nil {
		return 0, fmt.Errorf("migrations directory not found at %s: %w", dir, err)
	}

	applied, err := appMigrations.NewMigrator(database.Pool, lgr).MigrateFromDirectory(ctx, dir)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return applied, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return applied, nil
}

// NewClock returns a clock reading the wall time of the configured time zone
func NewClock(cfg *config.Config) (clock.Clock, error) {
	if _, err := time.LoadLocation(cfg.App.Timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.App.Timezone, err)
	}
	return clock.InLocation(cfg.Location()), nil
}

// NewRedisClient connects to Redis when it is enabled. An unreachable server is logged and
// treated as disabled, since the cache is optional.
func NewRedisClient(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, distance cache disabled")
		_ = client.Close()
		return nil
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis distance cache enabled")
	return client
}

// NewDistanceResolver builds the configured provider behind a resolver. client may be nil.
func NewDistanceResolver(cfg *config.Config, client *redis.Client, lgr zerolog.Logger) (*distance.Resolver, error) {
	var provider distance.Provider
	switch cfg.DistanceProvider() {
	case config.DistanceProviderGoogle:
		google, err := distance.NewGoogleProvider(cfg.Distance.GoogleMapsAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create google maps provider: %w", err)
		}
		provider = google
	default:
		if cfg.Distance.Provider == config.DistanceProviderGoogle {
			lgr.Warn().Msg("No Google Maps API key configured, using great-circle distances")
		}
		provider = distance.NewGreatCircleProvider()
	}

	timeout, err := time.ParseDuration(cfg.Distance.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid distance timeout: %w", err)
	}
	resolverCfg := distance.ResolverConfig{
		BatchSize:   cfg.Distance.BatchSize,
		Concurrency: cfg.Distance.Concurrency,
		Timeout:     timeout,
	}

	var cache distance.Cache
	if client != nil {
		ttl, err := time.ParseDuration(cfg.Redis.TTL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis ttl: %w", err)
		}
		resolverCfg.CacheTTL = ttl
		cache = distance.NewRedisCache(client)
	}

	return distance.NewResolver(provider, cache, resolverCfg, lgr), nil
}

// NewImageStore returns the configured event image store
func NewImageStore(cfg *config.Config, lgr zerolog.Logger) (filestorage.ImageStore, error) {
	switch cfg.Images.Driver {
	case config.ImageDriverCloudinary:
		return filestorage.NewCloudinaryStorage(
			cfg.Images.CloudinaryCloudName,
			cfg.Images.CloudinaryAPIKey,
			cfg.Images.CloudinaryAPISecret,
			lgr,
		)
	default:
		return filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.PublicURL, lgr)
	}
}

// NewJWTService creates the token service from the jwt section
func NewJWTService(cfg *config.Config) (*pkgAuth.JWTService, error) {
	exp, err := time.ParseDuration(cfg.JWT.AccessTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: exp,
		TokenIssuer:    cfg.JWT.Issuer,
	}), nil
}

// BuildDependencies connects to the backing services and wires the application services.
// When migrate is set pending migrations run first.
func BuildDependencies(ctx context.Context, cfg *config.Config, lgr zerolog.Logger, migrate bool) (*Dependencies, error) {
	database, err := ConnectDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}
	deps := &Dependencies{Config: cfg, DB: database, Logger: lgr}

	fail := func(err error) (*Dependencies, error) {
		deps.Close()
		return nil, err
	}

	if migrate {
		if _, err := RunMigrations(ctx, cfg, database, lgr); err != nil {
			return fail(err)
		}
	}

	now, err := NewClock(cfg)
	if err != nil {
		return fail(err)
	}
	if deps.JWTService, err = NewJWTService(cfg); err != nil {
		return fail(err)
	}

	deps.Redis = NewRedisClient(ctx, cfg, lgr)
	resolver, err := NewDistanceResolver(cfg, deps.Redis, lgr)
	if err != nil {
		return fail(err)
	}

	images, err := NewImageStore(cfg, lgr)
	if err != nil {
		return fail(fmt.Errorf("failed to initialize image storage: %w", err))
	}

	deps.Services = appServices.NewServices(appServices.Dependencies{
		UnitOfWork:  appServices.NewPostgresUnitOfWork(database),
		JWT:         deps.JWTService,
		Images:      images,
		ImageFolder: cfg.Images.Folder,
		Distance:    resolver,
		Clock:       now,
		Logger:      lgr,
	})
	return deps, nil
}

// SetupRouter builds the gin engine with middleware and every route
func SetupRouter(deps *Dependencies) (*gin.Engine, error) {
	cfg := deps.Config
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(
		appMiddleware.RequestLogger(deps.Logger),
		appMiddleware.Recovery(),
		appMiddleware.CORS(cfg.Server.AllowedOrigins),
	)
	router.MaxMultipartMemory = filestorage.MaxImageSize * 2

	if cfg.Images.Driver == config.ImageDriverLocal {
		router.Static("/uploads", cfg.Server.StoragePath)
	}

	svc := deps.Services
	appRoutes.SetupRouter(router, appRoutes.Controllers{
		Auth:          appControllers.NewAuthController(svc.Auth, svc.Volunteer, deps.Logger),
		Event:         appControllers.NewEventController(svc.Event, deps.Logger),
		Participation: appControllers.NewParticipationController(svc.Participation, svc.Feedback, svc.Dashboard, deps.Logger),
	}, appMiddleware.NewAuthMiddleware(deps.JWTService), deps.DB.Ping)

	return router, nil
}
