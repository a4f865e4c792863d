package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/vemac/institute/internal/app/controllers"
	appMigrations "github.com/vemac/institute/internal/app/migrations"
	appRepos "github.com/vemac/institute/internal/app/repositories"
	appRoutes "github.com/vemac/institute/internal/app/routes"
	appServices "github.com/vemac/institute/internal/app/services"
	"github.com/vemac/institute/internal/config"
	"github.com/vemac/institute/internal/db"
	appMiddleware "github.com/vemac/institute/internal/middleware"
	"github.com/vemac/institute/internal/pkg/admission"
	"github.com/vemac/institute/internal/pkg/apperrors"
	pkgAuth "github.com/vemac/institute/internal/pkg/auth"
	"github.com/vemac/institute/internal/pkg/filestorage"
	"github.com/vemac/institute/internal/pkg/logger"
	"github.com/vemac/institute/internal/pkg/validation"
	"github.com/vemac/institute/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  prettyLog,
		Service: "institute-api",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies seeds default data and initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	if err := seed.CreateDefaultData(context.Background(), deps.Repos.UserRepository, deps.Repos.InstituteRepository, seed.Options{
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		DefaultBranch: cfg.Seed.DefaultBranch,
	}, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	// Must match the static file serving path set up in routes
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, strings.TrimRight(cfg.Server.BaseURL, "/")+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, apperrors.NewConfigurationError("failed to initialize file storage", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	validator := validation.NewValidator()
	retry := db.RetryPolicy{Attempts: cfg.Database.RetryAttempts, Backoff: cfg.RetryBackoff()}
	policy := admission.Policy{Prefix: cfg.Admission.CodePrefix, MaxSequence: cfg.Admission.MaxSequence}

	admissionService := appServices.NewAdmissionService(
		deps.Repos.StudentRepository,
		deps.Repos.AdmissionCounterRepository,
		deps.FileStorage,
		validator,
		appServices.AdmissionConfig{Policy: policy, Retry: retry, MaxPhotoBytes: cfg.Uploads.MaxPhotoBytes},
	)
	studentService := appServices.NewStudentService(deps.Repos.StudentRepository, deps.FileStorage, validator, cfg.Uploads.MaxPhotoBytes)
	feeService := appServices.NewFeeService(deps.Repos.FeeRepository, retry)
	statusService := appServices.NewStatusService(deps.Repos.StudentRepository, deps.Repos.UserRepository, deps.Repos.InstituteRepository)
	inquiryService := appServices.NewInquiryService(deps.Repos.InquiryRepository, deps.FileStorage, cfg.Uploads.MaxCVBytes)
	userService := appServices.NewUserService(deps.Repos.UserRepository)
	instituteService := appServices.NewInstituteService(deps.Repos.InstituteRepository)
	dashboardService := appServices.NewDashboardService(deps.Repos.DashboardRepository)
	authService := appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:      appControllers.NewAuthController(authService),
		Admission: appControllers.NewAdmissionController(admissionService),
		Student:   appControllers.NewStudentController(studentService),
		Fee:       appControllers.NewFeeController(feeService),
		Status:    appControllers.NewStatusController(statusService),
		Inquiry:   appControllers.NewInquiryController(inquiryService),
		User:      appControllers.NewUserController(userService),
		Institute: appControllers.NewInstituteController(instituteService),
		Dashboard: appControllers.NewDashboardController(dashboardService),
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
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(),
		appMiddleware.Metrics(),
		appMiddleware.CORS(cfg.Server.CORSOrigins),
		gin.Recovery(),
	)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, cfg.Server.StoragePath)

	return router
}
