package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/alumnihub/internal/app/auth"
	appControllers "github.com/yigit/alumnihub/internal/app/controllers"
	appMigrations "github.com/yigit/alumnihub/internal/app/migrations"
	appRepos "github.com/yigit/alumnihub/internal/app/repositories"
	appRoutes "github.com/yigit/alumnihub/internal/app/routes"
	appServices "github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/config"
	"github.com/yigit/alumnihub/internal/db"
	appMiddleware "github.com/yigit/alumnihub/internal/middleware"
	pkgAuth "github.com/yigit/alumnihub/internal/pkg/auth"
	"github.com/yigit/alumnihub/internal/pkg/email"
	"github.com/yigit/alumnihub/internal/pkg/filestorage"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"github.com/yigit/alumnihub/internal/pkg/logger"
	"github.com/yigit/alumnihub/internal/pkg/metrics"
	"github.com/yigit/alumnihub/internal/pkg/session"
	"github.com/yigit/alumnihub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	Sessions       *session.Manager
	EmailService   email.EmailService
	FileStorage    *filestorage.LocalStorage
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    *appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds the admin.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.Admin{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		FullName: cfg.Admin.FullName,
	}
	if err := seed.CreateDefaultData(context.Background(), appRepos.NewAccountRepository(dbPool), admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, "/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.AccountRepository)
	deps.Sessions = session.NewManager(
		session.NewCookieStore(cfg.Session.Secret, cfg.Session.MaxAge, cfg.Session.Secure),
		cfg.Session.Name,
	)
	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		SiteURL:   cfg.SiteURL(),
	}, lgr)

	repos := deps.Repos
	authService := appServices.NewAuthService(
		repos.AccountRepository,
		repos.TokenRepository,
		repos.LoginTokenRepository,
		deps.AuthzService,
		deps.JWTService,
		deps.EmailService,
		cfg.SiteURL(),
		helpers.ParseDuration(cfg.Auth.MagicLinkTTL, 30*time.Minute),
		lgr,
	)
	notificationService := appServices.NewNotificationService(repos.NotificationRepository, lgr)
	inviteService := appServices.NewInviteService(
		repos.InviteRepository,
		repos.AccountRepository,
		authService,
		deps.EmailService,
		cfg.SiteURL(),
		lgr,
	)
	profileService := appServices.NewProfileService(
		repos.ProfileRepository,
		repos.ApprovalRepository,
		repos.AccountRepository,
		repos.ImportRepository,
		deps.FileStorage,
		lgr,
	)
	approvalService := appServices.NewApprovalService(repos.ApprovalRepository, repos.AccountRepository, deps.EmailService, lgr)
	importService := appServices.NewImportService(repos.ImportRepository, lgr)
	directoryService := appServices.NewDirectoryService(
		repos.DirectoryRepository,
		repos.EventRepository,
		repos.NotificationRepository,
		lgr,
	)
	eventService := appServices.NewEventService(repos.EventRepository, notificationService, lgr)
	contentService := appServices.NewContentService(repos.ContentRepository, deps.FileStorage, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Sessions, deps.AuthzService)

	deps.Controllers = &appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(authService, inviteService, deps.AuthzService, deps.Sessions, lgr),
		Profile:      appControllers.NewProfileController(profileService, lgr),
		Approval:     appControllers.NewApprovalController(approvalService, lgr),
		Import:       appControllers.NewImportController(importService, lgr),
		Invite:       appControllers.NewInviteController(inviteService, lgr),
		Directory:    appControllers.NewDirectoryController(directoryService, lgr),
		Event:        appControllers.NewEventController(eventService, lgr),
		Notification: appControllers.NewNotificationController(notificationService, lgr),
		Content:      appControllers.NewContentController(contentService, lgr),
		OG:           appControllers.NewOGController(lgr),
		Page:         appControllers.NewPageController(directoryService, approvalService, deps.AuthMiddleware, lgr),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	metrics.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(metrics.GinMiddleware())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

// WithCORS wraps the router with the configured origin allow list. Cookies are
// allowed so the session works from the web client.
func WithCORS(cfg *config.Config, handler http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           600,
	}).Handler(handler)
}
