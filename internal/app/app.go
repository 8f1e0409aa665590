package app

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cradoe/memberreg/internal/cache"
	"github.com/cradoe/memberreg/internal/config"
	"github.com/cradoe/memberreg/internal/env"
	"github.com/cradoe/memberreg/internal/errHandler"
	"github.com/cradoe/memberreg/internal/file"
	"github.com/cradoe/memberreg/internal/helper"
	"github.com/cradoe/memberreg/internal/metrics"
	"github.com/cradoe/memberreg/internal/repository"
	"github.com/cradoe/memberreg/internal/smtp"
	"github.com/cradoe/memberreg/internal/stream"
	"github.com/cradoe/memberreg/internal/version"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Essential services and resources are exposed to the application
// this makes it possible for methods to have access to these items and when they need them
type Application struct {
	Config       config.Config
	DB           repository.Database
	Logger       *slog.Logger
	Mailer       *smtp.Mailer
	WG           sync.WaitGroup
	Cache        *cache.Cache
	MemberCache  cache.MemberCache
	Kafka        *stream.KafkaStream
	FileUploader *file.FileUploader
	Metrics      *metrics.Metrics
	Helper       *helper.HelperRepository
	Version      string

	errorHandler *errHandler.ErrorHandler
}

func NewApplication(logger *slog.Logger) (*Application, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file loaded, using the environment", "error", err)
	}

	cfg := loadConfig()

	db, err := repository.New(cfg.Db.Dsn, cfg.Db.Automigrate)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	mailer, err := smtp.NewMailer(cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.From)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	app := &Application{
		Config:       cfg,
		DB:           db,
		Logger:       logger,
		Mailer:       mailer,
		Kafka:        stream.New(cfg.KafkaServers, logger),
		FileUploader: file.New(cfg.FileUploader.CloudName, cfg.FileUploader.ApiKey, cfg.FileUploader.ApiSecret),
		Version:      version.Get(),
	}

	app.errorHandler = errHandler.New(cfg.BaseURL, cfg.Notifications.Email, mailer, logger)
	app.Helper = helper.New(cfg.BaseURL, &app.WG, app.errorHandler)

	app.Cache = cache.New(cfg.RedisServer, cfg.RedisDB)
	app.MemberCache = cache.NewMemberCache(app.Cache, cfg.Cache.TTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Metrics = metrics.New(registry)

	return app, nil
}

// loadConfig reads the config values from the environment (and the .env file).
// Default values are provided for these items and these should strictly be values for development mode only
// make sure no production-level value is exposed as default value here
func loadConfig() config.Config {
	var cfg config.Config

	cfg.BaseURL = env.GetString("BASE_URL", "http://localhost:4444")
	cfg.HttpPort = env.GetInt("HTTP_PORT", 4444)

	cfg.Db.Dsn = env.GetString("DB_DSN", "user:pass@localhost:5432/db?sslmode=disable")
	cfg.Db.Automigrate = env.GetBool("DB_AUTOMIGRATE", true)

	cfg.Jwt.SecretKey = env.GetString("JWT_SECRET_KEY", "ajf5nx3qmp6zquevllxocxqvyz42ypuo")
	cfg.Jwt.Expiry = env.GetDuration("JWT_EXPIRY", 24*time.Hour)

	// server errors won't be sent via email if the NOTIFICATIONS_EMAIL wasn't set in the .env file
	cfg.Notifications.Email = env.GetString("NOTIFICATIONS_EMAIL", "")

	cfg.Smtp.Host = env.GetString("SMTP_HOST", "example.smtp.host")
	cfg.Smtp.Port = env.GetInt("SMTP_PORT", 25)
	cfg.Smtp.Username = env.GetString("SMTP_USERNAME", "example_username")
	cfg.Smtp.Password = env.GetString("SMTP_PASSWORD", "pa55word")
	cfg.Smtp.From = env.GetString("SMTP_FROM", "Example Name <no_reply@example.org>")

	cfg.KafkaServers = env.GetString("KAFKA_SERVERS", "localhost:9092")

	cfg.RedisServer = env.GetString("REDIS_SERVER", "localhost:6379")
	cfg.RedisDB = env.GetInt("REDIS_DB", 0)
	cfg.Cache.TTL = env.GetDuration("CACHE_TTL", 10*time.Minute)

	cfg.FileUploader.ApiKey = env.GetString("CLOUDINARY_API_KEY", "")
	cfg.FileUploader.CloudName = env.GetString("CLOUDINARY_CLOUD_NAME", "")
	cfg.FileUploader.ApiSecret = env.GetString("CLOUDINARY_API_SECRET", "")

	cfg.CorsAllowedOrigins = env.GetList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})

	cfg.Admin.Name = env.GetString("ADMIN_NAME", "Administrator")
	cfg.Admin.Email = env.GetString("ADMIN_EMAIL", "admin@example.org")
	cfg.Admin.Password = env.GetString("ADMIN_PASSWORD", "Adm1n!Passw0rd")

	return cfg
}

// Close releases the connections opened by NewApplication.
func (app *Application) Close() {
	if err := app.Cache.Close(); err != nil {
		app.Logger.Warn("closing cache", "error", err)
	}
	if err := app.DB.Close(); err != nil {
		app.Logger.Warn("closing database", "error", err)
	}
}
