package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clearscrub-admin/internal/auth"
	"clearscrub-admin/internal/config"
	"clearscrub-admin/internal/db"
	"clearscrub-admin/internal/email"
	apihttp "clearscrub-admin/internal/http"
	"clearscrub-admin/internal/metrics"
	"clearscrub-admin/internal/repository"
	"clearscrub-admin/internal/service"
	"clearscrub-admin/internal/session"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	var (
		userRepo     repository.UserRepository
		companyRepo  repository.CompanyRepository
		apiKeyRepo   repository.APIKeyRepository
		settingsRepo repository.SettingsRepository
	)
	if cfg.DatabaseURL != "" {
		if cfg.AutoMigrate {
			if err := db.Migrate(cfg.DatabaseURL); err != nil {
				logger.Fatal("db migrate", zap.Error(err))
			}
		}
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		if err := db.Ping(ctx, pool); err != nil {
			logger.Fatal("db ping", zap.Error(err))
		}

		userRepo = repository.NewPgUserRepository(pool)
		companyRepo = repository.NewPgCompanyRepository(pool)
		apiKeyRepo = repository.NewPgAPIKeyRepository(pool)
		settingsRepo = repository.NewPgSettingsRepository(pool)
	} else {
		logger.Warn("database not configured, using in-memory fixtures")
		userRepo = repository.NewMemoryUserRepository()
		companyRepo = repository.NewMemoryCompanyRepository()
		apiKeyRepo = repository.NewMemoryAPIKeyRepository(true)
		settingsRepo = repository.NewMemorySettingsRepository()
	}

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(email.SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUser,
			Password:    cfg.SMTPPass,
			From:        cfg.SMTPFrom,
			FromName:    cfg.SMTPFromName,
			ImplicitTLS: cfg.SMTPUseTLS,
		})
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		slots       = session.MemorySlotFactory()
		limiter     = auth.NewMemoryAttemptLimiter(cfg.LoginAttemptWindow, cfg.LoginAttemptMax)
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, sessions will not survive restarts", zap.Error(err))
		} else {
			slots = session.RedisSlotFactory(redisClient)
			limiter = auth.NewRedisAttemptLimiter(redisClient, cfg.LoginAttemptWindow, cfg.LoginAttemptMax)
		}
		cancel()
		defer redisClient.Close()
	} else {
		logger.Warn("redis not configured, sessions live in process memory")
	}

	var authenticator auth.Authenticator
	if cfg.AuthBackendURL != "" {
		authenticator = auth.NewHTTPAuthenticator(cfg.AuthBackendURL, cfg.AuthBackendAPIKey, cfg.AuthBackendTimeout, logger)
	} else {
		authenticator = auth.NewRepositoryAuthenticator(logger, userRepo)
	}
	authenticator = auth.NewRateLimitedAuthenticator(authenticator, limiter)

	if cfg.SeedAdminEmail != "" {
		user, err := auth.EnsureUser(ctx, userRepo, auth.SeedUserInput{
			Email:     cfg.SeedAdminEmail,
			Password:  cfg.SeedAdminPassword,
			Name:      cfg.SeedAdminName,
			CompanyID: cfg.SeedAdminCompanyID,
		})
		if err != nil {
			logger.Fatal("seed admin user", zap.Error(err))
		}
		logger.Info("admin user ready", zap.String("user_id", user.ID), zap.String("email", user.Email))
	}

	m := metrics.New()
	registry := session.NewRegistry(logger, slots, authenticator, m, cfg.RestoreTimeout)
	defer registry.Close()
	sessions := apihttp.NewSessions(registry, session.NewHandleSigner(cfg.SessionSecret), cfg.SecureCookie, cfg.AwaitTimeout)

	companySvc := service.NewCompanyService(logger, companyRepo)
	apiKeySvc := service.NewAPIKeyService(logger, apiKeyRepo, emailSender)
	settingsSvc := service.NewSettingsService(logger, settingsRepo)

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Logger:         logger,
		Sessions:       sessions,
		GuardObserver:  m,
		MetricsHandler: m.Handler(),
		Auth:           apihttp.NewAuthHandler(logger, sessions, cfg.SignInTimeout),
		Companies:      apihttp.NewCompanyHandler(logger, companySvc),
		APIKeys:        apihttp.NewAPIKeyHandler(logger, apiKeySvc),
		Settings:       apihttp.NewSettingsHandler(logger, settingsSvc),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
