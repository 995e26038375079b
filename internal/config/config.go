package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	SessionSecret string `env:"SESSION_SECRET,required,notEmpty"`
	SecureCookie  bool   `env:"SESSION_SECURE_COOKIE" envDefault:"false"`

	RestoreTimeout time.Duration `env:"SESSION_RESTORE_TIMEOUT" envDefault:"2s"`
	AwaitTimeout   time.Duration `env:"SESSION_AWAIT_TIMEOUT" envDefault:"3s"`
	SignInTimeout  time.Duration `env:"SIGN_IN_TIMEOUT" envDefault:"10s"`

	AuthBackendURL     string        `env:"AUTH_BACKEND_URL"`
	AuthBackendAPIKey  string        `env:"AUTH_BACKEND_API_KEY"`
	AuthBackendTimeout time.Duration `env:"AUTH_BACKEND_TIMEOUT" envDefault:"5s"`

	LoginAttemptWindow time.Duration `env:"LOGIN_ATTEMPT_WINDOW" envDefault:"10m"`
	LoginAttemptMax    int           `env:"LOGIN_ATTEMPT_MAX" envDefault:"5"`

	SeedAdminEmail     string `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword  string `env:"SEED_ADMIN_PASSWORD"`
	SeedAdminName      string `env:"SEED_ADMIN_NAME"`
	SeedAdminCompanyID string `env:"SEED_ADMIN_COMPANY_ID"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CLIConfig es el subconjunto que usa dashctl.
type CLIConfig struct {
	AuthBackendURL     string        `env:"AUTH_BACKEND_URL"`
	AuthBackendAPIKey  string        `env:"AUTH_BACKEND_API_KEY"`
	AuthBackendTimeout time.Duration `env:"AUTH_BACKEND_TIMEOUT" envDefault:"5s"`
	SessionFile        string        `env:"CLEARSCRUB_SESSION_FILE"`
}

func LoadCLIConfig() (*CLIConfig, error) {
	var cfg CLIConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
