package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"salon_crm_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// Default origins of the browser client during development.
var defaultAllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Security  SecurityConfig
	Seed      SeedConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// IsProduction reports whether the server runs with production settings.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
	ApplySchema        bool
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig limits login attempts per client IP.
type RateLimitConfig struct {
	LoginPerMinute int
	LoginBurst     int
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	BcryptCost int
}

// SeedConfig is only read by cmd/seed.
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPhone    string
	AdminPassword string
}

// Load loads configuration from environment variables.
// A .env file in the working directory is honoured when present.
func Load() (*Config, error) {
	envFileLoaded := godotenv.Load() == nil

	cfg := &Config{
		Server: ServerConfig{
			Port:        utils.Getenv("PORT", "8000"),
			Environment: utils.Getenv("ENVIRONMENT", "development"),
			LogLevel:    utils.Getenv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                databaseURL(),
			MaxConnections:     utils.GetenvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConnections: utils.GetenvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:    time.Duration(utils.GetenvInt("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second,
			ApplySchema:        utils.GetenvBool("DB_APPLY_SCHEMA", true),
		},
		JWT: JWTConfig{
			Secret:            utils.Getenv("JWT_SECRET", ""),
			AccessTokenExpiry: time.Duration(utils.GetenvInt("JWT_EXPIRY_MINUTES", 480)) * time.Minute,
		},
		CORS: CORSConfig{
			AllowedOrigins: allowedOrigins(utils.Getenv("CORS_ALLOWED_ORIGINS", ""), utils.Getenv("FRONTEND_URL", "")),
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute: utils.GetenvInt("LOGIN_RATE_PER_MINUTE", 10),
			LoginBurst:     utils.GetenvInt("LOGIN_RATE_BURST", 5),
		},
		Security: SecurityConfig{
			BcryptCost: utils.GetenvInt("BCRYPT_COST", 10),
		},
		Seed: SeedConfig{
			AdminName:     utils.Getenv("SEED_ADMIN_NAME", "Admin"),
			AdminEmail:    utils.Getenv("SEED_ADMIN_EMAIL", "admin@example.com"),
			AdminPhone:    utils.Getenv("SEED_ADMIN_PHONE", ""),
			AdminPassword: utils.Getenv("SEED_ADMIN_PASSWORD", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	utils.LogDebug("Configuration loaded", map[string]interface{}{"env_file": envFileLoaded, "environment": cfg.Server.Environment})
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL (or DB_HOST/DB_NAME) is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if c.Server.IsProduction() && len(c.JWT.Secret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters in production"))
	}
	if c.RateLimit.LoginPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("LOGIN_RATE_PER_MINUTE must be positive, got %d", c.RateLimit.LoginPerMinute))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// databaseURL prefers DATABASE_URL and otherwise assembles a keyword/value
// connection string from the discrete DB_* variables.
func databaseURL() string {
	if url := utils.Getenv("DATABASE_URL", ""); url != "" {
		return url
	}
	host := utils.Getenv("DB_HOST", "")
	name := utils.Getenv("DB_NAME", "")
	if host == "" || name == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host,
		utils.Getenv("DB_PORT", "5432"),
		utils.Getenv("DB_USER", "postgres"),
		utils.Getenv("DB_PASSWORD", ""),
		name,
		utils.Getenv("DB_SSLMODE", "disable"),
	)
}

// allowedOrigins merges the localhost defaults (or an explicit comma-separated
// override) with the optional deployed frontend origin.
func allowedOrigins(explicit, frontendURL string) []string {
	var origins []string
	if explicit != "" {
		for _, o := range strings.Split(explicit, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	} else {
		origins = append(origins, defaultAllowedOrigins...)
	}

	frontendURL = strings.TrimRight(strings.TrimSpace(frontendURL), "/")
	if frontendURL != "" {
		for _, o := range origins {
			if o == frontendURL {
				return origins
			}
		}
		origins = append(origins, frontendURL)
	}
	return origins
}
