package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Policy   PolicyDefaults
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// PolicyDefaults is the company-wide fallback attendance policy, loaded from a
// YAML document. Branch-level policy rows in the database override it.
type PolicyDefaults struct {
	GraceMinutes        int            `yaml:"grace_minutes"`
	StandardWorkMinutes int            `yaml:"standard_work_minutes"`
	ToleranceMinutes    int            `yaml:"timestamp_tolerance_minutes"`
	BreakLimitMinutes   map[string]int `yaml:"break_limit_minutes"`
	WorkingDays         []string       `yaml:"working_days"`
}

func Load() (*Config, error) {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance-engine"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Default attendance policy
	policy, err := LoadPolicyDefaults(getEnv("POLICY_DEFAULTS_PATH", "assets/policy.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load policy defaults: %w", err)
	}
	config.Policy = *policy

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadPolicyDefaults reads and validates the fallback attendance policy document.
func LoadPolicyDefaults(path string) (*PolicyDefaults, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var policy PolicyDefaults
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if policy.GraceMinutes < 0 {
		return nil, fmt.Errorf("grace_minutes must not be negative")
	}
	if policy.StandardWorkMinutes <= 0 {
		return nil, fmt.Errorf("standard_work_minutes must be positive")
	}
	if policy.ToleranceMinutes < 0 {
		return nil, fmt.Errorf("timestamp_tolerance_minutes must not be negative")
	}
	for breakType, limit := range policy.BreakLimitMinutes {
		if limit <= 0 {
			return nil, fmt.Errorf("break_limit_minutes.%s must be positive", breakType)
		}
	}

	return &policy, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
