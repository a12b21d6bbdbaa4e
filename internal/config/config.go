package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 3000
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBName     = "ntkr"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisURL   = "redis://localhost:6379/0"
)

// ErrNotConfigured wraps every missing-credential failure so callers can
// distinguish configuration errors from runtime ones.
var ErrNotConfigured = errors.New("not configured")

// Load reads the YAML config file, applies .env / environment overrides and
// validates required credentials. Missing external-service credentials fail
// here, at startup, not on the first request.
func Load(configPath string) (*AppConfig, error) {
	_ = godotenv.Load()

	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	if err != nil {
		// A missing file is fine for pure-env deployments; anything else is not.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
	} else {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	cfg.DSN = cfg.Database.DSNValue()

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every external collaborator has credentials.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.Blob.Bucket) == "" ||
		strings.TrimSpace(c.Blob.AccessKeyID) == "" ||
		strings.TrimSpace(c.Blob.SecretAccessKey) == "" {
		return fmt.Errorf("blob store %w: bucket/access_key_id/secret_access_key are required", ErrNotConfigured)
	}
	if strings.TrimSpace(c.Blob.Region) == "" && strings.TrimSpace(c.Blob.Endpoint) == "" {
		return fmt.Errorf("blob store %w: region or endpoint is required", ErrNotConfigured)
	}
	if strings.TrimSpace(c.Database.DSN) == "" && strings.TrimSpace(c.Database.Name) == "" {
		return fmt.Errorf("database %w: dsn or host/name is required", ErrNotConfigured)
	}
	if c.AI.FirstEnabledProvider() == nil {
		return fmt.Errorf("inference %w: at least one enabled AI provider with an api key is required", ErrNotConfigured)
	}
	return nil
}

// FirstEnabledProvider returns the first enabled provider carrying an API
// key, or nil.
func (a *AIConfig) FirstEnabledProvider() *AIProvider {
	for i := range a.Providers {
		p := &a.Providers[i]
		if p.Enabled && strings.TrimSpace(p.APIKey) != "" {
			return p
		}
	}
	return nil
}

// DSNValue assembles the MySQL DSN from discrete fields unless a full DSN was
// given.
func (d *DatabaseOptions) DSNValue() string {
	if dsn := strings.TrimSpace(d.DSN); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.Charset, d.Loc)
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:     defaultPort,
		Env:      defaultEnv,
		RedisURL: defaultRedisURL,
		Database: DatabaseOptions{
			Host:    defaultDBHost,
			Port:    defaultDBPort,
			User:    defaultDBUser,
			Name:    defaultDBName,
			Charset: defaultDBCharset,
			Loc:     defaultDBLoc,
		},
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	setStr := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v := strings.TrimSpace(os.Getenv(key)); v != "" {
				*dst = v
				return
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	setStr(&cfg.Env, "NTKR_ENV")
	setStr(&cfg.Database.DSN, "DATABASE_DSN", "NTKR_DATABASE_DSN")
	setStr(&cfg.RedisURL, "REDIS_URL", "NTKR_REDIS_URL")
	setStr(&cfg.SessionSecret, "NTKR_SESSION_SECRET")

	setStr(&cfg.Blob.Bucket, "S3_BUCKET", "NTKR_S3_BUCKET")
	setStr(&cfg.Blob.Region, "S3_REGION", "NTKR_S3_REGION")
	setStr(&cfg.Blob.Endpoint, "S3_ENDPOINT", "NTKR_S3_ENDPOINT")
	setStr(&cfg.Blob.AccessKeyID, "S3_ACCESS_KEY_ID", "NTKR_S3_ACCESS_KEY_ID")
	setStr(&cfg.Blob.SecretAccessKey, "S3_SECRET_ACCESS_KEY", "NTKR_S3_SECRET_ACCESS_KEY")
	setStr(&cfg.Blob.CustomDomain, "S3_CUSTOM_DOMAIN")

	setStr(&cfg.Auth.Username, "NTKR_USERNAME")
	setStr(&cfg.Auth.PasswordBcrypt, "NTKR_PASSWORD_BCRYPT")
	setStr(&cfg.Auth.Password, "NTKR_PASSWORD")

	// A bare OPENAI_API_KEY / ANTHROPIC_API_KEY is enough to stand up a
	// provider without any YAML.
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" && !hasProviderType(cfg.AI.Providers, "openai") {
		cfg.AI.Providers = append(cfg.AI.Providers, AIProvider{
			ID: "openai", Type: "openai", APIKey: key, Enabled: true,
		})
	}
	if key := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); key != "" && !hasProviderType(cfg.AI.Providers, "anthropic") {
		cfg.AI.Providers = append(cfg.AI.Providers, AIProvider{
			ID: "anthropic", Type: "anthropic", APIKey: key, Enabled: true,
		})
	}

	if v := strings.TrimSpace(os.Getenv("NTKR_DEV_TOOLS")); v != "" {
		cfg.DevTools.Enable = v == "1" || strings.EqualFold(v, "true")
	}
}

func hasProviderType(providers []AIProvider, typ string) bool {
	for _, p := range providers {
		if strings.EqualFold(strings.TrimSpace(p.Type), typ) {
			return true
		}
	}
	return false
}
