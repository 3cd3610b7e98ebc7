package config

import (
	"fmt"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Port   string `mapstructure:"PORT"`
	AppEnv string `mapstructure:"APP_ENV"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	TokenTTL  time.Duration `mapstructure:"TOKEN_TTL"`

	MediaRoot     string        `mapstructure:"MEDIA_ROOT"`
	IndexCacheTTL time.Duration `mapstructure:"INDEX_CACHE_TTL"`
	CORSOrigins   string        `mapstructure:"CORS_ORIGINS"`

	// TrustedProxies lists proxy IPs or CIDRs whose forwarding headers are
	// believed. Empty trusts none, so the client IP is the peer address.
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`

	LoginRatePerMinute int `mapstructure:"LOGIN_RATE_PER_MINUTE"`

	SentryDSN    string `mapstructure:"SENTRY_DSN"`
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `mapstructure:"SERVICE_NAME"`
}

var keys = []string{
	"PORT", "APP_ENV",
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "SQLITE_PATH",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"JWT_SECRET", "TOKEN_TTL",
	"MEDIA_ROOT", "INDEX_CACHE_TTL", "CORS_ORIGINS", "TRUSTED_PROXIES",
	"LOGIN_RATE_PER_MINUTE",
	"SENTRY_DSN", "OTEL_EXPORTER_OTLP_ENDPOINT", "SERVICE_NAME",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "yatube.db")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("TOKEN_TTL", 72*time.Hour)
	v.SetDefault("MEDIA_ROOT", "media")
	v.SetDefault("INDEX_CACHE_TTL", 20*time.Second)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	v.SetDefault("SERVICE_NAME", "yatube")
}

// Load reads configuration from the environment (and a .env file, if present).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about; bind every env key explicitly.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "dev-secret"
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// AllowOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowOrigins() []string {
	out := splitList(c.CORSOrigins)
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// TrustedProxyList splits TRUSTED_PROXIES on commas; nil means trust no proxy.
func (c *Config) TrustedProxyList() []string {
	return splitList(c.TrustedProxies)
}

func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// PostgresDSN builds the DSN the way the database package expects it.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}
