package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath = "CONFIG_PATH"

	EnvPort      = "PORT"
	EnvAddress   = "ADDRESS"
	EnvLogLevel  = "LOG_LEVEL"
	EnvGinMode   = "GIN_MODE"
	EnvStaticDir = "STATIC_DIR"
	EnvSiteURL   = "SITE_URL"
	// EnvPublicSiteURL is the name the frontend build uses for the same value.
	EnvPublicSiteURL = "NEXT_PUBLIC_SITE_URL"

	EnvResendAPIKey   = "RESEND_API_KEY"
	EnvFromEmail      = "FROM_EMAIL"
	EnvToEmail        = "TO_EMAIL"
	EnvResendEndpoint = "RESEND_ENDPOINT"
	EnvEmailTimeout   = "EMAIL_TIMEOUT"
	EnvEmailSendRate  = "EMAIL_SEND_RATE"

	EnvRateLimitStore   = "RATE_LIMIT_STORE"
	EnvRateLimitDBPath  = "RATE_LIMIT_DB_PATH"
	EnvRateLimitKeySalt = "RATE_LIMIT_KEY_SALT"
	EnvRedisAddr        = "REDIS_ADDR"
	EnvRedisPassword    = "REDIS_PASSWORD"
	EnvRedisDB          = "REDIS_DB"
	EnvRedisPrefix      = "REDIS_PREFIX"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

const (
	defaultPort     = 8080
	defaultLogLevel = "info"
	defaultSiteURL  = "https://punitgauttam.com"
	defaultDBPath   = "rate_limits.db"
)

// ErrInvalidConfig is wrapped by every validation failure returned from Load.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Address   string          `yaml:"address"`
	Port      int             `yaml:"port"`
	LogLevel  string          `yaml:"log-level"`
	GinMode   string          `yaml:"gin-mode"`
	StaticDir string          `yaml:"static-dir"`
	SiteURL   string          `yaml:"site-url"`
	Email     EmailConfig     `yaml:"email"`
	RateLimit RateLimitConfig `yaml:"rate-limit"`
}

type EmailConfig struct {
	APIKey   string        `yaml:"api-key"`
	From     string        `yaml:"from"`
	To       string        `yaml:"to"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	SendRate float64       `yaml:"send-rate"`
}

type RateLimitConfig struct {
	Store   string      `yaml:"store"`
	KeySalt string      `yaml:"key-salt"`
	DBPath  string      `yaml:"db-path"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// ListenAddr is the host:port the HTTP server binds to.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}

func defaults() Config {
	return Config{
		Port:     defaultPort,
		LogLevel: defaultLogLevel,
		SiteURL:  defaultSiteURL,
		RateLimit: RateLimitConfig{
			Store:  StoreMemory,
			DBPath: defaultDBPath,
		},
	}
}

// Load resolves configuration from defaults, the optional YAML file at path,
// and environment variables, in increasing order of precedence. A missing file
// is not an error.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path = strings.TrimSpace(path); path != "" {
		data, errRead := os.ReadFile(path)
		switch {
		case errRead == nil:
			if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
				return Config{}, fmt.Errorf("parse config file: %w", errUnmarshal)
			}
		case errors.Is(errRead, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file: %w", errRead)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Address, EnvAddress)
	setString(&cfg.LogLevel, EnvLogLevel)
	setString(&cfg.GinMode, EnvGinMode)
	setString(&cfg.StaticDir, EnvStaticDir)
	setString(&cfg.SiteURL, EnvPublicSiteURL)
	setString(&cfg.SiteURL, EnvSiteURL)

	setString(&cfg.Email.APIKey, EnvResendAPIKey)
	setString(&cfg.Email.From, EnvFromEmail)
	setString(&cfg.Email.To, EnvToEmail)
	setString(&cfg.Email.Endpoint, EnvResendEndpoint)

	setString(&cfg.RateLimit.Store, EnvRateLimitStore)
	setString(&cfg.RateLimit.DBPath, EnvRateLimitDBPath)
	setString(&cfg.RateLimit.KeySalt, EnvRateLimitKeySalt)
	setString(&cfg.RateLimit.Redis.Addr, EnvRedisAddr)
	setString(&cfg.RateLimit.Redis.Password, EnvRedisPassword)
	setString(&cfg.RateLimit.Redis.Prefix, EnvRedisPrefix)

	if raw := env(EnvPort); raw != "" {
		port, errParse := strconv.Atoi(raw)
		if errParse != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvPort, raw, errParse)
		}
		cfg.Port = port
	}
	if raw := env(EnvRedisDB); raw != "" {
		db, errParse := strconv.Atoi(raw)
		if errParse != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvRedisDB, raw, errParse)
		}
		cfg.RateLimit.Redis.DB = db
	}
	if raw := env(EnvEmailTimeout); raw != "" {
		timeout, errParse := time.ParseDuration(raw)
		if errParse != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvEmailTimeout, raw, errParse)
		}
		cfg.Email.Timeout = timeout
	}
	if raw := env(EnvEmailSendRate); raw != "" {
		sendRate, errParse := strconv.ParseFloat(raw, 64)
		if errParse != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvEmailSendRate, raw, errParse)
		}
		cfg.Email.SendRate = sendRate
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}

	c.RateLimit.Store = strings.ToLower(strings.TrimSpace(c.RateLimit.Store))
	switch c.RateLimit.Store {
	case "":
		c.RateLimit.Store = StoreMemory
	case StoreMemory, StoreSQLite:
	case StoreRedis:
		if strings.TrimSpace(c.RateLimit.Redis.Addr) == "" {
			return fmt.Errorf("%w: redis store requires %s", ErrInvalidConfig, EnvRedisAddr)
		}
	default:
		return fmt.Errorf("%w: unknown rate limit store %q", ErrInvalidConfig, c.RateLimit.Store)
	}

	if c.Email.Timeout < 0 {
		return fmt.Errorf("%w: negative email timeout", ErrInvalidConfig)
	}
	if c.Email.SendRate < 0 {
		return fmt.Errorf("%w: negative email send rate", ErrInvalidConfig)
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func setString(dst *string, key string) {
	if v := env(key); v != "" {
		*dst = v
	}
}
