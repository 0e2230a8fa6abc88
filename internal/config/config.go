// Package config centraliza o carregamento de configurações da aplicação.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gurulost/FitnessForge/internal/core/domain"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	StorageMemory = "memory"
	StorageRedis  = "redis"
)

const (
	apiLimitMessage  = "Too many requests, please try again later."
	authLimitMessage = "Too many login attempts, please try again later."
)

type Config struct {
	Server      ServerConfig
	Storage     StorageConfig
	RateLimiter RateLimiterConfig
	CSRF        CSRFConfig
}

type ServerConfig struct {
	Port              string
	Environment       string
	TrustProxyHeaders bool
	ShutdownTimeout   time.Duration
	// PublicHost, when set, is the only host HTTPS redirects point to.
	PublicHost string
}

func (s ServerConfig) Production() bool {
	return s.Environment == EnvProduction
}

type StorageConfig struct {
	Type  string
	Redis RedisConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type RateLimiterConfig struct {
	APIRule       domain.RateLimitRule
	AuthRule      domain.RateLimitRule
	MaxKeys       int
	SweepInterval time.Duration
}

type CSRFConfig struct {
	TokenTTL      time.Duration
	SweepInterval time.Duration
	SingleUse     bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	server, err := buildServerConfig()
	if err != nil {
		return Config{}, err
	}

	storageType := strings.ToLower(getEnv("STORAGE_TYPE", StorageMemory))
	if storageType != StorageMemory && storageType != StorageRedis {
		return Config{}, fmt.Errorf("invalid STORAGE_TYPE: %q", storageType)
	}

	redisConfig, err := buildRedisConfig()
	if err != nil {
		return Config{}, err
	}

	rateLimiterConfig, err := buildRateLimiterConfig()
	if err != nil {
		return Config{}, err
	}

	csrfConfig, err := buildCSRFConfig()
	if err != nil {
		return Config{}, err
	}

	return Config{
		Server: server,
		Storage: StorageConfig{
			Type:  storageType,
			Redis: redisConfig,
		},
		RateLimiter: rateLimiterConfig,
		CSRF:        csrfConfig,
	}, nil
}

func buildServerConfig() (ServerConfig, error) {
	trustProxy, err := getBool("TRUST_PROXY_HEADERS", false)
	if err != nil {
		return ServerConfig{}, err
	}
	shutdownSeconds, err := getPositiveInt("SHUTDOWN_TIMEOUT_SECONDS", 10)
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Port:              getEnv("SERVER_PORT", "5000"),
		Environment:       strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		TrustProxyHeaders: trustProxy,
		ShutdownTimeout:   time.Duration(shutdownSeconds) * time.Second,
		PublicHost:        strings.TrimSpace(getEnv("PUBLIC_HOST", "")),
	}, nil
}

func buildRedisConfig() (RedisConfig, error) {
	host := getEnv("REDIS_HOST", "localhost")
	port, err := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	return RedisConfig{
		Host:     host,
		Port:     port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

func buildRateLimiterConfig() (RateLimiterConfig, error) {
	apiRequests, err := getPositiveInt("RATE_LIMIT_API_REQUESTS", 100)
	if err != nil {
		return RateLimiterConfig{}, err
	}
	apiWindowSeconds, err := getPositiveInt("RATE_LIMIT_API_WINDOW_SECONDS", 15*60)
	if err != nil {
		return RateLimiterConfig{}, err
	}
	authRequests, err := getPositiveInt("RATE_LIMIT_AUTH_REQUESTS", 5)
	if err != nil {
		return RateLimiterConfig{}, err
	}
	authWindowSeconds, err := getPositiveInt("RATE_LIMIT_AUTH_WINDOW_SECONDS", 15*60)
	if err != nil {
		return RateLimiterConfig{}, err
	}
	maxKeys, err := strconv.Atoi(getEnv("RATE_LIMIT_MAX_KEYS", "100000"))
	if err != nil || maxKeys < 0 {
		return RateLimiterConfig{}, fmt.Errorf("invalid RATE_LIMIT_MAX_KEYS: %q", getEnv("RATE_LIMIT_MAX_KEYS", ""))
	}
	sweepSeconds, err := getPositiveInt("RATE_LIMIT_SWEEP_INTERVAL_SECONDS", 60)
	if err != nil {
		return RateLimiterConfig{}, err
	}

	return RateLimiterConfig{
		APIRule: domain.RateLimitRule{
			Name:     "api",
			Requests: apiRequests,
			Window:   time.Duration(apiWindowSeconds) * time.Second,
			Message:  apiLimitMessage,
		},
		AuthRule: domain.RateLimitRule{
			Name:     "auth",
			Requests: authRequests,
			Window:   time.Duration(authWindowSeconds) * time.Second,
			Message:  authLimitMessage,
		},
		MaxKeys:       maxKeys,
		SweepInterval: time.Duration(sweepSeconds) * time.Second,
	}, nil
}

func buildCSRFConfig() (CSRFConfig, error) {
	ttlSeconds, err := getPositiveInt("CSRF_TOKEN_TTL_SECONDS", 24*60*60)
	if err != nil {
		return CSRFConfig{}, err
	}
	sweepSeconds, err := getPositiveInt("CSRF_SWEEP_INTERVAL_SECONDS", 60*60)
	if err != nil {
		return CSRFConfig{}, err
	}
	singleUse, err := getBool("CSRF_SINGLE_USE", false)
	if err != nil {
		return CSRFConfig{}, err
	}

	return CSRFConfig{
		TokenTTL:      time.Duration(ttlSeconds) * time.Second,
		SweepInterval: time.Duration(sweepSeconds) * time.Second,
		SingleUse:     singleUse,
	}, nil
}

func getPositiveInt(key string, fallback int) (int, error) {
	raw := getEnv(key, strconv.Itoa(fallback))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %d", key, value)
	}
	return value, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, strconv.FormatBool(fallback))
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
