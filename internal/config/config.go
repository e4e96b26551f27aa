package config

import (
	"os"
	"strconv"
	"time"

	"trading_backend/internal/logger"
	"trading_backend/internal/service"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string

	// APISecret signs trade payloads exchanged with the in-game agent.
	APISecret string
	// ServiceToken authenticates the Discord bot front-end on /auth.
	ServiceToken string
	JWTSecret    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// SessionStore selects the pending-verification store: memory or redis.
	SessionStore string

	DefaultGame string

	Limits service.Limits

	APIRateLimit  int
	APIRateWindow time.Duration
}

// Load reads configuration from the environment.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	apiSecret := os.Getenv("API_SECRET")
	if apiSecret == "" {
		logger.Fatal("API_SECRET is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	serviceToken := os.Getenv("SERVICE_TOKEN")
	if serviceToken == "" {
		logger.Fatal("SERVICE_TOKEN is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	game := os.Getenv("DEFAULT_GAME")
	if game == "" {
		game = "PS99"
	}

	sessionStore := os.Getenv("SESSION_STORE")
	if sessionStore == "" {
		sessionStore = "memory"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	limits := service.DefaultLimits()
	if v := os.Getenv("MIN_GEM_DEPOSIT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limits.MinGemDeposit = n
		}
	}
	if v := os.Getenv("MAX_GEM_DEPOSIT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limits.MaxGemDeposit = n
		}
	}
	if v := os.Getenv("GEM_DEPOSIT_MULTIPLE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limits.GemDepositMultiple = n
		}
	}

	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	return &Config{
		AppPort:       port,
		DatabaseURL:   dbURL,
		APISecret:     apiSecret,
		ServiceToken:  serviceToken,
		JWTSecret:     jwtSecret,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		SessionStore:  sessionStore,
		DefaultGame:   game,
		Limits:        limits,
		APIRateLimit:  apiRateLimit,
		APIRateWindow: apiRateWindow,
	}
}
