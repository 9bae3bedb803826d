package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Scoring   ScoringConfig
	Recommend RecommendConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// ScoringConfig points at the primary scoring backend.
type ScoringConfig struct {
	BaseURL           string
	TimeoutMs         int
	BasicAuthUsername string
	BasicAuthPassword string
}

// RecommendConfig carries the engine knobs that are tunable per deployment.
type RecommendConfig struct {
	WeightCollaborative float64
	WeightNMF           float64
	WeightContent       float64
	HistoryLimit        int
	MaxCandidates       int
	DefaultLimit        int
	ExploreSeed         int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	scoringTimeout, err := getEnvInt("SCORING_TIMEOUT_MS", 2000)
	if err != nil {
		return nil, err
	}

	wCollab, err := getEnvFloat("HYBRID_WEIGHT_COLLABORATIVE", 0.35)
	if err != nil {
		return nil, err
	}
	wNMF, err := getEnvFloat("HYBRID_WEIGHT_NMF", 0.30)
	if err != nil {
		return nil, err
	}
	wContent, err := getEnvFloat("HYBRID_WEIGHT_CONTENT", 0.35)
	if err != nil {
		return nil, err
	}

	historyLimit, err := getEnvInt("RECO_HISTORY_LIMIT", 50)
	if err != nil {
		return nil, err
	}
	maxCandidates, err := getEnvInt("RECO_MAX_CANDIDATES", 500)
	if err != nil {
		return nil, err
	}
	defaultLimit, err := getEnvInt("RECO_DEFAULT_LIMIT", 10)
	if err != nil {
		return nil, err
	}

	exploreSeed, err := strconv.ParseInt(getEnv("RECO_EXPLORE_SEED", "0"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid RECO_EXPLORE_SEED")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Intelligent Library API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "intelligent_library"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Scoring: ScoringConfig{
			BaseURL:           getEnv("SCORING_BASE_URL", ""),
			TimeoutMs:         scoringTimeout,
			BasicAuthUsername: getEnv("SCORING_BASIC_AUTH_USERNAME", ""),
			BasicAuthPassword: getEnv("SCORING_BASIC_AUTH_PASSWORD", ""),
		},
		Recommend: RecommendConfig{
			WeightCollaborative: wCollab,
			WeightNMF:           wNMF,
			WeightContent:       wContent,
			HistoryLimit:        historyLimit,
			MaxCandidates:       maxCandidates,
			DefaultLimit:        defaultLimit,
			ExploreSeed:         exploreSeed,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return n, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return f, nil
}
