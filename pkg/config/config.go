package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	OpenAI   OpenAIConfig
	Taste    TasteConfig
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

type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
}

// TasteConfig holds the server-wide defaults applied to profiles that have
// no per-user overrides stored.
type TasteConfig struct {
	BaseDecay float64
	ClampMin  float64
	ClampMax  float64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	baseDecay, err := strconv.ParseFloat(getEnv("TASTE_BASE_DECAY", "0.985"), 64)
	if err != nil {
		return nil, errors.New("invalid taste base decay")
	}

	clampMin, err := strconv.ParseFloat(getEnv("TASTE_CLAMP_MIN", "-30"), 64)
	if err != nil {
		return nil, errors.New("invalid taste clamp min")
	}

	clampMax, err := strconv.ParseFloat(getEnv("TASTE_CLAMP_MAX", "30"), 64)
	if err != nil {
		return nil, errors.New("invalid taste clamp max")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Denimatch API"),
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
			Name:     getEnv("DB_NAME", "denimatch"),
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
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			BaseURL:        getEnv("OPENAI_BASE_URL", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o"),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		Taste: TasteConfig{
			BaseDecay: baseDecay,
			ClampMin:  clampMin,
			ClampMax:  clampMax,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Taste.BaseDecay <= 0 || cfg.Taste.BaseDecay >= 1 {
		return nil, errors.New("taste base decay must be in (0,1)")
	}

	if cfg.Taste.ClampMin >= cfg.Taste.ClampMax {
		return nil, errors.New("taste clamp min must be below clamp max")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
