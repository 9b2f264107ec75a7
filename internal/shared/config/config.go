package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	DatabaseURL     string

	ObjectStoreType string
	LocalStoreDir   string
	StorageEndpoint string
	AWSRegion       string
	AWSAccessKey    string
	AWSSecretKey    string
	Bucket          string
	PresignTTL      time.Duration

	OCRLanguages string
	OCRWorkers   int

	AIProvider  string
	AIModel     string
	AIAPIKey    string
	AITimeout   time.Duration
	JWTSecret   string
	TokenTTL    time.Duration
	MaxUploadMB int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		StorageEndpoint: getEnv("STORAGE_ENDPOINT", ""),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKey:    getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
		Bucket:          getEnv("BUCKET_NAME", "aideo-documents"),
		PresignTTL:      getEnvDuration("PRESIGN_TTL", time.Hour),
		OCRLanguages:    getEnv("OCR_LANGUAGES", "fra"),
		OCRWorkers:      getEnvInt("OCR_WORKERS", 2),
		AIProvider:      getEnv("AI_PROVIDER", "simulated"),
		AIModel:         getEnv("AI_MODEL", "gpt-4o-mini"),
		AIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		AITimeout:       getEnvDuration("AI_TIMEOUT", 45*time.Second),
		JWTSecret:       getEnv("JWT_SECRET_KEY", ""),
		TokenTTL:        time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,
		MaxUploadMB:     int64(getEnvInt("MAX_UPLOAD_MB", 10)),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, using default %d", key, raw, def)
		return def
	}
	return parsed
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config: %s=%q is not a duration, using default %s", key, raw, def)
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
