package config

import (
	"os"
	"strconv"
)

// StorageConfig selects and parameterizes the upload backend.
type StorageConfig struct {
	Backend string // "local" (default) or "minio"
	Dir     string // local backend: the flat upload directory
}

// MinIOConfig holds object storage settings for the MinIO backend.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. The upload size cap and the
// MIME allow-list are compiled-in constants, not configuration.
type AppConfig struct {
	AppHost string
	Port    string
	Storage StorageConfig
	MinIO   MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "local"),
			Dir:     getEnv("UPLOAD_DIR", "public/uploads"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
