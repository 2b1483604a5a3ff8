package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	AppMode       string
	ClientURL     string
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string
	JWTSecret     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Upload credential issuer; CDNProvider selects "imagekit" or "s3".
	CDNProvider     string
	CDNEndpoint     string
	CDNPublicKey    string
	CDNPrivateKey   string
	UploadTokenTTL  int
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignTTLSec int
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:       getEnv("PORT", "3000"),
		AppMode:       getEnv("APP_MODE", "debug"),
		ClientURL:     getEnv("CLIENT_URL", "http://localhost:5173"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "lumina_chat"),
		DBPort:        getEnv("DB_PORT", "5432"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		CDNProvider:     getEnv("CDN_PROVIDER", "imagekit"),
		CDNEndpoint:     getEnv("IMAGE_KIT_ENDPOINT", ""),
		CDNPublicKey:    getEnv("IMAGE_KIT_PUBLIC_KEY", ""),
		CDNPrivateKey:   getEnv("IMAGE_KIT_PRIVATE_KEY", ""),
		UploadTokenTTL:  getEnvAsInt("UPLOAD_TOKEN_TTL_SEC", 1800),
		S3Region:        getEnv("S3_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3PresignTTLSec: getEnvAsInt("S3_PRESIGN_TTL_SEC", 900),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
