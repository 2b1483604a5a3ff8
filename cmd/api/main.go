package main

import (
	"context"
	"log"
	"time"

	"lumina-chat/config"
	"lumina-chat/internal/handler"
	"lumina-chat/internal/identity"
	"lumina-chat/internal/redis"
	"lumina-chat/internal/repository"
	"lumina-chat/internal/server"
	"lumina-chat/internal/services"
	"lumina-chat/internal/storage"
	"lumina-chat/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)

	ctx := context.Background()

	pool, err := repository.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := repository.InitSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	issuer, err := newCredentialIssuer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to configure upload credential issuer: %v", err)
	}

	var limiter *redis.RateLimiter
	if client := redis.NewClient(redis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}); client != nil {
		limiter = redis.NewRateLimiter(client, redis.DefaultRateLimitConfig())
	} else {
		l.Infof("Redis not configured, write rate limiting disabled")
	}

	chatRepo := repository.NewChatRepository(pool)
	indexRepo := repository.NewChatIndexRepository(pool)

	chatService := services.NewChatService(chatRepo, indexRepo)
	uploadService := services.NewUploadService(issuer)

	verifier := identity.NewJWTVerifier(cfg.JWTSecret)

	handlers := &server.Handlers{
		Chat:   handler.NewChatHandler(chatService, l),
		Upload: handler.NewUploadHandler(uploadService, l),
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, verifier, limiter, pool.Ping)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}

func newCredentialIssuer(ctx context.Context, cfg *config.Config) (services.CredentialIssuer, error) {
	if cfg.CDNProvider == "s3" {
		return storage.NewS3Client(ctx, storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PresignTTL: time.Duration(cfg.S3PresignTTLSec) * time.Second,
		})
	}
	return storage.NewCDNSigner(cfg.CDNPrivateKey, time.Duration(cfg.UploadTokenTTL)*time.Second)
}
