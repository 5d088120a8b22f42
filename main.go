package main

import (
	"context"
	"log"
	"os"
	"time"

	"companiongo/internal/api"
	"companiongo/internal/auth"
	"companiongo/internal/config"
	"companiongo/internal/redis"
	"companiongo/internal/service/ai"
	"companiongo/internal/service/assistant"
	"companiongo/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfgPath := os.Getenv("COMPANION_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbType := os.Getenv("COMPANION_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	log.Printf("dbType: %s\n", dbType)
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	rdb, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("create redis client: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	provider := cfg.BasicConfig.Provider
	llm, err := ai.NewClient(ctx, provider, cfg.BasicConfig.Model, cfg.Providers[provider])
	if err != nil {
		log.Fatalf("init chat model: %v", err)
	}

	var videos ai.VideoSearcher
	if cfg.YouTube.APIKey != "" {
		videos, err = ai.NewYouTubeSearcher(ctx, cfg.YouTube.APIKey)
		if err != nil {
			log.Fatalf("init youtube client: %v", err)
		}
	}

	aiService := ai.NewService(llm, videos)
	assistantService := assistant.NewService(db, aiService)
	authService := auth.NewService(cfg.JWTSecret, rdb, 24*time.Hour)
	handlers := api.NewHandler(assistantService, authService)

	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}

	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
