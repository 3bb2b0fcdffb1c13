package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"genchat/internal/config"
	"genchat/internal/db"
	apihttp "genchat/internal/http"
	"genchat/internal/llm"
	"genchat/internal/metrics"
	"genchat/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sessionRepo, closeStore, err := db.OpenSessionStore(ctx, cfg)
	if err != nil {
		logger.Fatal("session store init", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer closeStore()

	m := metrics.New()

	httpClient := &http.Client{}
	textChain, imageChain := llm.NewProviderChains(cfg, httpClient)
	if !cfg.OpenAIEnabled() {
		logger.Warn("openai api key not configured, using fallback providers only")
	}

	gateway := service.NewFallbackGateway(logger, service.GatewayConfig{
		Text:         textChain,
		Image:        imageChain,
		TextTimeout:  cfg.TextTimeout,
		ImageTimeout: cfg.ImageTimeout,
	}, m)
	chatSvc := service.NewChatSessionService(sessionRepo, logger, cfg.StoreTimeout)

	genHandler := apihttp.NewGenerationHandler(logger, gateway, chatSvc)
	chatHandler := apihttp.NewChatHandler(logger, chatSvc)
	router := apihttp.NewRouter(logger, m, genHandler, chatHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("store", cfg.StoreBackend),
		zap.Int("text_providers", len(textChain)),
		zap.Int("image_providers", len(imageChain)),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
