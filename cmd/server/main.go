package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"devninja-chat/internal/config"
	"devninja-chat/internal/database"
	"devninja-chat/internal/handlers"
	"devninja-chat/internal/logger"
	"devninja-chat/internal/middleware"
	"devninja-chat/internal/repository"
	"devninja-chat/internal/router"
	"devninja-chat/internal/services"
	"devninja-chat/internal/websocket"
	"devninja-chat/internal/worker"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Logger initialization failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("🚀 Starting DevNinja chat backend...")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("✗ Invalid configuration")
	}
	log.Info().Str("env", cfg.Env).Msg("✓ Environment variables loaded")

	// ──── Step 2: Initialize Credential Storage ────
	var kv database.KeyValue
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("✗ Redis connection failed")
		}
		defer redisClient.Close()
		kv = database.NewRedisKV(redisClient)
		log.Info().Msg("✓ Redis connected (credential store)")
	} else {
		kv = database.NewMemoryKV()
		log.Warn().Msg("✓ REDIS_URL not set, credential kept in memory until restart")
	}

	// ──── Step 3: Initialize PostgreSQL and Run Migrations ────
	var recorder services.ReplyRecorder
	var pool *pgxpool.Pool
	var eventPool *worker.Pool
	if cfg.DatabaseURL != "" {
		pool, err = database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("✗ PostgreSQL connection failed")
		}
		defer pool.Close()

		if err := database.RunMigrations(pool, "migrations", log); err != nil {
			log.Fatal().Err(err).Msg("✗ Database migration failed")
		}
		eventPool = worker.NewPool(repository.NewReplyEventRepo(pool), 2, 256, log)
		eventPool.Start()
		recorder = eventPool
		log.Info().Msg("✓ PostgreSQL connected, reply event log enabled")
	} else {
		log.Info().Msg("✓ DATABASE_URL not set, reply event log disabled")
	}

	// ──── Step 4: Load Persona and Fallback Rules ────
	systemPrompt, err := services.LoadSystemPrompt(cfg.SystemPromptFile)
	if err != nil {
		log.Fatal().Err(err).Msg("✗ System prompt load failed")
	}
	rules, err := services.LoadFallbackRules(cfg.FallbackRulesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("✗ Fallback rules load failed")
	}
	fallback := services.NewFallbackResponder(rules, nil)
	log.Info().Int("rules", len(rules.Rules)).Msg("✓ Fallback rules loaded")

	// ──── Step 5: Initialize Remote Responder ────
	creds := services.NewCredentialStore(kv, cfg.CredentialKey, log)
	remote := newResponder(cfg, creds, systemPrompt, log)

	// ──── Step 6: Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	operatorAuth := services.NewOperatorAuth(cfg.AdminPasswordHash, jwtAuth, log)
	if !operatorAuth.Enabled() {
		log.Warn().Msg("ADMIN_PASSWORD_HASH not set, operator login disabled")
	}

	chatLog := log.With().Str("component", "chat").Logger()
	sessions := services.NewSessionManager(func() *services.Orchestrator {
		return services.NewOrchestrator(services.NewHistory(), remote, fallback, chatLog)
	}, time.Duration(cfg.SessionIdleMinutes)*time.Minute, log)
	sessions.Start()
	log.Info().Int("idle_minutes", cfg.SessionIdleMinutes).Msg("✓ Session reaper started")

	chatService := services.NewChatService(creds, sessions, recorder, log)
	chatService.WarnIfUnconfigured(context.Background())

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(chatService, cfg.FrontendURL, log)
	log.Info().Msg("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	chatLimiter := middleware.NewRateLimiter(cfg.ChatRatePerMinute, time.Minute)
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	if !cfg.TrustProxy {
		log.Info().Msg("TRUST_PROXY not set, rate limits keyed on peer address")
	}

	r := router.New(router.Deps{
		JWTAuth:      jwtAuth,
		ChatHandler:  handlers.NewChatHandler(chatService, wsHub),
		AdminHandler: handlers.NewAdminHandler(chatService, operatorAuth),
		WSHub:        wsHub,
		ChatLimiter:  chatLimiter,
		LoginLimiter: loginLimiter,
		Logger:       log,
		FrontendURL:  cfg.FrontendURL,
		TrustProxy:   cfg.TrustProxy,
	})

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Upstream completions have no client timeout of their own.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		sessions.Stop()
		chatLimiter.Stop()
		loginLimiter.Stop()
		wsHub.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)

		if eventPool != nil {
			eventPool.Stop()
		}
	}()

	log.Info().Msgf("✓ DevNinja chat backend ready on http://localhost:%s", cfg.Port)
	log.Info().Msgf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Info().Msgf("  WS:  ws://localhost:%s/api/v1/chat/sessions/{id}/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server error")
	}
}

func newResponder(cfg *config.Config, creds *services.CredentialStore, systemPrompt string, log zerolog.Logger) services.Responder {
	settings := services.CompletionSettings{
		APIURL:           cfg.ChatAPIURL,
		Model:            cfg.ChatModel,
		MaxTokens:        cfg.ChatMaxTokens,
		Temperature:      cfg.ChatTemperature,
		PresencePenalty:  cfg.ChatPresencePenalty,
		FrequencyPenalty: cfg.ChatFrequencyPenalty,
		HistoryWindow:    cfg.ChatHistoryWindow,
		SystemPrompt:     systemPrompt,
	}
	remoteLog := log.With().Str("component", "remote").Str("provider", cfg.ChatProvider).Logger()

	if cfg.ChatProvider == "gemini" {
		log.Info().Str("model", cfg.ChatModel).Msg("✓ Gemini responder configured")
		return services.NewGeminiResponder(creds, settings, remoteLog)
	}
	log.Info().Str("model", cfg.ChatModel).Str("api_url", cfg.ChatAPIURL).Msg("✓ OpenAI-compatible responder configured")
	return services.NewOpenAIResponder(creds, settings, nil, remoteLog)
}
