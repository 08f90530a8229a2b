package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"questhire/internal/app"
	"questhire/internal/config"
	"questhire/internal/questions"
	"questhire/internal/server"
	"questhire/internal/storage"
	"questhire/internal/store"
	"questhire/internal/util"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	util.InitLogger(cfg.LogLevel)

	var backing store.Store
	if cfg.DatabaseURL != "" {
		gormStore, err := store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			slog.Error("connect database", "err", err)
			os.Exit(1)
		}
		backing = gormStore
		slog.Info("using postgres store")
	} else {
		backing = store.NewMemoryStore()
		slog.Warn("no databaseURL configured, using in-memory store")
	}

	sessionTTL, err := config.ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		slog.Error("parse session ttl", "err", err)
		os.Exit(1)
	}
	tokens, err := store.NewJWTTokenStore(cfg.JWTSecret, sessionTTL, "")
	if err != nil {
		slog.Error("init token store", "err", err)
		os.Exit(1)
	}

	catalog := questions.DefaultCatalog()
	if len(cfg.Topics) > 0 {
		catalog, err = questions.NewCatalog(cfg.Topics)
		if err != nil {
			slog.Error("build topic catalog", "err", err)
			os.Exit(1)
		}
	}

	var resumes storage.ObjectStore
	if cfg.MinioEndpoint != "" {
		minioStore, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			slog.Error("connect object storage", "err", err)
			os.Exit(1)
		}
		resumes = minioStore
		slog.Info("resume storage enabled", "bucket", cfg.MinioBucket)
	} else {
		slog.Warn("no minioEndpoint configured, resume upload disabled")
	}

	core, err := app.New(app.Config{
		Store:     backing,
		Tokens:    tokens,
		Sessions:  store.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword),
		Questions: questions.NewClient(cfg.QuestionAPIBaseURL),
		Catalog:   catalog,
		Resumes:   resumes,
	})
	if err != nil {
		slog.Error("init application", "err", err)
		os.Exit(1)
	}

	srv, err := server.New(server.Config{
		App:                core,
		RedisAddr:          cfg.RedisAddr,
		RedisPassword:      cfg.RedisPassword,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxyCIDRs:  cfg.TrustedProxyCIDRs,
		MaxResumeBytes:     cfg.MaxResumeBytes,
	})
	if err != nil {
		slog.Error("init server", "err", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	slog.Info("server listening", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
