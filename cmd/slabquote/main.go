package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"slabquote/infrastructure/ai"
	"slabquote/infrastructure/audit"
	"slabquote/infrastructure/cache"
	"slabquote/infrastructure/config"
	httpserver "slabquote/infrastructure/http"
	"slabquote/infrastructure/intake"
	"slabquote/infrastructure/sqlite"
	"slabquote/pricebook"
	"slabquote/pricing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := sqlite.OpenDB(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	loader := pricebook.NewLoader(cfg.PriceSheetURL, cfg.PriceFetchTimeout, cfg.PriceFetchRetries)
	book, err := pricebook.Bootstrap(context.Background(), db, loader)
	if err != nil {
		log.Fatalf("load price book: %v", err)
	}
	slog.Info("price book loaded", slog.Int("entries", book.Len()), slog.Bool("from_fallback", book.FromFallback))

	sessionCache := cache.NewUserSessionCache()
	books := cache.NewPriceBookCache(book)
	auditSvc := audit.NewService()
	intakeClient := intake.NewClient(cfg.IntakeURL, cfg.IntakeTimeout, cfg.IntakeRetries)
	chatClient := ai.NewClient(cfg.ChatBaseURL, cfg.ChatAPIKey, cfg.ChatModel, cfg.ChatTimeout)
	pricingCfg := pricing.Config{ProfitPercent: cfg.ProfitPercent}

	server := httpserver.NewServer(cfg.Addr, db, sessionCache, books, loader, intakeClient, chatClient, auditSvc, pricingCfg)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("slabquote listening on %s", cfg.Addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}
