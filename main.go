package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"storefront/bot"
	"storefront/config"
	"storefront/db"
	"storefront/logger"
	"storefront/messaging"
	"storefront/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.NewConsole(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "migrate":
		os.Exit(runMigrate(ctx, cfg, log))
	case "import":
		os.Exit(runImport(ctx, cfg, log, os.Args[2:]))
	case "order":
		os.Exit(runOrder(ctx, cfg, os.Args[2:]))
	case "":
		os.Exit(runBot(ctx, cfg, log))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want migrate, import, order)\n", cmd)
		os.Exit(2)
	}
}

func runBot(ctx context.Context, cfg *config.Config, log *logger.Logger) int {
	if cfg.Telegram.Token == "" {
		fmt.Fprintln(os.Stderr, "TOKEN not set")
		return 1
	}

	if cfg.NeedsDB() {
		if err := db.Init(ctx, cfg.DB); err != nil {
			log.Error("db", err, nil)
			return 1
		}
		defer db.Close()

		// Set AUTO_MIGRATE=1 (or "true") to apply migrations on start.
		if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
			if err := applyMigrations(ctx, log); err != nil {
				log.Error("migrate", err, nil)
				return 1
			}
		}
	}

	catalog, catalogErr := services.LoadCatalog(ctx, cfg.Catalog.Source, cfg.Catalog.Path)
	if catalogErr != nil {
		log.Error("catalog", catalogErr, map[string]interface{}{"source": cfg.Catalog.Source, "path": cfg.Catalog.Path})
	} else {
		log.Info("catalog", "catalog loaded", map[string]interface{}{"items": len(catalog)})
	}

	var events bot.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		conn, err := messaging.Dial(cfg.RabbitMQ.URL, log)
		if err != nil {
			log.Error("messaging", err, nil)
			return 1
		}
		pub := messaging.NewPublisher(conn, log)
		defer pub.Close()
		events = pub
	}

	b, err := bot.New(cfg, log, catalog, catalogErr, events)
	if err != nil {
		log.Error("bot", err, nil)
		return 1
	}
	b.Start(ctx)
	log.Info("bot", "shutting down", nil)
	return 0
}

func runMigrate(ctx context.Context, cfg *config.Config, log *logger.Logger) int {
	if err := db.Init(ctx, cfg.DB); err != nil {
		log.Error("db", err, nil)
		return 1
	}
	defer db.Close()

	if err := applyMigrations(ctx, log); err != nil {
		log.Error("migrate", err, nil)
		return 1
	}
	return 0
}

// runImport copies a products.json file (default CATALOG_PATH) into the catalog tables.
func runImport(ctx context.Context, cfg *config.Config, log *logger.Logger, args []string) int {
	path := cfg.Catalog.Path
	if len(args) > 0 {
		path = args[0]
	}
	items, err := services.LoadCatalogFile(path)
	if err != nil {
		log.Error("catalog", err, map[string]interface{}{"path": path})
		return 1
	}
	if err := db.Init(ctx, cfg.DB); err != nil {
		log.Error("db", err, nil)
		return 1
	}
	defer db.Close()

	if err := services.ReplaceCatalog(ctx, items); err != nil {
		log.Error("catalog", err, nil)
		return 1
	}
	log.Info("catalog", "catalog imported", map[string]interface{}{"items": len(items), "path": path})
	return 0
}
