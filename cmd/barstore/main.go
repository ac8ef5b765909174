package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"barstore/internal/backend"
	"barstore/internal/config"
	"barstore/internal/http/handlers"
	applog "barstore/internal/log"
	"barstore/internal/poller"
	"barstore/internal/repos"
	"barstore/internal/services"
)

func main() {
	cfg := config.Load()
	applog.SetLevel(cfg.LogLevel)

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
			applog.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.StorageDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := services.NewSessionService(repos.NewLocalStorageRepo(db))
	tok := session.GetOrCreate(ctx)
	applog.Info(nil, "session.ready", map[string]any{"fingerprint": services.Fingerprint(tok)})

	client := backend.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, session)
	state := services.NewAppState(session, client, services.FailurePolicy{
		KeepProductsOnError: cfg.KeepStaleProducts,
		KeepSummaryOnError:  cfg.KeepStaleSummary,
	})

	app := fiber.New(fiber.Config{
		Views:        handlers.NewEngine(cfg.TemplatesDir, cfg.LogLevel == "debug"),
		ErrorHandler: handlers.ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.Limiter(120, time.Minute))
	app.Use(handlers.CSRF(false)) // set true behind HTTPS
	app.Use(handlers.ExposeCSRF)

	app.Static("/static", cfg.StaticDir)

	handlers.Routes(app, handlers.NewDeps(state), func() fiber.Map {
		return fiber.Map{"catalog_loaded": state.Catalog.Loaded()}
	})

	// The cart badge is server state too; keep it fresh while the app runs.
	go poller.New("cart", cfg.PollInterval, state.Cart).Immediate().Run(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			applog.Warn("server.shutdown", err, nil)
		}
	}()

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "api": cfg.APIBaseURL})
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
