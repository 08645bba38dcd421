package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"autoshop/internal/config"
	"autoshop/internal/http/handlers"
	"autoshop/internal/i18n"
	"autoshop/internal/index"
	applog "autoshop/internal/log"
	"autoshop/internal/repos"
	"autoshop/internal/tracking"
	"autoshop/web"
)

// searchIndex is what both index backends provide.
type searchIndex interface {
	index.Service
	index.Indexer
}

func openIndex(cfg config.Config, db *sqlx.DB) (searchIndex, error) {
	loader := repos.NewProductRepo(db)
	if cfg.Index.Backend == config.BackendElasticsearch {
		es, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			return nil, err
		}
		return index.NewElastic(es, loader, cfg.Elastic.IndexPrefix, cfg.Index.Tenant), nil
	}
	return index.NewRelational(db, loader, cfg.Index.Tenant), nil
}

func openTracking(cfg config.Config) (*tracking.Manager, error) {
	trackers := []tracking.Tracker{tracking.LogTracker{}}
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		trackers = append(trackers, tracking.NewRedisTracker(redis.NewClient(opt), "autoshop:"+cfg.Index.Tenant))
		log.Printf("[tracking] redis sink enabled")
	}
	return tracking.NewManager(trackers...), nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	idx, err := openIndex(cfg, db)
	if err != nil {
		log.Fatal(err)
	}
	tm, err := openTracking(cfg)
	if err != nil {
		log.Fatal(err)
	}
	tr, err := i18n.Load(web.Files, "translations", cfg.DefaultLocale)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	deps, err := handlers.NewDeps(ctx, db, cfg, idx, tm, tr)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Index.ReindexOnStart {
		n, err := deps.Catalog.Reindex(ctx, idx)
		if err != nil {
			log.Fatal(err)
		}
		applog.Event("index.rebuild", map[string]any{"backend": idx.Backend(), "documents": n})
	}

	// Templates & app
	engine, err := handlers.NewEngine(web.Files, tr, cfg.TemplateReload)
	if err != nil {
		log.Fatal(err)
	}
	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		},
	}))

	handlers.Routes(app, deps, tr)

	log.Fatal(app.Listen(":" + cfg.Port))
}
