package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"freelancehub/internal/cache"
	"freelancehub/internal/config"
	"freelancehub/internal/db"
	"freelancehub/internal/logging"
	"freelancehub/internal/repository"
	"freelancehub/internal/service"
)

func main() {
	cfg := config.Load()
	logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.Info("starting skill seed")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	names := defaultSkills
	if cfg.SkillsSeedURL != "" {
		slog.Info("fetching skills", "url", cfg.SkillsSeedURL)
		names, err = fetchSkillsFromAPI(cfg.SkillsSeedURL)
		if err != nil {
			log.Fatalf("Failed to fetch skills: %v", err)
		}
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	skills := service.NewSkillService(repository.NewSkillRepository(gormDB), cacheClient)
	created, err := skills.Seed(ctx, names)
	if err != nil {
		log.Fatalf("Failed to seed skills: %v", err)
	}

	slog.Info("seed completed",
		"created", created,
		"existing", len(names)-created,
		"total", len(names),
	)
	fmt.Printf("Seeded %d new skills (%d provided)\n", created, len(names))
}
