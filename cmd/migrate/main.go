package main

import (
	"context"
	"flag"
	"log"
	"time"

	"skill-swap/internal/app"
	"skill-swap/internal/config"
	"skill-swap/internal/database/migration"
	"skill-swap/internal/database/seeder"
)

func main() {
	status := flag.Bool("status", false, "list pending migrations and exit")
	seed := flag.Bool("seed", false, "insert demo profiles after migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	r := migration.Runner{Dir: cfg.App.MigrationsDir, Logger: c.Logger}
	if *status {
		pending, err := r.Pending(ctx, c.DB.SQLDB())
		if err != nil {
			log.Fatalf("migration status failed: %v", err)
		}
		for _, m := range pending {
			log.Printf("pending version=%d name=%s", m.Version, m.Name)
		}
		log.Printf("pending count=%d", len(pending))
		return
	}

	if err := r.Run(ctx, c.DB.SQLDB()); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if *seed {
		s := seeder.Runner{Seeders: seeder.Defaults(cfg.Swap.StartingTimeBalance), Logger: c.Logger}
		if err := s.Run(ctx, c.DB); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}
}
