// Package bootstrap wires process-level dependencies shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"easyshop/internal/cache"
	"easyshop/internal/config"
	"easyshop/internal/database"
	"easyshop/internal/observability"
	"easyshop/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemo bool
}

// InitRuntime connects to DB and Redis and optionally loads the demo data set.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemo {
		if err := seedDemo(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

// seedDemo loads the demo fixtures into an empty database.
func seedDemo(db *gorm.DB) error {
	var existing int64
	if err := db.Table("profiles").Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	f, err := seed.DemoFixtures()
	if err != nil {
		return err
	}
	sum, err := seed.NewSeeder(db).ApplyFixtures(context.Background(), f)
	if err != nil {
		return err
	}
	log.Printf("Seeded demo data: %d profiles, %d posts", sum.Profiles, sum.Posts)
	return nil
}

// InitTracing configures the global tracer from cfg.
func InitTracing(cfg *config.Config) (func(context.Context) error, error) {
	return observability.InitTracing(observability.TracingConfig{
		ServiceName:    "easyshop-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRate,
	})
}
