// Command seed populates the EasyShop database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"easyshop/internal/bootstrap"
	"easyshop/internal/config"
	"easyshop/internal/seed"
)

func main() {
	numOwners := flag.Int("storeowners", 5, "Number of storeowner profiles to create")
	numClients := flag.Int("clients", 20, "Number of client profiles to create")
	numPosts := flag.Int("posts", 50, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixtures := flag.String("fixtures", "", "Load a YAML fixture file instead of generating data (\"demo\" for the built-in set)")
	seedValue := flag.Int64("seed", 0, "Random seed for generated data (0 = random)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db)

	if *fixtures != "" {
		var f *seed.Fixtures
		if *fixtures == "demo" {
			f, err = seed.DemoFixtures()
		} else {
			f, err = seed.LoadFixtures(*fixtures)
		}
		if err != nil {
			log.Fatalf("❌ Loading fixtures failed: %v", err)
		}
		if *shouldClean {
			if err := s.ClearAll(ctx); err != nil {
				log.Fatalf("❌ Cleanup failed: %v", err)
			}
		}
		sum, err := s.ApplyFixtures(ctx, f)
		if err != nil {
			log.Fatalf("❌ Fixture seeding failed: %v", err)
		}
		log.Printf("Applied fixtures: %d profiles, %d posts", sum.Profiles, sum.Posts)
	} else {
		log.Printf("Target: %d storeowners, %d clients, %d posts, clean=%v",
			*numOwners, *numClients, *numPosts, *shouldClean)
		if _, err := s.Run(ctx, seed.Options{
			NumStoreOwners: *numOwners,
			NumClients:     *numClients,
			NumPosts:       *numPosts,
			ShouldClean:    *shouldClean,
			Seed:           *seedValue,
		}); err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	log.Println("✨ All done! Your database is now populated with test data.")
}
