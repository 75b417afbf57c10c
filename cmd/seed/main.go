// Command seed loads the built-in fixtures and fills the database with demo content.
package main

import (
	"context"
	"flag"
	"log"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of fake users to create")
	numRecipes := flag.Int("recipes", defaults.NumRecipes, "Number of fake recipes to create")
	shouldClean := flag.Bool("clean", false, "Delete existing content before seeding")
	randSeed := flag.Int64("rand-seed", 0, "Seed for reproducible content (0 picks one)")
	builtInsOnly := flag.Bool("builtins-only", false, "Only upsert built-in categories and ad spaces")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	if *builtInsOnly {
		fx, err := seed.DefaultFixtures()
		if err != nil {
			log.Fatalf("Failed to load fixtures: %v", err)
		}
		if err := seed.BuiltIns(ctx, db, fx); err != nil {
			log.Fatalf("Built-in seeding failed: %v", err)
		}
		log.Println("Built-in categories and ad spaces are up to date")
		return
	}

	sum, err := seed.Seed(ctx, db, seed.Options{
		NumUsers:    *numUsers,
		NumRecipes:  *numRecipes,
		ShouldClean: *shouldClean,
		RandSeed:    *randSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d recipes, %d likes, %d saves, %d comments, %d follows",
		sum.Users, sum.Recipes, sum.Likes, sum.Saves, sum.Comments, sum.Follows)
	log.Printf("All demo accounts use the password: %s", seed.DemoPassword)
}
