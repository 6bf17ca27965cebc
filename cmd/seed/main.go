// Command main runs the database seeder for ForumHub.
package main

import (
	"flag"
	"log"

	"forumhub/internal/config"
	"forumhub/internal/database"
	"forumhub/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numThreads := flag.Int("threads", 200, "Number of threads to create")
	maxDays := flag.Int("days", 90, "Spread created_at timestamps over this many days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d threads, clean=%v\n", *numUsers, *numThreads, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumThreads:  *numThreads,
		MaxDays:     *maxDays,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your forum is now populated with test data.")
	log.Println("📧 Demo accounts demo / demo_mod use the password: Password123!demo")
}
