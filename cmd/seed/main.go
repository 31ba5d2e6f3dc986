// Command seed runs the database seeder for Tavern.
package main

import (
	"flag"
	"log"

	"tavern/internal/config"
	"tavern/internal/database"
	"tavern/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numThreads := flag.Int("threads", 40, "Number of threads to create")
	numShouts := flag.Int("shouts", 60, "Number of shouts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Run(seed.Options{
		NumUsers:   *numUsers,
		NumThreads: *numThreads,
		NumShouts:  *numShouts,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
