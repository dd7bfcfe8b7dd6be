// Command main runs the database seeder for PawHaven.
package main

import (
	"flag"
	"log"

	"pawhaven/internal/config"
	"pawhaven/internal/database"
	"pawhaven/internal/seed"
)

func main() {
	shelters := flag.Int("shelters", 8, "Number of shelter accounts to create")
	adopters := flag.Int("adopters", 40, "Number of adopter accounts to create")
	petsPerShelter := flag.Int("pets", 6, "Number of pets per shelter")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	profile := flag.String("profile", "", "Path to a YAML seed profile (overrides other flags)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")

	opts := seed.DefaultOptions()
	if *profile != "" {
		loaded, err := seed.LoadProfile(*profile)
		if err != nil {
			log.Fatalf("Failed to load seed profile: %v", err)
		}
		opts = loaded
		log.Printf("Using profile %s", *profile)
	} else {
		opts.Shelters = *shelters
		opts.Adopters = *adopters
		opts.PetsPerShelter = *petsPerShelter
		opts.ShouldClean = *shouldClean
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(database.DB, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
