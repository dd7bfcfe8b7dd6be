// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	"pawhaven/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	Shelters       int  `yaml:"shelters"`
	Adopters       int  `yaml:"adopters"`
	PetsPerShelter int  `yaml:"pets_per_shelter"`
	Applications   int  `yaml:"applications"`
	Reviews        int  `yaml:"reviews"`
	Threads        int  `yaml:"threads"`
	ShouldClean    bool `yaml:"clean"`
}

// DefaultOptions returns a reasonable development data set.
func DefaultOptions() Options {
	return Options{
		Shelters:       8,
		Adopters:       40,
		PetsPerShelter: 6,
		Applications:   60,
		Reviews:        80,
		Threads:        30,
		ShouldClean:    true,
	}
}

// LoadProfile reads seeding options from a YAML profile file.
func LoadProfile(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read seed profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse seed profile: %w", err)
	}
	return opts, nil
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d shelters, %d adopters, %d pets per shelter...",
		opts.Shelters, opts.Adopters, opts.PetsPerShelter)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db)

	shelters := make([]models.User, 0, opts.Shelters)
	for i := 0; i < opts.Shelters; i++ {
		shelter, err := f.CreateUser(models.RoleShelter)
		if err != nil {
			return fmt.Errorf("create shelter: %w", err)
		}
		shelters = append(shelters, *shelter)
	}
	log.Printf("Created %d shelters", len(shelters))

	adopters := make([]models.User, 0, opts.Adopters)
	for i := 0; i < opts.Adopters; i++ {
		adopter, err := f.CreateUser(models.RoleAdopter)
		if err != nil {
			return fmt.Errorf("create adopter: %w", err)
		}
		adopters = append(adopters, *adopter)
	}
	log.Printf("Created %d adopters", len(adopters))

	pets := make([]models.Pet, 0, opts.Shelters*opts.PetsPerShelter)
	for _, shelter := range shelters {
		for i := 0; i < opts.PetsPerShelter; i++ {
			pet, err := f.CreatePet(shelter.ID)
			if err != nil {
				return fmt.Errorf("create pet: %w", err)
			}
			pets = append(pets, *pet)
		}
	}
	log.Printf("Created %d pets", len(pets))

	if len(pets) > 0 && len(adopters) > 0 {
		r := rand.New(rand.NewSource(42))
		for i := 0; i < opts.Applications; i++ {
			pet := pets[r.Intn(len(pets))]
			adopter := adopters[r.Intn(len(adopters))]
			if _, err := f.CreateApplication(&pet, adopter.ID); err != nil {
				log.Printf("skipping application: %v", err)
			}
		}
		log.Printf("Created up to %d applications", opts.Applications)

		for i := 0; i < opts.Reviews; i++ {
			author := adopters[r.Intn(len(adopters))]
			if r.Intn(2) == 0 {
				pet := pets[r.Intn(len(pets))]
				_, _ = f.CreateReview(models.ReviewTargetPet, pet.ID, author.ID)
			} else {
				shelter := shelters[r.Intn(len(shelters))]
				_, _ = f.CreateReview(models.ReviewTargetShelter, shelter.ID, author.ID)
			}
		}
		log.Printf("Created up to %d reviews", opts.Reviews)

		for i := 0; i < opts.Threads; i++ {
			pet := pets[r.Intn(len(pets))]
			adopter := adopters[r.Intn(len(adopters))]
			if err := f.CreateThread(adopter.ID, pet.ShelterID, &pet, 2+r.Intn(6)); err != nil {
				log.Printf("skipping thread: %v", err)
			}
		}
		log.Printf("Created up to %d threads", opts.Threads)
	}

	log.Println("Database seeding completed successfully!")
	log.Println("All test users have the password: password123")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE messages, message_threads, reviews, favorites, applications, pets, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
