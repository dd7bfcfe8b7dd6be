package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"pawhaven/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var petNames = []string{
	"Bella", "Max", "Luna", "Charlie", "Lucy", "Cooper", "Daisy", "Milo",
	"Bailey", "Sadie", "Rocky", "Molly", "Buddy", "Maggie", "Bear", "Sophie",
	"Duke", "Chloe", "Tucker", "Penny", "Oliver", "Lily", "Jack", "Zoe",
	"Leo", "Nala", "Oscar", "Ruby", "Finn", "Willow",
}

var breedsBySpecies = map[string][]string{
	"Dog":    {"Labrador Retriever", "German Shepherd", "Golden Retriever", "Beagle", "Poodle", "Boxer", "Dachshund", "Mixed"},
	"Cat":    {"Domestic Shorthair", "Siamese", "Maine Coon", "Persian", "Bengal", "Ragdoll", "Mixed"},
	"Bird":   {"Parakeet", "Cockatiel", "Canary", "Lovebird"},
	"Rabbit": {"Holland Lop", "Netherland Dwarf", "Rex", "Lionhead"},
	"Other":  {"Guinea Pig", "Hamster", "Ferret", "Turtle"},
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and integration tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample account with the given role.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(role string, overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	name := gofakeit.Name()
	if role == models.RoleShelter {
		name = fmt.Sprintf("%s %s Rescue", gofakeit.City(), gofakeit.PetName())
	}

	user := &models.User{
		Role:     role,
		Name:     name,
		Email:    strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d@example.com", gofakeit.Number(100, 99999)),
		Password: string(hashedPassword),
		City:     gofakeit.City(),
		State:    gofakeit.StateAbr(),
		About:    gofakeit.Sentence(12),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePet persists a sample listing owned by the given shelter.
func (f *Factory) CreatePet(shelterID uint, overrides ...func(*models.Pet)) (*models.Pet, error) {
	species := models.PetSpecies[f.r.Intn(len(models.PetSpecies))]
	breeds := breedsBySpecies[species]
	if len(breeds) == 0 {
		breeds = breedsBySpecies["Other"]
	}

	pet := &models.Pet{
		ShelterID:      shelterID,
		Name:           petNames[f.r.Intn(len(petNames))],
		Species:        species,
		Age:            models.PetAges[f.r.Intn(len(models.PetAges))],
		Size:           models.PetSizes[f.r.Intn(len(models.PetSizes))],
		Breed:          breeds[f.r.Intn(len(breeds))],
		Color:          gofakeit.Color(),
		Location:       fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
		Description:    gofakeit.Paragraph(1, 3, 8, " "),
		MedicalHistory: gofakeit.Sentence(8),
		Photos: []string{
			fmt.Sprintf("https://picsum.photos/seed/%s/640/480", gofakeit.UUID()),
		},
	}
	for _, override := range overrides {
		override(pet)
	}

	if err := f.db.Create(pet).Error; err != nil {
		return nil, err
	}
	return pet, nil
}

// CreateApplication persists a sample application from an adopter for a pet.
func (f *Factory) CreateApplication(pet *models.Pet, applicantID uint) (*models.Application, error) {
	statuses := []string{
		models.StatusPending, models.StatusPending, models.StatusReviewing,
		models.StatusApproved, models.StatusRejected,
	}
	app := &models.Application{
		PetID:       pet.ID,
		ShelterID:   pet.ShelterID,
		ApplicantID: applicantID,
		About:       gofakeit.Paragraph(1, 2, 8, " "),
		Home:        gofakeit.RandomString([]string{"house", "apartment", "farm"}),
		HavePets:    gofakeit.Bool(),
		Status:      statuses[f.r.Intn(len(statuses))],
	}
	if err := f.db.Create(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

// CreateReview persists a sample review against a pet or shelter.
func (f *Factory) CreateReview(targetType string, targetID, authorID uint) (*models.Review, error) {
	review := &models.Review{
		TargetType: targetType,
		TargetID:   targetID,
		AuthorID:   authorID,
		Rating:     1 + f.r.Intn(5),
		Comment:    gofakeit.Sentence(10),
	}
	if err := f.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// CreateThread persists a conversation about a pet with a few messages
// alternating between the participants.
func (f *Factory) CreateThread(adopterID, shelterID uint, pet *models.Pet, messageCount int) error {
	if adopterID == shelterID {
		return nil
	}
	lo, hi := models.NormalizePair(adopterID, shelterID)
	thread := models.MessageThread{UserAID: lo, UserBID: hi, PetID: &pet.ID}

	err := f.db.Where(models.MessageThread{UserAID: lo, UserBID: hi, PetID: &pet.ID}).
		FirstOrCreate(&thread).Error
	if err != nil {
		return err
	}

	from := adopterID
	for i := 0; i < messageCount; i++ {
		msg := models.Message{
			ThreadID: thread.ID,
			FromID:   from,
			Text:     gofakeit.Sentence(6 + f.r.Intn(10)),
		}
		if err := f.db.Create(&msg).Error; err != nil {
			return err
		}
		if from == adopterID {
			from = shelterID
		} else {
			from = adopterID
		}
	}
	return nil
}
