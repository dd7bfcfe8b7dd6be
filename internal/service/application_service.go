package service

import (
	"context"
	"fmt"

	"pawhaven/internal/mail"
	"pawhaven/internal/models"
	"pawhaven/internal/repository"
)

// ApplicationInput carries the applicant-supplied fields of an
// adoption application.
type ApplicationInput struct {
	About    string `json:"about"`
	Home     string `json:"home"`
	HavePets bool   `json:"have_pets"`
}

// ApplicationService owns the adoption application lifecycle.
type ApplicationService struct {
	apps   repository.ApplicationRepository
	pets   repository.PetRepository
	users  repository.UserRepository
	sink   EventSink
	mailer mail.Mailer
}

// NewApplicationService returns a new ApplicationService.
func NewApplicationService(
	apps repository.ApplicationRepository,
	pets repository.PetRepository,
	users repository.UserRepository,
	sink EventSink,
	mailer mail.Mailer,
) *ApplicationService {
	return &ApplicationService{apps: apps, pets: pets, users: users, sink: sink, mailer: mailer}
}

// Create files an application for a pet. The pet's current shelter is
// snapshotted onto the application so later ownership changes do not
// reroute it. The shelter is notified by email and realtime event, the
// applicant gets a realtime confirmation.
func (s *ApplicationService) Create(ctx context.Context, petID, applicantID uint, in ApplicationInput) (*models.Application, Followup, error) {
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, nil, err
	}

	app := &models.Application{
		PetID:       pet.ID,
		ShelterID:   pet.ShelterID,
		ApplicantID: applicantID,
		About:       in.About,
		Home:        in.Home,
		HavePets:    in.HavePets,
		Status:      models.StatusPending,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, nil, err
	}

	stored, err := s.apps.GetByID(ctx, app.ID)
	if err != nil {
		return nil, nil, err
	}

	shelterID := stored.ShelterID
	applicant := stored.Applicant
	petName := pet.Name
	followup := func(ctx context.Context) {
		s.sink.EmitToUser(shelterID, EventApplicationNew, stored)
		s.sink.EmitToUser(applicantID, EventApplicationCreated, stored)

		shelter, err := s.users.GetByID(ctx, shelterID)
		if err != nil || shelter == nil {
			return
		}
		applicantName := ""
		if applicant != nil {
			applicantName = applicant.Name
		}
		subject := fmt.Sprintf("New adoption application for %s", petName)
		body := fmt.Sprintf("<p>%s has applied to adopt <strong>%s</strong>.</p>", applicantName, petName)
		mail.SendBestEffort(ctx, s.mailer, shelter.Email, subject, body)
	}
	return stored, followup, nil
}

// ListMine returns the applications the user has filed.
func (s *ApplicationService) ListMine(ctx context.Context, applicantID uint) ([]models.Application, error) {
	return s.apps.ListByApplicant(ctx, applicantID)
}

// ListReceived returns the applications filed against the shelter's pets.
func (s *ApplicationService) ListReceived(ctx context.Context, shelterID uint) ([]models.Application, error) {
	return s.apps.ListByShelter(ctx, shelterID)
}

// UpdateStatus moves an application to a new status. Only the
// snapshotted shelter owner may update it. Both parties receive a
// realtime update and the applicant is emailed.
func (s *ApplicationService) UpdateStatus(ctx context.Context, appID, callerID uint, status string) (*models.Application, Followup, error) {
	if !models.ValidStatus(status) {
		return nil, nil, models.NewValidationError("Invalid status")
	}

	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return nil, nil, err
	}
	if app.ShelterID != callerID {
		return nil, nil, models.NewForbiddenError("Only the receiving shelter can update this application")
	}

	app.Status = status
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, nil, err
	}

	payload := map[string]any{"id": app.ID, "status": app.Status}
	applicantEmail := ""
	if app.Applicant != nil {
		applicantEmail = app.Applicant.Email
	}
	petName := ""
	if app.Pet != nil {
		petName = app.Pet.Name
	}
	followup := func(ctx context.Context) {
		s.sink.EmitToUser(app.ApplicantID, EventApplicationUpdated, payload)
		s.sink.EmitToUser(app.ShelterID, EventApplicationUpdated, payload)

		if applicantEmail == "" {
			return
		}
		subject := fmt.Sprintf("Your application for %s was updated", petName)
		body := fmt.Sprintf("<p>Your adoption application for <strong>%s</strong> is now <strong>%s</strong>.</p>", petName, status)
		mail.SendBestEffort(ctx, s.mailer, applicantEmail, subject, body)
	}
	return app, followup, nil
}

// Remove hard-deletes an application. Either party may remove it.
func (s *ApplicationService) Remove(ctx context.Context, appID, callerID uint) (Followup, error) {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != callerID && app.ShelterID != callerID {
		return nil, models.NewForbiddenError("Only a participant can remove this application")
	}

	if err := s.apps.Delete(ctx, app); err != nil {
		return nil, err
	}

	payload := map[string]any{"id": app.ID}
	followup := func(ctx context.Context) {
		s.sink.EmitToUser(app.ApplicantID, EventApplicationRemoved, payload)
		s.sink.EmitToUser(app.ShelterID, EventApplicationRemoved, payload)
	}
	return followup, nil
}
