package server

import (
	"pawhaven/internal/middleware"
	"pawhaven/internal/models"
	"pawhaven/internal/repository"
	"pawhaven/internal/service"

	"github.com/gofiber/fiber/v2"
)

const maxPhotosPerRequest = 10

// ListPets handles GET /api/pets
// @Summary Browse pet listings
// @Description Filtered, paginated search over pet listings
// @Tags pets
// @Produce json
// @Param q query string false "Text search over name, breed, description"
// @Param species query string false "Species filter"
// @Param age query string false "Age group filter"
// @Param size query string false "Size filter"
// @Param location query string false "Location substring"
// @Param breed query string false "Breed substring"
// @Param shelter_id query int false "Limit to one shelter"
// @Param mine query bool false "Only the caller's listings (auth required)"
// @Param exclude_mine query bool false "Hide the caller's listings (auth required)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} service.PetPage
// @Router /pets [get]
func (s *Server) ListPets(c *fiber.Ctx) error {
	filter := repository.PetFilter{
		Text:     c.Query("q"),
		Species:  c.Query("species"),
		Age:      c.Query("age"),
		Size:     c.Query("size"),
		Location: c.Query("location"),
		Breed:    c.Query("breed"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 12),
	}
	if id := c.QueryInt("shelter_id", 0); id > 0 {
		filter.ShelterID = uint(id)
	}

	// mine/exclude_mine need an identity but the route stays public
	if c.QueryBool("mine", false) || c.QueryBool("exclude_mine", false) {
		userID, ok := s.optionalUserID(c)
		if !ok {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Authorization required"))
		}
		if c.QueryBool("mine", false) {
			filter.ShelterID = userID
		} else {
			filter.ExcludeShelterID = userID
		}
	}

	page, err := s.petService.List(c.UserContext(), filter)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(page)
}

// GetPet handles GET /api/pets/:id
// @Summary Pet detail
// @Tags pets
// @Produce json
// @Param id path int true "Pet ID"
// @Success 200 {object} models.Pet
// @Failure 404 {object} models.ErrorResponse
// @Router /pets/{id} [get]
func (s *Server) GetPet(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pet, err := s.petService.Get(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(pet)
}

// CreatePet handles POST /api/pets. Accepts either JSON or multipart
// form data; photos ride along as file parts named "photos".
// @Summary Publish a pet listing
// @Tags pets
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Pet
// @Failure 400 {object} models.ErrorResponse
// @Router /pets [post]
func (s *Server) CreatePet(c *fiber.Ctx) error {
	userID := currentUserID(c)

	in, ok := s.parsePetInput(c)
	if !ok {
		return nil
	}

	pet, err := s.petService.Create(c.UserContext(), userID, in)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pet)
}

// UpdatePet handles PUT /api/pets/:id
// @Summary Update a pet listing
// @Tags pets
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pet ID"
// @Success 200 {object} models.Pet
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /pets/{id} [put]
func (s *Server) UpdatePet(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	in, ok := s.parsePetInput(c)
	if !ok {
		return nil
	}

	pet, svcErr := s.petService.Update(c.UserContext(), id, userID, in)
	if svcErr != nil {
		return models.RespondWithError(c, svcErr)
	}
	return c.JSON(pet)
}

// DeletePet handles DELETE /api/pets/:id
// @Summary Remove a pet listing
// @Tags pets
// @Security BearerAuth
// @Param id path int true "Pet ID"
// @Success 200 {object} object{ok=bool}
// @Failure 403 {object} models.ErrorResponse
// @Router /pets/{id} [delete]
func (s *Server) DeletePet(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.petService.Delete(c.UserContext(), id, userID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// parsePetInput reads a pet payload from JSON or multipart form data
// and stores any uploaded photos. Returns ok=false after writing the
// error response itself.
func (s *Server) parsePetInput(c *fiber.Ctx) (service.PetInput, bool) {
	var in service.PetInput

	form, formErr := c.MultipartForm()
	if formErr != nil {
		// Plain JSON body
		if err := c.BodyParser(&in); err != nil {
			_ = models.RespondWithError(c,
				models.NewValidationError("Invalid request body"))
			return in, false
		}
		return in, true
	}

	value := func(key string) string {
		if vs := form.Value[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}
	in.Name = value("name")
	in.Species = value("species")
	in.Age = value("age")
	in.Size = value("size")
	in.Breed = value("breed")
	in.Color = value("color")
	in.Location = value("location")
	in.Description = value("description")
	in.MedicalHistory = value("medical_history")

	files := form.File["photos"]
	if len(files) > maxPhotosPerRequest {
		_ = models.RespondWithError(c,
			models.NewValidationError("Too many photos"))
		return in, false
	}
	for _, file := range files {
		uri, err := s.store.Save(file)
		if err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "photo upload rejected",
				"filename", file.Filename, "error", err)
			_ = models.RespondWithError(c,
				models.NewValidationError("Invalid photo upload"))
			return in, false
		}
		in.Photos = append(in.Photos, uri)
	}
	return in, true
}
