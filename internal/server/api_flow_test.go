package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pawhaven/internal/config"
	"pawhaven/internal/database"
	"pawhaven/internal/mail"
	"pawhaven/internal/models"
	"pawhaven/internal/service"
	"pawhaven/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestApp wires a full server against an in-memory database, a
// temp-dir photo store and a no-op mailer. No Redis: caching, logout
// blacklisting and per-route rate limits all degrade gracefully.
func setupTestApp(t *testing.T) (*fiber.App, *Server) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	store, err := storage.NewDisk(t.TempDir(), "/uploads")
	require.NoError(t, err)

	cfg := &config.Config{
		Port:      "8080",
		Env:       "test",
		JWTSecret: "integration-test-secret-integration-test",
		UploadDir: store.Root,
	}

	s, err := NewServerWithDeps(cfg, db, nil, store, mail.NoopMailer{})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, err)
		},
	})
	s.SetupRoutes(app)
	return app, s
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

type authResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

func registerAccount(t *testing.T, app *fiber.App, role, name, email string) authResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"role":     role,
		"name":     name,
		"email":    email,
		"password": "Password123!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[authResponse](t, resp)
}

func TestAdoptionFlow(t *testing.T) {
	app, _ := setupTestApp(t)

	shelter := registerAccount(t, app, "shelter", "Sunny Paws Rescue", "sunny@example.com")
	adopter := registerAccount(t, app, "adopter", "Jane Adopter", "jane@example.com")

	var petID uint
	t.Run("shelter publishes a listing", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/pets/", shelter.Token, map[string]any{
			"name":        "Biscuit",
			"species":     "Dog",
			"age":         "Young",
			"size":        "Medium",
			"breed":       "Beagle",
			"location":    "Portland, OR",
			"description": "A cheerful beagle who loves long walks.",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		pet := decodeBody[models.Pet](t, resp)
		assert.Equal(t, "Biscuit", pet.Name)
		assert.Equal(t, shelter.User.ID, pet.ShelterID)
		petID = pet.ID
	})

	t.Run("adopters cannot publish listings", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/pets/", adopter.Token, map[string]any{
			"name":    "Impostor",
			"species": "Dog",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("search finds the listing", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/pets/?species=Dog&q=cheerful", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		page := decodeBody[service.PetPage](t, resp)
		require.Len(t, page.Items, 1)
		assert.Equal(t, petID, page.Items[0].ID)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("search misses with the wrong species", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/pets/?species=Cat", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		page := decodeBody[service.PetPage](t, resp)
		assert.Empty(t, page.Items)
	})

	var appID uint
	t.Run("adopter applies", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/applications/", adopter.Token, map[string]any{
			"pet_id":    petID,
			"about":     "Lifelong dog person.",
			"home":      "House with a fenced yard",
			"have_pets": false,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		application := decodeBody[models.Application](t, resp)
		assert.Equal(t, models.StatusPending, application.Status)
		assert.Equal(t, shelter.User.ID, application.ShelterID)
		assert.Equal(t, adopter.User.ID, application.ApplicantID)
		appID = application.ID
	})

	t.Run("shelter sees the received application", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/applications/received", shelter.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		received := decodeBody[[]models.Application](t, resp)
		require.Len(t, received, 1)
		assert.Equal(t, appID, received[0].ID)
		require.NotNil(t, received[0].Applicant)
		assert.Equal(t, "Jane Adopter", received[0].Applicant.Name)
	})

	t.Run("adopters cannot read received applications", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/applications/received", adopter.Token, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("only the receiving shelter updates status", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/applications/%d", appID), adopter.Token, map[string]string{
			"status": models.StatusApproved,
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("shelter approves", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/applications/%d", appID), shelter.Token, map[string]string{
			"status": models.StatusApproved,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		application := decodeBody[models.Application](t, resp)
		assert.Equal(t, models.StatusApproved, application.Status)
	})

	t.Run("adopter sees the decision", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/applications/mine", adopter.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		mine := decodeBody[[]models.Application](t, resp)
		require.Len(t, mine, 1)
		assert.Equal(t, models.StatusApproved, mine[0].Status)
	})

	t.Run("favorites toggle on and off", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/favorites/%d", petID), adopter.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		toggled := decodeBody[map[string]any](t, resp)
		assert.Equal(t, true, toggled["favorited"])

		resp = doJSON(t, app, http.MethodGet, "/api/favorites/", adopter.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		favorites := decodeBody[[]models.Pet](t, resp)
		require.Len(t, favorites, 1)
		assert.Equal(t, petID, favorites[0].ID)

		resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/favorites/%d", petID), adopter.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		toggled = decodeBody[map[string]any](t, resp)
		assert.Equal(t, false, toggled["favorited"])
	})

	t.Run("messaging creates a thread on first contact", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/messages/", adopter.Token, map[string]any{
			"to_user_id": shelter.User.ID,
			"pet_id":     petID,
			"text":       "Is Biscuit good with kids?",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()

		resp = doJSON(t, app, http.MethodGet, "/api/messages/", shelter.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		threads := decodeBody[[]service.ThreadView](t, resp)
		require.Len(t, threads, 1)
		require.NotNil(t, threads[0].OtherParty)
		assert.Equal(t, adopter.User.ID, threads[0].OtherParty.ID)
		require.NotNil(t, threads[0].LastMessage)
		assert.Equal(t, "Is Biscuit good with kids?", threads[0].LastMessage.Text)

		// A third account sees no threads.
		other := registerAccount(t, app, "adopter", "Sam Bystander", "sam@example.com")
		resp = doJSON(t, app, http.MethodGet, "/api/messages/", other.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, decodeBody[[]service.ThreadView](t, resp))
	})

	t.Run("reviews attach to the shelter", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/reviews", adopter.Token, map[string]any{
			"target_type": models.ReviewTargetShelter,
			"target_id":   shelter.User.ID,
			"rating":      5,
			"comment":     "Wonderful to work with.",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()

		resp = doJSON(t, app, http.MethodGet,
			fmt.Sprintf("/api/reviews?target_type=shelter&target_id=%d", shelter.User.ID), "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		reviews := decodeBody[[]models.Review](t, resp)
		require.Len(t, reviews, 1)
		assert.Equal(t, 5, reviews[0].Rating)
	})

	t.Run("shelter profile lists its pets", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/shelters/%d", shelter.User.ID), "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		profile := decodeBody[service.ShelterProfile](t, resp)
		assert.Equal(t, "Sunny Paws Rescue", profile.Shelter.Name)
		require.Len(t, profile.Pets, 1)
		assert.Equal(t, petID, profile.Pets[0].ID)
	})

	t.Run("unauthenticated requests are rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/applications/mine", "", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown routes return a uniform 404", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/nope", "", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeBody[map[string]string](t, resp)
		assert.Equal(t, "Not found", body["message"])
	})
}
