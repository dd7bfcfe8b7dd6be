package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pawhaven/internal/config"
	"pawhaven/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test_secret"}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(m *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"name":     "Jane Adopter",
				"email":    "jane@example.com",
				"password": "Password123!",
			},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "jane@example.com").Return(nil, nil)
				m.On("Create", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
					args.Get(1).(*models.User).ID = 1
				})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate email",
			body: map[string]string{
				"name":     "Jane Adopter",
				"email":    "exists@example.com",
				"password": "Password123!",
			},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "exists@example.com").Return(&models.User{ID: 1}, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Invalid email",
			body: map[string]string{
				"name":     "Jane Adopter",
				"email":    "not-an-email",
				"password": "Password123!",
			},
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Short password",
			body: map[string]string{
				"name":     "Jane Adopter",
				"email":    "jane@example.com",
				"password": "abc",
			},
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Unknown role",
			body: map[string]string{
				"role":     "admin",
				"name":     "Jane Adopter",
				"email":    "jane@example.com",
				"password": "Password123!",
			},
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			s := &Server{config: testConfig(), userRepo: mockRepo}
			app.Post("/register", s.Register)

			tt.mockSetup(mockRepo)
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestRegister_ReturnsTokenAndProjection(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockUserRepository)
	s := &Server{config: testConfig(), userRepo: mockRepo}
	app.Post("/register", s.Register)

	mockRepo.On("GetByEmail", mock.Anything, "sunny@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = 7
	})

	body, _ := json.Marshal(map[string]string{
		"role":     "shelter",
		"name":     "Sunny Paws Rescue",
		"email":    "sunny@example.com",
		"password": "Password123!",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var parsed struct {
		Token string            `json:"token"`
		User  models.PublicUser `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.NotEmpty(t, parsed.Token)
	assert.Equal(t, uint(7), parsed.User.ID)
	assert.Equal(t, models.RoleShelter, parsed.User.Role)

	// The issued token should authenticate against the same server.
	id, ok := s.validateToken(context.Background(), parsed.Token)
	assert.True(t, ok)
	assert.Equal(t, uint(7), id)
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.User{
		ID:       3,
		Role:     models.RoleAdopter,
		Name:     "Jane Adopter",
		Email:    "jane@example.com",
		Password: string(hashed),
	}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(m *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"email": "jane@example.com", "password": "Password123!"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "jane@example.com").Return(account, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Wrong password",
			body: map[string]string{"email": "jane@example.com", "password": "nope"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "jane@example.com").Return(account, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Unknown email",
			body: map[string]string{"email": "ghost@example.com", "password": "Password123!"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			s := &Server{config: testConfig(), userRepo: mockRepo}
			app.Post("/login", s.Login)

			tt.mockSetup(mockRepo)
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestForgotPassword_NeverLeaksExistence(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockUserRepository)
	s := &Server{config: testConfig(), userRepo: mockRepo}
	app.Post("/forgot", s.ForgotPassword)

	mockRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

	body, _ := json.Marshal(map[string]string{"email": "ghost@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/forgot", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, true, parsed["sent"])
	assert.Equal(t, "g****@example.com", parsed["masked_email"])
}

func TestValidateToken(t *testing.T) {
	s := &Server{config: testConfig()}

	token, err := s.generateToken(42, models.RoleAdopter, "Jane")
	require.NoError(t, err)

	id, ok := s.validateToken(context.Background(), token)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	_, ok = s.validateToken(context.Background(), "invalid.token.here")
	assert.False(t, ok)

	// A token signed with a different secret must be rejected.
	other := &Server{config: &config.Config{JWTSecret: "other_secret"}}
	otherToken, err := other.generateToken(42, models.RoleAdopter, "Jane")
	require.NoError(t, err)
	_, ok = s.validateToken(context.Background(), otherToken)
	assert.False(t, ok)
}
