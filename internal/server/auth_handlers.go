// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"pawhaven/internal/mail"
	"pawhaven/internal/models"
	"pawhaven/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const resetOTPTTL = 10 * time.Minute

// Register handles POST /api/auth/register
// @Summary Account registration
// @Description Register a new adopter or shelter account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{role=string,name=string,email=string,password=string} true "Registration request"
// @Success 201 {object} object{token=string,user=models.PublicUser}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Role     string `json:"role"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		City     string `json:"city"`
		State    string `json:"state"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.Name(req.Name); err != nil {
		return models.RespondWithError(c, err)
	}
	if err := validation.Email(req.Email); err != nil {
		return models.RespondWithError(c, err)
	}
	if err := validation.Password(req.Password); err != nil {
		return models.RespondWithError(c, err)
	}
	if req.Role == "" {
		req.Role = models.RoleAdopter
	}
	if err := validation.Role(req.Role); err != nil {
		return models.RespondWithError(c, err)
	}

	// Check if the email is already registered
	existing, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if existing != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Email already in use"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Role:     req.Role,
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashedPassword),
		City:     req.City,
		State:    req.State,
	}
	if createErr := s.userRepo.Create(c.Context(), user); createErr != nil {
		return models.RespondWithError(c, createErr)
	}

	token, err := s.generateToken(user.ID, user.Role, user.Name)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user.Public(),
	})
}

// Login handles POST /api/auth/login
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} object{token=string,user=models.PublicUser}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(user.ID, user.Role, user.Name)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.Public(),
	})
}

// Me handles GET /api/auth/me
// @Summary Current account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{user=models.PublicUser}
// @Router /auth/me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"user": user.Public()})
}

// Logout handles POST /api/auth/logout. The token's JTI is
// blacklisted in Redis until the token would have expired anyway.
// Without Redis, logout is client-side only.
func (s *Server) Logout(c *fiber.Ctx) error {
	if s.redis != nil {
		if jti, ttl, ok := s.tokenJTI(c); ok {
			s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl)
		}
	}
	return c.JSON(fiber.Map{"ok": true})
}

// ForgotPassword handles POST /api/auth/forgot. Always answers 200 so
// account existence does not leak; the OTP only goes out by email.
// @Summary Request a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string} true "Account email"
// @Success 200 {object} object{sent=bool,masked_email=string}
// @Router /auth/forgot [post]
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.Email(req.Email); err != nil {
		return models.RespondWithError(c, err)
	}

	masked := maskEmail(req.Email)

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil || user == nil {
		return c.JSON(fiber.Map{"sent": true, "masked_email": masked})
	}

	otp := generateOTP()
	expires := time.Now().Add(resetOTPTTL)
	user.ResetOTP = otp
	user.ResetOTPExpires = &expires
	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return models.RespondWithError(c, err)
	}

	email := user.Email
	s.dispatch(func(ctx context.Context) {
		body := fmt.Sprintf("<p>Your password reset code is <strong>%s</strong>. It expires in 10 minutes.</p>", otp)
		mail.SendBestEffort(ctx, s.mailer, email, "Password reset code", body)
	})

	return c.JSON(fiber.Map{"sent": true, "masked_email": masked})
}

// ResetPassword handles POST /api/auth/reset
// @Summary Reset password with an emailed code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,otp=string,password=string} true "Reset request"
// @Success 200 {object} object{ok=bool}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/reset [post]
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		OTP      string `json:"otp"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.Password(req.Password); err != nil {
		return models.RespondWithError(c, err)
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if user == nil || user.ResetOTP == "" || user.ResetOTP != strings.TrimSpace(req.OTP) {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid or expired code"))
	}
	if user.ResetOTPExpires == nil || time.Now().After(*user.ResetOTPExpires) {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid or expired code"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	user.Password = string(hashedPassword)
	user.ResetOTP = ""
	user.ResetOTPExpires = nil
	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// generateToken creates a JWT token for the given user
func (s *Server) generateToken(userID uint, role, name string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(userID), 10), // Subject (user ID as string)
		"role": role,                                   // Account role (cached in token)
		"name": name,                                   // Display name (cached in token)
		"iss":  "pawhaven-api",                         // Issuer
		"aud":  "pawhaven-client",                      // Audience
		"exp":  now.Add(s.config.TokenTTL()).Unix(),    // Expiration
		"iat":  now.Unix(),                             // Issued at
		"nbf":  now.Unix(),                             // Not before
		"jti":  s.generateJTI(),                        // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// tokenJTI extracts the jti claim and remaining lifetime of the
// request's token.
func (s *Server) tokenJTI(c *fiber.Ctx) (string, time.Duration, bool) {
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", 0, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", 0, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", 0, false
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return "", 0, false
	}

	ttl := s.config.TokenTTL()
	if exp, expOk := claims["exp"].(float64); expOk {
		if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
			ttl = remaining
		}
	}
	return jti, ttl, true
}

// generateOTP returns a 6-digit numeric reset code.
func generateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand failing means the platform is broken; fall back
		// to a time-derived code rather than crash the reset flow.
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

// maskEmail hides most of the local part: jane.doe@example.com -> j******@example.com
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 {
		return email
	}
	return email[:1] + strings.Repeat("*", at-1) + email[at:]
}
