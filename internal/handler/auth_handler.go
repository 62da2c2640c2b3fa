package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gym-service/internal/model"
	"gym-service/internal/validate"
	"gym-service/pkg/jwtutil"
	"gym-service/pkg/logger"
	"gym-service/prometheus"
)

// AuthHandler owns registration, login and profile lookups.
type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

// Register creates an account. No token is issued; the caller is expected
// to log in afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if !validate.Required(req.Name, req.Email, req.Password, req.Role) {
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please fill in all fields"})
	}
	if !validate.MinLen(req.Password, 6) {
		prometheus.RecordAuthError("weak_password")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Password must be at least 6 characters"})
	}
	if !validate.Email(req.Email) {
		prometheus.RecordAuthError("invalid_email")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please enter a valid email address"})
	}
	role := model.Role(req.Role)
	if !role.Valid() {
		prometheus.RecordAuthError("invalid_role")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Role must be admin or member"})
	}

	// Uniqueness pre-check; the unique index on email is the backstop for
	// two registrations racing past this read.
	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		log.Error("User already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "This email is already registered. Please login instead."})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed. Please try again."})
	}

	now := time.Now()
	user := model.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         role,
		CreatedAt:    now,
		LastLogin:    now,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.Create(&user).Error; err != nil {
		log.Error("Failed to create user", zap.Error(err))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed. Please try again."})
	}

	log.Info("User registered", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Registration successful! You can now log in.",
		"user": echo.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Login verifies credentials and issues a JWT carrying the role claim.
// The lastLogin touch runs detached: it may complete after the response
// and its failure is logged and swallowed.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if !validate.Required(req.Email, req.Password) {
		prometheus.RecordAuthError("incomplete_login")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please enter both email and password"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		log.Error("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No account found with this email. Please register first."})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Incorrect password. Please try again."})
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.IncreaseActiveTokens()

	go func(id string) {
		err := h.db.Model(&model.User{}).Where("id = ?", id).
			Update("last_login", time.Now()).Error
		if err != nil {
			logger.GetLogger().Warn("Background lastLogin update failed",
				zap.String("user_id", id), zap.Error(err))
		}
	}(user.ID)

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Logout only releases the token gauge; tokens themselves stay valid
// until expiry.
func (h *AuthHandler) Logout(c echo.Context) error {
	prometheus.DecreaseActiveTokens()
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

// Profile returns the authenticated user's profile row, the data behind
// the home dispatcher. A missing row degrades to the token's email
// instead of failing the page.
func (h *AuthHandler) Profile(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := c.Get("user_id").(string)
	email, _ := c.Get("email").(string)

	var user model.User
	err := h.db.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn("User profile not found", zap.String("user_id", userID))
		return c.JSON(http.StatusOK, echo.Map{
			"user":    echo.Map{"id": userID, "name": email, "email": email},
			"warning": "User profile not found. Please contact administrator.",
		})
	}
	if err != nil {
		log.Error("Failed to load profile", zap.Error(err))
		prometheus.RecordStoreError("users")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading user data"})
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}
