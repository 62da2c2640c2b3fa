package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gym-service/internal/model"
	"gym-service/internal/validate"
	"gym-service/pkg/logger"
)

// DebugHandler backs the troubleshooting console. Its endpoints never
// mutate real data; the probe works on its own scratch table.
type DebugHandler struct {
	db *gorm.DB
}

func NewDebugHandler(db *gorm.DB) *DebugHandler {
	return &DebugHandler{db: db}
}

type probeStep struct {
	Step  string `json:"step"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Probe exercises the database round trip: write a scratch record, read
// it back, delete it. Each step reports independently so a partial
// failure still shows how far the probe got.
func (h *DebugHandler) Probe(c echo.Context) error {
	log := logger.FromContext(c)
	steps := make([]probeStep, 0, 3)

	record := model.TestRecord{
		ID:        uuid.New().String(),
		Message:   "connectivity probe",
		CreatedAt: time.Now(),
	}

	writeErr := h.db.Create(&record).Error
	steps = append(steps, step("write", writeErr))

	var readBack model.TestRecord
	readErr := h.db.First(&readBack, "id = ?", record.ID).Error
	steps = append(steps, step("read", readErr))

	deleteErr := h.db.Delete(&model.TestRecord{}, "id = ?", record.ID).Error
	steps = append(steps, step("delete", deleteErr))

	healthy := writeErr == nil && readErr == nil && deleteErr == nil
	if !healthy {
		log.Warn("Database probe failed",
			zap.NamedError("write", writeErr),
			zap.NamedError("read", readErr),
			zap.NamedError("delete", deleteErr))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"healthy": healthy,
		"steps":   steps,
	})
}

func step(name string, err error) probeStep {
	s := probeStep{Step: name, OK: err == nil}
	if err != nil {
		s.Error = err.Error()
	}
	return s
}

// CheckCredentials verifies an email/password pair against the stored
// account and reports the stored role. No token is issued; this exists so
// an operator can tell a bad password from a missing account.
func (h *DebugHandler) CheckCredentials(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if !validate.Required(req.Email, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please enter both email and password"})
	}

	var user model.User
	err := h.db.First(&user, "email = ?", req.Email).Error
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusOK, echo.Map{
			"found": false,
			"note":  "No account found with this email. Please register first.",
		})
	}
	if err != nil {
		logger.FromContext(c).Error("Credential check failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Credential check failed"})
	}

	match := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) == nil
	return c.JSON(http.StatusOK, echo.Map{
		"found":          true,
		"password_match": match,
		"role":           user.Role,
	})
}
