package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gym-service/internal/model"
	"gym-service/internal/validate"
	"gym-service/pkg/logger"
	"gym-service/prometheus"
)

// NotificationHandler owns announcement broadcast.
type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

// Send stores a notification for the portal to pick up.
func (h *NotificationHandler) Send(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Target  string `json:"target"`
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if !validate.Required(req.Message) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Enter message"})
	}

	target := model.NotificationTarget(req.Target)
	if req.Target == "" {
		target = model.TargetAll
	} else if !target.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unknown notification target"})
	}

	note := model.Notification{
		ID:        uuid.New().String(),
		Target:    target,
		Message:   req.Message,
		CreatedAt: time.Now(),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.Create(&note).Error; err != nil {
		log.Error("Failed to send notification", zap.Error(err))
		prometheus.RecordStoreError("notifications")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to send notification"})
	}

	prometheus.RecordMutation("notifications", "create")
	log.Info("Notification sent", zap.String("target", string(note.Target)))
	return c.JSON(http.StatusCreated, echo.Map{"message": "Notification sent successfully"})
}
