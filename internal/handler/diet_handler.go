package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gym-service/internal/model"
	"gym-service/internal/validate"
	"gym-service/pkg/logger"
	"gym-service/prometheus"
)

// DietHandler owns diet plan assignment. A member has at most one plan;
// saving overwrites whatever was there.
type DietHandler struct {
	db *gorm.DB
}

func NewDietHandler(db *gorm.DB) *DietHandler {
	return &DietHandler{db: db}
}

// Save upserts the plan for a member.
func (h *DietHandler) Save(c echo.Context) error {
	log := logger.FromContext(c)
	memberID := c.Param("memberId")

	var req struct {
		Plan string `json:"plan"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if !validate.Required(memberID, req.Plan) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Member ID and plan required"})
	}

	diet := model.DietPlan{
		MemberID:  memberID,
		Plan:      req.Plan,
		UpdatedAt: time.Now(),
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}},
		UpdateAll: true,
	}).Create(&diet).Error
	if err != nil {
		log.Error("Failed to save diet plan", zap.String("member_id", memberID), zap.Error(err))
		prometheus.RecordStoreError("diets")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save diet plan"})
	}

	prometheus.RecordMutation("diets", "save")
	log.Info("Diet plan saved", zap.String("member_id", memberID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Diet plan saved successfully"})
}

// Get returns the plan assigned to a member, if any.
func (h *DietHandler) Get(c echo.Context) error {
	memberID := c.Param("memberId")

	var diet model.DietPlan
	err := h.db.First(&diet, "member_id = ?", memberID).Error
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusOK, echo.Map{"plan": nil})
	}
	if err != nil {
		logger.FromContext(c).Error("Error loading diet plan", zap.Error(err))
		prometheus.RecordStoreError("diets")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading diet plan"})
	}
	return c.JSON(http.StatusOK, diet)
}
