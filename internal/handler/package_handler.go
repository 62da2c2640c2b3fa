package handler

import (
	"encoding/json"
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

// PackageHandler owns the membership plan catalog. Packages are few, so
// the list is a plain name-ordered fetch with no pagination.
type PackageHandler struct {
	db *gorm.DB
}

func NewPackageHandler(db *gorm.DB) *PackageHandler {
	return &PackageHandler{db: db}
}

// PackageRequest carries the raw package form fields. Price and duration
// arrive as strings and are coerced with the form's defaults (0 and 1).
type PackageRequest struct {
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Duration    json.Number `json:"duration_months"`
	Description string      `json:"description"`
}

// List returns every package ordered by name, the data source for the
// package dropdowns.
func (h *PackageHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	var packages []model.Package
	err := h.db.WithContext(c.Request().Context()).Order("name ASC").Find(&packages).Error
	if err != nil {
		log.Error("Error loading packages", zap.Error(err))
		prometheus.RecordStoreError("packages")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading packages"})
	}
	return c.JSON(http.StatusOK, packages)
}

// Create adds a package.
func (h *PackageHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req PackageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if !validate.Required(req.Name) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Package name required"})
	}

	pkg := model.Package{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Price:          validate.NumberOr(req.Price.String(), 0),
		DurationMonths: validate.IntOr(req.Duration.String(), 1),
		Description:    req.Description,
		CreatedAt:      time.Now(),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.Create(&pkg).Error; err != nil {
		log.Error("Failed to create package", zap.Error(err))
		prometheus.RecordStoreError("packages")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add package"})
	}

	prometheus.RecordMutation("packages", "create")
	log.Info("Package added", zap.String("package_id", pkg.ID), zap.String("name", pkg.Name))
	return c.JSON(http.StatusCreated, pkg)
}

// Delete removes a package by id. Members still pointing at it keep
// their dangling reference; the tables render it as "-".
func (h *PackageHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := h.db.Delete(&model.Package{}, "id = ?", id)
	if result.Error != nil {
		log.Error("Failed to delete package", zap.String("package_id", id), zap.Error(result.Error))
		prometheus.RecordStoreError("packages")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Delete failed"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Package not found"})
	}

	prometheus.RecordMutation("packages", "delete")
	log.Info("Package deleted", zap.String("package_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Package deleted successfully"})
}
