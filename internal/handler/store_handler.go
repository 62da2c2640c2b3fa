package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gym-service/internal/listview"
	"gym-service/internal/model"
	"gym-service/internal/validate"
	"gym-service/pkg/logger"
	"gym-service/prometheus"
)

// StoreHandler owns the front-desk store catalog: a name-ordered
// paginated list plus create/delete. The store table has no search or
// status filter.
type StoreHandler struct {
	db   *gorm.DB
	list *listview.Controller[model.StoreItem]
}

func NewStoreHandler(db *gorm.DB) *StoreHandler {
	return &StoreHandler{
		db: db,
		list: listview.New(db, listview.Options[model.StoreItem]{
			OrderColumn: "name",
			Key: func(s model.StoreItem, column string) listview.Cursor {
				return listview.Cursor{Value: s.Name, ID: s.ID}
			},
		}),
	}
}

// StoreItemRequest carries the store item form fields; price and stock
// are coerced with default 0.
type StoreItemRequest struct {
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Stock       json.Number `json:"stock"`
	Description string      `json:"description"`
}

// List serves one page of store items. Query param: dir.
func (h *StoreHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	dir := listview.ParseDirection(c.QueryParam("dir"))
	prometheus.RecordListLoad("storeItems", string(dir))

	defer prometheus.TrackDBOperation("query")(time.Now())
	page, err := h.list.Load(c.Request().Context(), dir)
	if err != nil {
		log.Error("Error rendering store items", zap.Error(err))
		prometheus.RecordStoreError("storeItems")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading store items"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"rows": page.Rows,
		"page": page.Number,
	})
}

// Create adds a store item. Stock is stored as given; nothing rejects a
// negative value here.
func (h *StoreHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req StoreItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if !validate.Required(req.Name) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Item name required"})
	}

	item := model.StoreItem{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Price:       validate.NumberOr(req.Price.String(), 0),
		Stock:       validate.IntOr(req.Stock.String(), 0),
		Description: req.Description,
		CreatedAt:   time.Now(),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.Create(&item).Error; err != nil {
		log.Error("Failed to create store item", zap.Error(err))
		prometheus.RecordStoreError("storeItems")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add item"})
	}

	prometheus.RecordMutation("storeItems", "create")
	log.Info("Store item added", zap.String("item_id", item.ID), zap.String("name", item.Name))
	h.refresh()
	return c.JSON(http.StatusCreated, item)
}

// Delete removes a store item by id.
func (h *StoreHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := h.db.Delete(&model.StoreItem{}, "id = ?", id)
	if result.Error != nil {
		log.Error("Failed to delete store item", zap.String("item_id", id), zap.Error(result.Error))
		prometheus.RecordStoreError("storeItems")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Delete failed"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Item not found"})
	}

	prometheus.RecordMutation("storeItems", "delete")
	log.Info("Store item deleted", zap.String("item_id", id))
	h.refresh()
	return c.JSON(http.StatusOK, echo.Map{"message": "Item deleted successfully"})
}

func (h *StoreHandler) refresh() {
	go func() {
		if _, err := h.list.Load(context.Background(), listview.Initial); err != nil {
			logger.GetLogger().Warn("Background store refresh failed", zap.Error(err))
		}
	}()
}
