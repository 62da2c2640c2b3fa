package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gym-service/internal/model"
	"gym-service/pkg/logger"
	"gym-service/prometheus"
)

// DashboardHandler serves the admin landing stats.
type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Stats returns the headline counts plus paid revenue. The four queries
// run concurrently; a failure in any one fails the whole response.
func (h *DashboardHandler) Stats(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	var (
		members, bills, items int64
		revenue               float64
		errs                  [4]error
		wg                    sync.WaitGroup
	)

	defer prometheus.TrackDBOperation("query")(time.Now())

	wg.Add(4)
	go func() {
		defer wg.Done()
		errs[0] = h.db.WithContext(ctx).Model(&model.Member{}).Count(&members).Error
	}()
	go func() {
		defer wg.Done()
		errs[1] = h.db.WithContext(ctx).Model(&model.Bill{}).Count(&bills).Error
	}()
	go func() {
		defer wg.Done()
		errs[2] = h.db.WithContext(ctx).Model(&model.StoreItem{}).Count(&items).Error
	}()
	go func() {
		defer wg.Done()
		errs[3] = h.db.WithContext(ctx).Model(&model.Bill{}).
			Where("status = ?", model.BillPaid).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&revenue).Error
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			log.Error("Error loading dashboard stats", zap.Error(err))
			prometheus.RecordStoreError("dashboard")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading dashboard stats"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total_members":     members,
		"total_bills":       bills,
		"total_store_items": items,
		"revenue":           revenue,
	})
}
