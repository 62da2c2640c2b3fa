package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gym-service/internal/export"
	"gym-service/internal/model"
	"gym-service/pkg/logger"
	"gym-service/prometheus"
)

// ExportHandler streams whole collections as CSV downloads. Each export
// reads the full table; an empty collection still produces the header row.
type ExportHandler struct {
	db *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{db: db}
}

func (h *ExportHandler) serve(c echo.Context, filename string, header []string, rows [][]string) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)
	return export.WriteRows(c.Response(), header, rows)
}

// Members exports every member with its package name resolved; a missing
// or dangling package reference renders as "-".
func (h *ExportHandler) Members(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	defer prometheus.TrackDBOperation("query")(time.Now())
	var members []model.Member
	if err := h.db.WithContext(ctx).Order("name ASC").Find(&members).Error; err != nil {
		log.Error("Error exporting members", zap.Error(err))
		prometheus.RecordStoreError("members")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error exporting members"})
	}

	var packages []model.Package
	if err := h.db.WithContext(ctx).Find(&packages).Error; err != nil {
		log.Error("Error exporting members", zap.Error(err))
		prometheus.RecordStoreError("members")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error exporting members"})
	}
	packageNames := make(map[string]string, len(packages))
	for _, p := range packages {
		packageNames[p.ID] = p.Name
	}

	rows := make([][]string, 0, len(members))
	for _, m := range members {
		pkg := packageNames[m.PackageID]
		if pkg == "" {
			pkg = "-"
		}
		rows = append(rows, []string{
			m.ID, m.Name, m.Email, m.Phone, m.JoinDate, pkg, string(m.Status),
		})
	}

	prometheus.RecordExport("members")
	return h.serve(c, "members.csv",
		[]string{"ID", "Name", "Email", "Phone", "Join Date", "Package", "Status"}, rows)
}

// Bills exports every bill, newest first.
func (h *ExportHandler) Bills(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var bills []model.Bill
	if err := h.db.WithContext(c.Request().Context()).Order("date DESC").Find(&bills).Error; err != nil {
		log.Error("Error exporting bills", zap.Error(err))
		prometheus.RecordStoreError("bills")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error exporting bills"})
	}

	rows := make([][]string, 0, len(bills))
	for _, b := range bills {
		receipt := b.ReceiptNo
		if receipt == "" {
			receipt = "-"
		}
		rows = append(rows, []string{
			b.ID, b.MemberID, formatAmount(b.Amount), string(b.Status),
			receipt, b.Date.Format("2006-01-02"),
		})
	}

	prometheus.RecordExport("bills")
	return h.serve(c, "bills.csv",
		[]string{"ID", "Member ID", "Amount", "Status", "Receipt", "Date"}, rows)
}

// Packages exports the plan catalog.
func (h *ExportHandler) Packages(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var packages []model.Package
	if err := h.db.WithContext(c.Request().Context()).Order("name ASC").Find(&packages).Error; err != nil {
		log.Error("Error exporting packages", zap.Error(err))
		prometheus.RecordStoreError("packages")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error exporting packages"})
	}

	rows := make([][]string, 0, len(packages))
	for _, p := range packages {
		rows = append(rows, []string{
			p.ID, p.Name, formatAmount(p.Price), strconv.Itoa(p.DurationMonths), p.Description,
		})
	}

	prometheus.RecordExport("packages")
	return h.serve(c, "packages.csv",
		[]string{"ID", "Name", "Price", "Duration (months)", "Description"}, rows)
}

// StoreItems exports the store catalog.
func (h *ExportHandler) StoreItems(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var items []model.StoreItem
	if err := h.db.WithContext(c.Request().Context()).Order("name ASC").Find(&items).Error; err != nil {
		log.Error("Error exporting store items", zap.Error(err))
		prometheus.RecordStoreError("storeItems")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error exporting store items"})
	}

	rows := make([][]string, 0, len(items))
	for _, s := range items {
		rows = append(rows, []string{
			s.ID, s.Name, formatAmount(s.Price), strconv.Itoa(s.Stock), s.Description,
		})
	}

	prometheus.RecordExport("storeItems")
	return h.serve(c, "store_items.csv",
		[]string{"ID", "Name", "Price", "Stock", "Description"}, rows)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
