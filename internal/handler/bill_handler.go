package handler

import (
	"context"
	"net/http"
	"strings"
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

// BillHandler owns the billing table. Bills page newest-first; their
// search is a substring match applied to the fetched page only (id,
// member id and receipt number), unlike the indexed prefix search on
// members.
type BillHandler struct {
	db   *gorm.DB
	list *listview.Controller[model.Bill]
}

func NewBillHandler(db *gorm.DB) *BillHandler {
	return &BillHandler{
		db: db,
		list: listview.New(db, listview.Options[model.Bill]{
			OrderColumn: "date",
			OrderDesc:   true,
			Key: func(b model.Bill, column string) listview.Cursor {
				return listview.Cursor{Value: b.Date, ID: b.ID}
			},
			Status: func(b model.Bill) string { return string(b.Status) },
		}),
	}
}

// BillRequest carries the bill form fields.
type BillRequest struct {
	MemberID  string  `json:"member_id"`
	Amount    float64 `json:"amount"`
	ReceiptNo string  `json:"receipt_no"`
	Status    string  `json:"status"`
}

// List serves one page of bills. Query params: dir, search, status.
func (h *BillHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	dir := listview.ParseDirection(c.QueryParam("dir"))
	search := strings.ToLower(strings.TrimSpace(c.QueryParam("search")))
	h.list.SetStatus(c.QueryParam("status"))
	prometheus.RecordListLoad("bills", string(dir))

	defer prometheus.TrackDBOperation("query")(time.Now())
	page, err := h.list.Load(c.Request().Context(), dir)
	if err != nil {
		log.Error("Error rendering bills", zap.Error(err))
		prometheus.RecordStoreError("bills")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading bills"})
	}

	rows := page.Rows
	if search != "" {
		matched := rows[:0]
		for _, b := range rows {
			if billMatches(b, search) {
				matched = append(matched, b)
			}
		}
		rows = matched
	}

	return c.JSON(http.StatusOK, echo.Map{
		"rows":    rows,
		"page":    page.Number,
		"fetched": page.Fetched,
	})
}

func billMatches(b model.Bill, term string) bool {
	receipt := b.ReceiptNo
	if receipt == "" {
		receipt = "-"
	}
	return strings.Contains(strings.ToLower(b.ID), term) ||
		strings.Contains(strings.ToLower(b.MemberID), term) ||
		strings.Contains(strings.ToLower(receipt), term)
}

// Create validates the bill form, pre-checks receipt uniqueness and
// writes the bill. The amount check runs before any database work.
func (h *BillHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req BillRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if !validate.Required(req.MemberID) || req.Amount == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Member ID and amount required"})
	}
	if !validate.PositiveAmount(req.Amount) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Amount must be greater than 0"})
	}

	status := model.BillStatus(req.Status)
	if req.Status == "" {
		status = model.BillPaid
	} else if !status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unknown bill status"})
	}

	if req.ReceiptNo != "" {
		defer prometheus.TrackDBOperation("query")(time.Now())
		var count int64
		h.db.Model(&model.Bill{}).Where("receipt_no = ?", req.ReceiptNo).Count(&count)
		if count > 0 {
			log.Warn("Duplicate receipt number", zap.String("receipt_no", req.ReceiptNo))
			return c.JSON(http.StatusConflict, echo.Map{"error": "Receipt number already exists"})
		}
	}

	bill := model.Bill{
		ID:        uuid.New().String(),
		MemberID:  req.MemberID,
		Amount:    req.Amount,
		Status:    status,
		ReceiptNo: req.ReceiptNo,
		Date:      time.Now(),
		CreatedAt: time.Now(),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.Create(&bill).Error; err != nil {
		log.Error("Failed to create bill", zap.Error(err))
		prometheus.RecordStoreError("bills")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create bill"})
	}

	prometheus.RecordMutation("bills", "create")
	log.Info("Bill created",
		zap.String("bill_id", bill.ID),
		zap.String("member_id", bill.MemberID),
		zap.Float64("amount", bill.Amount))
	h.refresh()
	return c.JSON(http.StatusCreated, bill)
}

func (h *BillHandler) refresh() {
	go func() {
		if _, err := h.list.Load(context.Background(), listview.Initial); err != nil {
			logger.GetLogger().Warn("Background bills refresh failed", zap.Error(err))
		}
	}()
}
