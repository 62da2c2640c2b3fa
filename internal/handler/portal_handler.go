package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gym-service/internal/model"
	"gym-service/pkg/logger"
	"gym-service/prometheus"
)

// PortalHandler serves the member-facing pages. The logged-in account is
// linked to its membership record by email; a member who registered before
// the front desk created their record sees degraded pages, not errors.
type PortalHandler struct {
	db *gorm.DB
}

func NewPortalHandler(db *gorm.DB) *PortalHandler {
	return &PortalHandler{db: db}
}

// member resolves the membership record for the logged-in account. A nil
// member with nil error means no record exists for this email.
func (h *PortalHandler) member(c echo.Context) (*model.Member, error) {
	email, _ := c.Get("email").(string)

	var m model.Member
	err := h.db.WithContext(c.Request().Context()).First(&m, "email = ?", email).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Overview returns the profile card plus membership summary.
func (h *PortalHandler) Overview(c echo.Context) error {
	log := logger.FromContext(c)

	m, err := h.member(c)
	if err != nil {
		log.Error("Error loading member overview", zap.Error(err))
		prometheus.RecordStoreError("members")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading overview"})
	}

	name, _ := c.Get("user_name").(string)
	email, _ := c.Get("email").(string)
	profile := echo.Map{"name": name, "email": email}

	if m == nil {
		return c.JSON(http.StatusOK, echo.Map{
			"profile":    profile,
			"membership": nil,
			"message":    "No membership record found for your account",
		})
	}

	membership := echo.Map{
		"member_id":    m.ID,
		"join_date":    m.JoinDate,
		"member_since": monthsSince(m.JoinDate),
		"phone":        m.Phone,
		"status":       m.Status,
	}

	if m.PackageID != "" {
		var pkg model.Package
		if err := h.db.WithContext(c.Request().Context()).First(&pkg, "id = ?", m.PackageID).Error; err == nil {
			membership["package"] = pkg
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"profile":    profile,
		"membership": membership,
	})
}

// monthsSince counts whole months from a "2006-01-02" date to now.
// Unparseable input counts as zero.
func monthsSince(joinDate string) int {
	joined, err := time.Parse("2006-01-02", joinDate)
	if err != nil {
		return 0
	}
	now := time.Now()
	months := (now.Year()-joined.Year())*12 + int(now.Month()) - int(joined.Month())
	if now.Day() < joined.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// Bills lists the member's own bills, newest first. No membership record
// means no bills.
func (h *PortalHandler) Bills(c echo.Context) error {
	log := logger.FromContext(c)

	m, err := h.member(c)
	if err != nil {
		log.Error("Error loading member bills", zap.Error(err))
		prometheus.RecordStoreError("bills")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading bills"})
	}
	if m == nil {
		return c.JSON(http.StatusOK, []model.Bill{})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var bills []model.Bill
	err = h.db.WithContext(c.Request().Context()).
		Where("member_id = ?", m.ID).
		Order("date DESC").
		Find(&bills).Error
	if err != nil {
		log.Error("Error loading member bills", zap.Error(err))
		prometheus.RecordStoreError("bills")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading bills"})
	}
	return c.JSON(http.StatusOK, bills)
}

// Notifications returns the ten most recent announcements.
func (h *PortalHandler) Notifications(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var notes []model.Notification
	err := h.db.WithContext(c.Request().Context()).
		Where("target = ?", model.TargetAll).
		Order("created_at DESC").
		Limit(10).
		Find(&notes).Error
	if err != nil {
		log.Error("Error loading notifications", zap.Error(err))
		prometheus.RecordStoreError("notifications")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading notifications"})
	}
	return c.JSON(http.StatusOK, notes)
}

// Diet returns the member's assigned plan, or an empty response when no
// record or plan exists.
func (h *PortalHandler) Diet(c echo.Context) error {
	log := logger.FromContext(c)

	m, err := h.member(c)
	if err != nil {
		log.Error("Error loading diet plan", zap.Error(err))
		prometheus.RecordStoreError("diets")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading diet plan"})
	}
	if m == nil {
		return c.JSON(http.StatusOK, echo.Map{"plan": nil})
	}

	var diet model.DietPlan
	err = h.db.WithContext(c.Request().Context()).First(&diet, "member_id = ?", m.ID).Error
	if err == gorm.ErrRecordNotFound {
		return c.JSON(http.StatusOK, echo.Map{"plan": nil})
	}
	if err != nil {
		log.Error("Error loading diet plan", zap.Error(err))
		prometheus.RecordStoreError("diets")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading diet plan"})
	}
	return c.JSON(http.StatusOK, diet)
}

// Store shows members a slice of the store catalog.
func (h *PortalHandler) Store(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var items []model.StoreItem
	err := h.db.WithContext(c.Request().Context()).
		Order("name ASC").
		Limit(20).
		Find(&items).Error
	if err != nil {
		log.Error("Error loading store items", zap.Error(err))
		prometheus.RecordStoreError("storeItems")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading store items"})
	}
	return c.JSON(http.StatusOK, items)
}

// ActivityEntry is one line in the recent activity feed.
type ActivityEntry struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	Amount  float64   `json:"amount,omitempty"`
	Status  string    `json:"status,omitempty"`
	When    time.Time `json:"when"`
}

// Activity merges the member's recent bills with recent announcements
// into one feed, newest first, capped at eight entries.
func (h *PortalHandler) Activity(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	m, err := h.member(c)
	if err != nil {
		log.Error("Error loading activity feed", zap.Error(err))
		prometheus.RecordStoreError("members")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading activity"})
	}

	var entries []ActivityEntry

	if m != nil {
		var bills []model.Bill
		err = h.db.WithContext(ctx).
			Where("member_id = ?", m.ID).
			Order("date DESC").
			Limit(5).
			Find(&bills).Error
		if err != nil {
			log.Error("Error loading activity feed", zap.Error(err))
			prometheus.RecordStoreError("bills")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading activity"})
		}
		for _, b := range bills {
			entries = append(entries, ActivityEntry{
				Kind:    "bill",
				Message: "Payment recorded",
				Amount:  b.Amount,
				Status:  string(b.Status),
				When:    b.Date,
			})
		}
	}

	var notes []model.Notification
	err = h.db.WithContext(ctx).
		Where("target = ?", model.TargetAll).
		Order("created_at DESC").
		Limit(3).
		Find(&notes).Error
	if err != nil {
		log.Error("Error loading activity feed", zap.Error(err))
		prometheus.RecordStoreError("notifications")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading activity"})
	}
	for _, n := range notes {
		entries = append(entries, ActivityEntry{
			Kind:    "notification",
			Message: n.Message,
			When:    n.CreatedAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].When.After(entries[j].When)
	})
	if len(entries) > 8 {
		entries = entries[:8]
	}
	if entries == nil {
		entries = []ActivityEntry{}
	}

	return c.JSON(http.StatusOK, entries)
}
