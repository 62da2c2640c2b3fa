package handler

import (
	"context"
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

// MemberHandler owns the admin console's member table: the paginated
// list view plus the CRUD operations around it.
type MemberHandler struct {
	db   *gorm.DB
	list *listview.Controller[model.Member]
}

func NewMemberHandler(db *gorm.DB) *MemberHandler {
	return &MemberHandler{
		db: db,
		list: listview.New(db, listview.Options[model.Member]{
			OrderColumn: "name",
			NameColumn:  "name",
			EmailColumn: "email",
			Key: func(m model.Member, column string) listview.Cursor {
				if column == "email" {
					return listview.Cursor{Value: m.Email, ID: m.ID}
				}
				return listview.Cursor{Value: m.Name, ID: m.ID}
			},
			Status: func(m model.Member) string { return string(m.Status) },
		}),
	}
}

// MemberRequest carries the member form fields. Defaulting happens
// handler-side, not in the client.
type MemberRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	JoinDate  string `json:"join_date"`
	PackageID string `json:"package_id"`
	Status    string `json:"status"`
}

// List serves one page of the members table. Query params: dir
// (initial|next|prev), search, status.
func (h *MemberHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	dir := listview.ParseDirection(c.QueryParam("dir"))
	h.list.SetSearch(c.QueryParam("search"))
	h.list.SetStatus(c.QueryParam("status"))
	prometheus.RecordListLoad("members", string(dir))

	defer prometheus.TrackDBOperation("query")(time.Now())
	page, err := h.list.Load(c.Request().Context(), dir)
	if err != nil {
		log.Error("Error rendering members", zap.Error(err))
		prometheus.RecordStoreError("members")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading members"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"rows":          page.Rows,
		"page":          page.Number,
		"search_active": page.SearchActive,
		"fetched":       page.Fetched,
	})
}

// Lookup returns a bounded name-ordered slice for populating the member
// select boxes on the bill and diet forms.
func (h *MemberHandler) Lookup(c echo.Context) error {
	log := logger.FromContext(c)

	var members []model.Member
	err := h.db.WithContext(c.Request().Context()).
		Order("name ASC").Limit(200).Find(&members).Error
	if err != nil {
		log.Error("Error loading members for selects", zap.Error(err))
		prometheus.RecordStoreError("members")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error loading members"})
	}

	options := make([]echo.Map, 0, len(members))
	for _, m := range members {
		options = append(options, echo.Map{"id": m.ID, "name": m.Name, "email": m.Email})
	}
	return c.JSON(http.StatusOK, options)
}

// Get returns one member by id, used to fill the edit form.
func (h *MemberHandler) Get(c echo.Context) error {
	var member model.Member
	if err := h.db.First(&member, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Member not found"})
	}
	return c.JSON(http.StatusOK, member)
}

// Create adds a member after the duplicate-email pre-check. The check
// precedes the write so a duplicate is rejected before anything is
// stored; the unique index covers the remaining race window.
func (h *MemberHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req MemberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if !validate.Required(req.Name, req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name and Email are required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	h.db.Model(&model.Member{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		log.Warn("Duplicate member email", zap.String("email", req.Email))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Email already exists for another member"})
	}

	joinDate := req.JoinDate
	if joinDate == "" {
		joinDate = time.Now().Format("2006-01-02")
	}

	member := model.Member{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		JoinDate:  joinDate,
		PackageID: req.PackageID,
		Status:    model.MemberActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.Create(&member).Error; err != nil {
		log.Error("Failed to create member", zap.Error(err))
		prometheus.RecordStoreError("members")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add member"})
	}

	prometheus.RecordMutation("members", "create")
	log.Info("Member added", zap.String("member_id", member.ID), zap.String("email", member.Email))
	h.refresh()
	return c.JSON(http.StatusCreated, member)
}

// Update patches a member with merge semantics: blank fields keep the
// stored values, as the edit form did.
func (h *MemberHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req MemberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var member model.Member
	if err := h.db.First(&member, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Member not found"})
	}

	if req.Name != "" {
		member.Name = req.Name
	}
	if req.Email != "" {
		member.Email = req.Email
	}
	if req.Phone != "" {
		member.Phone = req.Phone
	}
	if req.JoinDate != "" {
		member.JoinDate = req.JoinDate
	}
	if req.PackageID != "" {
		member.PackageID = req.PackageID
	}
	if req.Status != "" {
		status := model.MemberStatus(req.Status)
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unknown member status"})
		}
		member.Status = status
	}
	member.UpdatedAt = time.Now()

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.db.Save(&member).Error; err != nil {
		log.Error("Failed to update member", zap.String("member_id", id), zap.Error(err))
		prometheus.RecordStoreError("members")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update member"})
	}

	prometheus.RecordMutation("members", "update")
	log.Info("Member updated", zap.String("member_id", id))
	h.refresh()
	return c.JSON(http.StatusOK, member)
}

// Delete removes a member by id.
func (h *MemberHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := h.db.Delete(&model.Member{}, "id = ?", id)
	if result.Error != nil {
		log.Error("Failed to delete member", zap.String("member_id", id), zap.Error(result.Error))
		prometheus.RecordStoreError("members")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Delete failed"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Member not found"})
	}

	prometheus.RecordMutation("members", "delete")
	log.Info("Member deleted", zap.String("member_id", id))
	h.refresh()
	return c.JSON(http.StatusOK, echo.Map{"message": "Member deleted successfully"})
}

// refresh reloads the list controller after a mutation. It runs detached
// and may complete after the response; failures are logged and swallowed.
func (h *MemberHandler) refresh() {
	go func() {
		if _, err := h.list.Load(context.Background(), listview.Initial); err != nil {
			logger.GetLogger().Warn("Background members refresh failed", zap.Error(err))
		}
	}()
}
