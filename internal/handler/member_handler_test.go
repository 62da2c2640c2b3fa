package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gym-service/internal/model"
)

func memberHandler(t *testing.T) (*MemberHandler, *gorm.DB) {
	db := testDB(t, &model.Member{})
	return NewMemberHandler(db), db
}

func TestMemberCreateRequiresNameAndEmail(t *testing.T) {
	h, _ := memberHandler(t)

	c, rec := newRequest(t, http.MethodPost, "/api/admin/members", map[string]string{
		"name": "Only Name",
	})
	require.NoError(t, h.Create(c))
	assertError(t, rec, http.StatusBadRequest, "Name and Email are required")
}

func TestMemberCreateDefaultsJoinDateAndStatus(t *testing.T) {
	h, db := memberHandler(t)

	c, rec := newRequest(t, http.MethodPost, "/api/admin/members", map[string]string{
		"name":  "Fresh Member",
		"email": "fresh@gym.io",
	})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var m model.Member
	require.NoError(t, db.First(&m, "email = ?", "fresh@gym.io").Error)
	assert.Equal(t, model.MemberActive, m.Status)
	assert.Equal(t, time.Now().Format("2006-01-02"), m.JoinDate)
}

func TestMemberCreateDuplicateEmailWritesNothing(t *testing.T) {
	h, db := memberHandler(t)

	c, rec := newRequest(t, http.MethodPost, "/api/admin/members", map[string]string{
		"name":  "First",
		"email": "taken@gym.io",
	})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newRequest(t, http.MethodPost, "/api/admin/members", map[string]string{
		"name":  "Second",
		"email": "taken@gym.io",
	})
	require.NoError(t, h.Create(c))
	assertError(t, rec, http.StatusConflict, "Email already exists for another member")

	var count int64
	require.NoError(t, db.Model(&model.Member{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMemberUpdateKeepsBlankFields(t *testing.T) {
	h, db := memberHandler(t)

	require.NoError(t, db.Create(&model.Member{
		ID:       "m1",
		Name:     "Original Name",
		Email:    "orig@gym.io",
		Phone:    "555-0100",
		JoinDate: "2024-01-15",
		Status:   model.MemberActive,
	}).Error)

	c, rec := newRequest(t, http.MethodPut, "/api/admin/members/m1", map[string]string{
		"phone": "555-0199",
	})
	c.SetParamNames("id")
	c.SetParamValues("m1")
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var m model.Member
	require.NoError(t, db.First(&m, "id = ?", "m1").Error)
	assert.Equal(t, "Original Name", m.Name)
	assert.Equal(t, "orig@gym.io", m.Email)
	assert.Equal(t, "555-0199", m.Phone)
	assert.Equal(t, "2024-01-15", m.JoinDate)
}

func TestMemberUpdateRejectsUnknownStatus(t *testing.T) {
	h, db := memberHandler(t)

	require.NoError(t, db.Create(&model.Member{
		ID: "m1", Name: "N", Email: "n@gym.io", Status: model.MemberActive,
	}).Error)

	c, rec := newRequest(t, http.MethodPut, "/api/admin/members/m1", map[string]string{
		"status": "frozen",
	})
	c.SetParamNames("id")
	c.SetParamValues("m1")
	require.NoError(t, h.Update(c))
	assertError(t, rec, http.StatusBadRequest, "Unknown member status")
}

func TestMemberDeleteMissingRowIsNotFound(t *testing.T) {
	h, _ := memberHandler(t)

	c, rec := newRequest(t, http.MethodDelete, "/api/admin/members/nope", nil)
	c.SetParamNames("id")
	c.SetParamValues("nope")
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMemberLookupReturnsOptions(t *testing.T) {
	h, db := memberHandler(t)

	require.NoError(t, db.Create(&model.Member{
		ID: "m2", Name: "Beta", Email: "beta@gym.io", Status: model.MemberActive,
	}).Error)
	require.NoError(t, db.Create(&model.Member{
		ID: "m1", Name: "Alpha", Email: "alpha@gym.io", Status: model.MemberActive,
	}).Error)

	c, rec := newRequest(t, http.MethodGet, "/api/admin/members/lookup", nil)
	require.NoError(t, h.Lookup(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alpha@gym.io")
	assert.Less(t,
		strings.Index(rec.Body.String(), "Alpha"),
		strings.Index(rec.Body.String(), "Beta"))
}
