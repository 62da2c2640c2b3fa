package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gym-service/internal/model"
)

func TestDietSaveRequiresPlan(t *testing.T) {
	h := NewDietHandler(testDB(t, &model.DietPlan{}))

	c, rec := newRequest(t, http.MethodPut, "/api/admin/diets/m1", map[string]string{})
	c.SetParamNames("memberId")
	c.SetParamValues("m1")
	require.NoError(t, h.Save(c))
	assertError(t, rec, http.StatusBadRequest, "Member ID and plan required")
}

func TestDietSaveOverwritesPreviousPlan(t *testing.T) {
	db := testDB(t, &model.DietPlan{})
	h := NewDietHandler(db)

	for _, plan := range []string{"week one plan", "week two plan"} {
		c, rec := newRequest(t, http.MethodPut, "/api/admin/diets/m1", map[string]string{
			"plan": plan,
		})
		c.SetParamNames("memberId")
		c.SetParamValues("m1")
		require.NoError(t, h.Save(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var count int64
	require.NoError(t, db.Model(&model.DietPlan{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var diet model.DietPlan
	require.NoError(t, db.First(&diet, "member_id = ?", "m1").Error)
	assert.Equal(t, "week two plan", diet.Plan)
}

func TestDietGetMissingPlanIsNull(t *testing.T) {
	h := NewDietHandler(testDB(t, &model.DietPlan{}))

	c, rec := newRequest(t, http.MethodGet, "/api/admin/diets/m1", nil)
	c.SetParamNames("memberId")
	c.SetParamValues("m1")
	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeBody(t, rec)["plan"])
}
