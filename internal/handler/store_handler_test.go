package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gym-service/internal/model"
)

func TestStoreCreateRequiresName(t *testing.T) {
	h := NewStoreHandler(testDB(t, &model.StoreItem{}))

	c, rec := newRequest(t, http.MethodPost, "/api/admin/store", map[string]any{
		"price": 10,
	})
	require.NoError(t, h.Create(c))
	assertError(t, rec, http.StatusBadRequest, "Item name required")
}

func TestStoreCreateCoercesMissingNumbers(t *testing.T) {
	db := testDB(t, &model.StoreItem{})
	h := NewStoreHandler(db)

	c, rec := newRequest(t, http.MethodPost, "/api/admin/store", map[string]any{
		"name": "Protein Bar",
	})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item model.StoreItem
	require.NoError(t, db.First(&item, "name = ?", "Protein Bar").Error)
	assert.Equal(t, float64(0), item.Price)
	assert.Equal(t, 0, item.Stock)
}

func TestStoreCreateAcceptsNegativeStock(t *testing.T) {
	db := testDB(t, &model.StoreItem{})
	h := NewStoreHandler(db)

	c, rec := newRequest(t, http.MethodPost, "/api/admin/store", map[string]any{
		"name":  "Ghost Item",
		"stock": -5,
	})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item model.StoreItem
	require.NoError(t, db.First(&item, "name = ?", "Ghost Item").Error)
	assert.Equal(t, -5, item.Stock)
}

func TestStoreDeleteMissingRowIsNotFound(t *testing.T) {
	h := NewStoreHandler(testDB(t, &model.StoreItem{}))

	c, rec := newRequest(t, http.MethodDelete, "/api/admin/store/nope", nil)
	c.SetParamNames("id")
	c.SetParamValues("nope")
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
