package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gym-service/internal/model"
)

func billHandler(t *testing.T) (*BillHandler, *gorm.DB) {
	db := testDB(t, &model.Bill{})
	return NewBillHandler(db), db
}

func TestBillCreateRequiresMemberAndAmount(t *testing.T) {
	h, db := billHandler(t)

	c, rec := newRequest(t, http.MethodPost, "/api/admin/bills", map[string]any{
		"member_id": "",
		"amount":    100,
	})
	require.NoError(t, h.Create(c))
	assertError(t, rec, http.StatusBadRequest, "Member ID and amount required")

	c, rec = newRequest(t, http.MethodPost, "/api/admin/bills", map[string]any{
		"member_id": "m1",
		"amount":    0,
	})
	require.NoError(t, h.Create(c))
	assertError(t, rec, http.StatusBadRequest, "Member ID and amount required")

	var count int64
	require.NoError(t, db.Model(&model.Bill{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestBillCreateRejectsNegativeAmount(t *testing.T) {
	h, db := billHandler(t)

	c, rec := newRequest(t, http.MethodPost, "/api/admin/bills", map[string]any{
		"member_id": "m1",
		"amount":    -50,
	})
	require.NoError(t, h.Create(c))
	assertError(t, rec, http.StatusBadRequest, "Amount must be greater than 0")

	var count int64
	require.NoError(t, db.Model(&model.Bill{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestBillCreateDefaultsStatusToPaid(t *testing.T) {
	h, db := billHandler(t)

	c, rec := newRequest(t, http.MethodPost, "/api/admin/bills", map[string]any{
		"member_id": "m1",
		"amount":    250.5,
	})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var bill model.Bill
	require.NoError(t, db.First(&bill, "member_id = ?", "m1").Error)
	assert.Equal(t, model.BillPaid, bill.Status)
	assert.Equal(t, 250.5, bill.Amount)
}

func TestBillCreateRejectsUnknownStatus(t *testing.T) {
	h, _ := billHandler(t)

	c, rec := newRequest(t, http.MethodPost, "/api/admin/bills", map[string]any{
		"member_id": "m1",
		"amount":    100,
		"status":    "pending",
	})
	require.NoError(t, h.Create(c))
	assertError(t, rec, http.StatusBadRequest, "Unknown bill status")
}

func TestBillCreateDuplicateReceipt(t *testing.T) {
	h, db := billHandler(t)

	c, rec := newRequest(t, http.MethodPost, "/api/admin/bills", map[string]any{
		"member_id":  "m1",
		"amount":     100,
		"receipt_no": "R-1001",
	})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newRequest(t, http.MethodPost, "/api/admin/bills", map[string]any{
		"member_id":  "m2",
		"amount":     200,
		"receipt_no": "R-1001",
	})
	require.NoError(t, h.Create(c))
	assertError(t, rec, http.StatusConflict, "Receipt number already exists")

	var count int64
	require.NoError(t, db.Model(&model.Bill{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBillCreateAllowsManyEmptyReceipts(t *testing.T) {
	h, db := billHandler(t)

	for _, member := range []string{"m1", "m2"} {
		c, rec := newRequest(t, http.MethodPost, "/api/admin/bills", map[string]any{
			"member_id": member,
			"amount":    100,
		})
		require.NoError(t, h.Create(c))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	var count int64
	require.NoError(t, db.Model(&model.Bill{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestBillListSearchMatchesSubstrings(t *testing.T) {
	h, db := billHandler(t)

	now := time.Now()
	require.NoError(t, db.Create(&model.Bill{
		ID: "b1", MemberID: "member-alpha", Amount: 10,
		Status: model.BillPaid, ReceiptNo: "R-42", Date: now,
	}).Error)
	require.NoError(t, db.Create(&model.Bill{
		ID: "b2", MemberID: "member-beta", Amount: 20,
		Status: model.BillDue, Date: now.Add(-time.Hour),
	}).Error)

	c, rec := newRequest(t, http.MethodGet, "/api/admin/bills?search=r-42", nil)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	rows := body["rows"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "b1", rows[0].(map[string]any)["id"])
	// fetched counts the page before the client-side match
	assert.Equal(t, float64(2), body["fetched"])
}
