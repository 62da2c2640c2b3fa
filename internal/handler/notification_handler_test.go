package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gym-service/internal/model"
)

func TestNotificationRequiresMessage(t *testing.T) {
	h := NewNotificationHandler(testDB(t, &model.Notification{}))

	c, rec := newRequest(t, http.MethodPost, "/api/admin/notifications", map[string]string{
		"target": "all",
	})
	require.NoError(t, h.Send(c))
	assertError(t, rec, http.StatusBadRequest, "Enter message")
}

func TestNotificationDefaultsTargetToAll(t *testing.T) {
	db := testDB(t, &model.Notification{})
	h := NewNotificationHandler(db)

	c, rec := newRequest(t, http.MethodPost, "/api/admin/notifications", map[string]string{
		"message": "Gym closes early on Friday",
	})
	require.NoError(t, h.Send(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var note model.Notification
	require.NoError(t, db.First(&note).Error)
	assert.Equal(t, model.TargetAll, note.Target)
}

func TestNotificationRejectsUnknownTarget(t *testing.T) {
	h := NewNotificationHandler(testDB(t, &model.Notification{}))

	c, rec := newRequest(t, http.MethodPost, "/api/admin/notifications", map[string]string{
		"target":  "staff",
		"message": "hi",
	})
	require.NoError(t, h.Send(c))
	assertError(t, rec, http.StatusBadRequest, "Unknown notification target")
}
