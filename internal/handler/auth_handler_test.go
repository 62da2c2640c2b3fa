package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gym-service/internal/model"
	"gym-service/pkg/config"
	"gym-service/pkg/jwtutil"
)

func init() {
	jwtutil.Initialize(&config.JWTConfig{
		SigningKey:      "test-signing-key",
		ExpirationHours: 1,
	})
}

func registerBody(email string) map[string]string {
	return map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "secret123",
		"role":     "member",
	}
}

func TestRegisterRejectsIncompleteForm(t *testing.T) {
	h := NewAuthHandler(testDB(t, &model.User{}))

	c, rec := newRequest(t, http.MethodPost, "/auth/register", map[string]string{
		"email": "a@b.com",
	})
	require.NoError(t, h.Register(c))
	assertError(t, rec, http.StatusBadRequest, "Please fill in all fields")
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	h := NewAuthHandler(testDB(t, &model.User{}))

	body := registerBody("a@b.com")
	body["password"] = "12345"
	c, rec := newRequest(t, http.MethodPost, "/auth/register", body)
	require.NoError(t, h.Register(c))
	assertError(t, rec, http.StatusBadRequest, "Password must be at least 6 characters")
}

func TestRegisterRejectsAddressWithoutAtSign(t *testing.T) {
	h := NewAuthHandler(testDB(t, &model.User{}))

	body := registerBody("not-an-email")
	c, rec := newRequest(t, http.MethodPost, "/auth/register", body)
	require.NoError(t, h.Register(c))
	assertError(t, rec, http.StatusBadRequest, "Please enter a valid email address")
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	h := NewAuthHandler(testDB(t, &model.User{}))

	body := registerBody("a@b.com")
	body["role"] = "owner"
	c, rec := newRequest(t, http.MethodPost, "/auth/register", body)
	require.NoError(t, h.Register(c))
	assertError(t, rec, http.StatusBadRequest, "Role must be admin or member")
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	db := testDB(t, &model.User{})
	h := NewAuthHandler(db)

	c, rec := newRequest(t, http.MethodPost, "/auth/register", registerBody("dup@gym.io"))
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newRequest(t, http.MethodPost, "/auth/register", registerBody("dup@gym.io"))
	require.NoError(t, h.Register(c))
	assertError(t, rec, http.StatusConflict, "This email is already registered. Please login instead.")

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterThenLoginIssuesToken(t *testing.T) {
	db := testDB(t, &model.User{})
	h := NewAuthHandler(db)

	c, rec := newRequest(t, http.MethodPost, "/auth/register", registerBody("round@gym.io"))
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	// registration never hands out a token
	assert.NotContains(t, decodeBody(t, rec), "token")

	c, rec = newRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "round@gym.io",
		"password": "secret123",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	claims, err := jwtutil.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "round@gym.io", claims.Email)
	assert.Equal(t, "member", claims.Role)
}

func TestLoginUnknownEmail(t *testing.T) {
	h := NewAuthHandler(testDB(t, &model.User{}))

	c, rec := newRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "ghost@gym.io",
		"password": "whatever",
	})
	require.NoError(t, h.Login(c))
	assertError(t, rec, http.StatusUnauthorized, "No account found with this email. Please register first.")
}

func TestLoginWrongPassword(t *testing.T) {
	db := testDB(t, &model.User{})
	h := NewAuthHandler(db)

	c, rec := newRequest(t, http.MethodPost, "/auth/register", registerBody("locked@gym.io"))
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "locked@gym.io",
		"password": "wrong-password",
	})
	require.NoError(t, h.Login(c))
	assertError(t, rec, http.StatusUnauthorized, "Incorrect password. Please try again.")
}

func TestProfileDegradesWhenRowMissing(t *testing.T) {
	h := NewAuthHandler(testDB(t, &model.User{}))

	c, rec := newRequest(t, http.MethodGet, "/api/users/profile", nil)
	c.Set("user_id", "missing-id")
	c.Set("email", "orphan@gym.io")
	require.NoError(t, h.Profile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "User profile not found. Please contact administrator.", body["warning"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "orphan@gym.io", user["email"])
	assert.Equal(t, "orphan@gym.io", user["name"])
}
