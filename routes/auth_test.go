package routes

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookstay/booking-api/db"
	"github.com/bookstay/booking-api/models"
)

func TestCreateUser(t *testing.T) {
	router := setupTestRouter(t)

	resp := doRequest(t, router, http.MethodPost, "/user/create", "", gin.H{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "Test123",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	body := decodeBody(t, resp)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "test@example.com", user["email"])
	assert.NotContains(t, user, "password")

	// Stored password is a bcrypt hash, not the plain text
	var stored models.User
	require.NoError(t, db.GetDB().Where("email = ?", "test@example.com").First(&stored).Error)
	assert.NotEqual(t, "Test123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Test123")))
}

func TestCreateUserNormalizesEmailDomain(t *testing.T) {
	router := setupTestRouter(t)

	resp := doRequest(t, router, http.MethodPost, "/user/create", "", gin.H{
		"name":     "Test User",
		"email":    "Test@EXAMPLE.com",
		"password": "Test123",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	body := decodeBody(t, resp)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "Test@example.com", user["email"])
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	router := setupTestRouter(t)
	createTestUser(t, "test@example.com")

	resp := doRequest(t, router, http.MethodPost, "/user/create", "", gin.H{
		"name":     "Other",
		"email":    "test@example.com",
		"password": "Test123",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	body := decodeBody(t, resp)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
}

func TestCreateUserShortPassword(t *testing.T) {
	router := setupTestRouter(t)

	resp := doRequest(t, router, http.MethodPost, "/user/create", "", gin.H{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "pw",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var count int64
	db.GetDB().Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateToken(t *testing.T) {
	router := setupTestRouter(t)
	createTestUser(t, "test@example.com")

	resp := doRequest(t, router, http.MethodPost, "/user/token", "", gin.H{
		"email":    "test@example.com",
		"password": "Test123",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])
}

func TestCreateTokenBadCredentials(t *testing.T) {
	router := setupTestRouter(t)
	createTestUser(t, "test@example.com")

	resp := doRequest(t, router, http.MethodPost, "/user/token", "", gin.H{
		"email":    "test@example.com",
		"password": "wrongpass",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doRequest(t, router, http.MethodPost, "/user/token", "", gin.H{
		"email":    "nobody@example.com",
		"password": "Test123",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRefreshToken(t *testing.T) {
	router := setupTestRouter(t)
	createTestUser(t, "test@example.com")

	login := doRequest(t, router, http.MethodPost, "/user/token", "", gin.H{
		"email":    "test@example.com",
		"password": "Test123",
	})
	require.Equal(t, http.StatusOK, login.Code)
	refreshToken := decodeBody(t, login)["refresh_token"].(string)

	resp := doRequest(t, router, http.MethodPost, "/user/token/refresh", "", gin.H{
		"refresh_token": refreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	router := setupTestRouter(t)
	user := createTestUser(t, "test@example.com")

	resp := doRequest(t, router, http.MethodPost, "/user/token/refresh", "", gin.H{
		"refresh_token": accessToken(t, user.ID),
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestMeRequiresAuth(t *testing.T) {
	router := setupTestRouter(t)

	resp := doRequest(t, router, http.MethodGet, "/user/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGetMe(t *testing.T) {
	router := setupTestRouter(t)
	user := createTestUser(t, "test@example.com")

	resp := doRequest(t, router, http.MethodGet, "/user/me", accessToken(t, user.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody(t, resp)
	me := body["user"].(map[string]interface{})
	assert.Equal(t, float64(user.ID), me["id"])
	assert.Equal(t, user.Email, me["email"])
}

func TestUpdateMe(t *testing.T) {
	router := setupTestRouter(t)
	user := createTestUser(t, "test@example.com")

	resp := doRequest(t, router, http.MethodPatch, "/user/me", accessToken(t, user.ID), gin.H{
		"name":     "New Name",
		"password": "NewPass123",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var stored models.User
	require.NoError(t, db.GetDB().First(&stored, user.ID).Error)
	assert.Equal(t, "New Name", stored.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("NewPass123")))
}
