package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookstay/booking-api/db"
	"github.com/bookstay/booking-api/models"
)

func createTestReview(t *testing.T, propertyID, userID uint, rating int) *models.Review {
	t.Helper()
	review := models.Review{PropertyID: propertyID, UserID: userID, Rating: rating, Comment: "Test comment"}
	require.NoError(t, db.GetDB().Create(&review).Error)
	return &review
}

func TestCreateReviewRatingBounds(t *testing.T) {
	router := setupTestRouter(t)
	user := createTestUser(t, "test@example.com")
	createTestProperty(t, nil)
	token := accessToken(t, user.ID)

	for _, rating := range []int{-1, 6} {
		resp := doRequest(t, router, http.MethodPost, "/properties/1/reviews/", token, gin.H{
			"rating":  rating,
			"comment": "Out of range",
		})
		require.Equal(t, http.StatusBadRequest, resp.Code, fmt.Sprintf("rating %d", rating))
		errs := decodeBody(t, resp)["errors"].(map[string]interface{})
		assert.Contains(t, errs, "rating")
	}

	resp := doRequest(t, router, http.MethodPost, "/properties/1/reviews/", token, gin.H{
		"rating":  4,
		"comment": "Great stay",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var count int64
	db.GetDB().Model(&models.Review{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateReviewForcesUserAndProperty(t *testing.T) {
	router := setupTestRouter(t)
	user := createTestUser(t, "test@example.com")
	other := createTestUser(t, "other@example.com")
	property := createTestProperty(t, nil)
	otherProperty := createTestProperty(t, nil)

	// property and user in the payload are ignored; the path and token win
	resp := doRequest(t, router, http.MethodPost, "/properties/1/reviews/", accessToken(t, user.ID), gin.H{
		"rating":   5,
		"comment":  "Lovely",
		"user":     other.ID,
		"property": otherProperty.ID,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var stored models.Review
	require.NoError(t, db.GetDB().First(&stored).Error)
	assert.Equal(t, user.ID, stored.UserID)
	assert.Equal(t, property.ID, stored.PropertyID)
}

func TestCreateReviewUnknownProperty(t *testing.T) {
	router := setupTestRouter(t)
	user := createTestUser(t, "test@example.com")

	resp := doRequest(t, router, http.MethodPost, "/properties/999/reviews/", accessToken(t, user.ID), gin.H{
		"rating":  3,
		"comment": "No such place",
	})
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListReviewsScopedToPropertyNewestFirst(t *testing.T) {
	router := setupTestRouter(t)
	user := createTestUser(t, "test@example.com")
	property := createTestProperty(t, nil)
	otherProperty := createTestProperty(t, nil)

	first := createTestReview(t, property.ID, user.ID, 3)
	second := createTestReview(t, property.ID, user.ID, 5)
	createTestReview(t, otherProperty.ID, user.ID, 1)

	resp := doRequest(t, router, http.MethodGet, "/properties/1/reviews/", accessToken(t, user.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	reviews := decodeBody(t, resp)["reviews"].([]interface{})
	require.Len(t, reviews, 2)
	assert.Equal(t, float64(second.ID), reviews[0].(map[string]interface{})["id"])
	assert.Equal(t, float64(first.ID), reviews[1].(map[string]interface{})["id"])
}

func TestUpdateReviewKeepsUserAndProperty(t *testing.T) {
	router := setupTestRouter(t)
	user := createTestUser(t, "test@example.com")
	property := createTestProperty(t, nil)
	review := createTestReview(t, property.ID, user.ID, 3)

	resp := doRequest(t, router, http.MethodPut, "/properties/1/reviews/1", accessToken(t, user.ID), gin.H{
		"rating":   4,
		"comment":  "Even better on a second look",
		"user":     999,
		"property": 999,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var stored models.Review
	require.NoError(t, db.GetDB().First(&stored, review.ID).Error)
	assert.Equal(t, 4, stored.Rating)
	assert.Equal(t, "Even better on a second look", stored.Comment)
	assert.Equal(t, user.ID, stored.UserID)
	assert.Equal(t, property.ID, stored.PropertyID)
}

func TestUpdateReviewInvalidRating(t *testing.T) {
	router := setupTestRouter(t)
	user := createTestUser(t, "test@example.com")
	property := createTestProperty(t, nil)
	review := createTestReview(t, property.ID, user.ID, 3)

	resp := doRequest(t, router, http.MethodPatch, "/properties/1/reviews/1", accessToken(t, user.ID), gin.H{
		"rating": 0,
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var stored models.Review
	require.NoError(t, db.GetDB().First(&stored, review.ID).Error)
	assert.Equal(t, 3, stored.Rating)
}

func TestUpdateForeignReviewNotFound(t *testing.T) {
	router := setupTestRouter(t)
	user := createTestUser(t, "test@example.com")
	other := createTestUser(t, "other@example.com")
	property := createTestProperty(t, nil)
	review := createTestReview(t, property.ID, other.ID, 3)

	resp := doRequest(t, router, http.MethodPatch, "/properties/1/reviews/1", accessToken(t, user.ID), gin.H{
		"rating": 1,
	})
	require.Equal(t, http.StatusNotFound, resp.Code)

	var stored models.Review
	require.NoError(t, db.GetDB().First(&stored, review.ID).Error)
	assert.Equal(t, 3, stored.Rating)
}

func TestDeleteOwnReview(t *testing.T) {
	router := setupTestRouter(t)
	user := createTestUser(t, "test@example.com")
	property := createTestProperty(t, nil)
	createTestReview(t, property.ID, user.ID, 3)

	resp := doRequest(t, router, http.MethodDelete, "/properties/1/reviews/1", accessToken(t, user.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	var count int64
	db.GetDB().Model(&models.Review{}).Count(&count)
	assert.Zero(t, count)
}

func TestDeleteForeignReviewNotFound(t *testing.T) {
	router := setupTestRouter(t)
	user := createTestUser(t, "test@example.com")
	other := createTestUser(t, "other@example.com")
	property := createTestProperty(t, nil)
	createTestReview(t, property.ID, other.ID, 3)

	resp := doRequest(t, router, http.MethodDelete, "/properties/1/reviews/1", accessToken(t, user.ID), nil)
	require.Equal(t, http.StatusNotFound, resp.Code)

	var count int64
	db.GetDB().Model(&models.Review{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
