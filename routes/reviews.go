package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookstay/booking-api/db"
	"github.com/bookstay/booking-api/middleware"
	"github.com/bookstay/booking-api/models"
)

// ReviewRoutes sets up the review routes nested under a property.
func ReviewRoutes(router *gin.Engine) {
	reviewRoutes := router.Group("/properties/:property_id/reviews")
	reviewRoutes.Use(middleware.AuthMiddleware())
	{
		reviewRoutes.GET("/", GetAllReviews())
		reviewRoutes.POST("/", CreateReview())
		reviewRoutes.GET("/:review_id", GetReview())
		reviewRoutes.PUT("/:review_id", UpdateReview())
		reviewRoutes.PATCH("/:review_id", UpdateReview())
		reviewRoutes.DELETE("/:review_id", DeleteReview())
	}
}

type reviewResponse struct {
	ID       uint   `json:"id"`
	Property uint   `json:"property"`
	User     uint   `json:"user"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

func newReviewResponse(review *models.Review) reviewResponse {
	return reviewResponse{
		ID:       review.ID,
		Property: review.PropertyID,
		User:     review.UserID,
		Rating:   review.Rating,
		Comment:  review.Comment,
	}
}

// CreateReview attaches a rating and comment to the property in the path.
// User and property are set server-side; the payload cannot override them.
func CreateReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")

		DB := db.GetDB()
		var property models.Property
		if result := DB.First(&property, propertyID); result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property: " + result.Error.Error()})
			}
			return
		}

		var input struct {
			Rating  int    `json:"rating" binding:"required"`
			Comment string `json:"comment" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := validateRating(input.Rating); err != nil {
			fieldError(c, "rating", err)
			return
		}

		review := models.Review{
			PropertyID: property.ID,
			UserID:     middleware.GetUserID(c),
			Rating:     input.Rating,
			Comment:    input.Comment,
		}
		if result := DB.Create(&review); result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review: " + result.Error.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"review": newReviewResponse(&review)})
	}
}

// GetAllReviews lists the reviews for the property in the path, newest first
func GetAllReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")

		DB := db.GetDB()
		var reviews []models.Review
		result := DB.Scopes(propertyReviews(propertyID)).Order("id DESC").Find(&reviews)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews: " + result.Error.Error()})
			return
		}

		responses := make([]reviewResponse, 0, len(reviews))
		for i := range reviews {
			responses = append(responses, newReviewResponse(&reviews[i]))
		}
		c.JSON(http.StatusOK, gin.H{"reviews": responses})
	}
}

// GetReview retrieves a single review under the property in the path
func GetReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")
		reviewID := c.Param("review_id")

		DB := db.GetDB()
		var review models.Review
		result := DB.Scopes(propertyReviews(propertyID)).First(&review, reviewID)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve review: " + result.Error.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"review": newReviewResponse(&review)})
	}
}

// UpdateReview lets the author change rating and comment. User and property
// stay fixed at creation; a foreign review resolves to 404.
func UpdateReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")
		reviewID := c.Param("review_id")
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		var review models.Review
		result := DB.Scopes(propertyReviews(propertyID)).Where("user_id = ?", userID).First(&review, reviewID)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve review: " + result.Error.Error()})
			}
			return
		}

		var input struct {
			Rating  *int    `json:"rating"`
			Comment *string `json:"comment"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.Rating != nil {
			if err := validateRating(*input.Rating); err != nil {
				fieldError(c, "rating", err)
				return
			}
			review.Rating = *input.Rating
		}
		if input.Comment != nil {
			review.Comment = *input.Comment
		}

		if result := DB.Save(&review); result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review: " + result.Error.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"review": newReviewResponse(&review)})
	}
}

// DeleteReview deletes one of the author's reviews
func DeleteReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")
		reviewID := c.Param("review_id")
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		var review models.Review
		result := DB.Scopes(propertyReviews(propertyID)).Where("user_id = ?", userID).First(&review, reviewID)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve review: " + result.Error.Error()})
			}
			return
		}

		if result := DB.Delete(&review); result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review: " + result.Error.Error()})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
