package routes

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookstay/booking-api/db"
	"github.com/bookstay/booking-api/middleware"
	"github.com/bookstay/booking-api/models"
)

// PropertyRoutes sets up the routes for property-related operations
func PropertyRoutes(router *gin.Engine) {
	propertyRoutes := router.Group("/properties")
	propertyRoutes.Use(middleware.AuthMiddleware())
	{
		propertyRoutes.GET("/", GetAllProperties())
		propertyRoutes.POST("/", CreateProperty())
		propertyRoutes.GET("/:property_id", GetProperty())
		propertyRoutes.PUT("/:property_id", UpdateProperty())
		propertyRoutes.PATCH("/:property_id", UpdateProperty())
		propertyRoutes.DELETE("/:property_id", DeleteProperty())
	}
}

type propertyResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Price    float64 `json:"price"`
	Owner    *uint   `json:"owner"`
}

type propertyDetailResponse struct {
	propertyResponse
	Description  string                `json:"description"`
	Reservations []reservationResponse `json:"reservations"`
	Reviews      []reviewResponse      `json:"reviews"`
}

func newPropertyResponse(property *models.Property) propertyResponse {
	return propertyResponse{
		ID:       property.ID,
		Name:     property.Name,
		Location: property.Location,
		Price:    property.Price,
		Owner:    property.OwnerID,
	}
}

func newPropertyDetailResponse(property *models.Property) propertyDetailResponse {
	reservations := make([]reservationResponse, 0, len(property.Reservations))
	for i := range property.Reservations {
		reservations = append(reservations, newReservationResponse(&property.Reservations[i]))
	}
	reviews := make([]reviewResponse, 0, len(property.Reviews))
	for i := range property.Reviews {
		reviews = append(reviews, newReviewResponse(&property.Reviews[i]))
	}
	return propertyDetailResponse{
		propertyResponse: newPropertyResponse(property),
		Description:      property.Description,
		Reservations:     reservations,
		Reviews:          reviews,
	}
}

// Sort keys accepted by the list endpoint; anything else is rejected so the
// ordering param cannot reach the SQL layer raw.
var propertyOrderings = map[string]string{
	"id":       "id",
	"name":     "name",
	"location": "location",
	"price":    "price",
}

// CreateProperty handles the creation of a new listing. Owner is optional:
// a listing created without one is visible to everybody.
func CreateProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name        string  `json:"name" binding:"required"`
			Location    string  `json:"location" binding:"required"`
			Price       float64 `json:"price" binding:"required"`
			Description string  `json:"description"`
			Owner       *uint   `json:"owner"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := validatePrice(input.Price); err != nil {
			fieldError(c, "price", err)
			return
		}

		property := models.Property{
			Name:        input.Name,
			Location:    input.Location,
			Price:       input.Price,
			Description: input.Description,
			OwnerID:     input.Owner,
		}

		DB := db.GetDB()
		if result := DB.Create(&property); result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property: " + result.Error.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"property": newPropertyResponse(&property)})
	}
}

// GetAllProperties lists properties visible to the requester, with optional
// substring, price-range and ordering query params.
func GetAllProperties() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		query := DB.Model(&models.Property{}).Scopes(visibleProperties(userID))

		if name := c.Query("name"); name != "" {
			query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
		}
		if location := c.Query("location"); location != "" {
			query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(location)+"%")
		}
		if priceMin := c.Query("price_min"); priceMin != "" {
			value, err := strconv.ParseFloat(priceMin, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price_min value"})
				return
			}
			query = query.Where("price >= ?", value)
		}
		if priceMax := c.Query("price_max"); priceMax != "" {
			value, err := strconv.ParseFloat(priceMax, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price_max value"})
				return
			}
			query = query.Where("price <= ?", value)
		}

		order := "id DESC"
		if ordering := c.Query("ordering"); ordering != "" {
			key := strings.TrimPrefix(ordering, "-")
			column, ok := propertyOrderings[key]
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ordering value"})
				return
			}
			order = column
			if strings.HasPrefix(ordering, "-") {
				order += " DESC"
			}
		}

		var properties []models.Property
		if result := query.Order(order).Find(&properties); result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve properties: " + result.Error.Error()})
			return
		}

		responses := make([]propertyResponse, 0, len(properties))
		for i := range properties {
			responses = append(responses, newPropertyResponse(&properties[i]))
		}
		c.JSON(http.StatusOK, gin.H{"properties": responses})
	}
}

// GetProperty retrieves a property in scope, with its reservations and reviews
func GetProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		var property models.Property
		result := DB.Scopes(visibleProperties(userID)).
			Preload("Reservations").
			Preload("Reviews").
			First(&property, propertyID)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property: " + result.Error.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"property": newPropertyDetailResponse(&property)})
	}
}

// UpdateProperty handles full and partial updates of a property in scope
func UpdateProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		var property models.Property
		if result := DB.Scopes(visibleProperties(userID)).First(&property, propertyID); result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property: " + result.Error.Error()})
			}
			return
		}

		var input struct {
			Name        *string  `json:"name"`
			Location    *string  `json:"location"`
			Price       *float64 `json:"price"`
			Description *string  `json:"description"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.Price != nil {
			if err := validatePrice(*input.Price); err != nil {
				fieldError(c, "price", err)
				return
			}
			property.Price = *input.Price
		}
		if input.Name != nil {
			property.Name = *input.Name
		}
		if input.Location != nil {
			property.Location = *input.Location
		}
		if input.Description != nil {
			property.Description = *input.Description
		}

		if result := DB.Save(&property); result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property: " + result.Error.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"property": newPropertyResponse(&property)})
	}
}

// DeleteProperty handles the deletion of a property in scope
func DeleteProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID := c.Param("property_id")
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		var property models.Property
		if result := DB.Scopes(visibleProperties(userID)).First(&property, propertyID); result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property: " + result.Error.Error()})
			}
			return
		}

		if result := DB.Delete(&property); result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property: " + result.Error.Error()})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
