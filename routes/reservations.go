package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookstay/booking-api/db"
	"github.com/bookstay/booking-api/middleware"
	"github.com/bookstay/booking-api/models"
)

// ReservationRoutes sets up the routes for reservation-related operations.
// There is no update route: changing dates means delete and recreate, so
// PUT/PATCH on a reservation answer 405.
func ReservationRoutes(router *gin.Engine) {
	reservationRoutes := router.Group("/reservations")
	reservationRoutes.Use(middleware.AuthMiddleware())
	{
		reservationRoutes.GET("/", GetAllReservations())
		reservationRoutes.POST("/", CreateReservation())
		reservationRoutes.GET("/:reservation_id", GetReservation())
		reservationRoutes.DELETE("/:reservation_id", DeleteReservation())
	}
}

type reservationResponse struct {
	ID        uint   `json:"id"`
	Property  uint   `json:"property"`
	User      uint   `json:"user"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func newReservationResponse(reservation *models.Reservation) reservationResponse {
	return reservationResponse{
		ID:        reservation.ID,
		Property:  reservation.PropertyID,
		User:      reservation.UserID,
		StartDate: reservation.StartDate.Format(dateLayout),
		EndDate:   reservation.EndDate.Format(dateLayout),
	}
}

// CreateReservation books a date range on a property for the requester.
// The user field is always the authenticated user, whatever the payload says.
func CreateReservation() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Property  uint   `json:"property" binding:"required"`
			StartDate string `json:"start_date" binding:"required"`
			EndDate   string `json:"end_date" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		startDate, err := parseDate(input.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"start_date": "Date has wrong format. Use YYYY-MM-DD."}})
			return
		}
		endDate, err := parseDate(input.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"end_date": "Date has wrong format. Use YYYY-MM-DD."}})
			return
		}

		// Date ordering is a record-level rule, not attributable to one field
		if err := validateDateRange(startDate, endDate); err != nil {
			fieldError(c, nonFieldErrors, err)
			return
		}

		DB := db.GetDB()
		var property models.Property
		if result := DB.First(&property, input.Property); result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"property": "Property does not exist."}})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property: " + result.Error.Error()})
			}
			return
		}

		reservation := models.Reservation{
			PropertyID: property.ID,
			UserID:     middleware.GetUserID(c),
			StartDate:  startDate,
			EndDate:    endDate,
		}
		if result := DB.Create(&reservation); result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reservation: " + result.Error.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"reservation": newReservationResponse(&reservation)})
	}
}

// GetAllReservations lists the requester's reservations, earliest stay first
func GetAllReservations() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		var reservations []models.Reservation
		result := DB.Scopes(ownReservations(userID)).Order("start_date").Find(&reservations)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reservations: " + result.Error.Error()})
			return
		}

		responses := make([]reservationResponse, 0, len(reservations))
		for i := range reservations {
			responses = append(responses, newReservationResponse(&reservations[i]))
		}
		c.JSON(http.StatusOK, gin.H{"reservations": responses})
	}
}

// GetReservation retrieves one of the requester's reservations
func GetReservation() gin.HandlerFunc {
	return func(c *gin.Context) {
		reservationID := c.Param("reservation_id")
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		var reservation models.Reservation
		result := DB.Scopes(ownReservations(userID)).First(&reservation, reservationID)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reservation: " + result.Error.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"reservation": newReservationResponse(&reservation)})
	}
}

// DeleteReservation deletes one of the requester's reservations
func DeleteReservation() gin.HandlerFunc {
	return func(c *gin.Context) {
		reservationID := c.Param("reservation_id")
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		var reservation models.Reservation
		result := DB.Scopes(ownReservations(userID)).First(&reservation, reservationID)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reservation: " + result.Error.Error()})
			}
			return
		}

		if result := DB.Delete(&reservation); result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reservation: " + result.Error.Error()})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
