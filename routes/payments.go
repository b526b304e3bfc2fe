package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookstay/booking-api/db"
	"github.com/bookstay/booking-api/middleware"
	"github.com/bookstay/booking-api/models"
)

// PaymentRoutes sets up the nested payment routes. Payments are immutable
// financial records: only create, list and retrieve exist, and the router's
// method-not-allowed handling turns every other verb into a 405.
func PaymentRoutes(router *gin.Engine) {
	paymentRoutes := router.Group("/reservations/:reservation_id/payments")
	paymentRoutes.Use(middleware.AuthMiddleware())
	{
		paymentRoutes.GET("/", GetAllPayments())
		paymentRoutes.POST("/", CreatePayment())
		paymentRoutes.GET("/:payment_id", GetPayment())
	}
}

type paymentResponse struct {
	ID            uint      `json:"id"`
	Reservation   uint      `json:"reservation"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}

func newPaymentResponse(payment *models.Payment) paymentResponse {
	return paymentResponse{
		ID:            payment.ID,
		Reservation:   payment.ReservationID,
		Amount:        payment.Amount,
		PaymentMethod: payment.PaymentMethod,
		CreatedAt:     payment.CreatedAt,
	}
}

// CreatePayment records the single payment for the reservation in the path.
// The reservation must belong to the requester; a second payment for the
// same reservation fails, backed by the unique index for concurrent creates.
func CreatePayment() gin.HandlerFunc {
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

		var input struct {
			Amount        float64 `json:"amount" binding:"required"`
			PaymentMethod string  `json:"payment_method" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := validateAmount(input.Amount); err != nil {
			fieldError(c, "amount", err)
			return
		}

		var count int64
		if result := DB.Model(&models.Payment{}).Where("reservation_id = ?", reservation.ID).Count(&count); result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing payments: " + result.Error.Error()})
			return
		}
		if count > 0 {
			fieldError(c, "reservation", errDuplicatePayment)
			return
		}

		payment := models.Payment{
			ReservationID: reservation.ID,
			Amount:        input.Amount,
			PaymentMethod: input.PaymentMethod,
		}
		if result := DB.Create(&payment); result.Error != nil {
			// Two concurrent creates can both pass the pre-check; the unique
			// index rejects the loser and it surfaces as the same 400.
			if result.Error == gorm.ErrDuplicatedKey {
				fieldError(c, "reservation", errDuplicatePayment)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment: " + result.Error.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"payment": newPaymentResponse(&payment)})
	}
}

// GetAllPayments lists payments on the requester's reservations, newest first
func GetAllPayments() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		var payments []models.Payment
		result := DB.Scopes(ownPayments(userID)).Order("payments.id DESC").Find(&payments)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payments: " + result.Error.Error()})
			return
		}

		responses := make([]paymentResponse, 0, len(payments))
		for i := range payments {
			responses = append(responses, newPaymentResponse(&payments[i]))
		}
		c.JSON(http.StatusOK, gin.H{"payments": responses})
	}
}

// GetPayment retrieves a payment on one of the requester's reservations
func GetPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentID := c.Param("payment_id")
		userID := middleware.GetUserID(c)

		DB := db.GetDB()
		var payment models.Payment
		result := DB.Scopes(ownPayments(userID)).Where("payments.id = ?", paymentID).First(&payment)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payment: " + result.Error.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"payment": newPaymentResponse(&payment)})
	}
}
