package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Key for validation failures that belong to the record, not one field
// (e.g. date ordering).
const nonFieldErrors = "non_field_errors"

const dateLayout = "2006-01-02"

var (
	errPriceNotPositive  = errors.New("Price must be greater than zero.")
	errAmountNotPositive = errors.New("Amount must be greater than zero.")
	errRatingOutOfRange  = errors.New("Rating must be between 1 and 5.")
	errEndBeforeStart    = errors.New("End date must be after start date.")
	errDuplicatePayment  = errors.New("There is already a payment for this reservation.")
)

func validatePrice(price float64) error {
	if price <= 0 {
		return errPriceNotPositive
	}
	return nil
}

func validateAmount(amount float64) error {
	if amount <= 0 {
		return errAmountNotPositive
	}
	return nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return errRatingOutOfRange
	}
	return nil
}

// validateDateRange allows start == end (single-day stays).
func validateDateRange(start, end time.Time) error {
	if start.After(end) {
		return errEndBeforeStart
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// fieldError writes a 400 response naming the offending field.
func fieldError(c *gin.Context, field string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{field: err.Error()}})
}
